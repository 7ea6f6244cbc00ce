package assistant

import (
	"fmt"
	"strings"

	"FinSight/internal/model"
)

// localAnswer serves a query deterministically from fetched market data, one
// handler per query kind.
func (p *Processor) localAnswer(kind QueryKind, data []companyData) Result {
	if len(data) == 0 {
		return noCompanyResult(kind)
	}
	if kind == KindComparison && len(data) >= 2 {
		return comparisonResult(data)
	}
	d := data[0]
	switch kind {
	case KindPrice:
		return priceResult(d)
	case KindTechnical:
		return technicalResult(d)
	case KindAnalysis, KindComparison:
		return analysisResult(d)
	case KindPerformance:
		return performanceResult(d)
	case KindCompany:
		return companyResult(d)
	default:
		return generalResult(d)
	}
}

func noCompanyResult(kind QueryKind) Result {
	switch kind {
	case KindPrice:
		return errorResult("Please specify a stock ticker (e.g., AAPL, TSLA)")
	case KindTechnical:
		return errorResult("Please specify a stock ticker for technical analysis")
	case KindAnalysis, KindComparison:
		return errorResult("Please specify a company for analysis")
	case KindPerformance:
		return errorResult("Please specify a company for performance data")
	case KindCompany:
		return errorResult("Please specify a company or ticker")
	default:
		return helpResult()
	}
}

func errorResult(message string) Result {
	return Result{Type: TypeError, Message: message}
}

func helpResult() Result {
	return Result{
		Type:    TypeHelp,
		Message: "I can help you with stock analysis! Try asking questions like:",
		Suggestions: []string{
			"Analyze Apple",
			"What's Tesla's performance?",
			"Technical analysis of Microsoft",
			"How is Amazon doing?",
			"Show me Apple's RSI",
			"What's the price of Google?",
		},
	}
}

func priceResult(d companyData) Result {
	if d.quote == nil {
		return errorResult(fmt.Sprintf("Could not get price for %s", d.company.Ticker))
	}
	return Result{
		Type:    string(KindPrice),
		Ticker:  d.company.Ticker,
		Message: fmt.Sprintf("%s is currently trading at $%.2f", d.company.Ticker, d.quote.CurrentPrice),
		Data:    d.quote,
	}
}

func companyResult(d companyData) Result {
	if d.quote == nil {
		return errorResult(fmt.Sprintf("Could not find information for %s", d.company.Ticker))
	}
	return Result{
		Type:    string(KindCompany),
		Ticker:  d.company.Ticker,
		Message: fmt.Sprintf("Here's information about %s", displayName(d)),
		Data:    d.quote,
	}
}

func technicalResult(d companyData) Result {
	if d.indicators == nil {
		return errorResult(fmt.Sprintf("Could not get technical analysis for %s", d.company.Ticker))
	}
	q, set := d.quote, d.indicators

	var b strings.Builder
	b.WriteString("TECHNICAL ANALYSIS REPORT\n")
	fmt.Fprintf(&b, "Company: %s (%s)\n", displayName(d), d.company.Ticker)
	fmt.Fprintf(&b, "Sector: %s\n", sectorOf(d))
	if q != nil && q.MarketCap != nil {
		fmt.Fprintf(&b, "Market Cap: %s\n", formatMarketCap(*q.MarketCap))
	}
	b.WriteString(strings.Repeat("-", 50) + "\n\n")

	if q != nil {
		b.WriteString("PRICE ANALYSIS:\n")
		fmt.Fprintf(&b, "Current Price: $%.2f\n", q.CurrentPrice)
		if q.High52Week > q.Low52Week {
			position := (q.CurrentPrice - q.Low52Week) / (q.High52Week - q.Low52Week) * 100
			fmt.Fprintf(&b, "52-Week High: $%.2f\n", q.High52Week)
			fmt.Fprintf(&b, "52-Week Low: $%.2f\n", q.Low52Week)
			fmt.Fprintf(&b, "Position in Range: %.1f%%\n", position)
		}
		if q.Volume > 0 {
			fmt.Fprintf(&b, "Volume: %d\n", q.Volume)
		}
		b.WriteString("\n")
	}

	b.WriteString("TECHNICAL INDICATORS:\n")
	if set.RSI != nil {
		fmt.Fprintf(&b, "RSI (14-day): %.2f\n", set.RSI.Value)
		switch set.RSI.Interpretation {
		case model.SignalOverbought:
			b.WriteString("Signal: OVERBOUGHT - Potential sell signal\n")
		case model.SignalOversold:
			b.WriteString("Signal: OVERSOLD - Potential buy signal\n")
		default:
			b.WriteString("Signal: NEUTRAL - No strong directional bias\n")
		}
	}

	ma := set.MovingAverages()
	if ma.SMA20 != nil || ma.SMA50 != nil || ma.EMA12 != nil || ma.EMA26 != nil {
		b.WriteString("\nMOVING AVERAGES:\n")
		if ma.SMA20 != nil {
			fmt.Fprintf(&b, "SMA 20: $%.2f\n", *ma.SMA20)
		}
		if ma.SMA50 != nil {
			fmt.Fprintf(&b, "SMA 50: $%.2f\n", *ma.SMA50)
		}
		if ma.EMA12 != nil {
			fmt.Fprintf(&b, "EMA 12: $%.2f\n", *ma.EMA12)
		}
		if ma.EMA26 != nil {
			fmt.Fprintf(&b, "EMA 26: $%.2f\n", *ma.EMA26)
		}
	}

	if set.Bollinger != nil {
		b.WriteString("\nBOLLINGER BANDS:\n")
		fmt.Fprintf(&b, "Upper Band: $%.2f\n", set.Bollinger.Upper)
		fmt.Fprintf(&b, "Middle Band: $%.2f\n", set.Bollinger.Middle)
		fmt.Fprintf(&b, "Lower Band: $%.2f\n", set.Bollinger.Lower)
		if q != nil {
			switch {
			case q.CurrentPrice > set.Bollinger.Upper:
				b.WriteString("Position: Above upper band (overbought)\n")
			case q.CurrentPrice < set.Bollinger.Lower:
				b.WriteString("Position: Below lower band (oversold)\n")
			default:
				b.WriteString("Position: Within bands (normal range)\n")
			}
		}
	}

	return Result{
		Type:    string(KindTechnical),
		Ticker:  d.company.Ticker,
		Message: b.String(),
		Data:    map[string]interface{}{"stock_data": q, "technical_data": set},
	}
}

func analysisResult(d companyData) Result {
	if d.quote == nil {
		return errorResult(fmt.Sprintf("Could not analyze %s", d.company.Ticker))
	}
	q, set := d.quote, d.indicators

	var b strings.Builder
	b.WriteString("COMPREHENSIVE COMPANY ANALYSIS\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	b.WriteString("COMPANY OVERVIEW:\n")
	fmt.Fprintf(&b, "Name: %s\n", displayName(d))
	fmt.Fprintf(&b, "Ticker: %s\n", d.company.Ticker)
	fmt.Fprintf(&b, "Sector: %s\n", sectorOf(d))
	fmt.Fprintf(&b, "Industry: %s\n", industryOf(d))
	if q.MarketCap != nil {
		fmt.Fprintf(&b, "Market Capitalization: %s (%s)\n",
			formatMarketCap(*q.MarketCap), capCategory(*q.MarketCap))
	}

	b.WriteString("\nCURRENT TRADING DATA:\n")
	fmt.Fprintf(&b, "Current Price: $%.2f\n", q.CurrentPrice)
	fmt.Fprintf(&b, "Daily Change: $%.2f (%+.2f%%)\n", q.Change, q.ChangePercent)
	if q.Volume > 0 {
		fmt.Fprintf(&b, "Today's Volume: %d shares\n", q.Volume)
	}

	if set != nil {
		b.WriteString("\nTECHNICAL INDICATORS:\n")
		if set.RSI != nil {
			fmt.Fprintf(&b, "RSI (14-day): %.2f\n", set.RSI.Value)
			switch set.RSI.Interpretation {
			case model.SignalOverbought:
				b.WriteString("RSI Signal: OVERBOUGHT (Potential selling opportunity)\n")
			case model.SignalOversold:
				b.WriteString("RSI Signal: OVERSOLD (Potential buying opportunity)\n")
			default:
				b.WriteString("RSI Signal: NEUTRAL (No strong directional bias)\n")
			}
		}
		if set.SMA20 != nil && set.SMA50 != nil {
			fmt.Fprintf(&b, "Moving Averages: SMA20($%.2f) vs SMA50($%.2f)\n", *set.SMA20, *set.SMA50)
			if *set.SMA20 > *set.SMA50 {
				b.WriteString("Trend: BULLISH (SMA20 above SMA50)\n")
			} else {
				b.WriteString("Trend: BEARISH (SMA20 below SMA50)\n")
			}
		}
	}

	if q.High52Week > q.Low52Week {
		position := (q.CurrentPrice - q.Low52Week) / (q.High52Week - q.Low52Week) * 100
		fmt.Fprintf(&b, "52-Week Range: $%.2f - $%.2f\n", q.Low52Week, q.High52Week)
		fmt.Fprintf(&b, "Current Position: %.1f%% of range\n", position)
		switch {
		case position > 80:
			b.WriteString("Price Level: Near 52-week highs\n")
		case position < 20:
			b.WriteString("Price Level: Near 52-week lows\n")
		default:
			b.WriteString("Price Level: Mid-range\n")
		}
	}

	return Result{
		Type:    string(KindAnalysis),
		Ticker:  d.company.Ticker,
		Message: b.String(),
		Data:    map[string]interface{}{"stock_data": q, "technical_data": set},
	}
}

func performanceResult(d companyData) Result {
	if d.quote == nil {
		return errorResult(fmt.Sprintf("Could not get performance data for %s", d.company.Ticker))
	}
	q := d.quote

	var b strings.Builder
	b.WriteString("FINANCIAL PERFORMANCE ANALYSIS\n")
	fmt.Fprintf(&b, "Company: %s (%s)\n", displayName(d), d.company.Ticker)
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	b.WriteString("STOCK PERFORMANCE:\n")
	fmt.Fprintf(&b, "Current Price: $%.2f\n", q.CurrentPrice)
	fmt.Fprintf(&b, "Daily Change: $%.2f (%+.2f%%)\n", q.Change, q.ChangePercent)

	if q.MarketCap != nil {
		b.WriteString("\nVALUATION:\n")
		cap := *q.MarketCap
		switch {
		case cap > 1e12:
			fmt.Fprintf(&b, "Market Cap: $%.2fT (Mega-cap stock)\n", cap/1e12)
		case cap > 200e9:
			fmt.Fprintf(&b, "Market Cap: $%.1fB (Large-cap stock)\n", cap/1e9)
		case cap > 10e9:
			fmt.Fprintf(&b, "Market Cap: $%.1fB (Mid-cap stock)\n", cap/1e9)
		case cap > 2e9:
			fmt.Fprintf(&b, "Market Cap: $%.1fB (Small-cap stock)\n", cap/1e9)
		default:
			fmt.Fprintf(&b, "Market Cap: $%.0fM (Micro-cap stock)\n", cap/1e6)
		}
	}

	b.WriteString("\nCOMPANY DETAILS:\n")
	fmt.Fprintf(&b, "Sector: %s\n", sectorOf(d))
	fmt.Fprintf(&b, "Industry: %s\n", industryOf(d))

	if q.Volume > 0 {
		b.WriteString("\nTRADING ACTIVITY:\n")
		fmt.Fprintf(&b, "Volume Today: %d shares\n", q.Volume)
		switch {
		case q.Volume > 50000000:
			b.WriteString("Activity Level: Very High Volume\n")
		case q.Volume > 10000000:
			b.WriteString("Activity Level: High Volume\n")
		case q.Volume > 1000000:
			b.WriteString("Activity Level: Moderate Volume\n")
		default:
			b.WriteString("Activity Level: Low Volume\n")
		}
	}

	return Result{
		Type:    string(KindPerformance),
		Ticker:  d.company.Ticker,
		Message: b.String(),
		Data:    q,
	}
}

func comparisonResult(data []companyData) Result {
	var b strings.Builder
	b.WriteString("SIDE-BY-SIDE COMPARISON\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")

	quotes := make(map[string]*model.Quote, len(data))
	for _, d := range data {
		fmt.Fprintf(&b, "\n%s (%s)\n", displayName(d), d.company.Ticker)
		if d.quote == nil {
			b.WriteString("No market data available\n")
			continue
		}
		q := d.quote
		quotes[d.company.Ticker] = q
		fmt.Fprintf(&b, "Price: $%.2f (%+.2f%% today)\n", q.CurrentPrice, q.ChangePercent)
		if q.MarketCap != nil {
			fmt.Fprintf(&b, "Market Cap: %s\n", formatMarketCap(*q.MarketCap))
		}
		if q.PERatio != nil {
			fmt.Fprintf(&b, "P/E Ratio: %.2f\n", *q.PERatio)
		}
		fmt.Fprintf(&b, "52-Week Range: $%.2f - $%.2f\n", q.Low52Week, q.High52Week)
	}

	return Result{
		Type:    string(KindComparison),
		Message: b.String(),
		Data:    quotes,
	}
}

func generalResult(d companyData) Result {
	if d.quote == nil {
		return helpResult()
	}
	name := displayName(d)
	return Result{
		Type:   string(KindGeneral),
		Ticker: d.company.Ticker,
		Message: fmt.Sprintf(
			"I found information about %s (%s). Current price: $%.2f. "+
				"Try asking more specific questions like 'analyze %s' or 'technical analysis of %s'",
			name, d.company.Ticker, d.quote.CurrentPrice, name, d.company.Ticker),
		Data: d.quote,
	}
}

func displayName(d companyData) string {
	if d.quote != nil && d.quote.CompanyName != "" {
		return d.quote.CompanyName
	}
	if d.company.Name != "" {
		return d.company.Name
	}
	return d.company.Ticker
}

func sectorOf(d companyData) string {
	if d.quote != nil && d.quote.Sector != "" {
		return d.quote.Sector
	}
	if d.company.Sector != "" {
		return d.company.Sector
	}
	return "Unknown"
}

func industryOf(d companyData) string {
	if d.quote != nil && d.quote.Industry != "" {
		return d.quote.Industry
	}
	if d.company.Industry != "" {
		return d.company.Industry
	}
	return "Unknown"
}

func formatMarketCap(cap float64) string {
	switch {
	case cap >= 1e12:
		return fmt.Sprintf("$%.2fT", cap/1e12)
	case cap >= 1e9:
		return fmt.Sprintf("$%.1fB", cap/1e9)
	case cap >= 1e6:
		return fmt.Sprintf("$%.0fM", cap/1e6)
	default:
		return fmt.Sprintf("$%.0f", cap)
	}
}

func capCategory(cap float64) string {
	switch {
	case cap > 200e9:
		return "Large Cap"
	case cap > 10e9:
		return "Mid Cap"
	case cap > 2e9:
		return "Small Cap"
	default:
		return "Micro Cap"
	}
}
