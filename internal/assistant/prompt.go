package assistant

import (
	"fmt"
	"strings"
	"time"

	"FinSight/internal/model"
)

const systemPrompt = `You are a helpful financial AI assistant with access to real-time stock market data.

What you can do:
- Answer questions about stock prices and company performance
- Compare different companies using real financial data
- Explain financial concepts in simple terms
- Give investment insights based on current market data

How to respond:
- Use the real-time financial data provided in your responses
- Be factual and cite specific numbers when available
- For comparisons, look at price, performance, and company fundamentals
- Explain your reasoning clearly and simply
- Always mention this is for educational purposes, not financial advice
- If you don't have enough data, be honest about it
- Format responses clearly with bullet points and sections

Important: Always remind users that investment decisions require personal research and professional advice.`

// buildUserPrompt combines the raw question with a live-data section per
// company so the model answers from real numbers instead of its memory.
func buildUserPrompt(query string, now time.Time, data []companyData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User Question: %s\n\n", query)

	withQuotes := 0
	for _, d := range data {
		if d.quote != nil {
			withQuotes++
		}
	}

	if withQuotes > 0 {
		b.WriteString("REAL-TIME FINANCIAL DATA:\n")
		fmt.Fprintf(&b, "Data Timestamp: %s\n\n", now.Format(time.RFC3339))
		for _, d := range data {
			if d.quote == nil {
				continue
			}
			q := d.quote
			fmt.Fprintf(&b, "**%s - %s**\n", q.Ticker, displayName(d))
			fmt.Fprintf(&b, "- Sector: %s\n", sectorOf(d))
			fmt.Fprintf(&b, "- Current Price: $%.2f\n", q.CurrentPrice)
			fmt.Fprintf(&b, "- Price Change: %+.2f (%+.2f%%)\n", q.Change, q.ChangePercent)
			fmt.Fprintf(&b, "- 52-Week Range: $%.2f - $%.2f\n", q.Low52Week, q.High52Week)
			fmt.Fprintf(&b, "- Volume: %d\n", q.Volume)
			if q.PERatio != nil {
				fmt.Fprintf(&b, "- P/E Ratio: %.2f\n", *q.PERatio)
			}
			if q.MarketCap != nil {
				fmt.Fprintf(&b, "- Market Cap: %s\n", formatMarketCap(*q.MarketCap))
			}
			if d.indicators != nil {
				writeIndicatorLines(&b, d.indicators)
			}
			b.WriteString("\n")
		}
	} else {
		b.WriteString("Note: No specific companies found in the question or real-time data unavailable.\n\n")
	}

	b.WriteString("Please provide a helpful response using the real-time data above. " +
		"If this is a comparison question, analyze all companies. " +
		"If it's a general financial question, provide educational insights.")
	return b.String()
}

func writeIndicatorLines(b *strings.Builder, set *model.IndicatorSet) {
	if set.RSI != nil {
		fmt.Fprintf(b, "- RSI (14-day): %.2f (%s)\n", set.RSI.Value, set.RSI.Interpretation)
	}
	if set.SMA20 != nil {
		fmt.Fprintf(b, "- SMA 20: $%.2f\n", *set.SMA20)
	}
	if set.SMA50 != nil {
		fmt.Fprintf(b, "- SMA 50: $%.2f\n", *set.SMA50)
	}
	if set.Trend != "" {
		fmt.Fprintf(b, "- Trend: %s\n", set.Trend)
	}
}
