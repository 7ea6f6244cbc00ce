package assistant

import "strings"

// QueryKind labels what a natural-language query is asking for. The keyword
// ladder is ordered: earlier kinds win when a query matches several.
type QueryKind string

const (
	KindComparison  QueryKind = "comparison"
	KindAnalysis    QueryKind = "analysis"
	KindPerformance QueryKind = "performance"
	KindTechnical   QueryKind = "technical"
	KindPrice       QueryKind = "price"
	KindCompany     QueryKind = "company"
	KindStrategy    QueryKind = "strategy"
	KindEducation   QueryKind = "education"
	KindGeneral     QueryKind = "general"
)

// Result-only types for queries no kind-specific handler could serve.
const (
	TypeHelp  = "help"
	TypeError = "error"
)

// Classify buckets a query by keyword.
func Classify(query string) QueryKind {
	q := strings.ToLower(strings.TrimSpace(query))
	switch {
	case containsAny(q, "compare", "versus", "vs", "which is better", "between"):
		return KindComparison
	case containsAny(q, "analyze", "analysis", "how is", "performance", "overview", "summary", "report"):
		return KindAnalysis
	case containsAny(q, "revenue", "profit", "earnings", "income", "margin", "growth", "financials"):
		return KindPerformance
	case containsAny(q, "rsi", "bollinger", "moving average", "technical", "indicator", "chart"):
		return KindTechnical
	case containsAny(q, "price", "cost", "value", "worth", "current", "quote"):
		return KindPrice
	case containsAny(q, "company", "about", "information", "details", "tell me"):
		return KindCompany
	case containsAny(q, "should i", "invest", "strategy", "advice"):
		return KindStrategy
	case containsAny(q, "what is", "explain", "define", "how does"):
		return KindEducation
	default:
		return KindGeneral
	}
}

func containsAny(q string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

// needsIndicators reports whether a query kind wants technical indicators
// fetched alongside quotes.
func (k QueryKind) needsIndicators() bool {
	return k == KindTechnical || k == KindAnalysis
}
