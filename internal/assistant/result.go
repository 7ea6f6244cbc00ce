package assistant

// Result is the answer to one processed query. Data carries the raw market
// payload backing the message (quote, indicator set, or a per-ticker map for
// comparisons) so clients can render it without re-fetching.
type Result struct {
	Type        string      `json:"type"`
	Ticker      string      `json:"ticker,omitempty"`
	Message     string      `json:"message"`
	Data        interface{} `json:"data,omitempty"`
	Suggestions []string    `json:"suggestions,omitempty"`
}

// ExamplesResponse lists canned queries for clients to offer as starters.
type ExamplesResponse struct {
	Examples         []string `json:"examples"`
	SupportedQueries []string `json:"supported_queries"`
}

// Examples returns the canned example queries and supported categories.
func Examples() ExamplesResponse {
	return ExamplesResponse{
		Examples: []string{
			"What is the price of AAPL?",
			"Tell me about Tesla",
			"Show RSI for Microsoft",
			"Compare Apple and Microsoft",
			"What is Amazon worth?",
			"Give me info about GOOGL",
		},
		SupportedQueries: []string{
			"Stock prices",
			"Company information",
			"Technical analysis",
			"RSI indicators",
			"Company comparisons",
			"Basic stock data",
		},
	}
}
