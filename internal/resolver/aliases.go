package resolver

import "strings"

// tickerAliases maps informal company references to canonical tickers.
// Keys are casefolded. Covers names that differ from the listed company name
// (google vs Alphabet) and common shorthand.
var tickerAliases = map[string]string{
	"google":       "GOOGL",
	"alphabet":     "GOOGL",
	"facebook":     "META",
	"fb":           "META",
	"tesla motors": "TSLA",
	"amazon":       "AMZN",
	"jpmorgan":     "JPM",
	"jp morgan":    "JPM",
	"coca cola":    "KO",
	"coke":         "KO",
	"pepsi":        "PEP",
	"mcdonalds":    "MCD",
	"walmart":      "WMT",
	"berkshire":    "BRK-A",
	"visa":         "V",
	"mastercard":   "MA",
}

// AliasesFor returns the curated aliases pointing at a ticker, casefolded.
// The directory attaches these to companies at refresh time so substring
// matching can see them.
func AliasesFor(ticker string) []string {
	ticker = strings.ToUpper(ticker)
	var aliases []string
	for alias, target := range tickerAliases {
		if target == ticker {
			aliases = append(aliases, alias)
		}
	}
	return aliases
}
