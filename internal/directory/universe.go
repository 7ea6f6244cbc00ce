package directory

// DefaultUniverse is the tracked set of large-cap US tickers, roughly the top
// 100 by market capitalization. The live ranking comes from refreshed market
// caps, so the order here does not matter.
var DefaultUniverse = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA", "BRK-A", "UNH", "JNJ",
	"JPM", "V", "PG", "XOM", "HD", "CVX", "MA", "PFE", "ABBV", "BAC",
	"KO", "AVGO", "PEP", "TMO", "WMT", "COST", "DIS", "ABT", "MRK", "ACN",
	"VZ", "NFLX", "CRM", "DHR", "LIN", "TXN", "NKE", "WFC", "RTX", "UPS",
	"QCOM", "HON", "T", "MDT", "LOW", "UNP", "IBM", "INTC", "CAT", "SPGI",
	"AXP", "GS", "BLK", "INTU", "ISRG", "NEE", "PLD", "BA", "TJX", "AMD",
	"SCHW", "SYK", "AMAT", "CVS", "DE", "LMT", "ADI", "MDLZ", "GILD", "ADP",
	"CI", "MMC", "TMUS", "TGT", "SO", "BMY", "CL", "MO", "ZTS", "SHW",
	"CB", "DUK", "ITW", "CSX", "CME", "EQIX", "ICE", "AON", "PYPL", "WM",
	"COP", "USB", "GD", "NSC", "SBUX", "FCX", "APD", "HUM", "MCD", "ECL",
}
