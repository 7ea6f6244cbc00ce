package model

// Quote is a snapshot of a single ticker. Field names follow the public API
// payload, so optional provider fields stay nullable.
type Quote struct {
	Ticker        string   `json:"ticker"`
	CurrentPrice  float64  `json:"current_price"`
	Change        float64  `json:"change"`
	ChangePercent float64  `json:"change_percent"`
	Volume        int64    `json:"volume"`
	High52Week    float64  `json:"52_week_high"`
	Low52Week     float64  `json:"52_week_low"`
	CompanyName   string   `json:"company_name"`
	Sector        string   `json:"sector"`
	Industry      string   `json:"industry"`
	MarketCap     *float64 `json:"market_cap"`
	PERatio       *float64 `json:"pe_ratio"`
	DividendYield *float64 `json:"dividend_yield"`
}
