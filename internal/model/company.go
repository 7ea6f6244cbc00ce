package model

import "time"

// Company is one directory entry. The set of companies is immutable within a
// refresh cycle; refreshes replace the whole set atomically.
type Company struct {
	Name      string   `json:"name"`
	Ticker    string   `json:"ticker"`
	Sector    string   `json:"sector"`
	Industry  string   `json:"industry"`
	MarketCap float64  `json:"market_cap"`
	Aliases   []string `json:"-"`
}

// RankedCompany is a directory entry with its 1-based market-cap rank.
type RankedCompany struct {
	Rank int `json:"rank"`
	Company
}

// DirectoryStatus describes the health of the company directory.
type DirectoryStatus struct {
	Companies   int       `json:"companies"`
	RefreshedAt time.Time `json:"refreshed_at"`
	Stale       bool      `json:"stale"`
}
