package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries is a chronologically ascending sequence of daily bars
// (trading days only).
type PriceSeries []OHLCV

// Closes returns the closing prices in series order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, bar := range s {
		closes[i] = bar.Close
	}
	return closes
}

// Last returns the most recent bar, or false for an empty series.
func (s PriceSeries) Last() (OHLCV, bool) {
	if len(s) == 0 {
		return OHLCV{}, false
	}
	return s[len(s)-1], true
}
