package calculator

import (
	"errors"
	"math"

	"FinSight/internal/model"
)

// Calculate52WeekRange scans the most recent 252 trading days and returns the
// high and low.
func Calculate52WeekRange(series model.PriceSeries) (high, low float64, err error) {
	if len(series) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	n := len(series)
	start := n - 252
	if start < 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < n; i++ {
		if series[i].High > high {
			high = series[i].High
		}
		if series[i].Low < low {
			low = series[i].Low
		}
	}
	return high, low, nil
}
