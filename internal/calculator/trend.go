package calculator

import (
	"math"

	"FinSight/internal/model"
)

// trendEpsilon is the relative tolerance below which the two averages count
// as equal. Exact float equality would make Sideways unreachable in practice.
const trendEpsilon = 1e-4

// ClassifyTrend compares the short and long simple moving averages: short
// above long is Up, below is Down, and within a relative epsilon of each
// other is Sideways.
func ClassifyTrend(sma20, sma50 float64) model.Trend {
	tolerance := trendEpsilon * math.Max(math.Abs(sma20), math.Abs(sma50))
	diff := sma20 - sma50
	switch {
	case math.Abs(diff) <= tolerance:
		return model.TrendSideways
	case diff > 0:
		return model.TrendUp
	default:
		return model.TrendDown
	}
}
