package calculator

import (
	"errors"
	"fmt"
)

// CalculateSMA computes the simple moving average of the last `period` prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, fmt.Errorf("SMA(%d) needs %d closes, have %d: %w", period, period, len(prices), ErrInsufficientData)
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// CalculateEMA computes the exponential moving average with smoothing factor
// 2/(period+1), seeded with the SMA of the earliest `period` prices and folded
// forward over the rest of the series.
func CalculateEMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, fmt.Errorf("EMA(%d) needs %d closes, have %d: %w", period, period, len(prices), ErrInsufficientData)
	}
	seed := 0.0
	for i := 0; i < period; i++ {
		seed += prices[i]
	}
	ema := seed / float64(period)
	multiplier := 2.0 / float64(period+1)
	for i := period; i < len(prices); i++ {
		ema = (prices[i]-ema)*multiplier + ema
	}
	return ema, nil
}
