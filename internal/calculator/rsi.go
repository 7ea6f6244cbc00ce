package calculator

import (
	"errors"
	"fmt"

	"FinSight/internal/model"
)

// CalculateRSI computes the RSI over the given period using Wilder smoothing:
// the initial averages are the simple means of gains and losses over the first
// `period` deltas, after which avg = (prev*(period-1) + delta) / period.
// Requires at least period+1 prices. When the average loss is zero the RSI is
// 100 by definition.
func CalculateRSI(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period+1 {
		return 0, fmt.Errorf("RSI(%d) needs %d closes, have %d: %w", period, period+1, len(prices), ErrInsufficientData)
	}

	// Initial average gain/loss over the first `period` changes
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change // make positive
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	// Wilder smoothing for remaining bars
	for i := period + 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100.0, nil
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs), nil
}

// InterpretRSI classifies an RSI value: above 70 overbought, below 30 oversold.
func InterpretRSI(value float64) model.RSISignal {
	switch {
	case value > 70:
		return model.SignalOverbought
	case value < 30:
		return model.SignalOversold
	default:
		return model.SignalNeutral
	}
}
