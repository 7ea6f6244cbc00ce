package calculator

import (
	"errors"
	"fmt"
	"math"

	"FinSight/internal/model"
)

// CalculateBollinger computes Bollinger Bands over the last `period` prices:
// the middle band is the SMA, the outer bands sit `width` population standard
// deviations away from it.
func CalculateBollinger(prices []float64, period int, width float64) (model.BollingerBands, error) {
	if period <= 0 {
		return model.BollingerBands{}, errors.New("period must be positive")
	}
	if len(prices) < period {
		return model.BollingerBands{}, fmt.Errorf("bollinger(%d) needs %d closes, have %d: %w", period, period, len(prices), ErrInsufficientData)
	}
	window := prices[len(prices)-period:]

	middle := 0.0
	for _, p := range window {
		middle += p
	}
	middle /= float64(period)

	variance := 0.0
	for _, p := range window {
		d := p - middle
		variance += d * d
	}
	std := math.Sqrt(variance / float64(period))

	return model.BollingerBands{
		Upper:  middle + width*std,
		Middle: middle,
		Lower:  middle - width*std,
	}, nil
}
