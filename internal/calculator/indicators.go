package calculator

import "FinSight/internal/model"

// Standard indicator windows.
const (
	RSIPeriod       = 14
	SMAShortPeriod  = 20
	SMALongPeriod   = 50
	EMAFastPeriod   = 12
	EMASlowPeriod   = 26
	BollingerPeriod = 20
	BollingerWidth  = 2.0
)

// Compute derives the full indicator set for one price series. Each indicator
// is computed independently; one that lacks data is left nil and the rest are
// still returned. Pure function of the input, safe for concurrent use.
func Compute(series model.PriceSeries) model.IndicatorSet {
	closes := series.Closes()

	var set model.IndicatorSet
	if value, err := CalculateRSI(closes, RSIPeriod); err == nil {
		set.RSI = &model.RSIIndicator{Value: value, Interpretation: InterpretRSI(value)}
	}
	set.SMA20 = optional(CalculateSMA(closes, SMAShortPeriod))
	set.SMA50 = optional(CalculateSMA(closes, SMALongPeriod))
	set.EMA12 = optional(CalculateEMA(closes, EMAFastPeriod))
	set.EMA26 = optional(CalculateEMA(closes, EMASlowPeriod))
	if bands, err := CalculateBollinger(closes, BollingerPeriod, BollingerWidth); err == nil {
		set.Bollinger = &bands
	}
	if set.SMA20 != nil && set.SMA50 != nil {
		set.Trend = ClassifyTrend(*set.SMA20, *set.SMA50)
	}
	return set
}

func optional(value float64, err error) *float64 {
	if err != nil {
		return nil
	}
	return &value
}
