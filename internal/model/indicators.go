package model

// RSISignal classifies an RSI reading.
type RSISignal string

const (
	SignalOverbought RSISignal = "Overbought"
	SignalOversold   RSISignal = "Oversold"
	SignalNeutral    RSISignal = "Neutral"
)

// Trend classifies the SMA(20) / SMA(50) relationship.
type Trend string

const (
	TrendUp       Trend = "Up"
	TrendDown     Trend = "Down"
	TrendSideways Trend = "Sideways"
)

// RSIIndicator is an RSI value with its classification.
type RSIIndicator struct {
	Value          float64   `json:"value"`
	Interpretation RSISignal `json:"interpretation"`
}

// BollingerBands holds the three band values.
type BollingerBands struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// MovingAverages groups the moving-average values for the dedicated
// sub-route payload. Nil means the series was too short for that window.
type MovingAverages struct {
	SMA20 *float64 `json:"sma_20"`
	SMA50 *float64 `json:"sma_50"`
	EMA12 *float64 `json:"ema_12"`
	EMA26 *float64 `json:"ema_26"`
}

// IndicatorSet is the full technical payload for one series. Indicators are
// computed independently; a nil field means that indicator had too little
// data, never that the whole computation failed.
type IndicatorSet struct {
	RSI       *RSIIndicator   `json:"rsi"`
	SMA20     *float64        `json:"sma_20"`
	SMA50     *float64        `json:"sma_50"`
	EMA12     *float64        `json:"ema_12"`
	EMA26     *float64        `json:"ema_26"`
	Bollinger *BollingerBands `json:"bollinger"`
	Trend     Trend           `json:"trend,omitempty"`
}

// MovingAverages extracts the moving-average slice of the set.
func (s IndicatorSet) MovingAverages() MovingAverages {
	return MovingAverages{SMA20: s.SMA20, SMA50: s.SMA50, EMA12: s.EMA12, EMA26: s.EMA26}
}
