package models

import "time"

// PriceBar represents one daily OHLCV record enriched with technical
// indicators. Indicator fields are NaN until their warm-up window has
// passed; callers must treat NaN as "not yet defined".
type PriceBar struct {
	Date   time.Time
	Symbol string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64

	MA7          float64
	MA14         float64
	MA30         float64
	Volatility14 float64
	ATR          float64
	Momentum10   float64
	RSI14        float64
	DailyReturn  float64
}

// ForecastPoint is one step of the model forecast with its uncertainty band.
type ForecastPoint struct {
	Date       time.Time `json:"date"`
	Predicted  float64   `json:"predicted"`
	LowerBound float64   `json:"lower_bound"`
	UpperBound float64   `json:"upper_bound"`
}
