package models

// Requests for the dashboard API endpoints. Defined in domain for consistency and reuse.

type BarsRequest struct {
	Symbol string `query:"symbol" json:"symbol" default:"SOLUSDT"`
	N      int    `query:"n" json:"n" default:"365" validate:"gte=31,lte=5000"`
}

type ForecastRequest struct {
	Symbol  string `query:"symbol" json:"symbol" default:"SOLUSDT"`
	Horizon int    `query:"horizon" json:"horizon" default:"30" validate:"gte=1,lte=90"`
	N       int    `query:"n" json:"n" default:"365" validate:"gte=31,lte=5000"`
}

type SignalRequest struct {
	Symbol  string `query:"symbol" json:"symbol" default:"SOLUSDT"`
	Horizon int    `query:"horizon" json:"horizon" default:"30" validate:"gte=1,lte=90"`
	N       int    `query:"n" json:"n" default:"365" validate:"gte=31,lte=5000"`
}

type BacktestRequest struct {
	Symbol        string  `query:"symbol" json:"symbol" default:"SOLUSDT"`
	LookbackDays  int     `query:"lookback_days" json:"lookback_days" default:"365" validate:"gte=31,lte=5000"`
	StopLossPct   float64 `query:"stop_loss_pct" json:"stop_loss_pct" default:"0.05" validate:"gt=0,lt=1"`
	TakeProfitPct float64 `query:"take_profit_pct" json:"take_profit_pct" default:"0.15" validate:"gt=0,lt=10"`
}

type SyncRequest struct {
	Symbol string `query:"symbol" json:"symbol" default:"SOLUSDT"`
	Limit  int    `query:"limit" json:"limit" default:"500" validate:"gte=31,lte=1000"`
}
