package forecast

import (
	"context"
	"fmt"
	"time"

	"SolSignal/internal/domain/models"
	domsvc "SolSignal/internal/domain/service"
	"SolSignal/pkg/config"
	xhttp "SolSignal/pkg/http"
)

const dateLayout = "2006-01-02"

// HTTPProphetForecaster calls the Python Prophet sidecar over HTTP.
// The model itself lives in the sidecar; this client only ships history
// out and maps the forecast rows back.
type HTTPProphetForecaster struct {
	baseURL string
	client  *xhttp.Client
}

func NewHTTPProphetForecaster(cfg *config.Config) *HTTPProphetForecaster {
	timeout := cfg.Forecast.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPProphetForecaster{
		baseURL: cfg.Forecast.ServiceURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

type historyPoint struct {
	DS string  `json:"ds"`
	Y  float64 `json:"y"`
}

type forecastReq struct {
	Symbol  string         `json:"symbol"`
	History []historyPoint `json:"history"`
	Horizon int            `json:"horizon"`
}

type forecastResp struct {
	Points []struct {
		DS        string  `json:"ds"`
		Yhat      float64 `json:"yhat"`
		YhatLower float64 `json:"yhat_lower"`
		YhatUpper float64 `json:"yhat_upper"`
	} `json:"points"`
}

// Forecast posts the close-price history and returns only the future
// points of the fitted model's horizon.
func (f *HTTPProphetForecaster) Forecast(ctx context.Context, symbol string, bars []models.PriceBar, horizon int) ([]models.ForecastPoint, error) {
	if f.baseURL == "" {
		return nil, fmt.Errorf("forecast service url not configured")
	}

	hist := make([]historyPoint, 0, len(bars))
	for _, b := range bars {
		hist = append(hist, historyPoint{DS: b.Date.Format(dateLayout), Y: b.Close})
	}

	var fr forecastResp
	err := f.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodPost,
		URL:     f.baseURL + "/forecast",
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    forecastReq{Symbol: symbol, History: hist, Horizon: horizon},
	}, &fr)
	if err != nil {
		return nil, fmt.Errorf("post forecast: %w", err)
	}

	var lastHist time.Time
	if len(bars) > 0 {
		lastHist = bars[len(bars)-1].Date
	}

	out := make([]models.ForecastPoint, 0, horizon)
	for _, p := range fr.Points {
		d, err := time.Parse(dateLayout, p.DS)
		if err != nil {
			return nil, fmt.Errorf("parse forecast date %q: %w", p.DS, err)
		}
		// the sidecar echoes the fitted in-sample rows too; keep future only
		if !d.After(lastHist) {
			continue
		}
		out = append(out, models.ForecastPoint{
			Date:       d,
			Predicted:  p.Yhat,
			LowerBound: p.YhatLower,
			UpperBound: p.YhatUpper,
		})
	}
	return out, nil
}

var _ domsvc.Forecaster = (*HTTPProphetForecaster)(nil)
