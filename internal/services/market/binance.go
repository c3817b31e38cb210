package market

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"SolSignal/internal/domain/models"
	domsvc "SolSignal/internal/domain/service"
	"SolSignal/internal/service/ratelimit"
	"SolSignal/pkg/config"
	xhttp "SolSignal/pkg/http"
	"SolSignal/pkg/util"
)

// BinanceSource fetches daily klines over the public REST API.
// Transient failures are retried with exponential backoff; a local token
// bucket keeps the request rate well under the exchange limits.
type BinanceSource struct {
	baseURL string
	client  *xhttp.Client
	limiter *ratelimit.Limiter
	retries uint64
}

func NewBinanceSource(cfg *config.Config) *BinanceSource {
	timeout := cfg.Market.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	retries := cfg.Market.MaxRetries
	if retries <= 0 {
		retries = 3
	}
	return &BinanceSource{
		baseURL: cfg.Market.BaseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
		limiter: ratelimit.New(),
		retries: uint64(retries),
	}
}

// FetchDailyBars returns up to limit daily bars, oldest first.
func (s *BinanceSource) FetchDailyBars(ctx context.Context, symbol string, limit int) ([]models.PriceBar, error) {
	if !s.limiter.Allow("klines", 10, 2) {
		return nil, fmt.Errorf("kline request rate exceeded")
	}

	var raw []byte
	op := func() error {
		return s.client.SendAndParse(ctx, &xhttp.RequestOptions{
			Method: xhttp.MethodGet,
			URL:    s.baseURL + "/api/v3/klines",
			QueryParams: map[string][]string{
				"symbol":   {symbol},
				"interval": {"1d"},
				"limit":    {strconv.Itoa(limit)},
			},
		}, &raw)
	}
	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), s.retries), ctx)); err != nil {
		return nil, fmt.Errorf("fetch klines: %w", err)
	}

	return parseKlines(symbol, raw)
}

// parseKlines decodes the kline array-of-arrays payload:
// [openTime, open, high, low, close, volume, closeTime, ...].
func parseKlines(symbol string, raw []byte) ([]models.PriceBar, error) {
	var rows [][]json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode klines: %w", err)
	}

	bars := make([]models.PriceBar, 0, len(rows))
	for _, row := range rows {
		if len(row) < 6 {
			return nil, fmt.Errorf("kline row too short: %d fields", len(row))
		}
		var openMs int64
		if err := json.Unmarshal(row[0], &openMs); err != nil {
			return nil, fmt.Errorf("kline open time: %w", err)
		}
		vals := make([]float64, 5)
		for i := 1; i <= 5; i++ {
			var str string
			if err := json.Unmarshal(row[i], &str); err != nil {
				return nil, fmt.Errorf("kline field %d: %w", i, err)
			}
			v, err := strconv.ParseFloat(str, 64)
			if err != nil {
				return nil, fmt.Errorf("kline field %d: %w", i, err)
			}
			vals[i-1] = v
		}
		bars = append(bars, models.PriceBar{
			Date:   util.DayStart(time.UnixMilli(openMs)),
			Symbol: symbol,
			Open:   vals[0],
			High:   vals[1],
			Low:    vals[2],
			Close:  vals[3],
			Volume: vals[4],
		})
	}
	return bars, nil
}

var _ domsvc.MarketSource = (*BinanceSource)(nil)
