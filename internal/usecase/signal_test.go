package usecase

import (
	"context"
	"testing"
	"time"

	"SolSignal/internal/domain/models"
	signalengine "SolSignal/internal/services/signal"
	"SolSignal/pkg/cache"
	applogger "SolSignal/pkg/logger"
)

type fakeStore struct {
	bars []models.PriceBar
}

func (f *fakeStore) Init(context.Context) error { return nil }
func (f *fakeStore) InsertBars(_ context.Context, _ string, bars []models.PriceBar) error {
	f.bars = append(f.bars, bars...)
	return nil
}
func (f *fakeStore) GetBars(_ context.Context, _ string, limit int) ([]models.PriceBar, error) {
	if limit > len(f.bars) {
		limit = len(f.bars)
	}
	return f.bars[len(f.bars)-limit:], nil
}
func (f *fakeStore) LastDate(context.Context, string) (int64, error) { return 0, nil }
func (f *fakeStore) Health(context.Context) error                    { return nil }
func (f *fakeStore) Close() error                                    { return nil }

type fakeForecaster struct {
	calls int
}

func (f *fakeForecaster) Forecast(_ context.Context, _ string, bars []models.PriceBar, horizon int) ([]models.ForecastPoint, error) {
	f.calls++
	last := bars[len(bars)-1]
	out := make([]models.ForecastPoint, horizon)
	for i := 0; i < horizon; i++ {
		p := last.Close + float64(i+1)
		out[i] = models.ForecastPoint{Date: last.Date.AddDate(0, 0, i+1), Predicted: p, LowerBound: p - 2, UpperBound: p + 2}
	}
	return out, nil
}

type fakePublisher struct {
	published []models.Signal
}

func (f *fakePublisher) Publish(_ context.Context, s models.Signal) error {
	f.published = append(f.published, s)
	return nil
}
func (f *fakePublisher) Close() error { return nil }

type fakeNotifier struct {
	notified []models.Signal
}

func (f *fakeNotifier) NotifySignal(_ context.Context, s models.Signal) error {
	f.notified = append(f.notified, s)
	return nil
}

type nopMetrics struct{}

func (nopMetrics) RecordSignal(string, string)     {}
func (nopMetrics) RecordBacktest(string)           {}
func (nopMetrics) RecordLastPrice(string, float64) {}
func (nopMetrics) RecordLatency(string, float64)   {}
func (nopMetrics) RecordError(string)              {}

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func seededStore() *fakeStore {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.PriceBar, 60)
	for i := range bars {
		c := 100.0 + float64(i)
		bars[i] = models.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Symbol: "SOLUSDT",
			Open:   c - 0.5,
			High:   c + 2,
			Low:    c - 2,
			Close:  c,
			Volume: 1000,
		}
	}
	return &fakeStore{bars: bars}
}

func newSignalUC(t *testing.T, store *fakeStore, fc *fakeForecaster, pub *fakePublisher, not *fakeNotifier) *SignalUseCase {
	t.Helper()
	return NewSignalUseCase(
		store, fc, signalengine.NewEngine(signalengine.DefaultConfig()),
		pub, not, cache.NewMemoryCache(), time.Minute, nopMetrics{}, testLogger(t),
	)
}

func TestEvaluatePublishesActionableSignal(t *testing.T) {
	store := seededStore()
	fc := &fakeForecaster{}
	pub := &fakePublisher{}
	not := &fakeNotifier{}
	uc := newSignalUC(t, store, fc, pub, not)

	sig, err := uc.Evaluate(context.Background(), "SOLUSDT", 30, 60)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	// steadily rising series: positive momentum, aligned MAs, rising forecast
	if sig.Type != models.SignalBuy {
		t.Fatalf("type = %s, want BUY", sig.Type)
	}
	if len(pub.published) != 1 {
		t.Fatalf("published = %d, want 1", len(pub.published))
	}
	if len(not.notified) != 1 {
		t.Fatalf("notified = %d, want 1", len(not.notified))
	}
	if len(uc.History()) != 1 {
		t.Fatalf("history = %d, want 1", len(uc.History()))
	}
}

func TestGetForecastCaches(t *testing.T) {
	store := seededStore()
	fc := &fakeForecaster{}
	uc := newSignalUC(t, store, fc, &fakePublisher{}, &fakeNotifier{})

	a, err := uc.GetForecast(context.Background(), "SOLUSDT", 30, 60)
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	b, err := uc.GetForecast(context.Background(), "SOLUSDT", 30, 60)
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	if fc.calls != 1 {
		t.Fatalf("forecaster calls = %d, want 1 (second read served from cache)", fc.calls)
	}
	if len(a) != len(b) || a[0].Predicted != b[0].Predicted {
		t.Fatalf("cached forecast differs from original")
	}
}

func TestGetBarsEnriches(t *testing.T) {
	store := seededStore()
	uc := newSignalUC(t, store, &fakeForecaster{}, &fakePublisher{}, &fakeNotifier{})

	bars, err := uc.GetBars(context.Background(), "SOLUSDT", 60)
	if err != nil {
		t.Fatalf("get bars: %v", err)
	}
	if len(bars) != 60 {
		t.Fatalf("bars = %d, want 60", len(bars))
	}
	last := bars[len(bars)-1]
	if last.MA30 == 0 || last.RSI14 == 0 {
		t.Fatalf("indicators not computed: %+v", last)
	}
}

func TestEvaluateNoData(t *testing.T) {
	uc := newSignalUC(t, &fakeStore{}, &fakeForecaster{}, &fakePublisher{}, &fakeNotifier{})

	if _, err := uc.Evaluate(context.Background(), "SOLUSDT", 30, 60); err == nil {
		t.Fatalf("expected error for empty store")
	}
}
