package signal

import (
	"fmt"
	"math"
	"sync"
	"time"

	"SolSignal/internal/domain/models"
	"SolSignal/internal/services/features"
)

// Config holds every tunable threshold of the rule table. An explicit
// struct is passed in so repeated runs with different parameters cannot
// interfere through package state.
type Config struct {
	RSIOversold       float64
	RSIOverbought     float64
	StrongMomentum    float64
	MinBuyConditions  int
	MinSellConditions int
	ATRStopMult       float64
	ATRTakeMult       float64
	NearTermStep      int // forecast point used for the trend check (0-based)
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		RSIOversold:       30,
		RSIOverbought:     70,
		StrongMomentum:    0.5,
		MinBuyConditions:  3,
		MinSellConditions: 2,
		ATRStopMult:       1.5,
		ATRTakeMult:       3.0,
		NearTermStep:      6,
	}
}

const baseConfidence = 50.0

// Engine scores the latest market state against the fixed rule table and
// keeps an in-memory history of every emitted signal. Evaluate is a pure
// function of its inputs; the history append is the only side effect.
type Engine struct {
	cfg  Config
	buy  []rule
	sell []rule

	mu      sync.Mutex
	history []models.Signal
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg, buy: buyRules(), sell: sellRules()}
}

// Evaluate produces one BUY/SELL/HOLD signal for the latest bar.
// It fails with IncompleteIndicatorsError when any required indicator is
// undefined and with EmptyForecastError when the forecast has no points.
func (e *Engine) Evaluate(bar models.PriceBar, forecast []models.ForecastPoint) (models.Signal, error) {
	if name, ok := features.Complete(bar); !ok {
		return models.Signal{}, &models.IncompleteIndicatorsError{Indicator: name}
	}
	if len(forecast) == 0 {
		return models.Signal{}, &models.EmptyForecastError{}
	}

	ev := e.context(bar, forecast)
	buyPts, buyConds, buyDetails := score(e.buy, ev)
	sellPts, sellConds, sellDetails := score(e.sell, ev)

	sig := models.Signal{
		Timestamp:       time.Now(),
		Symbol:          bar.Symbol,
		Price:           bar.Close,
		ExpectedMovePct: (ev.NearTerm - bar.Close) / bar.Close * 100,
		StopLoss:        math.Max(bar.Close-e.cfg.ATRStopMult*bar.ATR, ev.LocalMin*0.98),
		TakeProfit:      math.Min(bar.Close+e.cfg.ATRTakeMult*bar.ATR, ev.LocalMax*1.02),
	}

	// BUY wins ties: its gate additionally requires an upward forecast,
	// which the bearish-forecast sell rule can never share.
	switch {
	case ev.TrendUp && buyConds >= e.cfg.MinBuyConditions:
		sig.Type = models.SignalBuy
		sig.Confidence = clamp(baseConfidence + buyPts)
		sig.Reason = reason("buy", buyConds)
		sig.Details = buyDetails
	case sellConds >= e.cfg.MinSellConditions:
		sig.Type = models.SignalSell
		sig.Confidence = clamp(baseConfidence + sellPts)
		sig.Reason = reason("sell", sellConds)
		sig.Details = sellDetails
	default:
		sig.Type = models.SignalHold
		sig.Confidence = baseConfidence
		sig.Reason = "mixed signals, hold current position"
	}

	e.mu.Lock()
	e.history = append(e.history, sig)
	e.mu.Unlock()
	return sig, nil
}

// History returns a copy of every signal emitted by this engine instance.
func (e *Engine) History() []models.Signal {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.Signal, len(e.history))
	copy(out, e.history)
	return out
}

func (e *Engine) context(bar models.PriceBar, forecast []models.ForecastPoint) evalContext {
	step := e.cfg.NearTermStep
	if step > len(forecast)-1 {
		step = len(forecast) - 1
	}
	near := forecast[step].Predicted

	localMin, localMax := forecast[0].Predicted, forecast[0].Predicted
	for _, p := range forecast[1:] {
		if p.Predicted < localMin {
			localMin = p.Predicted
		}
		if p.Predicted > localMax {
			localMax = p.Predicted
		}
	}

	return evalContext{
		Close:         bar.Close,
		MA7:           bar.MA7,
		MA14:          bar.MA14,
		MA30:          bar.MA30,
		ATR:           bar.ATR,
		Momentum:      bar.Momentum10,
		RSI:           bar.RSI14,
		NearTerm:      near,
		LocalMin:      localMin,
		LocalMax:      localMax,
		TrendUp:       near > bar.Close,
		DistMin:       math.Abs(bar.Close-localMin) / localMin,
		DistMax:       math.Abs(bar.Close-localMax) / localMax,
		MomStrong:     e.cfg.StrongMomentum,
		RSIOversold:   e.cfg.RSIOversold,
		RSIOverbought: e.cfg.RSIOverbought,
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func reason(side string, conds int) string {
	strength := ""
	if (side == "buy" && conds >= 4) || (side == "sell" && conds >= 3) {
		strength = "strong "
	}
	return fmt.Sprintf("%s%s signal, %d conditions met", strength, side, conds)
}
