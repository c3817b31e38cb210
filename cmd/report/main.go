package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"SolSignal/internal/di"
	"SolSignal/internal/domain/models"
	"SolSignal/internal/services/backtest"
	"SolSignal/internal/services/features"
	"SolSignal/pkg/config"
	applogger "SolSignal/pkg/logger"
)

// One-shot console report: sync history, evaluate the current signal,
// replay the trailing year and print the summary. No HTTP server, no
// Kafka; alerts still go out when Telegram is configured.
func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	lookback := flag.Int("lookback", 365, "backtest lookback in days")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := run(cfg, *lookback); err != nil {
		log.Printf("report failed: %v", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, lookback int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	logger, err := di.ProvideLogger(cfg)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	chClient, err := di.ProvideClickHouseClient(cfg)
	if err != nil {
		return fmt.Errorf("clickhouse: %w", err)
	}
	defer chClient.Close()

	store, err := di.ProvideBarStore(chClient, cfg, logger)
	if err != nil {
		return err
	}
	m := di.ProvideMetrics()
	sync := di.ProvideSyncUseCase(di.ProvideMarketSource(cfg), store, m, logger)

	symbol := cfg.Market.Symbol
	limit := cfg.Market.HistoryDays
	if limit <= 0 {
		limit = 500
	}
	if _, err := sync.Sync(ctx, symbol, limit); err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	rawBars, err := store.GetBars(ctx, symbol, limit)
	if err != nil {
		return fmt.Errorf("get bars: %w", err)
	}
	bars := features.Enrich(rawBars)
	if len(bars) == 0 {
		return fmt.Errorf("no bars stored for %s", symbol)
	}
	latest := bars[len(bars)-1]

	forecaster := di.ProvideForecaster(cfg)
	forecast, err := forecaster.Forecast(ctx, symbol, bars, cfg.Forecast.Horizon)
	if err != nil {
		return fmt.Errorf("forecast: %w", err)
	}

	engine := di.ProvideSignalEngine(cfg)
	sig, err := engine.Evaluate(latest, forecast)
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}

	report, err := backtest.New(di.ProvideBacktestConfig(cfg)).Run(bars, lookback)
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}

	printSummary(symbol, latest, forecast, sig)
	printBacktest(report)

	notifier, err := di.ProvideNotifier(cfg, logger)
	if err != nil {
		return fmt.Errorf("notifier: %w", err)
	}
	if err := notifier.NotifySignal(ctx, sig); err != nil {
		logger.Warn("alert delivery failed", applogger.Error(err))
	}
	return nil
}

func header(title string) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 70))
	pad := (70 - len(title)) / 2
	fmt.Printf("%s%s\n", strings.Repeat(" ", pad), title)
	fmt.Println(strings.Repeat("=", 70))
}

func printSummary(symbol string, latest models.PriceBar, forecast []models.ForecastPoint, sig models.Signal) {
	header(symbol + " PRICE PREDICTION ANALYSIS SUMMARY")

	fmt.Println("\n[PRICE OVERVIEW]")
	fmt.Printf("   Current Price:           $%10.2f\n", latest.Close)
	if len(forecast) > 0 {
		week := forecast[min(6, len(forecast)-1)]
		end := forecast[len(forecast)-1]
		fmt.Printf("   7-Day Forecast:          $%10.2f (%+.2f%%)\n", week.Predicted, (week.Predicted-latest.Close)/latest.Close*100)
		fmt.Printf("   %d-Day Forecast:         $%10.2f (%+.2f%%)\n", len(forecast), end.Predicted, (end.Predicted-latest.Close)/latest.Close*100)
	}

	fmt.Println("\n[TECHNICAL INDICATORS]")
	fmt.Printf("   RSI (14):                %15.2f %s\n", latest.RSI14, rsiLabel(latest.RSI14))
	fmt.Printf("   Volatility (14-day):     %15.4f\n", latest.Volatility14)
	fmt.Printf("   Momentum (10-day):       %15.2f\n", latest.Momentum10)

	fmt.Println("\n[MOVING AVERAGES]")
	fmt.Printf("   MA7:                     $%10.2f\n", latest.MA7)
	fmt.Printf("   MA14:                    $%10.2f\n", latest.MA14)
	fmt.Printf("   MA30:                    $%10.2f\n", latest.MA30)

	fmt.Println("\n[TRADING SIGNAL]")
	fmt.Printf("   Signal Type:             %15s\n", sig.Type)
	fmt.Printf("   Confidence:              %14.0f%%\n", sig.Confidence)
	fmt.Printf("   Expected Move:           %14.2f%%\n", sig.ExpectedMovePct)
	fmt.Printf("   Stop Loss:               $%10.2f\n", sig.StopLoss)
	fmt.Printf("   Take Profit:             $%10.2f\n", sig.TakeProfit)
	fmt.Printf("   Reason:                  %s\n", sig.Reason)
	for _, d := range sig.Details {
		fmt.Printf("      - %s\n", d)
	}
}

func printBacktest(r *models.BacktestReport) {
	header("BACKTEST REPORT (12-Month Historical Test)")

	fmt.Println("\n[TRADE STATISTICS]")
	fmt.Printf("   Total Trades:            %10d\n", r.TotalTrades)
	fmt.Printf("   Winning Trades:          %10d\n", r.WinningTrades)
	fmt.Printf("   Losing Trades:           %10d\n", r.LosingTrades)
	fmt.Printf("   Win Rate:                %9.1f%%\n", r.WinRate*100)

	fmt.Println("\n[PERFORMANCE METRICS]")
	fmt.Printf("   Strategy Return:         %9.2f%%\n", r.TotalReturnPct)
	fmt.Printf("   Buy & Hold Return:       %9.2f%%\n", r.BuyHoldReturnPct)
	fmt.Printf("   Avg Trade Return:        %9.2f%%\n", r.AvgTradeReturnPct)
	fmt.Printf("   Max Drawdown:            %9.2f%%\n", r.MaxDrawdownPct)
	fmt.Printf("   Profit Factor:           %15.2f\n", r.ProfitFactor)

	fmt.Println()
	fmt.Println(strings.Repeat("=", 70))
	switch {
	case r.TotalTrades == 0:
		fmt.Println("[WARNING] No trades generated in backtest period")
	case r.WinRate > 0.5:
		fmt.Println("[OK] Positive win rate - Strategy shows promise")
	default:
		fmt.Println("[WARNING] Low win rate - Strategy may need refinement")
	}
}

func rsiLabel(rsi float64) string {
	switch {
	case rsi > 70:
		return "(Overbought)"
	case rsi < 30:
		return "(Oversold)"
	default:
		return "(Neutral)"
	}
}
