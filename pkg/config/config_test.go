package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleYAML = `
environment: test
server:
  port: 9090
  read_timeout: 5s
  write_timeout: 5s
  shutdown_timeout: 5s
clickhouse:
  host: ch.local
  port: 9000
  database: solsignal
  bars_table: sol_daily_bars
kafka:
  brokers: ["k1:9092", "k2:9092"]
  signals_topic: solsignal.signals
market:
  symbol: SOLUSDT
  base_url: https://api.binance.com
  history_days: 400
forecast:
  service_url: http://prophet:8000
  horizon: 30
  cache_ttl: 30m
backtest:
  initial_capital: 5000
  position_size_pct: 0.9
  stop_loss_pct: 0.05
  take_profit_pct: 0.15
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("port = %d", cfg.Server.Port)
	}
	if cfg.ClickHouse.BarsTable != "sol_daily_bars" {
		t.Fatalf("bars table = %q", cfg.ClickHouse.BarsTable)
	}
	if len(cfg.Kafka.Brokers) != 2 {
		t.Fatalf("brokers = %v", cfg.Kafka.Brokers)
	}
	if cfg.Forecast.CacheTTL != 30*time.Minute {
		t.Fatalf("cache ttl = %v", cfg.Forecast.CacheTTL)
	}
	if cfg.Backtest.StopLossPct != 0.05 {
		t.Fatalf("stop loss = %v", cfg.Backtest.StopLossPct)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidateRejectsBadStop(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg.Backtest.StopLossPct = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for stop_loss_pct >= 1")
	}
}

func TestValidateRequiresSymbol(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg.Market.Symbol = ""
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for empty symbol")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("SYMBOL", "BTCUSDT")
	t.Setenv("KAFKA_BROKERS", "kafka-a:9092,kafka-b:9092")
	t.Setenv("FORECAST_SERVICE_URL", "http://other:8000")

	cfg, err := LoadWithEnv(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Market.Symbol != "BTCUSDT" {
		t.Fatalf("symbol = %q", cfg.Market.Symbol)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[0] != "kafka-a:9092" {
		t.Fatalf("brokers = %v", cfg.Kafka.Brokers)
	}
	if cfg.Forecast.ServiceURL != "http://other:8000" {
		t.Fatalf("forecast url = %q", cfg.Forecast.ServiceURL)
	}
}
