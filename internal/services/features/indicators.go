package features

import (
	"math"

	"SolSignal/internal/domain/models"
)

// Indicator windows. These match the dashboard's column names
// (MA7/MA14/MA30, Volatility over 14 returns, 14-day ATR and RSI,
// 10-day momentum), so changing one here changes the product.
const (
	maShort = 7
	maMid   = 14
	maLong  = 30
	volWin  = 14
	atrWin  = 14
	momWin  = 10
	rsiWin  = 14
)

// Enrich computes all indicator columns over raw OHLCV bars and returns a
// new slice. Rows inside an indicator's warm-up window keep NaN for that
// field. Input order (date ascending) is preserved.
func Enrich(bars []models.PriceBar) []models.PriceBar {
	n := len(bars)
	out := make([]models.PriceBar, n)
	copy(out, bars)

	nan := math.NaN()
	for i := range out {
		out[i].MA7 = nan
		out[i].MA14 = nan
		out[i].MA30 = nan
		out[i].Volatility14 = nan
		out[i].ATR = nan
		out[i].Momentum10 = nan
		out[i].RSI14 = nan
		out[i].DailyReturn = nan
	}
	if n == 0 {
		return out
	}

	// Daily returns
	returns := make([]float64, n)
	returns[0] = nan
	for i := 1; i < n; i++ {
		prev := bars[i-1].Close
		if prev == 0 {
			returns[i] = nan
		} else {
			returns[i] = (bars[i].Close - prev) / prev
		}
		out[i].DailyReturn = returns[i]
	}

	for i := 0; i < n; i++ {
		if i+1 >= maShort {
			out[i].MA7 = meanClose(bars, i, maShort)
		}
		if i+1 >= maMid {
			out[i].MA14 = meanClose(bars, i, maMid)
		}
		if i+1 >= maLong {
			out[i].MA30 = meanClose(bars, i, maLong)
		}
		if i >= volWin {
			out[i].Volatility14 = stddev(returns[i-volWin+1 : i+1])
		}
		if i >= momWin {
			out[i].Momentum10 = bars[i].Close - bars[i-momWin].Close
		}
	}

	computeATR(bars, out)
	computeRSI(bars, out)
	return out
}

// Complete reports whether every indicator on the bar is defined.
// The first undefined indicator name is returned for error reporting.
func Complete(b models.PriceBar) (string, bool) {
	checks := []struct {
		name string
		v    float64
	}{
		{"ma7", b.MA7},
		{"ma14", b.MA14},
		{"ma30", b.MA30},
		{"volatility_14", b.Volatility14},
		{"atr", b.ATR},
		{"momentum_10", b.Momentum10},
		{"rsi_14", b.RSI14},
	}
	for _, c := range checks {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) {
			return c.name, false
		}
	}
	return "", true
}

func meanClose(bars []models.PriceBar, end, win int) float64 {
	sum := 0.0
	for i := end - win + 1; i <= end; i++ {
		sum += bars[i].Close
	}
	return sum / float64(win)
}

// stddev is the sample standard deviation; NaN inputs poison the window.
func stddev(xs []float64) float64 {
	n := float64(len(xs))
	if n < 2 {
		return math.NaN()
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	mean := sum / n
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / (n - 1))
}

// computeATR fills ATR as the rolling mean of the true range. The first
// bar's true range falls back to high-low since there is no prior close.
func computeATR(bars []models.PriceBar, out []models.PriceBar) {
	n := len(bars)
	tr := make([]float64, n)
	for i := 0; i < n; i++ {
		hl := bars[i].High - bars[i].Low
		if i == 0 {
			tr[i] = hl
			continue
		}
		hc := math.Abs(bars[i].High - bars[i-1].Close)
		lc := math.Abs(bars[i].Low - bars[i-1].Close)
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}
	for i := atrWin - 1; i < n; i++ {
		sum := 0.0
		for j := i - atrWin + 1; j <= i; j++ {
			sum += tr[j]
		}
		out[i].ATR = sum / float64(atrWin)
	}
}

// computeRSI fills RSI from simple rolling means of gains and losses.
func computeRSI(bars []models.PriceBar, out []models.PriceBar) {
	n := len(bars)
	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		d := bars[i].Close - bars[i-1].Close
		if d > 0 {
			gains[i] = d
		} else {
			losses[i] = -d
		}
	}
	// window starts at index 1 because delta[0] does not exist
	for i := rsiWin; i < n; i++ {
		var g, l float64
		for j := i - rsiWin + 1; j <= i; j++ {
			g += gains[j]
			l += losses[j]
		}
		g /= float64(rsiWin)
		l /= float64(rsiWin)
		switch {
		case l == 0 && g == 0:
			out[i].RSI14 = 50
		case l == 0:
			out[i].RSI14 = 100
		default:
			rs := g / l
			out[i].RSI14 = 100 - 100/(1+rs)
		}
	}
}
