package signal

import "fmt"

// evalContext carries everything a rule predicate may look at: the latest
// bar's indicators plus the forecast summary.
type evalContext struct {
	Close         float64
	MA7           float64
	MA14          float64
	MA30          float64
	ATR           float64
	Momentum      float64
	RSI           float64
	NearTerm      float64 // forecast price at the near-term point
	LocalMin      float64 // minimum of the forecast window
	LocalMax      float64 // maximum of the forecast window
	TrendUp       bool    // NearTerm > Close
	DistMin       float64 // |Close - LocalMin| / LocalMin
	DistMax       float64 // |Close - LocalMax| / LocalMax
	MomStrong     float64 // momentum threshold for the full tier
	RSIOversold   float64
	RSIOverbought float64
}

// tier is one scoring band of a rule. Tiers are ordered strongest first;
// the first match wins and the rest are skipped.
type tier struct {
	points float64
	match  func(evalContext) bool
	detail func(evalContext) string
}

// rule is one independent condition of a side's rule set. Only a match
// on the first (full) tier counts as a met condition; lower tiers add
// points and a detail line but never gate the signal.
type rule struct {
	name  string
	tiers []tier
}

func buyRules() []rule {
	return []rule{
		{
			name: "momentum",
			tiers: []tier{
				{16, func(e evalContext) bool { return e.Momentum > e.MomStrong },
					func(e evalContext) string { return fmt.Sprintf("strong momentum %.2f", e.Momentum) }},
				{8, func(e evalContext) bool { return e.Momentum > 0 },
					func(e evalContext) string { return fmt.Sprintf("positive momentum %.2f", e.Momentum) }},
			},
		},
		{
			name: "rsi_oversold",
			tiers: []tier{
				{22, func(e evalContext) bool { return e.RSI < e.RSIOversold },
					func(e evalContext) string { return fmt.Sprintf("RSI oversold %.1f", e.RSI) }},
			},
		},
		{
			name: "ma_alignment",
			tiers: []tier{
				{18, func(e evalContext) bool { return e.MA7 > e.MA14 && e.MA14 > e.MA30 },
					func(evalContext) string { return "golden cross MA7>MA14>MA30" }},
				{12, func(e evalContext) bool { return e.MA7 > e.MA14 },
					func(evalContext) string { return "bullish crossover MA7>MA14" }},
			},
		},
		{
			name: "near_local_min",
			tiers: []tier{
				{10, func(e evalContext) bool { return e.DistMin < 0.05 },
					func(evalContext) string { return "close within 5% of forecast minimum" }},
				{8, func(e evalContext) bool { return e.DistMin < 0.10 },
					func(evalContext) string { return "close within 10% of forecast minimum" }},
				{8, func(e evalContext) bool { return e.DistMin < 0.15 },
					func(evalContext) string { return "close within 15% of forecast minimum" }},
			},
		},
	}
}

func sellRules() []rule {
	return []rule{
		{
			name: "bearish_forecast",
			tiers: []tier{
				{18, func(e evalContext) bool { return e.NearTerm < e.Close },
					func(evalContext) string { return "forecast trend is down" }},
			},
		},
		{
			name: "momentum",
			tiers: []tier{
				{16, func(e evalContext) bool { return e.Momentum < -e.MomStrong },
					func(e evalContext) string { return fmt.Sprintf("strong negative momentum %.2f", e.Momentum) }},
				{8, func(e evalContext) bool { return e.Momentum < 0 },
					func(e evalContext) string { return fmt.Sprintf("weakening momentum %.2f", e.Momentum) }},
			},
		},
		{
			name: "rsi_overbought",
			tiers: []tier{
				{22, func(e evalContext) bool { return e.RSI > e.RSIOverbought },
					func(e evalContext) string { return fmt.Sprintf("RSI overbought %.1f", e.RSI) }},
			},
		},
		{
			name: "ma_alignment",
			tiers: []tier{
				{18, func(e evalContext) bool { return e.MA7 < e.MA14 && e.MA14 < e.MA30 },
					func(evalContext) string { return "death cross MA7<MA14<MA30" }},
				{12, func(e evalContext) bool { return e.MA7 < e.MA14 },
					func(evalContext) string { return "bearish crossover MA7<MA14" }},
			},
		},
		{
			name: "near_local_max",
			tiers: []tier{
				{20, func(e evalContext) bool { return e.DistMax < 0.05 },
					func(evalContext) string { return "close within 5% of forecast maximum" }},
				{14, func(e evalContext) bool { return e.DistMax < 0.10 },
					func(evalContext) string { return "close within 10% of forecast maximum" }},
				{10, func(e evalContext) bool { return e.DistMax < 0.15 },
					func(evalContext) string { return "close within 15% of forecast maximum" }},
			},
		},
	}
}

// score evaluates a rule set. Each rule contributes at most one tier's
// points; conditions counts only the rules whose full tier fired.
func score(rules []rule, e evalContext) (points float64, conditions int, details []string) {
	for _, r := range rules {
		for i, t := range r.tiers {
			if t.match(e) {
				points += t.points
				if i == 0 {
					conditions++
				}
				details = append(details, t.detail(e))
				break
			}
		}
	}
	return points, conditions, details
}
