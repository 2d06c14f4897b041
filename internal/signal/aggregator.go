// Package signal composes indicator, level, and pattern verdicts into a
// single primary trading signal with confidence, entry, stop, and target.
package signal

import (
	"fmt"
	"sort"
	"strings"

	"cryptoedge-mcp/internal/model"
	"cryptoedge-mcp/internal/pattern"
)

const buyThreshold = 0.6
const sellThreshold = 0.6
const holdConfidence = 0.5

const proximityPct = 0.02

const stopBelowSupport = 0.98
const stopNoSupport = 0.95
const targetAboveResistance = 0.98
const targetNoResistance = 1.10

const stopAboveResistance = 1.02
const stopNoResistance = 1.05
const targetBelowSupport = 1.02
const targetNoSupport = 0.90

// Aggregate composes the composite indicator verdict, the patterns (filtered
// here by the risk level's confidence threshold; a Doji counts as Hold), and
// the level list into a Signal for the given current price.
func Aggregate(current float64, composite model.Verdict, patterns []model.ChartPattern, levels []model.Level, risk model.RiskLevel) model.Signal {
	qualifying := pattern.FilterByConfidence(patterns, risk.Threshold())

	nearestSupport, hasSupport := nearestBelow(levels, current, model.LevelSupport)
	nearestResistance, hasResistance := nearestAbove(levels, current, model.LevelResistance)

	levelVerdict := levelProximityVerdict(current, nearestSupport, hasSupport, nearestResistance, hasResistance)

	bag := []model.ContributorVerdict{{Source: "composite_indicators", Verdict: composite}, {Source: "level_proximity", Verdict: levelVerdict}}
	for _, p := range qualifying {
		v := model.Sell
		if p.Bullish {
			v = model.Buy
		}
		if p.Kind == model.PatternDoji {
			v = model.Hold
		}
		bag = append(bag, model.ContributorVerdict{Source: string(p.Kind), Verdict: v})
	}

	total := len(bag)
	buys, sells := 0, 0
	for _, c := range bag {
		if c.Verdict.IsBuy() {
			buys++
		} else if c.Verdict.IsSell() {
			sells++
		}
	}

	var primary model.Verdict
	var confidence float64
	buyRatio := float64(buys) / float64(total)
	sellRatio := float64(sells) / float64(total)
	switch {
	case buyRatio >= buyThreshold:
		primary, confidence = model.Buy, buyRatio
	case sellRatio >= sellThreshold:
		primary, confidence = model.Sell, sellRatio
	default:
		primary, confidence = model.Hold, holdConfidence
	}

	var stop, target *float64
	switch primary {
	case model.Buy:
		stop = ptr(stopFor(nearestSupport, hasSupport, current*stopNoSupport, stopBelowSupport))
		target = ptr(targetFor(nearestResistance, hasResistance, current*targetNoResistance, targetAboveResistance))
	case model.Sell:
		stop = ptr(stopFor(nearestResistance, hasResistance, current*stopNoResistance, stopAboveResistance))
		target = ptr(targetFor(nearestSupport, hasSupport, current*targetNoSupport, targetBelowSupport))
	}

	return model.Signal{
		Primary:    primary,
		Confidence: confidence,
		Entry:      current,
		Stop:       stop,
		TakeProfit: target,
		Reasoning:  rationale(primary, composite, qualifying, levelVerdict, nearestSupport, hasSupport, nearestResistance, hasResistance, current),
		Breakdown:  bag,
	}
}

func stopFor(level float64, has bool, fallback, factor float64) float64 {
	if has {
		return level * factor
	}
	return fallback
}

func targetFor(level float64, has bool, fallback, factor float64) float64 {
	if has {
		return level * factor
	}
	return fallback
}

func ptr(f float64) *float64 { return &f }

func levelProximityVerdict(current, support float64, hasSupport bool, resistance float64, hasResistance bool) model.Verdict {
	if hasSupport && pctDiff(current, support) <= proximityPct {
		return model.Buy
	}
	if hasResistance && pctDiff(current, resistance) <= proximityPct {
		return model.Sell
	}
	return model.Hold
}

func nearestBelow(levels []model.Level, current float64, kind model.LevelKind) (float64, bool) {
	best, found := 0.0, false
	for _, l := range levels {
		if l.Kind != kind || l.Price > current {
			continue
		}
		if !found || l.Price > best {
			best, found = l.Price, true
		}
	}
	return best, found
}

func nearestAbove(levels []model.Level, current float64, kind model.LevelKind) (float64, bool) {
	best, found := 0.0, false
	for _, l := range levels {
		if l.Kind != kind || l.Price < current {
			continue
		}
		if !found || l.Price < best {
			best, found = l.Price, true
		}
	}
	return best, found
}

func pctDiff(a, b float64) float64 {
	if a == 0 {
		return 0
	}
	d := a - b
	if d < 0 {
		d = -d
	}
	return d / a
}

func rationale(primary, composite model.Verdict, patterns []model.ChartPattern, levelVerdict model.Verdict, support float64, hasSupport bool, resistance float64, hasResistance bool, current float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: composite indicators read %s.", primary, composite)
	if hasSupport && pctDiff(current, support) <= proximityPct {
		fmt.Fprintf(&b, " Price is within %.0f%% of support at %.4f.", proximityPct*100, support)
	}
	if hasResistance && pctDiff(current, resistance) <= proximityPct {
		fmt.Fprintf(&b, " Price is within %.0f%% of resistance at %.4f.", proximityPct*100, resistance)
	}
	if levelVerdict == model.Hold && (hasSupport || hasResistance) {
		b.WriteString(" Price is not near a tracked level.")
	}
	if len(patterns) > 0 {
		names := make([]string, 0, len(patterns))
		for _, p := range patterns {
			names = append(names, string(p.Kind))
		}
		sort.Strings(names)
		fmt.Fprintf(&b, " Qualifying patterns: %s.", strings.Join(names, ", "))
	}
	return b.String()
}
