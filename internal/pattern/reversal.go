package pattern

import "cryptoedge-mcp/internal/model"

// headAndShoulders scans peaks (for standard H&S) or troughs (for inverse)
// for a three-pivot run where the middle is strictly more extreme than its
// neighbors, the two outer pivots are within Epsilon of each other, and
// >=2 opposite-sign pivots between them form a neckline.
func headAndShoulders(candles []model.Candle, pivots []model.PivotPoint, inverse bool) []model.ChartPattern {
	primary := Peaks(pivots)
	opposite := Troughs(pivots)
	if inverse {
		primary, opposite = Troughs(pivots), Peaks(pivots)
	}
	if len(primary) < 3 {
		return nil
	}

	var out []model.ChartPattern
	for i := 0; i+2 < len(primary); i++ {
		left, head, right := primary[i], primary[i+1], primary[i+2]

		moreExtreme := head.Price > left.Price && head.Price > right.Price
		if inverse {
			moreExtreme = head.Price < left.Price && head.Price < right.Price
		}
		if !moreExtreme {
			continue
		}
		shoulderDiff := pctDiff(left.Price, right.Price)
		if shoulderDiff > Epsilon {
			continue
		}

		var neckline []model.PivotPoint
		for _, o := range opposite {
			if o.Index > left.Index && o.Index < right.Index {
				neckline = append(neckline, o)
			}
		}
		if len(neckline) < 2 {
			continue
		}
		necklineLevel := meanPivotPrice(neckline)

		prominence := pctDiff(head.Price, (left.Price+right.Price)/2)
		if prominence > 0.1 {
			prominence = 0.1
		}
		necklineConsistency := neckConsistency(neckline, necklineLevel)

		confidence := 0.5 + (Epsilon-shoulderDiff)*10 + prominence*5 + necklineConsistency*5
		confidence = clamp01(confidence)

		height := head.Price - necklineLevel
		var target float64
		kind := model.PatternHeadAndShoulders
		if inverse {
			height = necklineLevel - head.Price
			target = necklineLevel + height
			kind = model.PatternInverseHeadAndShoulders
		} else {
			target = necklineLevel - height
		}
		stop := head.Price

		out = append(out, model.ChartPattern{
			Kind:        kind,
			Confidence:  confidence,
			Start:       left.Time,
			End:         right.Time,
			KeyPoints:   []model.PivotPoint{left, head, right},
			Description: describeHeadAndShoulders(inverse),
			Target:      &target,
			Stop:        &stop,
			Bullish:     kind.IsBullish(),
			Reversal:    kind.IsReversal(),
		})
	}
	return out
}

func describeHeadAndShoulders(inverse bool) string {
	if inverse {
		return "inverse head-and-shoulders: bullish reversal off a lower low between two higher troughs"
	}
	return "head-and-shoulders: bearish reversal off a higher high between two lower peaks"
}

func meanPivotPrice(pivots []model.PivotPoint) float64 {
	sum := 0.0
	for _, p := range pivots {
		sum += p.Price
	}
	return sum / float64(len(pivots))
}

// neckConsistency scores how tightly the neckline pivots cluster around
// their mean, on the same epsilon scale as the shoulder-difference term.
func neckConsistency(pivots []model.PivotPoint, level float64) float64 {
	var maxDev float64
	for _, p := range pivots {
		dev := pctDiff(level, p.Price)
		if dev > maxDev {
			maxDev = dev
		}
	}
	consistency := Epsilon - maxDev
	if consistency < 0 {
		return 0
	}
	return consistency
}

// doubleOrTripleExtreme scans for `count` (2 or 3) same-kind pivots within
// Epsilon of each other, with >= count-1 intermediate opposite-kind pivots.
func doubleOrTripleExtreme(pivots []model.PivotPoint, count int, top bool) []model.ChartPattern {
	primary := Peaks(pivots)
	opposite := Troughs(pivots)
	if !top {
		primary, opposite = Troughs(pivots), Peaks(pivots)
	}
	if len(primary) < count {
		return nil
	}

	var out []model.ChartPattern
	for i := 0; i+count-1 < len(primary); i++ {
		group := primary[i : i+count]
		if !allWithinEpsilon(group) {
			continue
		}
		var intermediate []model.PivotPoint
		for _, o := range opposite {
			if o.Index > group[0].Index && o.Index < group[count-1].Index {
				intermediate = append(intermediate, o)
			}
		}
		if len(intermediate) < count-1 {
			continue
		}

		level := meanPivotPrice(group)
		variance := maxVariance(group, level)
		depth := pctDiff(level, meanPivotPrice(intermediate))
		if depth > 0.15 {
			depth = 0.15
		}

		confidence := clamp01(0.5 + (Epsilon-variance)*15 + depth*5)

		var breakoutPrice float64
		if len(intermediate) > 0 {
			breakoutPrice = intermediate[len(intermediate)-1].Price
		} else {
			breakoutPrice = level
		}
		height := pctDiff(level, breakoutPrice) * level

		var target float64
		var kind model.PatternKind
		if top {
			target = breakoutPrice - height
			kind = tripleOrDoubleKind(count, true)
		} else {
			target = breakoutPrice + height
			kind = tripleOrDoubleKind(count, false)
		}
		stop := level

		out = append(out, model.ChartPattern{
			Kind:        kind,
			Confidence:  confidence,
			Start:       group[0].Time,
			End:         group[count-1].Time,
			KeyPoints:   append(append([]model.PivotPoint{}, group...), intermediate...),
			Description: describeDoubleTriple(kind),
			Target:      &target,
			Stop:        &stop,
			Bullish:     kind.IsBullish(),
			Reversal:    kind.IsReversal(),
		})
	}
	return out
}

func tripleOrDoubleKind(count int, top bool) model.PatternKind {
	switch {
	case count == 2 && top:
		return model.PatternDoubleTop
	case count == 2 && !top:
		return model.PatternDoubleBottom
	case count == 3 && top:
		return model.PatternTripleTop
	default:
		return model.PatternTripleBottom
	}
}

func describeDoubleTriple(kind model.PatternKind) string {
	switch kind {
	case model.PatternDoubleTop:
		return "double top: two peaks near the same level, bearish reversal"
	case model.PatternDoubleBottom:
		return "double bottom: two troughs near the same level, bullish reversal"
	case model.PatternTripleTop:
		return "triple top: three peaks near the same level, bearish reversal"
	default:
		return "triple bottom: three troughs near the same level, bullish reversal"
	}
}

func allWithinEpsilon(pivots []model.PivotPoint) bool {
	level := meanPivotPrice(pivots)
	for _, p := range pivots {
		if pctDiff(level, p.Price) > Epsilon {
			return false
		}
	}
	return true
}

func maxVariance(pivots []model.PivotPoint, level float64) float64 {
	var maxDev float64
	for _, p := range pivots {
		dev := pctDiff(level, p.Price)
		if dev > maxDev {
			maxDev = dev
		}
	}
	return maxDev
}

// Reversal detects head-and-shoulders (and inverse) plus double/triple
// top/bottom patterns.
func Reversal(candles []model.Candle, pivots []model.PivotPoint) []model.ChartPattern {
	var out []model.ChartPattern
	out = append(out, headAndShoulders(candles, pivots, false)...)
	out = append(out, headAndShoulders(candles, pivots, true)...)
	out = append(out, doubleOrTripleExtreme(pivots, 2, true)...)
	out = append(out, doubleOrTripleExtreme(pivots, 2, false)...)
	out = append(out, doubleOrTripleExtreme(pivots, 3, true)...)
	out = append(out, doubleOrTripleExtreme(pivots, 3, false)...)
	return out
}
