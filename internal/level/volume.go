package level

import (
	"sort"
	"time"

	"cryptoedge-mcp/internal/model"
)

const volumeBins = 50
const volumeTopBins = 10

type bin struct {
	volume  float64
	touches int
	center  float64
	last    time.Time
}

// VolumeProfile buckets the candle series' price range into 50 equal-width
// bins by typical price, keeps the top 10 by accumulated volume, and
// derives a level at each bin's center that has >=2 touches.
func VolumeProfile(candles []model.Candle, current float64, now time.Time) []model.Level {
	if len(candles) == 0 {
		return nil
	}
	lo, hi := candles[0].Low, candles[0].High
	for _, c := range candles {
		if c.Low < lo {
			lo = c.Low
		}
		if c.High > hi {
			hi = c.High
		}
	}
	if hi <= lo {
		return nil
	}
	width := (hi - lo) / float64(volumeBins)

	bins := make([]bin, volumeBins)
	for i := range bins {
		bins[i].center = lo + width*(float64(i)+0.5)
	}
	for _, c := range candles {
		tp := c.TypicalPrice()
		idx := int((tp - lo) / width)
		if idx < 0 {
			idx = 0
		}
		if idx >= volumeBins {
			idx = volumeBins - 1
		}
		bins[idx].volume += c.Volume
		bins[idx].touches++
		if c.Time.After(bins[idx].last) {
			bins[idx].last = c.Time
		}
	}

	totalVolume := 0.0
	for _, b := range bins {
		totalVolume += b.volume
	}
	if totalVolume == 0 {
		return nil
	}

	ranked := append([]bin{}, bins...)
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].volume > ranked[j].volume })
	if len(ranked) > volumeTopBins {
		ranked = ranked[:volumeTopBins]
	}

	var out []model.Level
	for _, b := range ranked {
		if b.touches < 2 {
			continue
		}
		share := b.volume / totalVolume
		strength := 10 * share
		if strength > 1 {
			strength = 1
		}
		kind := model.LevelSupport
		if b.center > current {
			kind = model.LevelResistance
		}
		out = append(out, model.Level{
			Price:     b.center,
			Strength:  strength,
			Kind:      kind,
			Touches:   b.touches,
			LastTouch: b.last,
			Active:    isActive(b.center, current),
		})
	}
	return out
}
