package indicator

import "cryptoedge-mcp/internal/model"

// Composite blends a set of IndicatorValues' verdicts into a single score:
// score = Σ numeric(verdict) / N. score >= +0.5 → Buy; <= -0.5 → Sell; else
// Hold. Confidence = min(|score|/2, 1).
func Composite(values []model.IndicatorValue) (model.Verdict, float64) {
	if len(values) == 0 {
		return model.Hold, 0
	}
	sum := 0
	for _, v := range values {
		sum += v.Verdict.Numeric()
	}
	score := float64(sum) / float64(len(values))

	verdict := model.Hold
	switch {
	case score >= 0.5:
		verdict = model.Buy
	case score <= -0.5:
		verdict = model.Sell
	}

	confidence := score
	if confidence < 0 {
		confidence = -confidence
	}
	confidence /= 2
	if confidence > 1 {
		confidence = 1
	}
	return verdict, confidence
}
