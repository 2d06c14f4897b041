package handler

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"cryptoedge-mcp/internal/model"
)

func parseTimeframeArg(args map[string]interface{}) (model.Timeframe, error) {
	s, err := stringArg(args, "timeframe", "")
	if err != nil {
		return "", err
	}
	return model.ParseTimeframe(s)
}

func parseRiskArg(args map[string]interface{}) (model.RiskLevel, error) {
	s, err := stringArg(args, "risk_level", "")
	if err != nil {
		return "", err
	}
	return model.ParseRiskLevel(s), nil
}

func logRecorderFailure(tool string, err error) {
	log.Printf("[WARN] audit recorder failed for %s: %v", tool, err)
}

// summarize assembles the get_full_analysis summary text: RSI regime,
// detected pattern kinds, and proximity to a level within 3%, per §4.5's
// rationale rule.
func summarize(symbol string, tf model.Timeframe, sig model.Signal, bundle analysisBundle) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s): %s at %.2f%% confidence.", symbol, tf, sig.Primary, sig.Confidence*100)

	if rsi, ok := bundle.latest["rsi"]; ok {
		switch {
		case rsi.Value >= 70:
			fmt.Fprintf(&b, " RSI overbought at %.1f.", rsi.Value)
		case rsi.Value <= 30:
			fmt.Fprintf(&b, " RSI oversold at %.1f.", rsi.Value)
		}
	}

	if len(bundle.patterns) > 0 {
		kinds := make([]string, 0, len(bundle.patterns))
		seen := map[string]bool{}
		for _, p := range bundle.patterns {
			if !seen[string(p.Kind)] {
				seen[string(p.Kind)] = true
				kinds = append(kinds, string(p.Kind))
			}
		}
		sort.Strings(kinds)
		fmt.Fprintf(&b, " Patterns detected: %s.", strings.Join(kinds, ", "))
	}

	for _, l := range bundle.levels.Levels {
		if withinPct(bundle.current, l.Price, 0.03) {
			fmt.Fprintf(&b, " Price is within 3%% of a %s level at %.4f.", strings.ToLower(string(l.Kind)), l.Price)
			break
		}
	}

	fmt.Fprintf(&b, " 24h volume: $%s.", humanize.Commaf(bundle.volume24h))
	return b.String()
}

func withinPct(a, b, pct float64) bool {
	if a == 0 {
		return false
	}
	d := a - b
	if d < 0 {
		d = -d
	}
	return d/a <= pct
}

// recommend turns the primary verdict and contributing breakdown into a
// short list of actionable, human-readable recommendations.
func recommend(sig model.Signal, bundle analysisBundle) []string {
	var out []string
	switch sig.Primary {
	case model.Buy, model.StrongBuy:
		out = append(out, fmt.Sprintf("Consider a long entry near %.4f.", sig.Entry))
		if sig.Stop != nil {
			out = append(out, fmt.Sprintf("Place a stop near %.4f.", *sig.Stop))
		}
		if sig.TakeProfit != nil {
			out = append(out, fmt.Sprintf("Target take-profit near %.4f.", *sig.TakeProfit))
		}
	case model.Sell, model.StrongSell:
		out = append(out, fmt.Sprintf("Consider a short entry near %.4f.", sig.Entry))
		if sig.Stop != nil {
			out = append(out, fmt.Sprintf("Place a stop near %.4f.", *sig.Stop))
		}
		if sig.TakeProfit != nil {
			out = append(out, fmt.Sprintf("Target take-profit near %.4f.", *sig.TakeProfit))
		}
	default:
		out = append(out, "No directional edge; consider waiting for confirmation.")
	}
	return out
}
