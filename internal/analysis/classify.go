package analysis

import (
	"fmt"
	"math"
)

const (
	LabelRFCurrent   = "RF Current"
	LabelLogicRail   = "5v Logic Rail"
	LabelBiasVoltage = "Bias Voltage"
)

// Rule labels a trace when Match accepts its mean value.
type Rule struct {
	Label string
	Match func(mean float64) bool
}

// labelRules are evaluated in order and the first match wins. The ranges overlap at 5.5 V
// and leave gaps; the order decides which label such a trace gets.
var labelRules = []Rule{
	{Label: LabelRFCurrent, Match: func(mean float64) bool { return math.Abs(mean) <= 0.2 }},
	{Label: LabelLogicRail, Match: func(mean float64) bool { return 4.5 <= mean && mean <= 5.5 }},
	{Label: LabelBiasVoltage, Match: func(mean float64) bool { return mean >= 5.5 }},
}

// Classify returns the label of the first rule matching mean, or "Trace {index}"
// (index is 1-based) when none does.
func Classify(mean float64, index int) string {
	for _, rule := range labelRules {
		if rule.Match(mean) {
			return rule.Label
		}
	}
	return fmt.Sprintf("Trace %d", index)
}
