package domain

// FallbackRiskLevel resolves a risk level when the model did not supply a
// usable one:
//
//	confidence >= 70 and odds <= -110           -> Low
//	confidence >= 60 and -150 <= odds <= +150   -> Medium
//	otherwise                                   -> High
func FallbackRiskLevel(confidence, odds int) RiskLevel {
	switch {
	case confidence >= 70 && odds <= -110:
		return RiskLow
	case confidence >= 60 && odds >= -150 && odds <= 150:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// RiskDistribution is the target share of a pool per risk level, in percent.
// It is a prompt target only; pools are never rejected for missing it.
type RiskDistribution struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

func DefaultRiskDistribution() RiskDistribution {
	return RiskDistribution{Low: 35, Medium: 50, High: 15}
}

func (d RiskDistribution) Valid() bool {
	return d.Low >= 0 && d.Medium >= 0 && d.High >= 0 && d.Low+d.Medium+d.High == 100
}

func (d RiskDistribution) Percent(level RiskLevel) int {
	switch level {
	case RiskLow:
		return d.Low
	case RiskMedium:
		return d.Medium
	case RiskHigh:
		return d.High
	}
	return 0
}

// Counts splits n picks across levels using largest remainder, so the result
// always sums to n.
func (d RiskDistribution) Counts(n int) map[RiskLevel]int {
	out := make(map[RiskLevel]int, len(RiskLevels))
	if n <= 0 || !d.Valid() {
		for _, l := range RiskLevels {
			out[l] = 0
		}
		return out
	}

	assigned := 0
	remainders := make(map[RiskLevel]int, len(RiskLevels))
	for _, l := range RiskLevels {
		exact := n * d.Percent(l)
		out[l] = exact / 100
		remainders[l] = exact % 100
		assigned += out[l]
	}

	for assigned < n {
		best := RiskLevels[0]
		for _, l := range RiskLevels[1:] {
			if remainders[l] > remainders[best] {
				best = l
			}
		}
		out[best]++
		remainders[best] = -1
		assigned++
	}

	return out
}
