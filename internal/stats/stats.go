// Package stats implements the two-proportion hypothesis test used to judge
// whether an experiment's test variant outperforms its control. All functions
// are pure; persistence and aggregation live in the services layer.
package stats

import "math"

// ConversionRate returns conversions/total, or 0 for an empty sample.
func ConversionRate(conversions, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(conversions) / float64(total)
}

// StandardError returns the standard error of a proportion p observed over a
// sample of size n: sqrt(p(1-p)/n). Zero for an empty sample.
func StandardError(p float64, n int64) float64 {
	if n <= 0 {
		return 0
	}
	return math.Sqrt(p * (1 - p) / float64(n))
}

// ZScore is the two-sample z statistic for the difference of proportions,
// using the observed standard errors of each arm (not a pooled estimate).
// Unstable for extreme or zero proportions; callers get 0 when the combined
// standard error vanishes.
func ZScore(p1, p2, se1, se2 float64) float64 {
	seCombined := math.Sqrt(se1*se1 + se2*se2)
	if seCombined <= 0 {
		return 0
	}
	return (p1 - p2) / seCombined
}

// PValue is the two-tailed p-value for a z statistic: 2(1-Phi(|z|)).
func PValue(z float64) float64 {
	return 2 * (1 - normalCDF(math.Abs(z)))
}

// ConfidenceInterval returns the [0,1]-clamped interval p +/- z*se. The
// critical value is 1.96 for a 0.95 level and 2.576 for every other level,
// exactly as historical results were computed.
func ConfidenceInterval(p, se, level float64) (lower, upper float64) {
	zCritical := 2.576
	if level == 0.95 {
		zCritical = 1.96
	}
	margin := zCritical * se
	lower = math.Max(0, p-margin)
	upper = math.Min(1, p+margin)
	return lower, upper
}

// IsSignificant applies the decision rule pValue < 1-level.
func IsSignificant(pValue, level float64) bool {
	return pValue < (1 - level)
}

// normalCDF approximates the standard normal CDF via erfApprox.
func normalCDF(z float64) float64 {
	return 0.5 * (1 + erfApprox(z/math.Sqrt2))
}

// erfApprox is the Abramowitz-Stegun 7.1.26 polynomial approximation of the
// error function. The coefficients must not change: persisted p-values were
// produced with exactly these constants and recomputation has to agree.
func erfApprox(x float64) float64 {
	const (
		a1 = 0.254829592
		a2 = -0.284496736
		a3 = 1.421413741
		a4 = -1.453152027
		a5 = 1.061405429
		p  = 0.3275911
	)

	sign := 1.0
	if x < 0 {
		sign = -1.0
	}
	x = math.Abs(x)

	t := 1.0 / (1.0 + p*x)
	y := 1.0 - (((((a5*t+a4)*t)+a3)*t+a2)*t+a1)*t*math.Exp(-x*x)

	return sign * y
}
