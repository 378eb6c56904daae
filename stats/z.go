package stats

import "gonum.org/v1/gonum/stat/distuv"

// ZVal returns the two-tailed z-value for a confidence level given in
// percent, e.g. 1.96 for 95.
func ZVal(confidence float64) float64 {
	return distuv.UnitNormal.Quantile((1 + confidence/100) / 2)
}

// MarginOfError is the half-width of the confidence interval around the
// running mean.
func (r *Running) MarginOfError(confidence float64) float64 {
	return ZVal(confidence) * r.StandardError()
}
