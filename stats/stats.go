// Package stats summarizes search timings and placement counts.
package stats

import "math"

const Epsilon = 1e-6

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Running keeps a running mean and variance without storing the samples,
// using Welford's update.
type Running struct {
	n    int
	mean float64
	m2   float64
}

func (r *Running) Push(val float64) {
	r.n++
	delta := val - r.mean
	r.mean += delta / float64(r.n)
	r.m2 += delta * (val - r.mean)
}

func (r *Running) Mean() float64 {
	return r.mean
}

// Variance is the sample variance; it is 0 until two values are pushed.
func (r *Running) Variance() float64 {
	if r.n < 2 {
		return 0
	}
	return r.m2 / float64(r.n-1)
}

func (r *Running) Stdev() float64 {
	return math.Sqrt(r.Variance())
}

func (r *Running) StandardError() float64 {
	if r.n == 0 {
		return 0
	}
	return math.Sqrt(r.Variance() / float64(r.n))
}

func (r *Running) N() int {
	return r.n
}
