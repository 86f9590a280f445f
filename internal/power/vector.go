package power

import "math"

// Vector is a probability vector; index i holds the mass of vertex i+1.
type Vector []float64

// Uniform returns a vector of n entries equal to 1/n.
func Uniform(n int) Vector {
	v := make(Vector, n)
	if n == 0 {
		return v
	}
	p := 1 / float64(n)
	for i := range v {
		v[i] = p
	}
	return v
}

// Sum returns the total mass of v.
func (v Vector) Sum() float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s
}

// MaxAbsDiff returns max_i |v[i] - o[i]|. Both vectors must have the
// same length.
func (v Vector) MaxAbsDiff(o Vector) float64 {
	var d float64
	for i := range v {
		if delta := math.Abs(v[i] - o[i]); delta > d {
			d = delta
		}
	}
	return d
}

// Clone returns a copy of v.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}
