package vectorizer

import "math"

// Vector is a sparse document vector over a fitted vocabulary. Indices are
// strictly increasing and every stored value is positive.
type Vector struct {
	Dim     int
	Indices []int
	Values  []float64
}

// NNZ returns the number of stored entries.
func (v Vector) NNZ() int {
	return len(v.Indices)
}

// IsZero reports whether the vector has no non-zero entries.
func (v Vector) IsZero() bool {
	return len(v.Indices) == 0
}

// At returns the weight stored at index i, or zero.
func (v Vector) At(i int) float64 {
	lo, hi := 0, len(v.Indices)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		switch {
		case v.Indices[mid] == i:
			return v.Values[mid]
		case v.Indices[mid] < i:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return 0
}

// Dense expands the vector to a slice of length Dim.
func (v Vector) Dense() []float64 {
	out := make([]float64, v.Dim)
	for k, i := range v.Indices {
		out[i] = v.Values[k]
	}
	return out
}

// Norm returns the euclidean length of the vector.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}
