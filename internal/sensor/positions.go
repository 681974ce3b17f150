// Package sensor provides sensor-geometry primitives for channel
// interpolation: position normalisation, pairwise cosine-angle matrices,
// and sphere-fit quality checks.
package sensor

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrZeroNormPosition is returned when a sensor position cannot be
// projected onto the unit sphere because its norm is zero.
var ErrZeroNormPosition = errors.New("sensor position has zero norm")

// Normalize returns a copy of pos with every position scaled to unit
// length. The input slice is never modified.
func Normalize(pos []r3.Vec) ([]r3.Vec, error) {
	out := make([]r3.Vec, len(pos))
	for i, p := range pos {
		n := r3.Norm(p)
		if n == 0 {
			return nil, fmt.Errorf("position %d: %w", i, ErrZeroNormPosition)
		}
		out[i] = r3.Scale(1/n, p)
	}
	return out, nil
}

// CosineAngles returns the len(a) x len(b) matrix of dot products between
// positions in a and b. For unit vectors each entry is the cosine of the
// angle between the two sensors as seen from the sphere centre.
func CosineAngles(a, b []r3.Vec) *mat.Dense {
	m := mat.NewDense(len(a), len(b), nil)
	for i, p := range a {
		for j, q := range b {
			m.Set(i, j, r3.Dot(p, q))
		}
	}
	return m
}
