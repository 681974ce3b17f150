package sensor

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// FitTolerance is the maximum deviation of the mean distance/radius ratio
// from 1 before a sphere fit is considered poor.
const FitTolerance = 0.1

// ErrTooFewPositions is returned when a sphere fit is requested with fewer
// than four positions.
var ErrTooFewPositions = errors.New("sphere fit needs at least 4 positions")

// FitSphere computes the least-squares sphere through the given positions
// using the algebraic formulation: each point contributes one row of the
// linear system
//
//	2x*cx + 2y*cy + 2z*cz + d = x^2 + y^2 + z^2
//
// with d = r^2 - |c|^2. The system is solved by QR decomposition.
func FitSphere(pos []r3.Vec) (center r3.Vec, radius float64, err error) {
	if len(pos) < 4 {
		return r3.Vec{}, 0, ErrTooFewPositions
	}

	a := mat.NewDense(len(pos), 4, nil)
	b := mat.NewVecDense(len(pos), nil)
	for i, p := range pos {
		a.SetRow(i, []float64{2 * p.X, 2 * p.Y, 2 * p.Z, 1})
		b.SetVec(i, p.X*p.X+p.Y*p.Y+p.Z*p.Z)
	}

	var qr mat.QR
	qr.Factorize(a)
	var w mat.VecDense
	if err := qr.SolveVecTo(&w, false, b); err != nil {
		return r3.Vec{}, 0, fmt.Errorf("sphere fit is degenerate: %w", err)
	}

	center = r3.Vec{X: w.AtVec(0), Y: w.AtVec(1), Z: w.AtVec(2)}
	r2 := w.AtVec(3) + r3.Norm2(center)
	if r2 <= 0 {
		return r3.Vec{}, 0, errors.New("sphere fit produced non-positive radius")
	}
	return center, math.Sqrt(r2), nil
}

// FitDeviation reports how far the positions sit from the fitted sphere:
// the absolute deviation of mean(|p - center| / radius) from 1. A value
// above FitTolerance means the interpolation geometry is unreliable.
func FitDeviation(pos []r3.Vec, center r3.Vec, radius float64) float64 {
	if len(pos) == 0 || radius == 0 {
		return math.Inf(1)
	}
	var sum float64
	for _, p := range pos {
		sum += r3.Norm(r3.Sub(p, center)) / radius
	}
	return math.Abs(1 - sum/float64(len(pos)))
}
