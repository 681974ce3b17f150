package spline

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/neurosense-data/chanrepair/internal/sensor"
)

// ErrNoSources is returned when an interpolation matrix is requested with
// no source positions: the kernel system would be empty and its
// pseudo-inverse degenerate.
var ErrNoSources = errors.New("no source positions to interpolate from")

// Matrices holds the artifacts of one spline build.
type Matrices struct {
	// Interpolation maps source-channel samples to target-channel
	// estimates; shape is len(posTo) x len(posFrom).
	Interpolation *mat.Dense
	// GradientKernel is the derivative kernel H evaluated at the
	// target-source angles. The potential interpolation path does not
	// consume it; it is exposed for current-density extensions.
	GradientKernel *mat.Dense
}

// Build computes the spherical-spline interpolation matrix from posFrom to
// posTo. Inputs are copied and normalised to the unit sphere; the caller's
// slices are never modified. The matrix is a pure function of the two
// position sets and the params.
//
// The fitted surface is the Perrin formulation c0 + sum_i c_i g(cos) with
// the zero-sum constraint on the c_i, so the kernel system is augmented by
// the constant term. Every row of the returned matrix sums to one and a
// spatially constant field passes through unchanged.
func Build(posFrom, posTo []r3.Vec, p Params) (*mat.Dense, error) {
	ms, err := BuildMatrices(posFrom, posTo, p)
	if err != nil {
		return nil, err
	}
	return ms.Interpolation, nil
}

// BuildMatrices is Build plus the unused-by-default gradient kernel.
func BuildMatrices(posFrom, posTo []r3.Vec, p Params) (*Matrices, error) {
	if len(posFrom) == 0 {
		return nil, ErrNoSources
	}

	from, err := sensor.Normalize(posFrom)
	if err != nil {
		return nil, fmt.Errorf("source positions: %w", err)
	}
	to, err := sensor.Normalize(posTo)
	if err != nil {
		return nil, fmt.Errorf("target positions: %w", err)
	}

	cosFrom := sensor.CosineAngles(from, from)
	cosToFrom := sensor.CosineAngles(to, from)

	gFrom := KernelG(cosFrom, p)
	gToFrom := KernelG(cosToFrom, p)
	hToFrom := KernelH(cosToFrom, p)

	n := len(from)
	if p.Alpha != 0 {
		for i := 0; i < n; i++ {
			gFrom.Set(i, i, gFrom.At(i, i)+p.Alpha)
		}
	}

	// Augmented system [[G, 1], [1^T, 0]]: the extra row and column carry
	// the constant term c0 and the zero-sum constraint on the weights.
	sys := mat.NewDense(n+1, n+1, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sys.Set(i, j, gFrom.At(i, j))
		}
		sys.Set(i, n, 1)
		sys.Set(n, i, 1)
	}

	inv, err := pseudoInverse(sys)
	if err != nil {
		return nil, fmt.Errorf("invert source kernel: %w", err)
	}

	// Target-side kernel [G_to_from, 1]; only the first n columns of the
	// inverse matter since the constraint row of the data vector is zero.
	gAug := mat.NewDense(len(to), n+1, nil)
	for i := 0; i < len(to); i++ {
		for j := 0; j < n; j++ {
			gAug.Set(i, j, gToFrom.At(i, j))
		}
		gAug.Set(i, n, 1)
	}

	var full mat.Dense
	full.Mul(gAug, inv)
	interp := mat.DenseCopyOf(full.Slice(0, len(to), 0, n))
	return &Matrices{Interpolation: interp, GradientKernel: hToFrom}, nil
}
