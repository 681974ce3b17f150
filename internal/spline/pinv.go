package spline

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// pseudoInverse computes the Moore-Penrose pseudo-inverse of a via thin
// SVD, zeroing singular values below eps * max(rows, cols) * s_max. This
// tolerates the exactly and nearly singular kernel matrices that arise
// from clustered or near-coplanar sensors.
func pseudoInverse(a mat.Matrix) (*mat.Dense, error) {
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, errors.New("svd factorization failed")
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	s := svd.Values(nil)

	r, c := a.Dims()
	tol := 0.0
	if len(s) > 0 {
		tol = float64(max(r, c)) * machineEps * s[0]
	}

	// Scale the columns of V by the reciprocal singular values, dropping
	// components below the cutoff.
	vr, vc := v.Dims()
	scaled := mat.NewDense(vr, vc, nil)
	for j := 0; j < vc; j++ {
		if s[j] <= tol {
			continue
		}
		inv := 1 / s[j]
		for i := 0; i < vr; i++ {
			scaled.Set(i, j, v.At(i, j)*inv)
		}
	}

	var pinv mat.Dense
	pinv.Mul(scaled, u.T())
	return &pinv, nil
}

var machineEps = math.Nextafter(1, 2) - 1
