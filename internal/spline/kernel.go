// Package spline builds spherical-spline interpolation matrices that map
// samples recorded at one set of sensor positions onto another set. The
// construction follows Perrin et al. (1989), "Spherical splines for scalp
// potential and current density mapping".
package spline

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Params control the spherical-spline kernel series and regularization.
type Params struct {
	// Stiffness is the exponent m of the kernel coefficient decay. Higher
	// values produce smoother, less locally sensitive surfaces.
	Stiffness int
	// NumTerms is the number of Legendre terms evaluated.
	NumTerms int
	// Alpha is the ridge term added to the diagonal of the source kernel
	// before inversion. Zero disables regularization.
	Alpha float64
}

// DefaultParams returns the parameters used for EEG interpolation.
func DefaultParams() Params {
	return Params{Stiffness: 4, NumTerms: 50, Alpha: 1e-5}
}

// kernelCoeffs returns the Legendre series coefficients
//
//	c[n] = (2n+1) / (n^m (n+1)^m 4*pi),  n = 1..terms
//
// with c[0] = 0: the series has no constant term.
func kernelCoeffs(stiffness float64, terms int) []float64 {
	c := make([]float64, terms+1)
	for n := 1; n <= terms; n++ {
		fn := float64(n)
		c[n] = (2*fn + 1) / (math.Pow(fn, stiffness) * math.Pow(fn+1, stiffness) * 4 * math.Pi)
	}
	return c
}

// legval evaluates the Legendre series with coefficients c at x using
// Clenshaw recurrence on the three-term Legendre relation.
func legval(x float64, c []float64) float64 {
	switch len(c) {
	case 0:
		return 0
	case 1:
		return c[0]
	case 2:
		return c[0] + c[1]*x
	}
	nd := float64(len(c))
	c0, c1 := c[len(c)-2], c[len(c)-1]
	for i := 3; i <= len(c); i++ {
		tmp := c0
		nd--
		c0 = c[len(c)-i] - c1*(nd-1)/nd
		c1 = tmp + c1*x*(2*nd-1)/nd
	}
	return c0 + c1*x
}

// KernelG evaluates the potential kernel on a cosine-angle matrix,
// returning a matrix of the same shape.
func KernelG(cosang mat.Matrix, p Params) *mat.Dense {
	return evalKernel(cosang, kernelCoeffs(float64(p.Stiffness), p.NumTerms))
}

// KernelH evaluates the derivative (current-density) kernel, which uses
// coefficient exponent m-1.
func KernelH(cosang mat.Matrix, p Params) *mat.Dense {
	return evalKernel(cosang, kernelCoeffs(float64(p.Stiffness)-1, p.NumTerms))
}

func evalKernel(cosang mat.Matrix, c []float64) *mat.Dense {
	var out mat.Dense
	out.Apply(func(_, _ int, v float64) float64 { return legval(v, c) }, cosang)
	return &out
}
