package signal

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Apply rewrites the bad-channel rows of inst in place with the matrix
// product of the interpolation matrix and the good-channel rows:
//
//	data[bad, :] = matrix * data[good, :]
//
// applied independently to every frame. Good rows are only read and bad
// rows only written, so applying the same matrix twice over unchanged good
// data is idempotent.
//
// matrix must be len(bad) x len(good), with both index slices in the same
// channel ordering used to build the matrix; a mismatched shape is a
// caller bug and panics. A non-Container inst returns an error before any
// data is touched.
func Apply(inst any, matrix mat.Matrix, good, bad []int) error {
	c, ok := inst.(Container)
	if !ok {
		return fmt.Errorf("inputs of type %T are not supported", inst)
	}
	rows, cols := matrix.Dims()
	if rows != len(bad) || cols != len(good) {
		panic(fmt.Sprintf("signal: interpolation matrix is %dx%d, want %dx%d", rows, cols, len(bad), len(good)))
	}

	samples := c.Samples()
	src := mat.NewDense(len(good), samples, nil)
	var dst mat.Dense
	for f := 0; f < c.Frames(); f++ {
		frame := c.Frame(f)
		for i, g := range good {
			src.SetRow(i, frame.RawRowView(g))
		}
		dst.Mul(matrix, src)
		for i, b := range bad {
			frame.SetRow(b, dst.RawRowView(i))
		}
	}
	return nil
}
