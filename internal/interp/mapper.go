package interp

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/neurosense-data/chanrepair/internal/montage"
	"github.com/neurosense-data/chanrepair/internal/spline"
)

// Mode selects the fidelity of a forward-model channel mapping.
type Mode string

const (
	// ModeAccurate uses the full expansion.
	ModeAccurate Mode = "accurate"
	// ModeFast truncates the expansion; sufficient for most applications.
	ModeFast Mode = "fast"
)

// ForwardMapper produces a len(bad) x len(good) mapping matrix for the
// channels of a montage from a field model. The MEG interpolation path
// obtains its matrix from a mapper instead of the spherical spline. Index
// slices use montage ordering, matching what Apply expects.
type ForwardMapper interface {
	MapChannels(m *montage.Montage, good, bad []int, mode Mode) (*mat.Dense, error)
}

// SplineMapper is a ForwardMapper backed by the spherical-spline builder.
// It stands in where no biophysical forward model is available; ModeFast
// lowers the Legendre term count.
type SplineMapper struct {
	Params spline.Params
}

// NewSplineMapper returns a mapper with default spline parameters.
func NewSplineMapper() *SplineMapper {
	return &SplineMapper{Params: spline.DefaultParams()}
}

// MapChannels builds the mapping matrix from the montage positions of the
// good and bad channels.
func (sm *SplineMapper) MapChannels(m *montage.Montage, good, bad []int, mode Mode) (*mat.Dense, error) {
	p := sm.Params
	if mode == ModeFast && p.NumTerms > 20 {
		p.NumTerms = 20
	}
	goodPos := positionsAt(m, good)
	badPos := positionsAt(m, bad)
	return spline.Build(goodPos, badPos, p)
}

func positionsAt(m *montage.Montage, idx []int) []r3.Vec {
	pos := make([]r3.Vec, len(idx))
	for i, j := range idx {
		pos[i] = m.Channel(j).Pos
	}
	return pos
}

// Verify at compile time that *SplineMapper implements ForwardMapper.
var _ ForwardMapper = (*SplineMapper)(nil)
