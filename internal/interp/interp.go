// Package interp reconstructs the samples of bad sensor channels from the
// remaining good channels of the same modality. EEG channels are rebuilt
// with a spherical-spline interpolation of the scalp potential; MEG
// channels with a mapping matrix obtained from a forward-model mapper.
// Both paths mutate the signal container in place and leave all other
// container state untouched.
package interp

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/neurosense-data/chanrepair/internal/montage"
	"github.com/neurosense-data/chanrepair/internal/sensor"
	"github.com/neurosense-data/chanrepair/internal/signal"
	"github.com/neurosense-data/chanrepair/internal/spline"
)

// ErrNoMapper is returned by the MEG path when no forward mapper is
// configured.
var ErrNoMapper = errors.New("no forward mapper configured")

// Options configure an interpolation run.
type Options struct {
	// Params are the spline parameters for the EEG path. The zero value
	// is replaced with spline.DefaultParams().
	Params spline.Params
	// Diagnostics receives progress and quality messages; nil means the
	// standard logger.
	Diagnostics Diagnostics
	// Mapper supplies the mapping matrix for the MEG path.
	Mapper ForwardMapper
}

func (o Options) withDefaults() Options {
	if o.Params == (spline.Params{}) {
		o.Params = spline.DefaultParams()
	}
	if o.Diagnostics == nil {
		o.Diagnostics = DefaultDiagnostics()
	}
	return o
}

// InterpolateBadsEEG rewrites the bad EEG channels of inst in place using
// a spherical-spline fit through the good EEG sensor positions. It is a
// silent no-op when the montage has no EEG channels or no bad EEG
// channels. The interpolation matrix is built fresh from the current
// montage on every call and discarded afterwards.
func InterpolateBadsEEG(inst any, m *montage.Montage, opts Options) error {
	opts = opts.withDefaults()

	good, bad, goodPos, badPos := m.Partition(montage.EEG)
	if len(good)+len(bad) == 0 || len(bad) == 0 {
		return nil
	}

	checkSphereFit(goodPos, opts.Diagnostics)

	opts.Diagnostics.Infof("computing interpolation matrix from %d sensor positions", len(goodPos))
	matrix, err := spline.Build(goodPos, badPos, opts.Params)
	if err != nil {
		return fmt.Errorf("build interpolation matrix: %w", err)
	}

	opts.Diagnostics.Infof("interpolating %d sensors", len(badPos))
	return signal.Apply(inst, matrix, good, bad)
}

// InterpolateBadsMEG rewrites the bad MEG channels of inst in place using
// a mapping matrix from the configured forward mapper. It is a silent
// no-op when the montage has no MEG channels or no bad MEG channels.
func InterpolateBadsMEG(inst any, m *montage.Montage, mode Mode, opts Options) error {
	opts = opts.withDefaults()

	good, bad, _, _ := m.Partition(montage.MEG)
	if len(good)+len(bad) == 0 || len(bad) == 0 {
		return nil
	}
	if opts.Mapper == nil {
		return ErrNoMapper
	}

	mapping, err := opts.Mapper.MapChannels(m, good, bad, mode)
	if err != nil {
		return fmt.Errorf("map channels: %w", err)
	}

	opts.Diagnostics.Infof("interpolating %d sensors", len(bad))
	return signal.Apply(inst, mapping, good, bad)
}

// checkSphereFit fits a sphere through the good positions and warns when
// the positions sit too far off it. Advisory only: interpolation proceeds
// regardless.
func checkSphereFit(pos []r3.Vec, diag Diagnostics) {
	center, radius, err := sensor.FitSphere(pos)
	if err != nil {
		diag.Warnf("could not fit a sphere to the sensor positions: %v", err)
		return
	}
	if sensor.FitDeviation(pos, center, radius) > sensor.FitTolerance {
		diag.Warnf("the spherical fit is poor, interpolation results are likely to be inaccurate")
	}
}
