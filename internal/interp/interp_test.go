package interp

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/neurosense-data/chanrepair/internal/montage"
	"github.com/neurosense-data/chanrepair/internal/signal"
	"github.com/neurosense-data/chanrepair/internal/testutil"
)

// recordingDiagnostics captures messages for assertions.
type recordingDiagnostics struct {
	infos []string
	warns []string
}

func (d *recordingDiagnostics) Infof(format string, args ...any) {
	d.infos = append(d.infos, fmt.Sprintf(format, args...))
}

func (d *recordingDiagnostics) Warnf(format string, args ...any) {
	d.warns = append(d.warns, fmt.Sprintf(format, args...))
}

// smoothRecording builds an n-channel EEG montage and a continuous
// recording whose channel k carries s(t) scaled by a smooth field at the
// channel position, with s(t) a slow sine.
func smoothRecording(t *testing.T, n, samples int) (*montage.Montage, *signal.Continuous) {
	t.Helper()
	m := testutil.EEGMontage(t, n)
	c := signal.NewContinuous(n, samples, 250)
	ref := m.Channel(0).Pos
	for ch := 0; ch < n; ch++ {
		w := testutil.SmoothField(m.Channel(ch).Pos, ref)
		for s := 0; s < samples; s++ {
			c.Data().Set(ch, s, w*(2+math.Sin(2*math.Pi*float64(s)/float64(samples))))
		}
	}
	return m, c
}

func TestInterpolateBadsEEGReconstructsSmoothSignal(t *testing.T) {
	m, c := smoothRecording(t, 11, 64)
	truth := append([]float64(nil), c.Data().RawRowView(5)...)

	// Corrupt channel 5 and flag it bad.
	for s := 0; s < 64; s++ {
		c.Data().Set(5, s, 999)
	}
	require.NoError(t, m.MarkBad("EEG005"))

	require.NoError(t, InterpolateBadsEEG(c, m, Options{Diagnostics: NopDiagnostics{}}))

	for s := 0; s < 64; s++ {
		got := c.Data().At(5, s)
		relErr := math.Abs(got-truth[s]) / math.Abs(truth[s])
		if relErr > 0.05 {
			t.Fatalf("sample %d: reconstructed %v, truth %v, relative error %v > 0.05", s, got, truth[s], relErr)
		}
	}
}

func TestInterpolateBadsEEGNoBadChannels(t *testing.T) {
	m, c := smoothRecording(t, 8, 16)
	before := append([]float64(nil), c.Data().RawMatrix().Data...)

	require.NoError(t, InterpolateBadsEEG(c, m, Options{Diagnostics: NopDiagnostics{}}))

	if diff := cmp.Diff(before, c.Data().RawMatrix().Data); diff != "" {
		t.Errorf("no-op run modified samples (-before +after):\n%s", diff)
	}
}

func TestInterpolateBadsEEGNoEEGChannels(t *testing.T) {
	m, err := montage.New([]montage.Channel{
		{Name: "MEG001", Kind: montage.MEG, Pos: r3.Vec{X: 1}},
		{Name: "MEG002", Kind: montage.MEG, Pos: r3.Vec{Y: 1}},
	})
	require.NoError(t, err)
	require.NoError(t, m.MarkBad("MEG001"))

	c := signal.NewContinuous(2, 10, 250)
	before := append([]float64(nil), c.Data().RawMatrix().Data...)

	require.NoError(t, InterpolateBadsEEG(c, m, Options{Diagnostics: NopDiagnostics{}}))
	require.Equal(t, before, c.Data().RawMatrix().Data)
}

func TestInterpolateBadsEEGUnsupportedContainer(t *testing.T) {
	m := testutil.EEGMontage(t, 6)
	require.NoError(t, m.MarkBad("EEG002"))

	err := InterpolateBadsEEG(struct{}{}, m, Options{Diagnostics: NopDiagnostics{}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "not supported")
}

func TestInterpolateBadsEEGWarnsWhenFitUnavailable(t *testing.T) {
	// Three good sensors are enough to build a spline but too few to fit
	// a sphere; the path must warn and still interpolate.
	m := testutil.EEGMontage(t, 4)
	require.NoError(t, m.MarkBad("EEG003"))

	c := signal.NewContinuous(4, 8, 250)
	for ch := 0; ch < 4; ch++ {
		for s := 0; s < 8; s++ {
			c.Data().Set(ch, s, float64(ch+1))
		}
	}

	diag := &recordingDiagnostics{}
	require.NoError(t, InterpolateBadsEEG(c, m, Options{Diagnostics: diag}))
	require.Len(t, diag.warns, 1)
	require.Contains(t, diag.warns[0], "could not fit a sphere")
	require.Len(t, diag.infos, 2)
}

func TestCheckSphereFitWarnsOnPoorGeometry(t *testing.T) {
	// Sensors alternating between radius 1 and radius 10 cannot sit on
	// any single sphere; the mean distance/radius ratio falls well below
	// one and the advisory warning must fire.
	pos := testutil.FibonacciSphere(20)
	for i := range pos {
		if i%2 == 1 {
			pos[i] = r3.Scale(10, pos[i])
		}
	}
	diag := &recordingDiagnostics{}
	checkSphereFit(pos, diag)
	if len(diag.warns) != 1 || !strings.Contains(diag.warns[0], "poor") {
		t.Errorf("warnings = %v, want one poor-fit warning", diag.warns)
	}
}

func TestCheckSphereFitSilentOnGoodGeometry(t *testing.T) {
	diag := &recordingDiagnostics{}
	checkSphereFit(testutil.FibonacciSphere(16), diag)
	if len(diag.warns) != 0 {
		t.Errorf("warnings = %v, want none for on-sphere sensors", diag.warns)
	}
}

// fixedMapper returns a preset matrix and records the requested mode.
type fixedMapper struct {
	matrix *mat.Dense
	mode   Mode
	err    error
}

func (f *fixedMapper) MapChannels(_ *montage.Montage, good, bad []int, mode Mode) (*mat.Dense, error) {
	f.mode = mode
	if f.err != nil {
		return nil, f.err
	}
	return f.matrix, nil
}

func megMontage(t *testing.T, n int) *montage.Montage {
	t.Helper()
	pos := testutil.FibonacciSphere(n)
	channels := make([]montage.Channel, n)
	for i := range channels {
		channels[i] = montage.Channel{
			Name: fmt.Sprintf("MEG%03d", i),
			Kind: montage.MEG,
			Pos:  pos[i],
		}
	}
	m, err := montage.New(channels)
	require.NoError(t, err)
	return m
}

func TestInterpolateBadsMEGUsesMapper(t *testing.T) {
	m := megMontage(t, 4)
	require.NoError(t, m.MarkBad("MEG001"))

	c := signal.NewContinuous(4, 6, 1000)
	for ch := 0; ch < 4; ch++ {
		for s := 0; s < 6; s++ {
			c.Data().Set(ch, s, float64(10*ch+s))
		}
	}

	// Average the three good channels into the bad one.
	third := 1.0 / 3
	mapper := &fixedMapper{matrix: mat.NewDense(1, 3, []float64{third, third, third})}
	opts := Options{Diagnostics: NopDiagnostics{}, Mapper: mapper}
	require.NoError(t, InterpolateBadsMEG(c, m, ModeFast, opts))
	require.Equal(t, ModeFast, mapper.mode)

	for s := 0; s < 6; s++ {
		want := (c.Data().At(0, s) + c.Data().At(2, s) + c.Data().At(3, s)) / 3
		if math.Abs(c.Data().At(1, s)-want) > 1e-12 {
			t.Errorf("sample %d: bad channel = %v, want %v", s, c.Data().At(1, s), want)
		}
	}
}

func TestInterpolateBadsMEGNoMapper(t *testing.T) {
	m := megMontage(t, 4)
	require.NoError(t, m.MarkBad("MEG000"))

	err := InterpolateBadsMEG(signal.NewContinuous(4, 2, 1000), m, ModeAccurate, Options{Diagnostics: NopDiagnostics{}})
	require.ErrorIs(t, err, ErrNoMapper)
}

func TestInterpolateBadsMEGNoBadChannels(t *testing.T) {
	m := megMontage(t, 4)
	c := signal.NewContinuous(4, 2, 1000)

	mapper := &fixedMapper{err: errors.New("must not be called")}
	opts := Options{Diagnostics: NopDiagnostics{}, Mapper: mapper}
	require.NoError(t, InterpolateBadsMEG(c, m, ModeAccurate, opts))
}

func TestSplineMapperModes(t *testing.T) {
	m := megMontage(t, 10)
	require.NoError(t, m.MarkBad("MEG004"))
	good, bad, _, _ := m.Partition(montage.MEG)

	sm := NewSplineMapper()
	accurate, err := sm.MapChannels(m, good, bad, ModeAccurate)
	require.NoError(t, err)
	fast, err := sm.MapChannels(m, good, bad, ModeFast)
	require.NoError(t, err)

	r, c := accurate.Dims()
	require.Equal(t, 1, r)
	require.Equal(t, 9, c)

	// The truncated expansion must differ from the full one, but only
	// slightly: both map a constant field to roughly the same estimate.
	if mat.Equal(accurate, fast) {
		t.Error("fast and accurate mappings are identical")
	}
	sumRow := func(m *mat.Dense) float64 {
		var s float64
		for j := 0; j < c; j++ {
			s += m.At(0, j)
		}
		return s
	}
	if d := math.Abs(sumRow(accurate) - sumRow(fast)); d > 0.05 {
		t.Errorf("mode row sums differ by %v, want close agreement", d)
	}
}
