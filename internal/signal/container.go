// Package signal holds the in-memory signal containers produced by a
// recording and the in-place channel-rewrite operation used for bad-channel
// reconstruction.
package signal

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
)

// Container is a rectangular, channel-addressable sample buffer. Channels
// are the rows of every frame; the row index of a channel matches its
// montage index. Continuous and averaged recordings expose a single frame,
// trial-segmented recordings one frame per trial.
type Container interface {
	Channels() int
	Samples() int
	Frames() int
	// Frame returns a channels x samples view backed by the container's
	// storage: writes through the returned matrix mutate the container.
	Frame(i int) *mat.Dense
}

// Continuous is an unsegmented channels x samples recording.
type Continuous struct {
	RecordingID uuid.UUID
	SampleRate  float64

	data *mat.Dense
}

// NewContinuous allocates a continuous recording with the given shape.
func NewContinuous(channels, samples int, sampleRate float64) *Continuous {
	return &Continuous{
		RecordingID: uuid.New(),
		SampleRate:  sampleRate,
		data:        mat.NewDense(channels, samples, nil),
	}
}

func (c *Continuous) Channels() int { r, _ := c.data.Dims(); return r }
func (c *Continuous) Samples() int  { _, n := c.data.Dims(); return n }
func (c *Continuous) Frames() int   { return 1 }

// Frame returns the single channels x samples buffer.
func (c *Continuous) Frame(int) *mat.Dense { return c.data }

// Data returns the underlying sample buffer.
func (c *Continuous) Data() *mat.Dense { return c.data }

// Segmented is a trial-segmented recording: trials x channels x samples.
// Trials are stored contiguously so each frame is a strided view into one
// backing slice.
type Segmented struct {
	RecordingID uuid.UUID
	SampleRate  float64

	trials   int
	channels int
	samples  int
	data     []float64
}

// NewSegmented allocates a segmented recording with the given shape.
func NewSegmented(trials, channels, samples int, sampleRate float64) *Segmented {
	return &Segmented{
		RecordingID: uuid.New(),
		SampleRate:  sampleRate,
		trials:      trials,
		channels:    channels,
		samples:     samples,
		data:        make([]float64, trials*channels*samples),
	}
}

func (s *Segmented) Channels() int { return s.channels }
func (s *Segmented) Samples() int  { return s.samples }
func (s *Segmented) Frames() int   { return s.trials }

// Frame returns the channels x samples buffer of trial i, sharing storage
// with the recording.
func (s *Segmented) Frame(i int) *mat.Dense {
	stride := s.channels * s.samples
	return mat.NewDense(s.channels, s.samples, s.data[i*stride:(i+1)*stride])
}

// Averaged is a trial-averaged recording (channels x samples) such as an
// evoked response.
type Averaged struct {
	RecordingID uuid.UUID
	SampleRate  float64
	// NAve is the number of trials averaged into this container.
	NAve int

	data *mat.Dense
}

// NewAveraged allocates an averaged recording with the given shape.
func NewAveraged(channels, samples int, sampleRate float64, nave int) *Averaged {
	return &Averaged{
		RecordingID: uuid.New(),
		SampleRate:  sampleRate,
		NAve:        nave,
		data:        mat.NewDense(channels, samples, nil),
	}
}

func (a *Averaged) Channels() int { r, _ := a.data.Dims(); return r }
func (a *Averaged) Samples() int  { _, n := a.data.Dims(); return n }
func (a *Averaged) Frames() int   { return 1 }

// Frame returns the single channels x samples buffer.
func (a *Averaged) Frame(int) *mat.Dense { return a.data }

// Data returns the underlying sample buffer.
func (a *Averaged) Data() *mat.Dense { return a.data }

// Verify at compile time that all three shapes satisfy Container.
var (
	_ Container = (*Continuous)(nil)
	_ Container = (*Segmented)(nil)
	_ Container = (*Averaged)(nil)
)
