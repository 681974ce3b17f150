// Package montage describes the channel layout of a recording: ordered
// channel names, modality kinds, 3D sensor positions, and the bad-channel
// flags that drive interpolation.
package montage

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Kind identifies the modality of a channel.
type Kind int

const (
	// EEG channels measure electric potential on the scalp.
	EEG Kind = iota
	// MEG channels measure magnetic field outside the head.
	MEG
	// Misc channels (stimulus, EOG, ...) are never interpolated.
	Misc
)

// String returns the conventional short name of the kind.
func (k Kind) String() string {
	switch k {
	case EEG:
		return "eeg"
	case MEG:
		return "meg"
	default:
		return "misc"
	}
}

// Channel describes one recording channel.
type Channel struct {
	Name string
	Kind Kind
	Bad  bool
	Pos  r3.Vec
}

// Montage is an ordered channel set with a stable index-to-channel
// correspondence. The index of a channel in the montage is the row of that
// channel in every signal container recorded with it.
type Montage struct {
	channels []Channel
	byName   map[string]int
}

// New builds a montage from the given channels. Channel names must be
// unique; the slice order defines the channel indices.
func New(channels []Channel) (*Montage, error) {
	m := &Montage{
		channels: append([]Channel(nil), channels...),
		byName:   make(map[string]int, len(channels)),
	}
	for i, ch := range m.channels {
		if _, dup := m.byName[ch.Name]; dup {
			return nil, fmt.Errorf("duplicate channel name %q", ch.Name)
		}
		m.byName[ch.Name] = i
	}
	return m, nil
}

// Len returns the number of channels.
func (m *Montage) Len() int { return len(m.channels) }

// Channel returns the channel at index i.
func (m *Montage) Channel(i int) Channel { return m.channels[i] }

// Names returns the channel names in montage order.
func (m *Montage) Names() []string {
	names := make([]string, len(m.channels))
	for i, ch := range m.channels {
		names[i] = ch.Name
	}
	return names
}

// Bads returns the names of all channels currently flagged bad.
func (m *Montage) Bads() []string {
	var bads []string
	for _, ch := range m.channels {
		if ch.Bad {
			bads = append(bads, ch.Name)
		}
	}
	return bads
}

// MarkBad flags the named channels as bad. Unknown names are an error and
// leave the montage unchanged.
func (m *Montage) MarkBad(names ...string) error {
	idx := make([]int, len(names))
	for i, name := range names {
		j, ok := m.byName[name]
		if !ok {
			return fmt.Errorf("unknown channel %q", name)
		}
		idx[i] = j
	}
	for _, j := range idx {
		m.channels[j].Bad = true
	}
	return nil
}

// ClearBad removes the bad flag from every channel.
func (m *Montage) ClearBad() {
	for i := range m.channels {
		m.channels[i].Bad = false
	}
}

// Pick returns the indices of all channels of the given kind, in montage
// order, regardless of their bad flag.
func (m *Montage) Pick(kind Kind) []int {
	var picks []int
	for i, ch := range m.channels {
		if ch.Kind == kind {
			picks = append(picks, i)
		}
	}
	return picks
}

// Partition splits the channels of the given kind into good and bad index
// slices together with the matching position slices. All four slices share
// the montage's channel ordering, so good[i] is the container row holding
// the samples whose position is goodPos[i]. Keeping indices and positions
// in one structure is what guarantees the interpolation matrix and the
// container rows stay aligned.
func (m *Montage) Partition(kind Kind) (good, bad []int, goodPos, badPos []r3.Vec) {
	for i, ch := range m.channels {
		if ch.Kind != kind {
			continue
		}
		if ch.Bad {
			bad = append(bad, i)
			badPos = append(badPos, ch.Pos)
		} else {
			good = append(good, i)
			goodPos = append(goodPos, ch.Pos)
		}
	}
	return good, bad, goodPos, badPos
}
