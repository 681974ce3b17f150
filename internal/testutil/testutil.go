// Package testutil provides shared test utilities and fixtures.
//
// This package centralises the synthetic sensor layouts and scalp fields
// used across test files to reduce duplication.
package testutil

import (
	"fmt"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/neurosense-data/chanrepair/internal/montage"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// FibonacciSphere returns n approximately uniformly distributed unit
// vectors using the golden-angle spiral. Deterministic for a given n.
func FibonacciSphere(n int) []r3.Vec {
	golden := math.Pi * (3 - math.Sqrt(5))
	pos := make([]r3.Vec, n)
	for i := 0; i < n; i++ {
		z := 1 - 2*(float64(i)+0.5)/float64(n)
		r := math.Sqrt(1 - z*z)
		theta := golden * float64(i)
		pos[i] = r3.Vec{X: r * math.Cos(theta), Y: r * math.Sin(theta), Z: z}
	}
	return pos
}

// EEGMontage builds an n-channel EEG montage with Fibonacci-sphere
// positions and names EEG000..EEG(n-1).
func EEGMontage(t *testing.T, n int) *montage.Montage {
	t.Helper()
	pos := FibonacciSphere(n)
	channels := make([]montage.Channel, n)
	for i := range channels {
		channels[i] = montage.Channel{
			Name: fmt.Sprintf("EEG%03d", i),
			Kind: montage.EEG,
			Pos:  pos[i],
		}
	}
	m, err := montage.New(channels)
	if err != nil {
		t.Fatalf("build montage: %v", err)
	}
	return m
}

// SmoothField evaluates a smooth scalp field at position p: a constant
// plus a first-degree harmonic oriented along ref. Fields of this form are
// what the spherical-spline model reconstructs well.
func SmoothField(p, ref r3.Vec) float64 {
	return 1 + 0.5*r3.Dot(p, ref)
}
