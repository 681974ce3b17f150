// Package main provides a diagnostic tool for the bad-channel
// interpolation pipeline. It synthesizes a spherical EEG montage carrying
// a smooth scalp field, knocks out a configurable number of channels,
// reconstructs them, and reports per-channel reconstruction error along
// with an optional comparison plot.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"slices"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/neurosense-data/chanrepair/internal/interp"
	"github.com/neurosense-data/chanrepair/internal/montage"
	"github.com/neurosense-data/chanrepair/internal/signal"
)

// Config holds the tool configuration.
type Config struct {
	Channels  int
	Bads      int
	Samples   int
	Rate      float64
	OutputDir string
	Plot      bool
}

func parseFlags() Config {
	var cfg Config
	flag.IntVar(&cfg.Channels, "channels", 32, "number of synthetic EEG channels")
	flag.IntVar(&cfg.Bads, "bads", 3, "number of channels to knock out")
	flag.IntVar(&cfg.Samples, "samples", 500, "samples per channel")
	flag.Float64Var(&cfg.Rate, "rate", 250, "sample rate in Hz")
	flag.StringVar(&cfg.OutputDir, "output", "plots", "directory for comparison plots")
	flag.BoolVar(&cfg.Plot, "plot", true, "write per-channel comparison plots")
	flag.Parse()
	return cfg
}

// fibonacciSphere returns n approximately uniform unit vectors.
func fibonacciSphere(n int) []r3.Vec {
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

func main() {
	cfg := parseFlags()
	if cfg.Bads >= cfg.Channels-3 {
		log.Fatalf("need at least 4 good channels, got %d channels with %d bads", cfg.Channels, cfg.Bads)
	}

	m, rec, truth := synthesize(cfg)

	// Knock out every (channels/bads)-th channel.
	stride := cfg.Channels / cfg.Bads
	var badNames []string
	for i := 0; i < cfg.Bads; i++ {
		ch := i * stride
		badNames = append(badNames, m.Channel(ch).Name)
		for s := 0; s < cfg.Samples; s++ {
			rec.Data().Set(ch, s, 0)
		}
	}
	if err := m.MarkBad(badNames...); err != nil {
		log.Fatalf("mark bad channels: %v", err)
	}
	log.Printf("knocked out %d of %d channels: %v", cfg.Bads, cfg.Channels, badNames)

	if err := interp.InterpolateBadsEEG(rec, m, interp.Options{}); err != nil {
		log.Fatalf("interpolate: %v", err)
	}

	report(cfg, m, rec, truth)
}

// synthesize builds the montage and a recording whose channels carry a
// smooth field times a shared sine, and returns a copy of the clean data.
func synthesize(cfg Config) (*montage.Montage, *signal.Continuous, [][]float64) {
	pos := fibonacciSphere(cfg.Channels)
	channels := make([]montage.Channel, cfg.Channels)
	for i := range channels {
		channels[i] = montage.Channel{
			Name: fmt.Sprintf("EEG%03d", i),
			Kind: montage.EEG,
			Pos:  pos[i],
		}
	}
	m, err := montage.New(channels)
	if err != nil {
		log.Fatalf("build montage: %v", err)
	}

	rec := signal.NewContinuous(cfg.Channels, cfg.Samples, cfg.Rate)
	truth := make([][]float64, cfg.Channels)
	ref := pos[cfg.Channels/2]
	for ch := 0; ch < cfg.Channels; ch++ {
		w := 1 + 0.5*r3.Dot(pos[ch], ref)
		truth[ch] = make([]float64, cfg.Samples)
		for s := 0; s < cfg.Samples; s++ {
			v := w * (2 + math.Sin(2*math.Pi*10*float64(s)/cfg.Rate))
			rec.Data().Set(ch, s, v)
			truth[ch][s] = v
		}
	}
	log.Printf("synthesized %d channels x %d samples at %.0f Hz (recording %s)",
		cfg.Channels, cfg.Samples, cfg.Rate, rec.RecordingID)
	return m, rec, truth
}

// report prints per-channel errors and writes comparison plots.
func report(cfg Config, m *montage.Montage, rec *signal.Continuous, truth [][]float64) {
	if cfg.Plot {
		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			log.Fatalf("create output dir: %v", err)
		}
	}

	names := m.Names()
	for _, name := range m.Bads() {
		ch := slices.Index(names, name)

		var maxRel float64
		for s := 0; s < cfg.Samples; s++ {
			rel := math.Abs(rec.Data().At(ch, s)-truth[ch][s]) / math.Abs(truth[ch][s])
			if rel > maxRel {
				maxRel = rel
			}
		}
		log.Printf("channel %s: max relative reconstruction error %.4f", name, maxRel)

		if cfg.Plot {
			if err := writePlot(cfg, name, rec.Data().RawRowView(ch), truth[ch]); err != nil {
				log.Printf("plot %s: %v", name, err)
			}
		}
	}
}

// writePlot draws the reconstructed and true signals of one channel.
func writePlot(cfg Config, name string, got, want []float64) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Reconstruction of %s", name)
	p.X.Label.Text = "sample"
	p.Y.Label.Text = "amplitude"

	gotPts := make(plotter.XYs, len(got))
	wantPts := make(plotter.XYs, len(want))
	for i := range got {
		gotPts[i] = plotter.XY{X: float64(i), Y: got[i]}
		wantPts[i] = plotter.XY{X: float64(i), Y: want[i]}
	}

	wantLine, err := plotter.NewLine(wantPts)
	if err != nil {
		return fmt.Errorf("true-signal line: %w", err)
	}
	gotLine, err := plotter.NewLine(gotPts)
	if err != nil {
		return fmt.Errorf("reconstructed line: %w", err)
	}
	gotLine.LineStyle.Dashes = []vg.Length{vg.Points(3), vg.Points(2)}

	p.Add(wantLine, gotLine)
	p.Legend.Add("true", wantLine)
	p.Legend.Add("reconstructed", gotLine)

	out := filepath.Join(cfg.OutputDir, fmt.Sprintf("%s.png", name))
	return p.Save(8*vg.Inch, 4*vg.Inch, out)
}
