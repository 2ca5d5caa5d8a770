package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/presence.report/internal/csi"
	"github.com/banshee-data/presence.report/internal/csi/dsp"
	"github.com/banshee-data/presence.report/internal/csi/l1capture"
	"github.com/banshee-data/presence.report/internal/csi/l2preprocess"
	"github.com/banshee-data/presence.report/internal/csi/l3motion"
	"github.com/banshee-data/presence.report/internal/csi/l4features"
	"github.com/banshee-data/presence.report/internal/fsutil"
	"github.com/banshee-data/presence.report/internal/monitoring"
)

// Options configures the load and smoothing stages.
type Options struct {
	// FS defaults to the host filesystem.
	FS fsutil.FileSystem
	// Marker defaults to l1capture.DefaultMarker.
	Marker string
	// Sigma and Truncate default to dsp.DefaultSigma and dsp.DefaultTruncate.
	Sigma    float64
	Truncate float64
}

// DefaultOptions returns Options reading the host filesystem with the
// standard marker and sigma = 2 smoothing.
func DefaultOptions() Options {
	return Options{
		FS:       fsutil.OSFileSystem{},
		Marker:   l1capture.DefaultMarker,
		Sigma:    dsp.DefaultSigma,
		Truncate: dsp.DefaultTruncate,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.FS == nil {
		o.FS = d.FS
	}
	if o.Marker == "" {
		o.Marker = d.Marker
	}
	if o.Sigma == 0 {
		o.Sigma = d.Sigma
	}
	if o.Truncate == 0 {
		o.Truncate = d.Truncate
	}
	return o
}

// Analysis holds every intermediate product for one dataset.
type Analysis struct {
	Dataset      Dataset
	Raw          *csi.Matrix
	Preprocessed *csi.Matrix
	Path         csi.MotionPath
	// Energy is the per-frame mean absolute raw amplitude.
	Energy   []float64
	Features csi.FeatureTriple
	Stats    l1capture.ParseStats
}

// stages is the immutable processing chain shared by all workers.
type stages struct {
	loader       *l1capture.Loader
	preprocessor *l2preprocess.Preprocessor
	extractor    *l3motion.Extractor
}

func newStages(opts Options) (*stages, error) {
	opts = opts.withDefaults()
	filter, err := dsp.NewFilter(opts.Sigma, opts.Truncate)
	if err != nil {
		return nil, fmt.Errorf("invalid smoothing: %w", err)
	}
	return &stages{
		loader:       &l1capture.Loader{FS: opts.FS, Marker: opts.Marker},
		preprocessor: l2preprocess.New(filter),
		extractor:    l3motion.NewExtractor(filter),
	}, nil
}

func (s *stages) load(ds Dataset) (*Analysis, error) {
	raw, stats, err := s.loader.Load(ds.Path)
	if err != nil {
		return nil, fmt.Errorf("dataset %q: %w", ds.Name, err)
	}
	return &Analysis{Dataset: ds, Raw: raw, Stats: stats}, nil
}

func (s *stages) process(a *Analysis) {
	a.Preprocessed = s.preprocessor.Preprocess(a.Raw)
	a.Path = s.extractor.Extract(a.Preprocessed)
	a.Energy = l4features.FrameEnergy(a.Raw)
	a.Features = l4features.Extract(a.Raw, a.Preprocessed, a.Path)
	monitoring.Debugf("dataset %q: mean energy %.3f, temporal variance %.3f, motion variance %.3f",
		a.Dataset.Name, a.Features.MeanEnergy, a.Features.TemporalVariance, a.Features.MotionVariance)
}

// Analyze loads one dataset and runs preprocessing, motion extraction and
// feature aggregation on it.
func Analyze(ds Dataset, opts Options) (*Analysis, error) {
	s, err := newStages(opts)
	if err != nil {
		return nil, err
	}
	a, err := s.load(ds)
	if err != nil {
		return nil, err
	}
	s.process(a)
	return a, nil
}

// Runner analyses many datasets.
type Runner struct {
	Options Options
	// Workers bounds concurrent datasets. Zero or one runs sequentially.
	Workers int
	// AlignFrames trims every dataset to the shortest frame count before
	// processing.
	AlignFrames bool
}

// NewRunner returns a sequential Runner with default options.
func NewRunner() *Runner {
	return &Runner{Options: DefaultOptions(), Workers: 1}
}

// NewRunnerWith returns a sequential Runner with opts.
func NewRunnerWith(opts Options) *Runner {
	return &Runner{Options: opts, Workers: 1}
}

// AnalyzeAll analyses datasets and returns one Analysis per dataset in input
// order. The first failing dataset aborts the run.
func (r *Runner) AnalyzeAll(ctx context.Context, datasets []Dataset) ([]*Analysis, error) {
	if len(datasets) == 0 {
		return nil, fmt.Errorf("no datasets given")
	}
	if err := checkUnique(datasets); err != nil {
		return nil, err
	}
	s, err := newStages(r.Options)
	if err != nil {
		return nil, err
	}

	out := make([]*Analysis, len(datasets))
	if err := r.each(ctx, len(datasets), func(i int) error {
		a, err := s.load(datasets[i])
		if err != nil {
			return err
		}
		out[i] = a
		return nil
	}); err != nil {
		return nil, err
	}

	if r.AlignFrames {
		n := alignFrames(out)
		monitoring.Logf("all datasets trimmed to %d frames", n)
	}

	if err := r.each(ctx, len(out), func(i int) error {
		s.process(out[i])
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// each runs fn for every index with at most r.Workers in flight.
func (r *Runner) each(ctx context.Context, n int, fn func(i int) error) error {
	workers := r.Workers
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(i)
		})
	}
	return g.Wait()
}

// alignFrames trims every raw matrix to the shortest frame count and
// returns that count.
func alignFrames(analyses []*Analysis) int {
	n := analyses[0].Raw.Frames()
	for _, a := range analyses[1:] {
		n = min(n, a.Raw.Frames())
	}
	for _, a := range analyses {
		if a.Raw.Frames() > n {
			a.Raw = a.Raw.Head(n)
		}
	}
	return n
}
