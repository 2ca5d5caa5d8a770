package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/banshee-data/presence.report/internal/config"
	"github.com/banshee-data/presence.report/internal/csi/pipeline"
	"github.com/banshee-data/presence.report/internal/monitoring"
)

// batchFlags select datasets and pipeline parameters for analyze and plot.
type batchFlags struct {
	manifest   string
	baseline   string
	configPath string
	align      bool
	workers    int
}

func (b *batchFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&b.manifest, "manifest", "m", "", "YAML manifest listing datasets and the baseline")
	f.StringVarP(&b.baseline, "baseline", "b", "", "Name of the empty-room dataset (required without --manifest)")
	f.StringVarP(&b.configPath, "config", "c", "", "Pipeline config JSON (default $PRESENCE_CONFIG, else built-in defaults)")
	f.BoolVar(&b.align, "align", false, "Trim every dataset to the shortest frame count")
	f.IntVarP(&b.workers, "workers", "j", 1, "Datasets analysed concurrently")
	cmd.MarkFlagsMutuallyExclusive("manifest", "baseline")
}

// batch is a resolved set of inputs ready to run.
type batch struct {
	cfg      *config.PipelineConfig
	datasets []pipeline.Dataset
	baseline string
}

func (b *batchFlags) resolve(cmd *cobra.Command, env config.Environment, args []string) (*batch, error) {
	cfg, err := loadConfig(firstNonEmpty(b.configPath, env.ConfigPath))
	if err != nil {
		return nil, err
	}

	out := &batch{cfg: cfg}
	if b.manifest != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("datasets come from --manifest; unexpected arguments %v", args)
		}
		m, err := config.LoadManifest(b.manifest)
		if err != nil {
			return nil, err
		}
		out.datasets, out.baseline = m.Datasets, m.Baseline
	} else {
		if len(args) == 0 {
			return nil, fmt.Errorf("no datasets given: pass name=path arguments or --manifest")
		}
		if b.baseline == "" {
			return nil, fmt.Errorf("--baseline is required when datasets are given as arguments")
		}
		for _, arg := range args {
			ds, err := pipeline.ParseDataset(arg)
			if err != nil {
				return nil, err
			}
			out.datasets = append(out.datasets, ds)
		}
		out.baseline = b.baseline
	}

	flags := cmd.Flags()
	if flags.Changed("align") {
		out.cfg.AlignFrames = &b.align
	}
	if flags.Changed("workers") {
		if b.workers < 1 {
			return nil, fmt.Errorf("--workers must be at least 1, got %d", b.workers)
		}
		out.cfg.Workers = &b.workers
	}
	return out, nil
}

func loadConfig(path string) (*config.PipelineConfig, error) {
	if path == "" {
		monitoring.Debugf("using built-in pipeline defaults")
		return config.EmptyPipelineConfig(), nil
	}
	cfg, err := config.LoadPipelineConfig(path)
	if err != nil {
		return nil, err
	}
	monitoring.Debugf("loaded pipeline config %s", path)
	return cfg, nil
}

// evaluate runs the full pipeline and classifies every dataset against the
// baseline.
func (b *batch) evaluate(ctx context.Context) ([]*pipeline.Analysis, []pipeline.Evaluation, error) {
	classifier, err := b.cfg.Classifier()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid classifier thresholds: %w", err)
	}
	analyses, err := b.cfg.Runner().AnalyzeAll(ctx, b.datasets)
	if err != nil {
		return nil, nil, err
	}
	evals, err := pipeline.Evaluate(analyses, b.baseline, classifier)
	if err != nil {
		return nil, nil, err
	}
	return analyses, evals, nil
}

func (b *batch) configJSON() string {
	data, err := json.Marshal(b.cfg)
	if err != nil {
		return "{}"
	}
	return string(data)
}
