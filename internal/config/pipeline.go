package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/banshee-data/presence.report/internal/csi/dsp"
	"github.com/banshee-data/presence.report/internal/csi/l1capture"
	"github.com/banshee-data/presence.report/internal/csi/l5presence"
	"github.com/banshee-data/presence.report/internal/csi/pipeline"
)

// DefaultConfigPath is the path to the canonical pipeline defaults file.
const DefaultConfigPath = "config/pipeline.defaults.json"

const maxConfigSize = 1 * 1024 * 1024 // 1MB

// PipelineConfig holds the analysis parameters. Omitted fields fall back to
// the Get* defaults, so partial files are safe.
type PipelineConfig struct {
	Marker *string `json:"marker,omitempty"`

	// Smoothing params
	SmoothingSigma    *float64 `json:"smoothing_sigma,omitempty"`
	SmoothingTruncate *float64 `json:"smoothing_truncate,omitempty"`

	// Classifier params
	Epsilon               *float64 `json:"epsilon,omitempty"`
	StillThreshold        *float64 `json:"still_threshold,omitempty"`
	WalkingThreshold      *float64 `json:"walking_threshold,omitempty"`
	HighActivityThreshold *float64 `json:"high_activity_threshold,omitempty"`

	// Runner params
	AlignFrames *bool `json:"align_frames,omitempty"`
	Workers     *int  `json:"workers,omitempty"`
}

// EmptyPipelineConfig returns a config with every field unset.
func EmptyPipelineConfig() *PipelineConfig {
	return &PipelineConfig{}
}

// LoadPipelineConfig loads a PipelineConfig from a JSON file. The file must
// have a .json extension and be at most 1MB.
func LoadPipelineConfig(path string) (*PipelineConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxConfigSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxConfigSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyPipelineConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath from the current directory or
// one of its parents. Panics if the file cannot be loaded; intended for tests.
func MustLoadDefaultConfig() *PipelineConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,       // from internal/config/
		"../../../" + DefaultConfigPath,    // from cmd/presence/ or internal/csi/pipeline/
		"../../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadPipelineConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configured values are usable.
func (c *PipelineConfig) Validate() error {
	if c.Marker != nil && strings.TrimSpace(*c.Marker) == "" {
		return fmt.Errorf("marker must not be blank")
	}
	if c.SmoothingSigma != nil && !(*c.SmoothingSigma > 0) {
		return fmt.Errorf("smoothing_sigma must be positive, got %f", *c.SmoothingSigma)
	}
	if c.SmoothingTruncate != nil && !(*c.SmoothingTruncate > 0) {
		return fmt.Errorf("smoothing_truncate must be positive, got %f", *c.SmoothingTruncate)
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	if err := c.Thresholds().Validate(); err != nil {
		return err
	}
	return nil
}

// GetMarker returns the marker value or the default.
func (c *PipelineConfig) GetMarker() string {
	if c.Marker == nil {
		return l1capture.DefaultMarker
	}
	return *c.Marker
}

// GetSmoothingSigma returns the smoothing_sigma value or the default.
func (c *PipelineConfig) GetSmoothingSigma() float64 {
	if c.SmoothingSigma == nil {
		return dsp.DefaultSigma
	}
	return *c.SmoothingSigma
}

// GetSmoothingTruncate returns the smoothing_truncate value or the default.
func (c *PipelineConfig) GetSmoothingTruncate() float64 {
	if c.SmoothingTruncate == nil {
		return dsp.DefaultTruncate
	}
	return *c.SmoothingTruncate
}

// GetEpsilon returns the epsilon value or the default.
func (c *PipelineConfig) GetEpsilon() float64 {
	if c.Epsilon == nil {
		return l5presence.Epsilon
	}
	return *c.Epsilon
}

// GetStillThreshold returns the still_threshold value or the default.
func (c *PipelineConfig) GetStillThreshold() float64 {
	if c.StillThreshold == nil {
		return l5presence.StillThreshold
	}
	return *c.StillThreshold
}

// GetWalkingThreshold returns the walking_threshold value or the default.
func (c *PipelineConfig) GetWalkingThreshold() float64 {
	if c.WalkingThreshold == nil {
		return l5presence.WalkingThreshold
	}
	return *c.WalkingThreshold
}

// GetHighActivityThreshold returns the high_activity_threshold value or the default.
func (c *PipelineConfig) GetHighActivityThreshold() float64 {
	if c.HighActivityThreshold == nil {
		return l5presence.HighActivityThreshold
	}
	return *c.HighActivityThreshold
}

// GetAlignFrames returns the align_frames value or the default.
func (c *PipelineConfig) GetAlignFrames() bool {
	if c.AlignFrames == nil {
		return false
	}
	return *c.AlignFrames
}

// GetWorkers returns the workers value or the default.
func (c *PipelineConfig) GetWorkers() int {
	if c.Workers == nil || *c.Workers == 0 {
		return 1
	}
	return *c.Workers
}

// Thresholds assembles the classifier band edges.
func (c *PipelineConfig) Thresholds() l5presence.Thresholds {
	return l5presence.Thresholds{
		Still:        c.GetStillThreshold(),
		Walking:      c.GetWalkingThreshold(),
		HighActivity: c.GetHighActivityThreshold(),
		Epsilon:      c.GetEpsilon(),
	}
}

// Classifier builds a classifier from the configured thresholds.
func (c *PipelineConfig) Classifier() (*l5presence.Classifier, error) {
	return l5presence.NewClassifierWithThresholds(c.Thresholds())
}

// Options builds pipeline options reading the host filesystem.
func (c *PipelineConfig) Options() pipeline.Options {
	opts := pipeline.DefaultOptions()
	opts.Marker = c.GetMarker()
	opts.Sigma = c.GetSmoothingSigma()
	opts.Truncate = c.GetSmoothingTruncate()
	return opts
}

// Runner builds a pipeline runner from the config.
func (c *PipelineConfig) Runner() *pipeline.Runner {
	return &pipeline.Runner{
		Options:     c.Options(),
		Workers:     c.GetWorkers(),
		AlignFrames: c.GetAlignFrames(),
	}
}
