package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/banshee-data/presence.report/internal/csi/pipeline"
	"github.com/banshee-data/presence.report/internal/security"
)

// Manifest lists the datasets of one analysis run and names the baseline.
//
//	baseline: Empty Room
//	datasets:
//	  - name: Empty Room
//	    path: data/empty.txt
//	  - name: Walking
//	    path: data/walking.txt
type Manifest struct {
	Baseline string             `yaml:"baseline"`
	Datasets []pipeline.Dataset `yaml:"datasets"`
}

// LoadManifest reads a YAML manifest. Relative dataset paths resolve
// against the manifest's directory and must stay inside it; absolute
// paths are used as given.
func LoadManifest(path string) (*Manifest, error) {
	cleanPath := filepath.Clean(path)
	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat manifest: %w", err)
	}
	if info.Size() > maxConfigSize {
		return nil, fmt.Errorf("manifest too large: %d bytes (max %d)", info.Size(), maxConfigSize)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(cleanPath)
	for i, ds := range m.Datasets {
		resolved, err := security.ResolveWithin(dir, ds.Path)
		if err != nil {
			return nil, fmt.Errorf("dataset %q: %w", ds.Name, err)
		}
		m.Datasets[i].Path = resolved
	}
	return m, nil
}

// ParseManifest decodes and validates manifest YAML without resolving paths.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest YAML: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	return &m, nil
}

// Validate checks that every dataset is named and located, that names are
// unique and that the baseline is one of them.
func (m *Manifest) Validate() error {
	if len(m.Datasets) == 0 {
		return fmt.Errorf("no datasets listed")
	}
	seen := make(map[string]bool, len(m.Datasets))
	for i, ds := range m.Datasets {
		if ds.Name == "" || ds.Path == "" {
			return fmt.Errorf("dataset %d: name and path are required", i)
		}
		if seen[ds.Name] {
			return fmt.Errorf("%w: %q", pipeline.ErrDuplicateDataset, ds.Name)
		}
		seen[ds.Name] = true
	}
	if m.Baseline == "" {
		return fmt.Errorf("baseline is required")
	}
	if !seen[m.Baseline] {
		return fmt.Errorf("%w: %q", pipeline.ErrUnknownBaseline, m.Baseline)
	}
	return nil
}
