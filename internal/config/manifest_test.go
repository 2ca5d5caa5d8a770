package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/presence.report/internal/csi/pipeline"
)

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`baseline: Empty Room
datasets:
  - name: Empty Room
    path: data/empty.txt
  - name: Walking
    path: /srv/csi/walking.txt
`), 0o644))

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "Empty Room", m.Baseline)
	assert.Equal(t, []pipeline.Dataset{
		{Name: "Empty Room", Path: filepath.Join(dir, "data", "empty.txt")},
		{Name: "Walking", Path: "/srv/csi/walking.txt"},
	}, m.Datasets)
}

func TestLoadManifest_RejectsEscape(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`baseline: a
datasets:
  - name: a
    path: ../../etc/passwd
`), 0o644))

	_, err := LoadManifest(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `dataset "a"`)
}

func TestParseManifest_Invalid(t *testing.T) {
	tests := map[string]string{
		"not yaml":         "baseline: [",
		"unknown field":    "baseline: a\nscenes: []\ndatasets:\n  - {name: a, path: a.txt}\n",
		"no datasets":      "baseline: a\n",
		"missing path":     "baseline: a\ndatasets:\n  - {name: a}\n",
		"missing baseline": "datasets:\n  - {name: a, path: a.txt}\n",
		"unknown baseline": "baseline: b\ndatasets:\n  - {name: a, path: a.txt}\n",
		"duplicate name":   "baseline: a\ndatasets:\n  - {name: a, path: a.txt}\n  - {name: a, path: b.txt}\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseManifest([]byte(body))
			assert.Error(t, err)
		})
	}

	_, err := ParseManifest([]byte("baseline: b\ndatasets:\n  - {name: a, path: a.txt}\n"))
	assert.ErrorIs(t, err, pipeline.ErrUnknownBaseline)
}
