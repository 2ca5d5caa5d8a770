package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/presence.report/internal/csi"
	"github.com/banshee-data/presence.report/internal/csi/l1capture"
	"github.com/banshee-data/presence.report/internal/csi/l5presence"
	"github.com/banshee-data/presence.report/internal/fsutil"
	"github.com/banshee-data/presence.report/internal/testutil"
)

func memOptions(files map[string]string) Options {
	fs := fsutil.NewMemoryFileSystem()
	for name, body := range files {
		fs.WriteFile(name, []byte(body))
	}
	return Options{FS: fs}
}

func sceneFiles() (map[string]string, []Dataset) {
	short := testutil.Walking(9)
	short.Frames = 120
	files := map[string]string{
		"empty.txt":   testutil.EmptyRoom(1).Text(),
		"walking.txt": testutil.Walking(2).Text(),
		"short.txt":   short.Text(),
	}
	datasets := []Dataset{
		{Name: "Empty Room", Path: "empty.txt"},
		{Name: "Walking", Path: "walking.txt"},
		{Name: "Short Walk", Path: "short.txt"},
	}
	return files, datasets
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	files, datasets := sceneFiles()
	a, err := Analyze(datasets[1], memOptions(files))
	require.NoError(t, err)

	assert.Equal(t, datasets[1], a.Dataset)
	r, c := a.Raw.Dims()
	assert.Equal(t, 200, r)
	assert.Equal(t, 32, c)
	assert.Equal(t, r, a.Preprocessed.Frames())
	assert.Len(t, a.Path, r)
	assert.Len(t, a.Energy, r)
	assert.Equal(t, 200, a.Stats.Accepted)
	assert.Positive(t, a.Features.MeanEnergy)
	assert.Positive(t, a.Features.MotionVariance)
}

func TestAnalyze_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Analyze(Dataset{Name: "gone", Path: "gone.txt"}, memOptions(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"gone"`)
}

func TestAnalyze_EmptyCapture(t *testing.T) {
	t.Parallel()

	opts := memOptions(map[string]string{"noise.txt": "boot ok\nwifi up\n"})
	_, err := Analyze(Dataset{Name: "noise", Path: "noise.txt"}, opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, csi.ErrEmptyDataset))
	var empty *l1capture.EmptyDatasetError
	require.True(t, errors.As(err, &empty))
	assert.Equal(t, 2, empty.Stats.Ignored)
}

func TestAnalyze_InvalidSigma(t *testing.T) {
	t.Parallel()

	files, datasets := sceneFiles()
	opts := memOptions(files)
	opts.Sigma = -1
	_, err := Analyze(datasets[0], opts)
	assert.Error(t, err)
}

func TestRunner_AnalyzeAllPreservesOrder(t *testing.T) {
	t.Parallel()

	files, datasets := sceneFiles()
	seq := &Runner{Options: memOptions(files), Workers: 1}
	par := &Runner{Options: memOptions(files), Workers: 4}

	want, err := seq.AnalyzeAll(context.Background(), datasets)
	require.NoError(t, err)
	got, err := par.AnalyzeAll(context.Background(), datasets)
	require.NoError(t, err)

	require.Len(t, got, len(datasets))
	for i := range datasets {
		assert.Equal(t, datasets[i].Name, got[i].Dataset.Name)
		assert.True(t, want[i].Raw.Equal(got[i].Raw))
		if diff := cmp.Diff(want[i].Features, got[i].Features); diff != "" {
			t.Errorf("features for %s mismatch (-seq +par):\n%s", datasets[i].Name, diff)
		}
	}
	assert.Equal(t, 120, got[2].Raw.Frames())
}

func TestRunner_MatchesAnalyze(t *testing.T) {
	t.Parallel()

	files, datasets := sceneFiles()
	opts := memOptions(files)
	all, err := (&Runner{Options: opts}).AnalyzeAll(context.Background(), datasets)
	require.NoError(t, err)

	one, err := Analyze(datasets[1], opts)
	require.NoError(t, err)
	if diff := cmp.Diff([]float64(one.Path), []float64(all[1].Path), cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("motion path mismatch (-analyze +runner):\n%s", diff)
	}
}

func TestRunner_AlignFrames(t *testing.T) {
	t.Parallel()

	files, datasets := sceneFiles()
	r := &Runner{Options: memOptions(files), Workers: 2, AlignFrames: true}
	got, err := r.AnalyzeAll(context.Background(), datasets)
	require.NoError(t, err)

	for _, a := range got {
		assert.Equal(t, 120, a.Raw.Frames(), a.Dataset.Name)
		assert.Equal(t, 120, a.Preprocessed.Frames(), a.Dataset.Name)
		assert.Len(t, a.Path, 120, a.Dataset.Name)
	}
}

func TestRunner_Errors(t *testing.T) {
	t.Parallel()

	files, datasets := sceneFiles()
	r := &Runner{Options: memOptions(files), Workers: 2}

	_, err := r.AnalyzeAll(context.Background(), nil)
	assert.Error(t, err)

	dup := append([]Dataset{}, datasets...)
	dup = append(dup, Dataset{Name: "Walking", Path: "short.txt"})
	_, err = r.AnalyzeAll(context.Background(), dup)
	assert.ErrorIs(t, err, ErrDuplicateDataset)

	missing := append([]Dataset{}, datasets...)
	missing = append(missing, Dataset{Name: "Gone", Path: "gone.txt"})
	_, err = r.AnalyzeAll(context.Background(), missing)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.AnalyzeAll(ctx, datasets)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	files, datasets := sceneFiles()
	analyses, err := NewRunnerWith(memOptions(files)).AnalyzeAll(context.Background(), datasets)
	require.NoError(t, err)

	evals, err := Evaluate(analyses, "Empty Room", nil)
	require.NoError(t, err)
	require.Len(t, evals, 3)

	base := evals[0]
	assert.True(t, base.Baseline)
	assert.Equal(t, l5presence.LabelNoPerson, base.Result.Label)
	assert.Zero(t, base.Result.ZMotion)

	walk := evals[1]
	assert.False(t, walk.Baseline)
	assert.Equal(t, "Walking", walk.Dataset.Name)
	assert.Greater(t, walk.Features.MotionVariance, base.Features.MotionVariance)
	assert.Greater(t, walk.Result.Label.Severity(), base.Result.Label.Severity())
}

func TestEvaluate_UnknownBaseline(t *testing.T) {
	t.Parallel()

	files, datasets := sceneFiles()
	analyses, err := NewRunnerWith(memOptions(files)).AnalyzeAll(context.Background(), datasets)
	require.NoError(t, err)

	_, err = Evaluate(analyses, "Kitchen", nil)
	assert.ErrorIs(t, err, ErrUnknownBaseline)
}
