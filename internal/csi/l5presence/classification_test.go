package l5presence

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/presence.report/internal/csi"
)

func motion(v float64) csi.FeatureTriple {
	return csi.FeatureTriple{MeanEnergy: 20, TemporalVariance: 4, MotionVariance: v}
}

func TestClassify_Scenarios(t *testing.T) {
	t.Parallel()

	baseline := motion(10)
	tests := []struct {
		name       string
		variance   float64
		wantLabel  Label
		wantConf   Confidence
		wantMotion float64
	}{
		{"unchanged", 10, LabelNoPerson, ConfidenceHigh, 0},
		{"still", 35, LabelStill, ConfidenceMediumHigh, 2.5},
		{"walking", 60, LabelWalking, ConfidenceHigh, 5},
		{"high activity on the edge", 90, LabelHighActivity, ConfidenceVeryHigh, 8},
		{"just below high activity", 89, LabelWalking, ConfidenceHigh, 7.9},
		{"quieter than baseline", 2, LabelNoPerson, ConfidenceHigh, -0.8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(motion(tt.variance), baseline)
			assert.Equal(t, tt.wantLabel, got.Label)
			assert.Equal(t, tt.wantConf, got.Confidence)
			assert.InDelta(t, tt.wantMotion, got.ZMotion, 1e-5)
		})
	}
}

func TestClassify_BandEdgesAreHalfOpen(t *testing.T) {
	t.Parallel()

	// With a baseline of 1 - Epsilon the denominator is exactly 1.
	b := 1 - Epsilon
	baseline := motion(b)
	for _, tt := range []struct {
		z    float64
		want Label
	}{
		{0.49, LabelNoPerson},
		{0.5, LabelStill},
		{2.99, LabelStill},
		{3, LabelWalking},
		{7.99, LabelWalking},
		{8, LabelHighActivity},
		{100, LabelHighActivity},
	} {
		got := Classify(motion(b+tt.z), baseline)
		assert.Equal(t, tt.want, got.Label, "z=%g", tt.z)
	}
}

func TestClassify_EnergyDoesNotAffectLabel(t *testing.T) {
	t.Parallel()

	baseline := csi.FeatureTriple{MeanEnergy: 10, MotionVariance: 10}
	loud := csi.FeatureTriple{MeanEnergy: 1000, MotionVariance: 10}

	got := Classify(loud, baseline)
	assert.Equal(t, LabelNoPerson, got.Label)
	assert.InDelta(t, 99, got.ZEnergy, 1e-3)
}

func TestClassify_MonotonicInMotionVariance(t *testing.T) {
	t.Parallel()

	baseline := motion(7)
	prev := -1
	for v := 0.0; v <= 200; v += 0.25 {
		sev := Classify(motion(v), baseline).Label.Severity()
		require.GreaterOrEqual(t, sev, prev, "motion variance %g", v)
		prev = sev
	}
	assert.Equal(t, LabelHighActivity.Severity(), prev)
}

func TestClassify_ZeroBaseline(t *testing.T) {
	t.Parallel()

	zero := csi.FeatureTriple{}

	got := Classify(zero, zero)
	assert.Equal(t, LabelNoPerson, got.Label)
	assert.Zero(t, got.ZMotion)
	assert.Zero(t, got.ZEnergy)

	got = Classify(motion(0.01), zero)
	assert.False(t, math.IsInf(got.ZMotion, 0))
	assert.Equal(t, LabelHighActivity, got.Label)
}

func TestClassify_NaNFallsToLowestBand(t *testing.T) {
	t.Parallel()

	got := Classify(motion(math.NaN()), motion(10))
	assert.True(t, math.IsNaN(got.ZMotion))
	assert.Equal(t, LabelNoPerson, got.Label)
	assert.Equal(t, ConfidenceHigh, got.Confidence)
}

func TestThresholds_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, DefaultThresholds().Validate())

	bad := []Thresholds{
		{Still: 3, Walking: 3, HighActivity: 8, Epsilon: Epsilon},
		{Still: 0.5, Walking: 9, HighActivity: 8, Epsilon: Epsilon},
		{Still: 0.5, Walking: 3, HighActivity: 8, Epsilon: 0},
		{Still: 0.5, Walking: 3, HighActivity: 8, Epsilon: math.NaN()},
	}
	for _, th := range bad {
		_, err := NewClassifierWithThresholds(th)
		assert.Error(t, err, "%+v", th)
	}
}

func TestClassifier_CustomThresholds(t *testing.T) {
	t.Parallel()

	c, err := NewClassifierWithThresholds(Thresholds{Still: 1, Walking: 2, HighActivity: 4, Epsilon: Epsilon})
	require.NoError(t, err)

	got := c.Classify(motion(35), motion(10))
	assert.Equal(t, LabelWalking, got.Label)
}

func TestLabel_Severity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, LabelNoPerson.Severity())
	assert.Equal(t, 1, LabelStill.Severity())
	assert.Equal(t, 2, LabelWalking.Severity())
	assert.Equal(t, 3, LabelHighActivity.Severity())
	assert.Equal(t, -1, Label("unknown").Severity())
}
