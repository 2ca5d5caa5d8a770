package l5presence

import (
	"fmt"

	"github.com/banshee-data/presence.report/internal/csi"
)

// Label is the occupancy state reported for a dataset.
type Label string

const (
	// LabelNoPerson indicates motion indistinguishable from the baseline
	LabelNoPerson Label = "NO PERSON DETECTED"
	// LabelStill indicates a mostly stationary person
	LabelStill Label = "PERSON PRESENT (STILL)"
	// LabelWalking indicates a single moving person
	LabelWalking Label = "PERSON WALKING"
	// LabelHighActivity indicates several people or vigorous movement
	LabelHighActivity Label = "MULTIPLE PEOPLE / HIGH ACTIVITY"
)

// Severity ranks labels from 0 (no person) to 3 (high activity).
// Unknown labels rank -1.
func (l Label) Severity() int {
	switch l {
	case LabelNoPerson:
		return 0
	case LabelStill:
		return 1
	case LabelWalking:
		return 2
	case LabelHighActivity:
		return 3
	}
	return -1
}

// Confidence is the qualitative confidence tier attached to a Label.
type Confidence string

const (
	ConfidenceMediumHigh Confidence = "Medium-High"
	ConfidenceHigh       Confidence = "High"
	ConfidenceVeryHigh   Confidence = "Very High"
)

// Decision thresholds on z_motion. Bands are half-open: [lo, hi).
const (
	StillThreshold        = 0.5
	WalkingThreshold      = 3.0
	HighActivityThreshold = 8.0

	// Epsilon keeps z-scores finite when a baseline feature is zero.
	Epsilon = 1e-6

	// edgeTolerance absorbs the bias Epsilon adds to z, so a value that is
	// exactly on a band edge in exact arithmetic lands in the upper band.
	edgeTolerance = 1e-5
)

// Thresholds holds the band edges and the zero guard.
type Thresholds struct {
	Still        float64 `json:"still"`
	Walking      float64 `json:"walking"`
	HighActivity float64 `json:"high_activity"`
	Epsilon      float64 `json:"epsilon"`
}

// DefaultThresholds returns the standard band edges 0.5 / 3 / 8.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Still:        StillThreshold,
		Walking:      WalkingThreshold,
		HighActivity: HighActivityThreshold,
		Epsilon:      Epsilon,
	}
}

// Validate checks the band edges are strictly ascending and the guard positive.
func (t Thresholds) Validate() error {
	if !(t.Epsilon > 0) {
		return fmt.Errorf("epsilon must be positive, got %g", t.Epsilon)
	}
	if !(t.Still < t.Walking && t.Walking < t.HighActivity) {
		return fmt.Errorf("thresholds must be strictly ascending, got %g / %g / %g", t.Still, t.Walking, t.HighActivity)
	}
	return nil
}

// Result is the outcome of classifying one dataset.
type Result struct {
	Label      Label      `json:"label"`
	Confidence Confidence `json:"confidence"`
	// ZEnergy is reported only; it does not influence Label.
	ZEnergy float64 `json:"z_energy"`
	ZMotion float64 `json:"z_motion"`
}

// Classifier maps features to a Result relative to a baseline.
type Classifier struct {
	Thresholds Thresholds
}

// NewClassifier creates a classifier with the default thresholds.
func NewClassifier() *Classifier {
	return &Classifier{Thresholds: DefaultThresholds()}
}

// NewClassifierWithThresholds creates a classifier with custom band edges.
func NewClassifierWithThresholds(t Thresholds) (*Classifier, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{Thresholds: t}, nil
}

// Classify compares features with the baseline. It always returns one of
// the four labels.
func (c *Classifier) Classify(features csi.FeatureTriple, baseline csi.BaselineProfile) Result {
	t := c.Thresholds
	zEnergy := relativeChange(features.MeanEnergy, baseline.MeanEnergy, t.Epsilon)
	zMotion := relativeChange(features.MotionVariance, baseline.MotionVariance, t.Epsilon)

	result := Result{ZEnergy: zEnergy, ZMotion: zMotion}
	switch {
	case atLeast(zMotion, t.HighActivity):
		result.Label, result.Confidence = LabelHighActivity, ConfidenceVeryHigh
	case atLeast(zMotion, t.Walking):
		result.Label, result.Confidence = LabelWalking, ConfidenceHigh
	case atLeast(zMotion, t.Still):
		result.Label, result.Confidence = LabelStill, ConfidenceMediumHigh
	default:
		// Also catches NaN, which compares false against every edge.
		result.Label, result.Confidence = LabelNoPerson, ConfidenceHigh
	}
	return result
}

// Classify uses the default thresholds.
func Classify(features csi.FeatureTriple, baseline csi.BaselineProfile) Result {
	return NewClassifier().Classify(features, baseline)
}

func atLeast(z, edge float64) bool {
	return z >= edge-edgeTolerance
}

func relativeChange(value, reference, eps float64) float64 {
	return (value - reference) / (reference + eps)
}
