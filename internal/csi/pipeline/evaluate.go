package pipeline

import (
	"errors"
	"fmt"

	"github.com/banshee-data/presence.report/internal/csi"
	"github.com/banshee-data/presence.report/internal/csi/l5presence"
	"github.com/banshee-data/presence.report/internal/monitoring"
)

// ErrUnknownBaseline is returned when the baseline name matches no dataset.
var ErrUnknownBaseline = errors.New("unknown baseline dataset")

// Evaluation pairs an Analysis with its classification.
type Evaluation struct {
	*Analysis
	Result   l5presence.Result
	Baseline bool
}

// Evaluate classifies every analysis against the features of the analysis
// named baselineName. The baseline is classified too. A nil classifier uses
// the default thresholds.
func Evaluate(analyses []*Analysis, baselineName string, classifier *l5presence.Classifier) ([]Evaluation, error) {
	if classifier == nil {
		classifier = l5presence.NewClassifier()
	}
	baseline, err := FindBaseline(analyses, baselineName)
	if err != nil {
		return nil, err
	}

	out := make([]Evaluation, len(analyses))
	for i, a := range analyses {
		res := classifier.Classify(a.Features, baseline)
		out[i] = Evaluation{Analysis: a, Result: res, Baseline: a.Dataset.Name == baselineName}
		monitoring.Logf("dataset %q: %s (%s), z_motion %.3f", a.Dataset.Name, res.Label, res.Confidence, res.ZMotion)
	}
	return out, nil
}

// FindBaseline returns the features of the analysis named name.
func FindBaseline(analyses []*Analysis, name string) (csi.BaselineProfile, error) {
	for _, a := range analyses {
		if a.Dataset.Name == name {
			return a.Features, nil
		}
	}
	return csi.BaselineProfile{}, fmt.Errorf("%w: %q", ErrUnknownBaseline, name)
}
