package csi

// MotionPath is the smoothed per-frame centroid (subcarrier index) of
// disturbance energy. It has one entry per frame.
type MotionPath []float64

// FeatureTriple summarises one dataset.
type FeatureTriple struct {
	// MeanEnergy is the mean absolute value of the raw matrix.
	MeanEnergy float64 `json:"mean_energy"`
	// TemporalVariance is the variance of every preprocessed entry.
	TemporalVariance float64 `json:"temporal_variance"`
	// MotionVariance is the variance of the motion path.
	MotionVariance float64 `json:"motion_variance"`
}

// BaselineProfile is the FeatureTriple of the empty-room reference dataset.
type BaselineProfile = FeatureTriple
