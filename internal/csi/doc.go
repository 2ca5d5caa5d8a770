// Package csi owns the shared data model of the CSI presence pipeline.
//
// A capture is a rectangular matrix of per-subcarrier amplitudes, one row per
// frame in file order. The pipeline is split into layers, each in its own
// package:
//
//   - l1capture: raw capture lines to Matrix (and serial recording)
//   - l2preprocess: static component removal, rectification, smoothing
//   - l3motion: energy-weighted centroid per frame (motion path)
//   - l4features: scalar feature aggregation (FeatureTriple)
//   - l5presence: baseline-relative occupancy classification
//
// Dependency rule: a layer may depend on lower layers and on this package,
// never on a higher layer. pipeline composes all of them.
package csi
