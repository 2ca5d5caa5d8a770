// Package l3motion owns Layer 3 (Motion) of the CSI data model.
//
// Responsibilities: reducing each preprocessed frame to the energy-weighted
// mean subcarrier index (its centroid) and smoothing the resulting curve
// over time. Under a single dominant scatterer the centroid is a coarse
// relative position proxy; it is not a spatial localisation.
//
// Dependency rule: L3 may depend on L1-L2, but never on L4+.
package l3motion
