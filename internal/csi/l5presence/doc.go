// Package l5presence owns Layer 5 (Presence) of the CSI data model.
//
// Responsibilities: turning a dataset's features into an occupancy label
// and confidence tier, relative to an empty-room baseline. The classifier
// is a fixed-threshold rule on the relative change in motion variance; it
// has no error path and never learns.
//
// Dependency rule: L5 may depend on L1-L4.
package l5presence
