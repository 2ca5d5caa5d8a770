// Package l2preprocess owns Layer 2 (Preprocess) of the CSI data model.
//
// Responsibilities: removing the static per-subcarrier component,
// rectifying the residual into an activity magnitude, and smoothing it
// along time. The output has the input's shape and is never negative.
//
// Dependency rule: L2 may depend on L1 types, but never on L3+.
package l2preprocess
