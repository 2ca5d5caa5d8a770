// Package l1capture owns Layer 1 (Capture) of the CSI data model.
//
// Responsibilities: turning raw capture text into a rectangular csi.Matrix,
// with an explicit per-line accept/reject decision, and recording capture
// files from a live serial console for later batch analysis.
//
// Dependency rule: L1 depends only on package csi.
package l1capture
