// Package pipeline runs the CSI layers end to end for a set of named
// datasets and classifies each one against a designated baseline.
//
// Datasets are independent: a Runner may analyse several at once, but the
// returned slice always follows the input order.
//
// Dependency rule: pipeline may depend on every csi layer; no layer may
// depend on pipeline.
package pipeline
