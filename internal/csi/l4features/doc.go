// Package l4features owns Layer 4 (Features) of the CSI data model.
//
// Responsibilities: reducing a dataset (raw matrix, preprocessed matrix and
// motion path) to a csi.FeatureTriple, plus the per-frame energy curve used
// by reports and plots. Variances are population variances.
//
// Dependency rule: L4 may depend on L1-L3, but never on L5.
package l4features
