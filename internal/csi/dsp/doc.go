// Package dsp holds the small signal-processing kernels shared by the CSI
// layers. The Gaussian filter reproduces the behaviour of a truncated,
// normalised Gaussian correlation with half-sample symmetric ("reflect")
// boundary handling, the same convention used by common scientific stacks,
// so smoothed curves line up with captures analysed elsewhere.
package dsp
