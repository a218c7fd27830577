// Package tracker implements the online Bayesian path tracker of §4.F: a
// Dirichlet-categorical posterior per visited tree node, its closed-form KL
// divergence to the training-time prior, and a sliding-window summary over
// every node with nonzero evidence.
package tracker
