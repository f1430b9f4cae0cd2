// Package distribution implements joint probability distributions over a fixed,
// ordered set of named variables.
//
// Two representations are provided. Discrete is a categorical table over finite
// per-variable domains, stored as an N-dimensional tensor with one axis per
// variable. Gaussian is a multivariate normal with a mean vector and a covariance
// matrix. Both can be sampled, can have a variable marginalized out, and can have
// their variables reordered. Marginalize and Reorder return new, independent
// distributions; a distribution is never modified after construction.
//
// Sampling takes an explicit rand.Source. If the source is nil the process-wide
// generator from math/rand/v2 is used, which matches the convention of the gonum
// distributions this package is built on.
package distribution
