package distribution

// Option configures the construction of a distribution.
type Option func(*options)

type options struct {
	tol float64
}

// WithTolerance sets the numerical tolerance of the construction checks.
//
// For a Discrete distribution the probabilities must sum to one within tol.
// The default is zero, so the sum must be exactly one.
//
// For a Gaussian the covariance must be symmetric within a relative tolerance
// of tol, and its smallest eigenvalue must be no less than -tol times the
// largest eigenvalue magnitude. The default is 1e-10.
func WithTolerance(tol float64) Option {
	if tol < 0 {
		panic("distribution: negative tolerance")
	}
	return func(o *options) {
		o.tol = tol
	}
}

func buildOptions(opts []Option, defaultTol float64) options {
	o := options{tol: defaultTol}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
