package distribution

import (
	"math"
	"math/rand/v2"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

const defaultCovTol = 1e-10

// Gaussian is a multivariate normal distribution. Entry i of the mean and row
// and column i of the covariance belong to variable VariableNames()[i].
type Gaussian struct {
	names []string
	mean  []float64
	cov   *mat.SymDense
	tol   float64

	// Either chol and normal or eigen are set. normal is used when the
	// covariance is positive definite, eigen when it is only semi-definite.
	chol   *mat.Cholesky
	normal *distmv.Normal
	eigen  *eigenNormal
}

var _ Distribution = (*Gaussian)(nil)

// NewGaussian returns a new Gaussian with the given mean and covariance. The
// inputs are copied.
//
// An error wrapping ErrInvalidDistribution is returned if the dimensions are
// inconsistent, or if the covariance is not symmetric positive semi-definite.
func NewGaussian(mean []float64, covariance mat.Matrix, names []string, opts ...Option) (*Gaussian, error) {
	o := buildOptions(opts, defaultCovTol)
	if err := checkNames(names, len(mean)); err != nil {
		return nil, err
	}
	if covariance == nil {
		return nil, errors.Wrap(ErrInvalidDistribution, "nil covariance")
	}
	r, c := covariance.Dims()
	if r != c {
		return nil, errors.Wrapf(ErrInvalidDistribution, "covariance is %d×%d, not square", r, c)
	}
	if r != len(mean) {
		return nil, errors.Wrapf(ErrInvalidDistribution, "covariance is %d×%d for %d variables", r, c, len(mean))
	}
	for _, v := range mean {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.Wrapf(ErrInvalidDistribution, "invalid mean %v", mean)
		}
	}
	cov := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		for j := i; j < r; j++ {
			a, b := covariance.At(i, j), covariance.At(j, i)
			if math.IsNaN(a) || math.IsInf(a, 0) || math.IsNaN(b) || math.IsInf(b, 0) {
				return nil, errors.Wrapf(ErrInvalidDistribution, "invalid covariance entry at (%d, %d)", i, j)
			}
			if !scalar.EqualWithinRel(a, b, o.tol) {
				return nil, errors.Wrapf(ErrInvalidDistribution, "covariance not symmetric at (%d, %d): %v != %v", i, j, a, b)
			}
			cov.SetSym(i, j, a)
		}
	}
	return newGaussian(append([]float64(nil), mean...), cov, append([]string(nil), names...), o.tol)
}

// newGaussian factorizes cov and builds the Gaussian, taking ownership of its
// arguments.
func newGaussian(mean []float64, cov *mat.SymDense, names []string, tol float64) (*Gaussian, error) {
	g := &Gaussian{
		names: names,
		mean:  mean,
		cov:   cov,
		tol:   tol,
	}
	var chol mat.Cholesky
	if chol.Factorize(cov) {
		g.chol = &chol
		g.normal = distmv.NewNormalChol(mean, &chol, nil)
		return g, nil
	}
	e, err := newEigenNormal(mean, cov, tol)
	if err != nil {
		return nil, err
	}
	log.Debugf("covariance of %v is singular, sampling through its eigendecomposition", names)
	g.eigen = e
	return g, nil
}

func (g *Gaussian) VariableNames() []string {
	return append([]string(nil), g.names...)
}

func (g *Gaussian) Dim() int {
	return len(g.names)
}

// Mean returns a copy of the mean vector.
func (g *Gaussian) Mean() []float64 {
	return append([]float64(nil), g.mean...)
}

// Covariance returns a copy of the covariance matrix.
func (g *Gaussian) Covariance() *mat.SymDense {
	return mat.NewSymDense(g.Dim(), append([]float64(nil), g.cov.RawSymmetric().Data...))
}

// LogProb returns the log of the density at x. It is NaN if the covariance is
// singular.
func (g *Gaussian) LogProb(x []float64) float64 {
	if len(x) != g.Dim() {
		panic(badLength)
	}
	if g.normal == nil {
		return math.NaN()
	}
	return g.normal.LogProb(x)
}

// Prob returns the density at x. It is NaN if the covariance is singular.
func (g *Gaussian) Prob(x []float64) float64 {
	return math.Exp(g.LogProb(x))
}

// Entropy returns the differential entropy in nats. It is NaN if the
// covariance is singular.
func (g *Gaussian) Entropy() float64 {
	if g.normal == nil {
		return math.NaN()
	}
	return g.normal.Entropy()
}

// rander returns a generator of outcomes drawing from src.
func (g *Gaussian) rander(src rand.Source) distmv.Rander {
	if g.chol != nil {
		return distmv.NewNormalChol(g.mean, g.chol, src)
	}
	return g.eigen.withSource(src)
}

func (g *Gaussian) Rand(x []float64, src rand.Source) []float64 {
	if x != nil && len(x) != g.Dim() {
		panic(badLength)
	}
	return g.rander(src).Rand(x)
}

func (g *Gaussian) Sample(n int, src rand.Source) [][]float64 {
	return sampleRows(g.rander(src), n, g.Dim())
}

// MarginalGaussian returns the distribution over all variables except name.
// The marginal of a Gaussian is exact: the entry of the mean and the row and
// column of the covariance belonging to name are dropped.
func (g *Gaussian) MarginalGaussian(name string) (*Gaussian, error) {
	idx, err := indexOf(g.names, name)
	if err != nil {
		return nil, err
	}
	if g.Dim() == 1 {
		return nil, errors.Wrapf(ErrInvalidDistribution, "cannot marginalize %q, the only variable", name)
	}
	keep := make([]int, 0, g.Dim()-1)
	for i := 0; i < g.Dim(); i++ {
		if i != idx {
			keep = append(keep, i)
		}
	}
	return g.subset(keep, without(g.names, idx))
}

func (g *Gaussian) Marginalize(name string) (Distribution, error) {
	m, err := g.MarginalGaussian(name)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ReorderGaussian returns the distribution with its mean entries and
// covariance rows and columns in the order given by names. names must be a
// permutation of the current variable names.
func (g *Gaussian) ReorderGaussian(names []string) (*Gaussian, error) {
	perm, err := permutation(g.names, names)
	if err != nil {
		return nil, err
	}
	return g.subset(perm, append([]string(nil), names...))
}

func (g *Gaussian) Reorder(names []string) (Distribution, error) {
	r, err := g.ReorderGaussian(names)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// subset returns the Gaussian over the variables idx, in that order.
func (g *Gaussian) subset(idx []int, names []string) (*Gaussian, error) {
	n := len(idx)
	mean := make([]float64, n)
	cov := mat.NewSymDense(n, nil)
	for i, p := range idx {
		mean[i] = g.mean[p]
		for j := i; j < n; j++ {
			cov.SetSym(i, j, g.cov.At(p, idx[j]))
		}
	}
	return newGaussian(mean, cov, names, g.tol)
}
