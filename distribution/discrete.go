package distribution

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/combin"
	"gorgonia.org/tensor"
)

// Discrete is a categorical joint distribution over variables with finite
// domains. Variable i takes the values in Values()[i], and the probability of
// the outcome whose value indices are (k_1, ..., k_D) is the entry of the
// probability table at that multi-index.
type Discrete struct {
	names  []string
	values [][]float64
	probs  []float64 // row-major table
	shape  []int
	cum    []float64 // cumulative sum of probs, for sampling
	last   int       // last index of probs with non-zero probability
	tol    float64
}

var _ Distribution = (*Discrete)(nil)

// NewDiscrete returns a new Discrete distribution. The i-th entry of values
// lists the values variable names[i] can take, and probabilities must have
// shape (len(values[0]), ..., len(values[D-1])). The inputs are copied.
//
// An error wrapping ErrInvalidDistribution is returned if a probability is
// negative, if the probabilities do not sum to one, or if the table shape does
// not match the domains.
func NewDiscrete(values [][]float64, probabilities *tensor.Dense, names []string, opts ...Option) (*Discrete, error) {
	o := buildOptions(opts, 0)
	probs, shape, err := tableData(probabilities)
	if err != nil {
		return nil, err
	}
	if err := checkNames(names, len(values)); err != nil {
		return nil, err
	}
	if len(shape) != len(values) {
		return nil, errors.Wrapf(ErrInvalidDistribution, "probability table has %d axes for %d variables", len(shape), len(values))
	}
	for i, v := range values {
		if len(v) != shape[i] {
			return nil, errors.Wrapf(ErrInvalidDistribution, "variable %q has %d values but axis %d has length %d", names[i], len(v), i, shape[i])
		}
	}
	for _, p := range probs {
		if p < 0 || math.IsNaN(p) {
			return nil, errors.Wrapf(ErrInvalidDistribution, "invalid probability %v", p)
		}
	}
	if sum := floats.Sum(probs); math.Abs(sum-1) > o.tol {
		return nil, errors.Wrapf(ErrInvalidDistribution, "probabilities sum to %v", sum)
	}
	return newDiscrete(copyValues(values), probs, shape, append([]string(nil), names...), o.tol), nil
}

// newDiscrete builds a Discrete taking ownership of its arguments. It is used
// directly for distributions derived from an already validated one.
func newDiscrete(values [][]float64, probs []float64, shape []int, names []string, tol float64) *Discrete {
	d := &Discrete{
		names:  names,
		values: values,
		probs:  probs,
		shape:  shape,
		cum:    floats.CumSum(make([]float64, len(probs)), probs),
		tol:    tol,
	}
	for i, p := range probs {
		if p > 0 {
			d.last = i
		}
	}
	return d
}

func copyValues(values [][]float64) [][]float64 {
	c := make([][]float64, len(values))
	for i, v := range values {
		c[i] = append([]float64(nil), v...)
	}
	return c
}

func (d *Discrete) VariableNames() []string {
	return append([]string(nil), d.names...)
}

func (d *Discrete) Dim() int {
	return len(d.names)
}

// Values returns a copy of the domain of each variable.
func (d *Discrete) Values() [][]float64 {
	return copyValues(d.values)
}

// Probabilities returns a copy of the probability table.
func (d *Discrete) Probabilities() *tensor.Dense {
	return newTable(append([]float64(nil), d.probs...), d.Shape())
}

// Shape returns the shape of the probability table.
func (d *Discrete) Shape() []int {
	return append([]int(nil), d.shape...)
}

// Prob returns the probability of the outcome x. Values are matched exactly
// against the domains; an outcome outside the domains has probability zero.
func (d *Discrete) Prob(x []float64) float64 {
	if len(x) != d.Dim() {
		panic(badLength)
	}
	sub := make([]int, len(x))
	for i, v := range x {
		k := -1
		for j, w := range d.values[i] {
			if w == v {
				k = j
				break
			}
		}
		if k < 0 {
			return 0
		}
		sub[i] = k
	}
	return d.probs[combin.IdxFor(sub, d.shape)]
}

// LogProb returns the log of the probability of the outcome x.
func (d *Discrete) LogProb(x []float64) float64 {
	return math.Log(d.Prob(x))
}

// Entropy returns the entropy of the joint distribution in nats.
func (d *Discrete) Entropy() float64 {
	return stat.Entropy(d.probs)
}

func (d *Discrete) Rand(x []float64, src rand.Source) []float64 {
	return discreteRander{d: d, u: uniform(src)}.Rand(x)
}

func (d *Discrete) Sample(n int, src rand.Source) [][]float64 {
	return sampleRows(discreteRander{d: d, u: uniform(src)}, n, d.Dim())
}

// discreteRander draws outcomes by inverse-CDF sampling over the flattened
// table.
type discreteRander struct {
	d *Discrete
	u func() float64
}

func (r discreteRander) Rand(x []float64) []float64 {
	d := r.d
	if x == nil {
		x = make([]float64, d.Dim())
	}
	if len(x) != d.Dim() {
		panic(badLength)
	}
	w := r.u()
	idx := sort.Search(len(d.cum), func(i int) bool { return d.cum[i] > w })
	if idx == len(d.cum) {
		// Rounding left the total below w.
		idx = d.last
	}
	sub := combin.SubFor(nil, idx, d.shape)
	for i, k := range sub {
		x[i] = d.values[i][k]
	}
	return x
}

// MarginalDiscrete returns the distribution over all variables except name,
// obtained by summing the table along that variable's axis.
func (d *Discrete) MarginalDiscrete(name string) (*Discrete, error) {
	axis, err := indexOf(d.names, name)
	if err != nil {
		return nil, err
	}
	if d.Dim() == 1 {
		return nil, errors.Wrapf(ErrInvalidDistribution, "cannot marginalize %q, the only variable", name)
	}
	probs, shape := sumAxis(d.probs, d.shape, axis)
	values := without(d.values, axis)
	return newDiscrete(copyValues(values), probs, shape, without(d.names, axis), d.tol), nil
}

func (d *Discrete) Marginalize(name string) (Distribution, error) {
	m, err := d.MarginalDiscrete(name)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ReorderDiscrete returns the distribution with its variables, domains and
// table axes in the order given by names. names must be a permutation of the
// current variable names.
func (d *Discrete) ReorderDiscrete(names []string) (*Discrete, error) {
	perm, err := permutation(d.names, names)
	if err != nil {
		return nil, err
	}
	values := make([][]float64, len(perm))
	for i, p := range perm {
		values[i] = append([]float64(nil), d.values[p]...)
	}
	probs, shape := permuteAxes(d.probs, d.shape, perm)
	return newDiscrete(values, probs, shape, append([]string(nil), names...), d.tol), nil
}

func (d *Discrete) Reorder(names []string) (Distribution, error) {
	r, err := d.ReorderDiscrete(names)
	if err != nil {
		return nil, err
	}
	return r, nil
}
