package distribution

import (
	"math/rand/v2"

	"github.com/cockroachdb/errors"
	logging "github.com/op/go-logging"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/samplemv"
)

var log = logging.MustGetLogger("pgm/distribution")

var (
	// ErrInvalidDistribution is returned when the parameters of a distribution
	// violate one of its invariants.
	ErrInvalidDistribution = errors.New("invalid distribution")
	// ErrUnknownVariable is returned when a variable name is not one of the
	// variables of the distribution.
	ErrUnknownVariable = errors.New("unknown variable")
	// ErrInvalidPermutation is returned by Reorder when the requested names are
	// not a permutation of the current variable names.
	ErrInvalidPermutation = errors.New("invalid permutation")
)

const (
	badLength = "distribution: length mismatch"
	badBatch  = "distribution: negative number of samples"
)

// Distribution is a joint distribution over an ordered set of named variables.
// Position i of VariableNames corresponds to dimension i of every outcome
// returned by Rand and Sample.
type Distribution interface {
	// VariableNames returns a copy of the variable names in axis order.
	VariableNames() []string
	// Dim returns the number of variables.
	Dim() int

	// Rand draws a single outcome into x and returns it. If x is nil a new
	// slice is allocated, otherwise len(x) must equal Dim.
	Rand(x []float64, src rand.Source) []float64
	// Sample draws n independent outcomes, one row per outcome.
	Sample(n int, src rand.Source) [][]float64

	// Marginalize returns the distribution over all variables except name.
	Marginalize(name string) (Distribution, error)
	// Reorder returns the same distribution with its variables in the order
	// given by names.
	Reorder(names []string) (Distribution, error)
}

// checkNames verifies that there is one unique name per dimension.
func checkNames(names []string, dim int) error {
	if dim == 0 {
		return errors.Wrap(ErrInvalidDistribution, "no variables")
	}
	if len(names) != dim {
		return errors.Wrapf(ErrInvalidDistribution, "%d variable names for %d dimensions", len(names), dim)
	}
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			return errors.Wrapf(ErrInvalidDistribution, "duplicate variable name %q", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

func indexOf(names []string, name string) (int, error) {
	for i, v := range names {
		if v == name {
			return i, nil
		}
	}
	return -1, errors.Wrapf(ErrUnknownVariable, "variable %q", name)
}

// permutation returns perm such that target[i] == current[perm[i]]. Every
// current name must appear in target exactly once.
func permutation(current, target []string) ([]int, error) {
	if len(target) != len(current) {
		return nil, errors.Wrapf(ErrInvalidPermutation, "%d names for %d variables", len(target), len(current))
	}
	perm := make([]int, len(target))
	used := make([]bool, len(current))
	for i, name := range target {
		j, err := indexOf(current, name)
		if err != nil {
			return nil, err
		}
		if used[j] {
			return nil, errors.Wrapf(ErrInvalidPermutation, "variable %q listed twice", name)
		}
		used[j] = true
		perm[i] = j
	}
	return perm, nil
}

func isIdentity(perm []int) bool {
	for i, v := range perm {
		if i != v {
			return false
		}
	}
	return true
}

// without returns a copy of s with element i removed.
func without[T any](s []T, i int) []T {
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

// sampleRows draws n outcomes of dimension dim from r.
func sampleRows(r distmv.Rander, n, dim int) [][]float64 {
	if n < 0 {
		panic(badBatch)
	}
	rows := make([][]float64, n)
	if n == 0 {
		return rows
	}
	batch := mat.NewDense(n, dim, nil)
	samplemv.IID{Dist: r}.Sample(batch)
	for i := range rows {
		rows[i] = batch.RawRowView(i)[:dim:dim]
	}
	return rows
}

// uniform returns a generator of uniform values in [0, 1) drawing from src.
func uniform(src rand.Source) func() float64 {
	if src == nil {
		return rand.Float64
	}
	return rand.New(src).Float64
}
