package distribution

import (
	"math"
	"math/rand/v2"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// eigenNormal samples a multivariate normal whose covariance may be singular.
// With the covariance factored as V Λ Vᵀ, an outcome is mean + V Λ^½ z where
// the entries of z are independent unit normals.
type eigenNormal struct {
	mean      []float64
	transform *mat.Dense
	unit      distuv.Normal
}

func newEigenNormal(mean []float64, cov *mat.SymDense, tol float64) (*eigenNormal, error) {
	var eig mat.EigenSym
	if !eig.Factorize(cov, true) {
		return nil, errors.Wrap(ErrInvalidDistribution, "eigendecomposition of covariance failed")
	}
	vals := eig.Values(nil)
	var scale float64
	for _, v := range vals {
		scale = math.Max(scale, math.Abs(v))
	}
	if low := floats.Min(vals); low < -tol*scale {
		return nil, errors.Wrapf(ErrInvalidDistribution, "covariance not positive semi-definite, eigenvalue %v", low)
	}
	var transform mat.Dense
	eig.VectorsTo(&transform)
	for j, v := range vals {
		var s float64
		if v > tol*scale {
			s = math.Sqrt(v)
		}
		for i := range vals {
			transform.Set(i, j, transform.At(i, j)*s)
		}
	}
	return &eigenNormal{
		mean:      mean,
		transform: &transform,
		unit:      distuv.Normal{Mu: 0, Sigma: 1},
	}, nil
}

func (e *eigenNormal) withSource(src rand.Source) *eigenNormal {
	c := *e
	c.unit.Src = src
	return &c
}

func (e *eigenNormal) Rand(x []float64) []float64 {
	dim := len(e.mean)
	if x == nil {
		x = make([]float64, dim)
	}
	if len(x) != dim {
		panic(badLength)
	}
	z := make([]float64, dim)
	for i := range z {
		z[i] = e.unit.Rand()
	}
	mat.NewVecDense(dim, x).MulVec(e.transform, mat.NewVecDense(dim, z))
	floats.Add(x, e.mean)
	return x
}
