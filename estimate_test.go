package pgm

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/jakkes/PGM/distribution"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

func TestEstimateDiscrete(t *testing.T) {
	d, err := distribution.NewDiscrete(
		[][]float64{{0, 1}, {0, 1}},
		tensor.New(tensor.WithShape(2, 2), tensor.WithBacking([]float64{0.125, 0.125, 0.25, 0.5})),
		[]string{"rain", "wet"},
	)
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		name string
		fn   func([]float64) float64
		ev   float64
	}{
		{
			name: "P(rain)",
			fn:   func(x []float64) float64 { return x[0] },
			ev:   0.75,
		},
		{
			name: "P(wet)",
			fn:   func(x []float64) float64 { return x[1] },
			ev:   0.625,
		},
		{
			name: "P(rain, wet)",
			fn:   func(x []float64) float64 { return x[0] * x[1] },
			ev:   0.5,
		},
	} {
		res := Estimate(d, test.fn, &Settings{Samples: 40000, Concurrent: 4}, rand.NewPCG(1, 2))
		if math.Abs(res.EV-test.ev) > 5*res.Std+1e-3 {
			t.Errorf("Case %s: EV %v ± %v, want %v", test.name, res.EV, res.Std, test.ev)
		}
		if res.Std <= 0 || res.Std > 0.01 {
			t.Errorf("Case %s: standard error %v", test.name, res.Std)
		}
	}
}

func TestEstimateGaussian(t *testing.T) {
	g, err := distribution.NewGaussian(
		[]float64{5, 3},
		mat.NewSymDense(2, []float64{1, 0.8, 0.8, 1}),
		[]string{"a", "b"},
	)
	if err != nil {
		t.Fatal(err)
	}
	// E[a*b] = cov(a, b) + E[a] E[b]
	res := Estimate(g, func(x []float64) float64 { return x[0] * x[1] }, &Settings{Samples: 50000}, rand.NewPCG(3, 4))
	if math.Abs(res.EV-15.8) > 5*res.Std {
		t.Errorf("EV %v ± %v, want 15.8", res.EV, res.Std)
	}
}

func TestEstimateDeterministic(t *testing.T) {
	g, err := distribution.NewGaussian([]float64{0}, mat.NewSymDense(1, []float64{2}), []string{"x"})
	if err != nil {
		t.Fatal(err)
	}
	square := func(x []float64) float64 { return x[0] * x[0] }
	settings := &Settings{Samples: 1001, Concurrent: 3}
	a := Estimate(g, square, settings, rand.NewPCG(9, 9))
	b := Estimate(g, square, settings, rand.NewPCG(9, 9))
	if a != b {
		t.Errorf("same seed gave %v and %v", a, b)
	}
}

func TestEstimateDefaults(t *testing.T) {
	g, err := distribution.NewGaussian([]float64{1}, mat.NewSymDense(1, []float64{1}), []string{"x"})
	if err != nil {
		t.Fatal(err)
	}
	res := Estimate(g, func(x []float64) float64 { return x[0] }, nil, nil)
	if math.Abs(res.EV-1) > 5*res.Std {
		t.Errorf("EV %v ± %v, want 1", res.EV, res.Std)
	}
	// More workers than samples.
	res = Estimate(g, func(x []float64) float64 { return x[0] }, &Settings{Samples: 2, Concurrent: 8}, rand.NewPCG(1, 1))
	if math.IsNaN(res.EV) {
		t.Errorf("NaN estimate")
	}
}
