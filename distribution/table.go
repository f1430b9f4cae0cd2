package distribution

import (
	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/stat/combin"
	"gorgonia.org/tensor"
)

// Helpers for the row-major probability tables of Discrete. Tables are held as
// flat slices with an explicit shape and cross the API as gorgonia tensors.

func newTable(data []float64, shape []int) *tensor.Dense {
	return tensor.New(tensor.WithShape(shape...), tensor.WithBacking(data))
}

// tableData returns a row-major copy of the contents of t and its shape.
func tableData(t *tensor.Dense) ([]float64, []int, error) {
	if t == nil {
		return nil, nil, errors.Wrap(ErrInvalidDistribution, "nil probability table")
	}
	if t.Dtype() != tensor.Float64 {
		return nil, nil, errors.Wrapf(ErrInvalidDistribution, "probability table of %v, want float64", t.Dtype())
	}
	if t.IsMaterializable() {
		m, ok := t.Materialize().(*tensor.Dense)
		if !ok {
			return nil, nil, errors.Wrap(ErrInvalidDistribution, "probability table cannot be materialized")
		}
		t = m
	}
	shape := append([]int(nil), t.Shape()...)
	data, err := flatData(t)
	if err != nil {
		return nil, nil, err
	}
	if len(data) != shapeSize(shape) {
		return nil, nil, errors.Wrapf(ErrInvalidDistribution, "%d probabilities for shape %v", len(data), shape)
	}
	return append([]float64(nil), data...), shape, nil
}

func flatData(t *tensor.Dense) ([]float64, error) {
	switch d := t.Data().(type) {
	case []float64:
		return d, nil
	case float64:
		return []float64{d}, nil
	}
	return nil, errors.Newf("distribution: unexpected tensor data %T", t.Data())
}

func shapeSize(shape []int) int {
	n := 1
	for _, v := range shape {
		n *= v
	}
	return n
}

// sumAxis sums the table along axis, removing it from the shape.
func sumAxis(data []float64, shape []int, axis int) ([]float64, []int) {
	rest := without(shape, axis)
	out := make([]float64, shapeSize(rest))
	sub := make([]int, len(shape))
	for idx, p := range data {
		combin.SubFor(sub, idx, shape)
		out[combin.IdxFor(without(sub, axis), rest)] += p
	}
	return out, rest
}

// permuteAxes returns the table with axis i of the result taken from axis
// perm[i] of the input.
func permuteAxes(data []float64, shape, perm []int) ([]float64, []int) {
	newShape := make([]int, len(perm))
	for i, p := range perm {
		newShape[i] = shape[p]
	}
	out := make([]float64, len(data))
	if isIdentity(perm) {
		copy(out, data)
		return out, newShape
	}
	sub := make([]int, len(perm))
	src := make([]int, len(perm))
	for idx := range out {
		combin.SubFor(sub, idx, newShape)
		for i, p := range perm {
			src[p] = sub[i]
		}
		out[idx] = data[combin.IdxFor(src, shape)]
	}
	return out, newShape
}
