package distribution

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPermutation(t *testing.T) {
	current := []string{"a", "b", "c"}
	for _, test := range []struct {
		name   string
		target []string
		want   []int
		err    error
	}{
		{name: "identity", target: []string{"a", "b", "c"}, want: []int{0, 1, 2}},
		{name: "rotate", target: []string{"c", "a", "b"}, want: []int{2, 0, 1}},
		{name: "swap", target: []string{"b", "a", "c"}, want: []int{1, 0, 2}},
		{name: "unknown", target: []string{"a", "b", "d"}, err: ErrUnknownVariable},
		{name: "duplicate", target: []string{"a", "a", "c"}, err: ErrInvalidPermutation},
		{name: "short", target: []string{"a", "b"}, err: ErrInvalidPermutation},
		{name: "long", target: []string{"a", "b", "c", "a"}, err: ErrInvalidPermutation},
	} {
		perm, err := permutation(current, test.target)
		if test.err != nil {
			require.ErrorIs(t, err, test.err, test.name)
			continue
		}
		require.NoError(t, err, test.name)
		require.Equal(t, test.want, perm, test.name)
		for i, p := range perm {
			if test.target[i] != current[p] {
				t.Errorf("Case %s: target %d is %q, current[%d] is %q", test.name, i, test.target[i], p, current[p])
			}
		}
	}
}

func TestCheckNames(t *testing.T) {
	require.NoError(t, checkNames([]string{"x", "y"}, 2))
	require.ErrorIs(t, checkNames(nil, 0), ErrInvalidDistribution)
	require.ErrorIs(t, checkNames([]string{"x"}, 2), ErrInvalidDistribution)
	require.ErrorIs(t, checkNames([]string{"x", "x"}, 2), ErrInvalidDistribution)
}

func TestSampleRowsEmpty(t *testing.T) {
	rows := sampleRows(nil, 0, 3)
	if rows == nil || len(rows) != 0 {
		t.Errorf("want empty non-nil rows, got %v", rows)
	}
	require.PanicsWithValue(t, badBatch, func() { sampleRows(nil, -1, 3) })
}
