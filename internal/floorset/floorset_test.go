package floorset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  []int
		expectErr bool
	}{
		{
			name:     "Canonical bracketed list",
			raw:      "[1,2,5]",
			expected: []int{1, 2, 5},
		},
		{
			name:     "Single element",
			raw:      "[3]",
			expected: []int{3},
		},
		{
			name:     "Empty set",
			raw:      "[]",
			expected: []int{},
		},
		{
			name:     "Legacy bare list",
			raw:      "0,1,2",
			expected: []int{0, 1, 2},
		},
		{
			name:     "Whitespace tolerated",
			raw:      " [ 1 , 2 ] ",
			expected: []int{1, 2},
		},
		{
			name:     "Duplicates dropped keeping order",
			raw:      "[2,1,2,1]",
			expected: []int{2, 1},
		},
		{
			name:     "Non-contiguous floors",
			raw:      "[0,7,3]",
			expected: []int{0, 7, 3},
		},
		{
			name:      "Empty string",
			raw:       "",
			expectErr: true,
		},
		{
			name:      "Garbage element",
			raw:       "[1,two,3]",
			expectErr: true,
		},
		{
			name:      "Negative floor",
			raw:       "[-1,2]",
			expectErr: true,
		},
		{
			name:      "Unbalanced open bracket",
			raw:       "[1,2",
			expectErr: true,
		},
		{
			name:      "Unbalanced close bracket",
			raw:       "1,2]",
			expectErr: true,
		},
		{
			name:      "Trailing comma",
			raw:       "[1,2,]",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			floors, err := Parse(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformed)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, floors)
			}
		})
	}
}

func TestSerialize(t *testing.T) {
	assert.Equal(t, "[]", Serialize(nil))
	assert.Equal(t, "[]", Serialize([]int{}))
	assert.Equal(t, "[4]", Serialize([]int{4}))
	assert.Equal(t, "[1,2,5]", Serialize([]int{1, 2, 5}))
}

// Parse must invert Serialize for any finite set of non-negative floors.
func TestRoundTrip(t *testing.T) {
	sets := [][]int{
		{},
		{0},
		{5},
		{0, 1, 2},
		{9, 3, 7},
		{0, 10, 20, 30},
	}
	for _, s := range sets {
		parsed, err := Parse(Serialize(s))
		assert.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
}
