package prawitz

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radbound/domain/core"
)

// smallBounder has coefGran=2, threshGran=1, maxBound=2: columns are
// thresholds -1, 0, 1, 2.
func smallBounder(t *testing.T) *Bounder {
	t.Helper()
	b, err := NewBounder([][]float64{
		{0.9, 0.8, 0.3, 0.1},
		{0.7, 0.6, 0.2, 0.05},
	}, 2, 1, 2)
	require.NoError(t, err)
	return b
}

func TestNewBounderRejectsBadShape(t *testing.T) {
	_, err := NewBounder([][]float64{{1, 2, 3, 4}}, 2, 1, 2)
	assert.ErrorIs(t, err, core.ErrMalformedTable)

	_, err = NewBounder([][]float64{{1, 2, 3}, {1, 2, 3}}, 2, 1, 2)
	assert.ErrorIs(t, err, core.ErrMalformedTable)

	_, err = NewBounder(nil, 0, 1, 2)
	assert.ErrorIs(t, err, core.ErrMalformedTable)
}

func TestGetDiscretization(t *testing.T) {
	b := smallBounder(t)

	tests := []struct {
		name      string
		a, cutoff float64
		want      float64
	}{
		{"coefficient rounds up", 0.5, 0, 0.2},
		{"threshold rounds up", 0.3, -1.5, 0.6},
		{"zero coefficient uses first row", 0, 0.5, 0.1},
		{"past last column", 1, 2, 0},
		{"coefficient saturates", 3, -2, 0.7},
		{"threshold saturates low", 0, -2.9, 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Get(tt.a, tt.cutoff))
		})
	}
}

func TestGetBernsteinFallback(t *testing.T) {
	b := smallBounder(t)

	want := 1 - math.Exp(-100/(2*(1+5.0*10/3)))
	assert.InDelta(t, want, b.Get(5, -10), 1e-12)
	assert.Greater(t, b.Get(5, -10), 0.7)

	// At -3 exactly the table value stands.
	assert.Equal(t, 0.7, b.Get(1, -3))
}

func TestDescribe(t *testing.T) {
	b := smallBounder(t)
	l := b.Describe(0.3, -1.5)
	assert.Equal(t, 1, l.Row)
	assert.Equal(t, 1, l.Col)
	assert.Equal(t, 0.6, l.Value)

	past := b.Describe(0.2, 7)
	assert.Equal(t, 4, past.Col)
	assert.Equal(t, 0.0, past.Value)
}

func TestGetWithVar(t *testing.T) {
	b := smallBounder(t)

	// positive cutoff divides by the smallest standard deviation
	assert.Equal(t, b.Get(0.1/0.5, 0.25/0.5), b.GetWithVar(0.1, 0.25, 0.25, 0.64))
	// negative cutoff divides by the largest standard deviation
	assert.Equal(t, b.Get(0.1/0.5, -0.4/0.8), b.GetWithVar(0.1, -0.4, 0.25, 0.64))
	// the remainder may vanish: nothing is known for cutoff >= 0
	assert.Equal(t, 0.0, b.GetWithVar(0.1, 0, -0.1, 0.5))
	assert.Equal(t, b.Get(1, -0.4/math.Sqrt(0.5)), b.GetWithVar(0.1, -0.4, -0.1, 0.5))
	// the remainder is identically zero
	assert.Equal(t, 1.0, b.GetWithVar(0.1, -0.4, -0.2, 0))
}

func TestRowIsACopy(t *testing.T) {
	b := smallBounder(t)
	row := b.Row(0)
	row[0] = -1
	assert.Equal(t, 0.9, b.Cell(0, 0))
}
