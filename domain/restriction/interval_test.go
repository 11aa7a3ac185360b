package restriction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalIntersect(t *testing.T) {
	a := Interval{LB: 0.2, UB: 0.7}
	b := Interval{LB: 0.5, UB: 0.9}

	assert.Equal(t, a.Intersect(b), b.Intersect(a), "intersection commutes")
	assert.Equal(t, a, a.Intersect(Unit), "unit is neutral")
	assert.Equal(t, a, a.Intersect(a), "intersection is idempotent")
	assert.Equal(t, Interval{LB: 0.5, UB: 0.7}, a.Intersect(b))

	twice := a.Intersect(b).Intersect(b)
	assert.Equal(t, a.Intersect(b), twice)
}

func TestIntervalTighten(t *testing.T) {
	i := Unit
	i.Tighten(Interval{LB: 0.25, UB: 2})
	assert.Equal(t, Interval{LB: 0.25, UB: 1}, i)

	i.Tighten(Interval{LB: 0.5, UB: 0.4})
	assert.True(t, i.IsEmpty())
}

func TestNewInterval(t *testing.T) {
	_, err := NewInterval(0.6, 0.5)
	require.Error(t, err)

	i, err := NewInterval(0.1, 0.5)
	require.NoError(t, err)
	assert.Equal(t, "[0.1, 0.5]", i.String())
}

func TestIntervalOverlaps(t *testing.T) {
	i := Interval{LB: 0.25, UB: 0.5}
	assert.True(t, i.Overlaps(0.5, 0.75), "touching endpoint counts")
	assert.True(t, i.Overlaps(0, 1))
	assert.False(t, i.Overlaps(0.51, 0.75))
	assert.False(t, i.Overlaps(0, 0.2))
}
