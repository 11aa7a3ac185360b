package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"radbound/domain/restriction"
)

func TestIntervalWidth(t *testing.T) {
	s := FromNumerators(7, 6, 3, 0, 2)
	for i := 0; i < s.Len(); i++ {
		assert.LessOrEqual(t, s.Min(i), s.Max(i))
		assert.InDelta(t, 1.0/7, s.Max(i)-s.Min(i), 1e-15)
	}
}

func TestVariance(t *testing.T) {
	s := FromNumerators(4, 3, 1)
	assert.Equal(t, 10.0/16, s.MinVariance())
	assert.Equal(t, 20.0/16, s.MaxVariance())
}

func TestNewAndSet(t *testing.T) {
	s := New(4, 4, 3)
	assert.Equal(t, []int{4, 4, 4}, s.Numerators())

	s.Set(1, 2)
	assert.Equal(t, 2, s.Numerator(1))

	c := s.Clone()
	c.Set(1, 0)
	assert.Equal(t, 2, s.Numerator(1), "clone is independent")
}

func TestSatisfiesRestrictions(t *testing.T) {
	s := FromNumerators(4, 3, 1)
	rs := []restriction.Restriction{
		restriction.Bounds{Index: 1, Interval: restriction.Interval{LB: 0.6, UB: 1}},
	}
	assert.True(t, s.SatisfiesRestrictions(rs, 1), "index 1 not fixed yet")
	assert.False(t, s.SatisfiesRestrictions(rs, 2))
}

func TestString(t *testing.T) {
	assert.Equal(t, "0.750 0.250", FromNumerators(4, 3, 1).String())
}
