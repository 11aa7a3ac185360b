package prawitz

import (
	"fmt"
	"math"

	"radbound/domain/core"
)

// bernsteinRegime is the cutoff below which Bernstein's inequality is also
// consulted; it can beat the table in the far lower tail.
const bernsteinRegime = -3.0

// Bounder is the refined tail table. bounds[a][y] lower-bounds Pr[X >= t] for
// every normalized Rademacher sum X with leading coefficient at most
// (a+1)/coefGran, where t = (y - maxBound + 1)/threshGran.
//
// A Bounder is immutable and safe to share between goroutines.
type Bounder struct {
	bounds     [][]float64
	coefGran   int
	threshGran int
	maxBound   int
}

// Lookup describes a single table query.
type Lookup struct {
	A      float64
	Cutoff float64
	Row    int
	Col    int
	Value  float64
}

// NewBounder wraps an existing table after checking its shape.
func NewBounder(bounds [][]float64, coefGran, threshGran, maxBound int) (*Bounder, error) {
	if coefGran < 1 || threshGran < 1 || maxBound < 1 {
		return nil, fmt.Errorf("%w: shape %d,%d,%d must be positive", core.ErrMalformedTable, coefGran, threshGran, maxBound)
	}
	if len(bounds) != coefGran {
		return nil, fmt.Errorf("%w: %d rows, header declares %d", core.ErrMalformedTable, len(bounds), coefGran)
	}
	for a, row := range bounds {
		if len(row) != 2*maxBound {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", core.ErrMalformedTable, a, len(row), 2*maxBound)
		}
	}
	return &Bounder{bounds: bounds, coefGran: coefGran, threshGran: threshGran, maxBound: maxBound}, nil
}

func (b *Bounder) CoefGran() int   { return b.coefGran }
func (b *Bounder) ThreshGran() int { return b.threshGran }
func (b *Bounder) MaxBound() int   { return b.maxBound }

// Row returns a copy of the a-th table row.
func (b *Bounder) Row(a int) []float64 {
	return append([]float64(nil), b.bounds[a]...)
}

// Cell returns bounds[a][y].
func (b *Bounder) Cell(a, y int) float64 {
	return b.bounds[a][y]
}

// Get returns the best lower bound on Pr[X >= cutoff] for sums whose leading
// coefficient is at most a.
func (b *Bounder) Get(a, cutoff float64) float64 {
	d, _, _ := lookup(b.bounds, b.coefGran, b.threshGran, b.maxBound, a, cutoff)
	if cutoff < bernsteinRegime {
		return math.Max(d, bernstein(a, cutoff))
	}
	return d
}

// Describe runs Get and reports the table cell consulted.
func (b *Bounder) Describe(a, cutoff float64) Lookup {
	_, row, col := lookup(b.bounds, b.coefGran, b.threshGran, b.maxBound, a, cutoff)
	return Lookup{A: a, Cutoff: cutoff, Row: row, Col: col, Value: b.Get(a, cutoff)}
}

// GetWithVar bounds Pr[Y >= cutoff] for a Rademacher sum Y with leading
// coefficient at most a and variance somewhere in [minVar, maxVar], maxVar <= 1.
// Among the admissible normalizations it picks the one that demands the
// least, so the result holds for every variance in the range.
func (b *Bounder) GetWithVar(a, cutoff, minVar, maxVar float64) float64 {
	if minVar > 0 {
		if cutoff >= 0 {
			// largest normalized cutoff
			return b.Get(a/math.Sqrt(minVar), cutoff/math.Sqrt(minVar))
		}
		// normalized cutoff closest to zero
		return b.Get(a/math.Sqrt(minVar), cutoff/math.Sqrt(maxVar))
	}
	if cutoff >= 0 {
		// Y may be identically zero.
		return 0
	}
	if maxVar <= 0 {
		// Y is identically zero and cutoff < 0.
		return 1
	}
	// the leading coefficient is unbounded after normalization, 1 caps it
	return b.Get(1, cutoff/math.Sqrt(maxVar))
}

// lookup discretizes (a, cutoff) conservatively: the coefficient rounds up,
// and the threshold column rounds up so its t exceeds cutoff. Columns past
// the table mean the trivial bound 0.
func lookup(bounds [][]float64, coefGran, threshGran, maxBound int, a, cutoff float64) (float64, int, int) {
	row := len(bounds) - 1
	if scaled := math.Ceil(a * float64(coefGran)); scaled < float64(row) {
		row = max(0, int(scaled))
	}

	cols := len(bounds[row])
	scaled := math.Ceil(cutoff*float64(threshGran) + float64(maxBound))
	if math.IsNaN(scaled) || scaled >= float64(cols) {
		return 0, row, cols
	}
	col := max(0, int(scaled))
	return bounds[row][col], row, col
}

// bernstein is Bernstein's inequality for Pr[X >= t], t < 0, |a_i| <= a.
func bernstein(a, t float64) float64 {
	return 1 - math.Exp(-(t*t)/(2*(1-a*t/3)))
}
