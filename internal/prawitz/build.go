package prawitz

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"radbound/internal"
)

// BuildParams fixes the table shape and the refinement schedule.
type BuildParams struct {
	CoefGran   int
	ThreshGran int
	MaxBound   int
	Iterations int
	Workers    int

	// Seeding rounds coefficient and threshold bins up to multiples of these,
	// so neighbouring cells share oracle calls.
	CoefRounding   int
	ThreshRounding int
}

// DefaultBuildParams is the production table: 2000x12000 cells covering
// thresholds in [-3, 3), refined by 1000 sweeps.
func DefaultBuildParams() BuildParams {
	return BuildParams{
		CoefGran:       2000,
		ThreshGran:     2000,
		MaxBound:       3 * 2000,
		Iterations:     1000,
		Workers:        runtime.GOMAXPROCS(0),
		CoefRounding:   16,
		ThreshRounding: 8,
	}
}

// Validate rejects shapes the table cannot represent.
func (p BuildParams) Validate() error {
	if p.CoefGran < 2 || p.ThreshGran < 1 || p.MaxBound < 1 {
		return fmt.Errorf("table shape %d,%d,%d is too small", p.CoefGran, p.ThreshGran, p.MaxBound)
	}
	if p.Iterations < 0 {
		return fmt.Errorf("iterations must be non-negative, got %d", p.Iterations)
	}
	if p.CoefRounding < 1 || p.ThreshRounding < 1 {
		return fmt.Errorf("rounding granularities must be positive")
	}
	return nil
}

// Build seeds a table from the oracle and refines it. The build is not
// interruptible; a Bounder is only returned once every sweep has finished.
func Build(oracle TailOracle, p BuildParams, logger *internal.Logger) (*Bounder, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Workers < 1 {
		p.Workers = 1
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	bounds := seed(oracle, p, logger)
	bounds = refine(bounds, p, logger)

	return &Bounder{bounds: bounds, coefGran: p.CoefGran, threshGran: p.ThreshGran, maxBound: p.MaxBound}, nil
}

// roundUp rounds v away from the table's zero column to a multiple of d,
// toward larger coefficients and thresholds.
func roundUp(v, d int) int {
	if v >= 0 {
		return ((v + d - 1) / d) * d
	}
	return (v / d) * d
}

// seedCell is the pessimistic oracle value for cell (a, y).
func seedCell(oracle TailOracle, a, y int, p BuildParams) float64 {
	v := oracle.Bound(roundUp(a, p.CoefRounding)+1, p.CoefGran,
		roundUp(y-p.MaxBound, p.ThreshRounding)+1, p.ThreshGran)
	if y < p.MaxBound {
		// Pr[X >= t] >= 1/2 for t <= 0 by symmetry
		v = math.Max(v, 0.5)
	}
	return v
}

func seed(oracle TailOracle, p BuildParams, logger *internal.Logger) [][]float64 {
	cols := 2 * p.MaxBound
	bounds := newTable(p.CoefGran, cols)

	logger.Info("Precomputation #1: seeding %dx%d table from the analytic bound", p.CoefGran, cols)
	sem := semaphore.NewWeighted(int64(p.Workers))
	ctx := context.Background()
	var wg sync.WaitGroup
	var done atomic.Int64
	step := max(1, cols/10)

	for y := 0; y < cols; y++ {
		// Acquire cannot fail on a background context.
		_ = sem.Acquire(ctx, 1)
		wg.Add(1)
		go func(y int) {
			defer wg.Done()
			defer sem.Release(1)
			for a := 0; a < p.CoefGran; a++ {
				bounds[a][y] = seedCell(oracle, a, y, p)
			}
			if n := done.Add(1); n%int64(step) == 0 {
				logger.Info("Precomputation #1: %d%%", n*100/int64(cols))
			}
		}(y)
	}
	wg.Wait()
	return bounds
}

// refine runs the elimination/monotonicity sweeps. The elimination lookups
// read the previous sweep's table while the monotonicity step reads the
// current column, so columns are independent and the result does not depend
// on scheduling. Every value read is a valid lower bound, which keeps each
// sweep sound.
func refine(bounds [][]float64, p BuildParams, logger *internal.Logger) [][]float64 {
	if p.Iterations == 0 {
		return bounds
	}
	cols := 2 * p.MaxBound
	prev, next := bounds, newTable(p.CoefGran, cols)
	chunk := max(1, (cols+p.Workers-1)/p.Workers)
	step := max(1, p.Iterations/20)

	logger.Info("Precomputation #2: %d refinement sweeps", p.Iterations)
	for i := 0; i < p.Iterations; i++ {
		if i%step == 0 {
			logger.Info("Precomputation #2: %d%%", i*100/p.Iterations)
		}
		var g errgroup.Group
		g.SetLimit(p.Workers)
		for lo := 0; lo < cols; lo += chunk {
			hi := min(cols, lo+chunk)
			g.Go(func() error {
				for y := lo; y < hi; y++ {
					sweepColumn(prev, next, y, p)
				}
				return nil
			})
		}
		_ = g.Wait()
		prev, next = next, prev
	}
	logger.Info("Precomputation #2: 100%%")
	return prev
}

// sweepColumn improves column y. Cell (a, y) covers a_1 <= (a+1)/coefGran;
// split into a_1 <= a/coefGran (the cell below) and a_1 in the top bin,
// handled by eliminating a_1. The cell keeps the weaker of the two cases.
func sweepColumn(prev, next [][]float64, y int, p BuildParams) {
	t := float64(y-p.MaxBound+1) / float64(p.ThreshGran)
	for a := 0; a < p.CoefGran; a++ {
		bound := eliminationBound(prev, a, t, p)
		if a > 0 {
			bound = math.Min(bound, next[a-1][y])
		}
		next[a][y] = math.Max(prev[a][y], bound)
	}
}

// eliminationBound conditions on the sign of a_1 in [a/g, (a+1)/g]. The rest
// of the sum has variance at least 1-((a+1)/g)^2; renormalizing by it gives
// two sub-problems at reflected thresholds.
func eliminationBound(bounds [][]float64, a int, t float64, p BuildParams) float64 {
	minA1 := float64(a) / float64(p.CoefGran)
	maxA1 := float64(a+1) / float64(p.CoefGran)

	bound := 0.0
	if t <= minA1 {
		// a_1 and the rest both positive: probability at least 1/4
		bound = 0.25
	}
	// the top bin contains a_1 = 1, which cannot be eliminated
	if a+1 < p.CoefGran {
		minSigma := math.Sqrt(1 - maxA1*maxA1)
		up, _, _ := lookup(bounds, p.CoefGran, p.ThreshGran, p.MaxBound, maxA1/minSigma, (t-minA1)/minSigma)
		down, _, _ := lookup(bounds, p.CoefGran, p.ThreshGran, p.MaxBound, maxA1/minSigma, (t+maxA1)/minSigma)
		bound = math.Max(bound, (up+down)/2)
	}
	return bound
}

func newTable(rows, cols int) [][]float64 {
	backing := make([]float64, rows*cols)
	table := make([][]float64, rows)
	for a := range table {
		table[a] = backing[a*cols : (a+1)*cols : (a+1)*cols]
	}
	return table
}
