package prover

import (
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"radbound/domain/proofcase"
	"radbound/domain/sequence"
	"radbound/internal"
	"radbound/internal/extrema"
)

// BranchStats describes the subtree under one root numerator.
type BranchStats struct {
	Root   int
	Nodes  int
	Pruned int
	Leaves int
}

// RunStats describes a whole search.
type RunStats struct {
	Branches []BranchStats
	Duration time.Duration
}

// Leaves is the number of terminal sequences reached.
func (s RunStats) Leaves() int {
	total := 0
	for _, b := range s.Branches {
		total += b.Leaves
	}
	return total
}

// Nodes is the number of search nodes visited.
func (s RunStats) Nodes() int {
	total := 0
	for _, b := range s.Branches {
		total += b.Nodes
	}
	return total
}

// Prover searches cases against one shared, read-only bounder.
type Prover struct {
	bounder TailBounder
	workers int
	logger  *internal.Logger
}

// NewProver creates a prover running up to workers root branches at once.
func NewProver(b TailBounder, workers int, logger *internal.Logger) *Prover {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Prover{bounder: b, workers: workers, logger: logger}
}

// Simulate explores every admissible sequence of c and returns the envelopes
// of the survivors. Each root numerator is an independent subtree with its
// own sequence buffer and accumulator; accumulators are merged as branches
// finish, which is order-independent.
func (p *Prover) Simulate(c *proofcase.Case) (*extrema.Results, RunStats) {
	start := time.Now()
	lo, hi := c.LowerNumerator(0), c.UpperNumerator(0)
	results := extrema.NewResults(c)

	if hi < lo {
		p.logger.Info("Root range is empty; nothing to search")
		return results, RunStats{Duration: time.Since(start)}
	}

	roots := hi - lo + 1
	stats := make([]BranchStats, roots)
	var mu sync.Mutex
	var done atomic.Int64

	var g errgroup.Group
	g.SetLimit(p.workers)
	for n := lo; n <= hi; n++ {
		g.Go(func() error {
			branch, st := p.runRoot(c, n)
			mu.Lock()
			results.Merge(branch)
			stats[n-lo] = st
			mu.Unlock()

			finished := done.Add(1)
			p.logger.Info("Search progress: %.1f%%", 100*float64(finished)/float64(roots))
			p.logger.Debug("Root %d/%d: %d nodes, %d pruned, %d leaves",
				n, c.Denominator, st.Nodes, st.Pruned, st.Leaves)
			return nil
		})
	}
	_ = g.Wait()

	return results, RunStats{Branches: stats, Duration: time.Since(start)}
}

func (p *Prover) runRoot(c *proofcase.Case, root int) (*extrema.Results, BranchStats) {
	seq := sequence.New(0, c.Denominator, c.MaxDepth)
	seq.Set(0, root)
	results := extrema.NewResults(c)
	st := BranchStats{Root: root}
	p.descend(c, seq, results, &st, 1)
	return results, st
}

// descend checks the sequence fixed up to depth, then either branches on
// a_depth or, at full depth, records the leaf. Only non-increasing numerator
// sequences are explored.
func (p *Prover) descend(c *proofcase.Case, seq *sequence.Seq, results *extrema.Results, st *BranchStats, depth int) {
	st.Nodes++
	if !seq.SatisfiesRestrictions(c.Restrictions, depth) || !CouldBeCounterexample(p.bounder, c, seq, depth) {
		st.Pruned++
		return
	}
	if depth == c.MaxDepth {
		st.Leaves++
		results.IncludeSeq(seq, depth)
		return
	}

	lo := c.LowerNumerator(depth)
	hi := min(seq.Numerator(depth-1), c.UpperNumerator(depth))
	for n := lo; n <= hi; n++ {
		seq.Set(depth, n)
		p.descend(c, seq, results, st, depth+1)
	}
	seq.Set(depth, 0)
}
