package prover

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// Summary aggregates per-root branch sizes of a search.
type Summary struct {
	Roots           int
	Nodes           int
	Leaves          int
	Pruned          int
	MeanBranchNodes float64
	MaxBranchNodes  float64
	P95BranchNodes  float64
	PruneRate       float64
}

// Summarize computes aggregate statistics over the branches of s.
func Summarize(s RunStats) (Summary, error) {
	sum := Summary{Roots: len(s.Branches)}
	if sum.Roots == 0 {
		return sum, nil
	}

	nodes := make(stats.Float64Data, 0, len(s.Branches))
	for _, b := range s.Branches {
		nodes = append(nodes, float64(b.Nodes))
		sum.Nodes += b.Nodes
		sum.Leaves += b.Leaves
		sum.Pruned += b.Pruned
	}

	var err error
	if sum.MeanBranchNodes, err = stats.Mean(nodes); err != nil {
		return sum, fmt.Errorf("mean branch size: %w", err)
	}
	if sum.MaxBranchNodes, err = stats.Max(nodes); err != nil {
		return sum, fmt.Errorf("max branch size: %w", err)
	}
	if sum.P95BranchNodes, err = stats.Percentile(nodes, 95); err != nil {
		return sum, fmt.Errorf("p95 branch size: %w", err)
	}
	if sum.Nodes > 0 {
		sum.PruneRate = float64(sum.Pruned) / float64(sum.Nodes)
	}
	return sum, nil
}

// String renders the summary as a single report line.
func (s Summary) String() string {
	return fmt.Sprintf("roots=%d nodes=%d leaves=%d pruned=%d (%.1f%%) branch nodes: mean=%.1f p95=%.1f max=%.0f",
		s.Roots, s.Nodes, s.Leaves, s.Pruned, 100*s.PruneRate,
		s.MeanBranchNodes, s.P95BranchNodes, s.MaxBranchNodes)
}
