package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"radbound/domain/core"
	"radbound/ports"
)

func listRuns(ctx context.Context, l ports.LedgerReaderPort, name string, limit int, w io.Writer) error {
	runs, err := l.ListRuns(ctx, core.CaseName(name), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tCASE\tSTARTED\tDURATION\tLEAVES\tRESULT")
	for _, r := range runs {
		result := "proved"
		if !r.Proved {
			result = "failed: " + strings.Join(r.FailedHypotheses(), "; ")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			r.ID, r.CaseName, r.StartedAt.Format(time.RFC3339),
			time.Duration(r.DurationMS)*time.Millisecond, r.Terminals, result)
	}
	return tw.Flush()
}
