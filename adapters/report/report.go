// Package report writes per-run summaries as Markdown and HTML files.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"radbound/domain/core"
	"radbound/domain/proofcase"
	"radbound/internal/extrema"
)

// Run is everything a report shows about one search.
type Run struct {
	ID        core.RunID
	Case      *proofcase.Case
	Results   *extrema.Results
	Verdicts  []extrema.Verdict
	Stats     string
	StartedAt time.Time
	Elapsed   time.Duration
}

// Markdown renders the report body.
func Markdown(r Run) []byte {
	var b bytes.Buffer
	c := r.Case
	fmt.Fprintf(&b, "# Case %s\n\n", c.Name)
	fmt.Fprintf(&b, "Run `%s` started %s, took %s.\n\n", r.ID, r.StartedAt.UTC().Format(time.RFC3339), r.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(&b, "Target: Pr[X >= %g] >= %g with %d coefficients at resolution 1/%d.\n\n",
		c.Threshold, c.ProbCutoff, c.MaxDepth, c.Denominator)

	b.WriteString("## Hypotheses\n\n| Hypothesis | Result | Detail |\n|---|---|---|\n")
	for _, v := range r.Verdicts {
		status := "failed"
		if v.Proved {
			status = "proved"
		}
		fmt.Fprintf(&b, "| `%s` | %s | %s |\n", v.Hypothesis, status, v.Message)
	}
	if extrema.AllProved(r.Verdicts) {
		b.WriteString("\nAll hypotheses proved!\n")
	} else {
		b.WriteString("\nFAILED to prove all hypotheses!\n")
	}

	b.WriteString("\n## Envelopes\n\n```\n")
	r.Results.WriteHuman(&b)
	b.WriteString("```\n\n## Machine-readable\n\n```\n")
	r.Results.WriteMachine(&b)
	b.WriteString("```\n")

	if r.Stats != "" {
		fmt.Fprintf(&b, "\n## Search\n\n%s\n", r.Stats)
	}
	return b.Bytes()
}

// HTML converts a Markdown report into a standalone page.
func HTML(title string, md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse(md)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: title,
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.Render(doc, renderer)
}

// Write stores <case>-<run>.md and .html under dir and returns the Markdown path.
func Write(dir string, r Run) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	base := filepath.Join(dir, fmt.Sprintf("%s-%s", r.Case.Name, r.ID))
	md := Markdown(r)
	if err := os.WriteFile(base+".md", md, 0o644); err != nil {
		return "", fmt.Errorf("write markdown report: %w", err)
	}
	page := HTML(fmt.Sprintf("Case %s", r.Case.Name), md)
	if err := os.WriteFile(base+".html", page, 0o644); err != nil {
		return "", fmt.Errorf("write html report: %w", err)
	}
	return base + ".md", nil
}
