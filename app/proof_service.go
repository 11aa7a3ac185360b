package app

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"radbound/adapters/ledger"
	"radbound/adapters/report"
	"radbound/domain/core"
	"radbound/domain/proofcase"
	"radbound/internal"
	"radbound/internal/errors"
	"radbound/internal/extrema"
	"radbound/internal/prawitz"
	"radbound/internal/prover"
	"radbound/ports"
)

// ProofService runs cases against the tail table. The table is built or
// loaded on first use and shared by every later run.
type ProofService struct {
	cases     ports.CaseReaderPort
	tables    ports.TableStorePort
	ledger    ports.LedgerWriterPort
	oracle    prawitz.TailOracle
	params    prawitz.BuildParams
	workers   int
	reportDir string
	logger    *internal.Logger

	mu      sync.Mutex
	bounder *prawitz.Bounder
}

// Options configures a ProofService. Ledger and ReportDir are optional.
type Options struct {
	Cases     ports.CaseReaderPort
	Tables    ports.TableStorePort
	Ledger    ports.LedgerWriterPort
	Oracle    prawitz.TailOracle
	Params    prawitz.BuildParams
	Workers   int
	ReportDir string
	Logger    *internal.Logger
}

// RunOutcome summarizes one completed case run.
type RunOutcome struct {
	ID         core.RunID
	Case       *proofcase.Case
	Results    *extrema.Results
	Verdicts   []extrema.Verdict
	Summary    prover.Summary
	Elapsed    time.Duration
	ReportPath string
}

// Proved reports whether every hypothesis of the run was established.
func (o *RunOutcome) Proved() bool { return extrema.AllProved(o.Verdicts) }

func NewProofService(opts Options) *ProofService {
	if opts.Oracle == nil {
		opts.Oracle = prawitz.NewDefaultAnalytic()
	}
	if opts.Logger == nil {
		opts.Logger = internal.DefaultLogger
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &ProofService{
		cases:     opts.Cases,
		tables:    opts.Tables,
		ledger:    opts.Ledger,
		oracle:    opts.Oracle,
		params:    opts.Params,
		workers:   opts.Workers,
		reportDir: opts.ReportDir,
		logger:    opts.Logger,
	}
}

// Generate builds a fresh table, persists it and makes it current.
func (s *ProofService) Generate(w io.Writer) (*prawitz.Bounder, error) {
	fmt.Fprintln(w, "Running first time computation of Bounder object!")
	start := time.Now()

	b, err := prawitz.Build(s.oracle, s.params, s.logger)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	if err := s.tables.Save(b); err != nil {
		return nil, errors.Storage(err, "failed to persist table")
	}

	s.mu.Lock()
	s.bounder = b
	s.mu.Unlock()

	fmt.Fprintf(w, "Precomputation complete. Duration: %s. Table written to %s.\n",
		time.Since(start).Round(time.Millisecond), s.tables.Path())
	return b, nil
}

// Bounder returns the current table, loading it from the store on first use.
func (s *ProofService) Bounder(w io.Writer) (*prawitz.Bounder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bounder != nil {
		return s.bounder, nil
	}

	fmt.Fprintln(w, "Running first time setup of Bounder object!")
	start := time.Now()
	b, err := s.tables.Load()
	if err != nil {
		if core.IsNotFoundError(err) {
			return nil, errors.Classify(err, "no table found, run generate first")
		}
		return nil, errors.Classify(err, "failed to load table")
	}
	s.bounder = b
	fmt.Fprintf(w, "Finished reading table. Duration: %s.\n", time.Since(start).Round(time.Millisecond))
	return b, nil
}

// Run searches the named case and prints the machine-readable and
// human-readable summaries followed by the verdicts.
func (s *ProofService) Run(ctx context.Context, name string, w io.Writer) (*RunOutcome, error) {
	caseName, err := core.ParseCaseName(name)
	if err != nil {
		return nil, errors.Classify(err, "invalid case name")
	}
	c, err := s.cases.Load(caseName)
	if err != nil {
		if core.IsNotFoundError(err) {
			return nil, errors.Classify(err, "Unknown case!")
		}
		return nil, errors.Classify(err, fmt.Sprintf("failed to load case %s", caseName))
	}
	b, err := s.Bounder(w)
	if err != nil {
		return nil, err
	}

	runID := core.NewRunID()
	started := time.Now()
	s.logger.Info("Run %s: case %s, depth %d, denominator %d", runID, caseName, c.MaxDepth, c.Denominator)

	results, stats := prover.NewProver(b, s.workers, s.logger).Simulate(c)
	verdicts := results.Verify()
	summary, err := prover.Summarize(stats)
	if err != nil {
		s.logger.Warn("Run %s: statistics unavailable: %v", runID, err)
	}

	fmt.Fprintln(w, "MACHINE-READABLE RESULTS:")
	results.WriteMachine(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "HUMAN-READABLE RESULTS:")
	results.WriteHuman(w)
	fmt.Fprintln(w)
	extrema.WriteVerdicts(w, verdicts)
	fmt.Fprintf(w, "Search: %s\n", summary)
	fmt.Fprintf(w, "Simulation complete! Duration: %s.\n", stats.Duration.Round(time.Millisecond))

	outcome := &RunOutcome{
		ID:       runID,
		Case:     c,
		Results:  results,
		Verdicts: verdicts,
		Summary:  summary,
		Elapsed:  stats.Duration,
	}

	if s.reportDir != "" {
		path, err := report.Write(s.reportDir, report.Run{
			ID: runID, Case: c, Results: results, Verdicts: verdicts,
			Stats: summary.String(), StartedAt: started, Elapsed: stats.Duration,
		})
		if err != nil {
			return outcome, errors.Storage(err, "failed to write report")
		}
		outcome.ReportPath = path
		fmt.Fprintf(w, "Report written to %s\n", path)
	}

	if s.ledger != nil {
		entry, err := ledger.NewRun(runID, caseName, started, stats.Duration, stats.Leaves(), stats.Nodes(), verdicts)
		if err != nil {
			return outcome, errors.Storage(err, "failed to encode run")
		}
		if err := s.ledger.RecordRun(ctx, entry); err != nil {
			return outcome, errors.Storage(err, "failed to record run")
		}
	}
	return outcome, nil
}

// Query prints the table lookup for coefficient cap a and threshold x next
// to the Gaussian tail Pr[Z >= x].
func (s *ProofService) Query(a, x float64, w io.Writer) (prawitz.Lookup, error) {
	if a <= 0 || a > 1 {
		return prawitz.Lookup{}, errors.InvalidInput(fmt.Sprintf("coefficient cap must be in (0, 1], got %g", a))
	}
	b, err := s.Bounder(w)
	if err != nil {
		return prawitz.Lookup{}, err
	}
	l := b.Describe(a, x)
	fmt.Fprintf(w, "D(%g, %g) ~ bounds[%d][%d] = %g\n", a, x, l.Row, l.Col, l.Value)
	fmt.Fprintf(w, "Gaussian tail Pr[Z >= %g] = %g\n", x, distuv.UnitNormal.Survival(x))
	return l, nil
}

// Cases lists the available case names.
func (s *ProofService) Cases() ([]core.CaseName, error) {
	names, err := s.cases.List()
	if err != nil {
		return nil, errors.Classify(err, "failed to list cases")
	}
	return names, nil
}
