package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"radbound/adapters/casefile"
	"radbound/adapters/ledger"
	"radbound/adapters/tablestore"
	"radbound/app"
	"radbound/internal"
	"radbound/internal/config"
	"radbound/internal/prawitz"
)

// env is what every command needs: the service and, when enabled, the ledger.
type env struct {
	cfg     *config.Config
	service *app.ProofService
	ledger  *ledger.Ledger
}

func (e *env) Close() {
	if e.ledger != nil {
		e.ledger.Close()
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	e := &env{}
	rootCmd := &cobra.Command{
		Use:   "radbound",
		Short: "Computer-assisted proofs of tail bounds for Rademacher sums",
		Long: `radbound proves lower bounds Pr[X >= threshold] >= cutoff for normalized
Rademacher sums by branch-and-bound search over coefficient sequences.

Configuration is read from the environment (or a .env file):
- CASES_DIR (default: cases), TABLE_PATH (default: bounder.csv), REPORT_DIR
- COEF_GRAN, THRESH_GRAN, MAX_BOUND_SIGMAS, D_ITERATIONS, WORKERS
- LEDGER_DRIVER (sqlite|postgres), LEDGER_DSN (empty disables the ledger)
- LOG_LEVEL, PPROF_ENABLED, PPROF_PORT`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.open(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			e.Close()
		},
	}

	rootCmd.AddCommand(
		newGenerateCmd(e),
		newRunCmd(e),
		newQueryCmd(e),
		newExportCmd(e),
		newRunsCmd(e),
		newShellCmd(e),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (e *env) open(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := internal.NewDefaultLogger()

	if cfg.Profiling.Enabled {
		go func() {
			logger.Info("Profiling server starting on :%s", cfg.Profiling.Port)
			if err := http.ListenAndServe(":"+cfg.Profiling.Port, nil); err != nil {
				logger.Error("pprof server failed: %v", err)
			}
		}()
	}

	opts := app.Options{
		Cases:     casefile.NewStore(cfg.Paths.CasesDir),
		Tables:    tablestore.NewFileStore(cfg.Paths.TablePath),
		Oracle:    prawitz.NewDefaultAnalytic(),
		Params:    buildParams(cfg),
		Workers:   cfg.Search.Workers,
		ReportDir: cfg.Paths.ReportDir,
		Logger:    logger,
	}
	if cfg.Ledger.Enabled() {
		l, err := ledger.Open(ctx, cfg.Ledger.Driver, cfg.Ledger.DSN)
		if err != nil {
			return err
		}
		e.ledger = l
		opts.Ledger = l
	}

	e.cfg = cfg
	e.service = app.NewProofService(opts)
	return nil
}

func buildParams(cfg *config.Config) prawitz.BuildParams {
	p := prawitz.DefaultBuildParams()
	p.CoefGran = cfg.Table.CoefGran
	p.ThreshGran = cfg.Table.ThreshGran
	p.MaxBound = cfg.Table.MaxBound()
	p.Iterations = cfg.Table.Iterations
	p.Workers = cfg.Search.Workers
	return p
}

func newGenerateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Build the tail table and write it to TABLE_PATH",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := e.service.Generate(cmd.OutOrStdout())
			return err
		},
	}
}

func newRunCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "run [case...]",
		Short: "Search each named case and verify its hypotheses",
		Long: `Run each case from CASES_DIR/<case>.txt through the search and print the
machine-readable summary, the human-readable summary and the verdicts.

Example: radbound run tail-half tail-third`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range args {
				if _, err := e.service.Run(cmd.Context(), name, cmd.OutOrStdout()); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newQueryCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "d [a] [x]",
		Short: "Look up the table bound D(a, x) on Pr[X >= x]",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid coefficient cap %q: %w", args[0], err)
			}
			x, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid threshold %q: %w", args[1], err)
			}
			_, err = e.service.Query(a, x, cmd.OutOrStdout())
			return err
		},
	}
}

func newExportCmd(e *env) *cobra.Command {
	var stride int

	cmd := &cobra.Command{
		Use:   "export [path.xlsx]",
		Short: "Write a sampled view of the tail table to a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := e.service.Bounder(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := tablestore.ExportPreview(args[0], b, stride); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Preview written to %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().IntVar(&stride, "stride", 20, "Keep every stride-th row and column")

	return cmd
}

func newRunsCmd(e *env) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs [case]",
		Short: "List recorded runs, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if e.ledger == nil {
				return fmt.Errorf("the run ledger is disabled, set LEDGER_DSN to enable it")
			}
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return listRuns(cmd.Context(), e.ledger, name, limit, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")

	return cmd
}

func newShellCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Read instructions such as run(case), d(a, x) and generate from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newShell(e.service).Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
