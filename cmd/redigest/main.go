package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sugawarayuuta/sonnet"

	"redigest/internal/collector"
	"redigest/internal/config"
	"redigest/internal/enzyme"
	"redigest/internal/fasta"
	"redigest/internal/schedule"
	"redigest/internal/sim"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// usageError exits with status 2 and prints usage.
type usageError struct{ error }

func (e usageError) Unwrap() error { return e.error }

// flags bound into viper; "config" is read directly
var boundFlags = []string{
	"input", "output", "enzymes", "workers", "batch", "label", "compress",
	"soft-mask", "skip-invalid", "cache", "summary", "profile", "verbose",
	"sim-len", "sim-gc", "sim-seed",
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	var cfgFile string
	cmd := &cobra.Command{
		Use:   "redigest --input <fasta> --enzymes <enzyme_list> [--output <prefix>]",
		Short: "In-silico restriction digest with per-enzyme cut-site BED files",
		Long: `In-silico restriction digest of a FASTA reference.

The enzyme list is a tab-delimited file with 3 fields: (1) the enzyme name,
(2) the recognition site 5'->3' (IUPAC ambiguity codes allowed) and (3) the
cut position within the site, counted from the 5' end, 0 indexed.
Lines starting with '#' are comments:

  ecoRI	GAATTC	1
  mspI	CCGG	1
  sbfI	CCTGCAGG	6

One file, <prefix>_<name>_<site>_<site length>.bed, is written per enzyme,
with a sense (+) and an antisense (-) line for every recognition site.
Lower-case bases match like upper-case ones unless --soft-mask is set.`,
		Example: `  # Digest a genome with every enzyme in the list, 4 workers
  redigest --input genome.fa --enzymes enzymes.txt --output digest
  # Gzipped reference on stdin, counter labels, JSON summary
  zcat genome.fa.gz | redigest -i - -e enzymes.txt --label counter --summary run.json
  # Trial run on a simulated 1 Mb sequence
  redigest --sim-len 1000000 --sim-gc 0.42 --sim-seed 7 -e enzymes.txt`,
		Version:       fmt.Sprintf("%s (commit %s, %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageError{fmt.Errorf("unexpected arguments: %s", strings.Join(args, " "))}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				v.SetConfigFile(cfgFile)
				if err := v.ReadInConfig(); err != nil {
					return usageError{fmt.Errorf("config %s: %w", cfgFile, err)}
				}
			}
			cfg, err := config.Load(v)
			if err != nil {
				return usageError{err}
			}
			return run(cmd.Context(), cfg, cmd.ErrOrStderr())
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError{err} })

	f := cmd.Flags()
	f.StringVar(&cfgFile, "config", "", "optional settings file (yaml, json or toml)")
	f.StringP("input", "i", "", "input genome/sequence in FASTA format, plain, gzip or snappy; '-' for stdin")
	f.StringP("output", "o", "output", "output file name prefix for the per-enzyme coordinate files")
	f.StringP("enzymes", "e", "", "tab-delimited file with the restriction enzymes to use")
	f.IntP("workers", "w", schedule.DefaultWorkers, "number of enzyme partitions digested concurrently")
	f.Int("batch", schedule.DefaultBatch, "enzymes per pass over the input within a worker (bounds open output files)")
	f.String("label", "dot", "fifth column: 'dot' for '.', 'counter' for cut-<n>")
	f.String("compress", "none", "compress output files: none, gzip or snappy")
	f.Bool("soft-mask", false, "treat lower-case (soft-masked) bases as unmatched")
	f.Bool("skip-invalid", false, "skip malformed enzyme lines instead of aborting")
	f.Bool("cache", true, "parse the input once and keep it in memory for all workers")
	f.String("summary", "", "write a JSON run summary here")
	f.String("profile", "", "write a 'cpu' or 'mem' profile to the working directory")
	f.BoolP("verbose", "v", false, "per-sequence progress to stderr")
	f.Int("sim-len", 0, "digest a simulated sequence of this length instead of --input")
	f.Float64("sim-gc", 0.5, "GC fraction of the simulated sequence")
	f.Int64("sim-seed", 0, "seed for the simulated sequence (0 = time based)")

	config.SetDefaults(v)
	v.SetEnvPrefix("REDIGEST")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, name := range boundFlags {
		if err := v.BindPFlag(name, f.Lookup(name)); err != nil {
			panic(err)
		}
	}
	return cmd
}

// execute runs the command line and returns the process exit status.
func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(viper.New())
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return 0
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	var ue usageError
	if errors.As(err, &ue) {
		fmt.Fprint(stderr, cmd.UsageString())
		return 2
	}
	return 1
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

type summary struct {
	RunID   string          `json:"run_id"`
	Version string          `json:"version"`
	Input   string          `json:"input"`
	Output  string          `json:"output_prefix"`
	Workers int             `json:"workers"`
	Enzymes []string        `json:"enzymes"`
	Elapsed float64         `json:"elapsed_seconds"`
	Stats   collector.Stats `json:"stats"`
}

func run(ctx context.Context, cfg config.Config, stderr io.Writer) error {
	runID, err := uuid.NewUUID()
	if err != nil {
		return err
	}
	logger := log.New(stderr, "["+runID.String()[:8]+"] ", 0)

	switch cfg.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet, profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet, profile.NoShutdownHook).Stop()
	}

	outOpt, err := cfg.OutputOptions()
	if err != nil {
		return err
	}
	enzymes, err := enzyme.ReadList(cfg.Enzymes, enzyme.ListOptions{SkipInvalid: cfg.SkipInvalid, Logger: logger})
	if err != nil {
		return err
	}
	if len(enzymes) == 0 {
		logger.Printf("no enzymes in %s", cfg.Enzymes)
	}

	src, desc, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	logger.Printf("Using target sequences from %s.", desc)

	start := time.Now()
	in, done := collector.New()
	runErr := schedule.Run(ctx, schedule.Job{
		Enzymes:  enzymes,
		Source:   src,
		Workers:  cfg.Workers,
		Batch:    cfg.Batch,
		Prefix:   cfg.Output,
		Output:   outOpt,
		SoftMask: cfg.SoftMask,
		Logger:   logger,
		Verbose:  cfg.Verbose,
		Results:  in,
	})
	close(in)
	stats := <-done
	elapsed := time.Since(start)
	logger.Printf("Enzymes: %d  sites: %d  lines: %d  failed: %d  (%s)",
		len(enzymes), stats.TotalMatches, stats.TotalLines, stats.Failed, elapsed.Round(time.Millisecond))

	if cfg.Summary != "" {
		names := make([]string, len(enzymes))
		for i, e := range enzymes {
			names[i] = e.Name
		}
		out := summary{
			RunID:   runID.String(),
			Version: version,
			Input:   desc,
			Output:  cfg.Output,
			Workers: cfg.Workers,
			Enzymes: names,
			Elapsed: elapsed.Seconds(),
			Stats:   stats,
		}
		if err := writeSummary(cfg.Summary, out); err != nil {
			runErr = errors.Join(runErr, err)
		}
	}
	return runErr
}

// openSource picks the sequence source: simulated, cached in memory, or
// re-read from disk by each worker.
func openSource(ctx context.Context, cfg config.Config) (fasta.Source, string, error) {
	if cfg.Input == "" {
		desc := fmt.Sprintf("a simulated sequence (%d bp, GC %.2f)", cfg.SimLen, cfg.SimGC)
		return sim.NewSource("sim", cfg.SimLen, cfg.SimGC, cfg.SimSeed), desc, nil
	}
	src := fasta.FileSource{Path: cfg.Input}
	if !cfg.Cache && cfg.Input != "-" {
		return src, cfg.Input, nil
	}
	ms, err := fasta.Load(ctx, src)
	if err != nil {
		return nil, "", err
	}
	return ms, cfg.Input, nil
}

func writeSummary(path string, s summary) error {
	b, err := sonnet.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
