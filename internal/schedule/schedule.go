// Package schedule splits an enzyme list into contiguous partitions and
// digests each partition on its own goroutine. Every enzyme owns its output
// file, so workers share nothing but the read-only sequence source.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"redigest/internal/bed"
	"redigest/internal/collector"
	"redigest/internal/digest"
	"redigest/internal/enzyme"
	"redigest/internal/fasta"
)

const (
	// DefaultWorkers is the partition count when Job.Workers is unset.
	DefaultWorkers = 4
	// DefaultBatch caps the output files a worker holds open during one
	// pass over the source.
	DefaultBatch = 64
)

// Partition splits items into exactly parts contiguous slices,
// partition k being items[k*n/parts : (k+1)*n/parts]. Slices may be empty
// when n < parts. parts < 1 is treated as 1.
func Partition[T any](items []T, parts int) [][]T {
	if parts < 1 {
		parts = 1
	}
	n := len(items)
	out := make([][]T, parts)
	for k := range out {
		out[k] = items[k*n/parts : (k+1)*n/parts]
	}
	return out
}

// Job describes one digest run.
type Job struct {
	Enzymes  []enzyme.Enzyme
	Source   fasta.Source // walked once per batch; must allow concurrent Each calls
	Workers  int
	Batch    int    // enzymes per source pass within a partition; 0 = DefaultBatch
	Prefix   string // output file prefix, see bed.FileName
	Output   bed.Options
	SoftMask bool

	Logger  *log.Logger          // progress notices; nil = silent
	Verbose bool                 // per-record notices
	Results chan<- collector.Msg // one Msg per enzyme; nil = not reported
}

func (j *Job) logf(format string, args ...any) {
	if j.Logger != nil {
		j.Logger.Printf(format, args...)
	}
}

// Run digests every enzyme and blocks until all workers finish. One
// goroutine runs per non-empty partition. A failing enzyme or worker does
// not stop the others; all failures come back joined. Enzymes that would
// share an output file are rejected before anything is written.
func Run(ctx context.Context, job Job) error {
	if err := uniqueOutputs(job.Enzymes); err != nil {
		return err
	}
	w := job.Workers
	if w < 1 {
		w = DefaultWorkers
	}
	parts := Partition(job.Enzymes, w)
	errs := make([]error, len(parts))

	var wg sync.WaitGroup
	for k, part := range parts {
		if len(part) == 0 {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[k] = runPartition(ctx, &job, part)
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}

// uniqueOutputs reports every enzyme whose output key repeats an earlier one.
func uniqueOutputs(es []enzyme.Enzyme) error {
	seen := make(map[string]int, len(es))
	var errs []error
	for i, e := range es {
		if j, dup := seen[e.Key()]; dup {
			errs = append(errs, &enzyme.InvalidEnzymeSpecError{
				Reason: fmt.Sprintf("%s: entries %d and %d share output %s", e.Name, j+1, i+1, e.Key()),
			})
			continue
		}
		seen[e.Key()] = i
	}
	return errors.Join(errs...)
}

type task struct {
	d   *digest.Digester
	w   *bed.Writer
	err error
}

// runPartition digests part in batches of Job.Batch enzymes, one source
// pass per batch. After a source error the remaining enzymes are reported
// as not run.
func runPartition(ctx context.Context, job *Job, part []enzyme.Enzyme) error {
	size := job.Batch
	if size < 1 {
		size = DefaultBatch
	}
	var errs []error
	for start := 0; start < len(part); start += size {
		batch := part[start:min(start+size, len(part))]
		taskErr, srcErr := runBatch(ctx, job, batch)
		errs = append(errs, taskErr)
		if srcErr != nil {
			for _, e := range part[start+len(batch):] {
				job.report(e, bed.Result{}, fmt.Errorf("not run: %w", srcErr))
			}
			errs = append(errs, srcErr)
			break
		}
	}
	return errors.Join(errs...)
}

// runBatch opens a destination per enzyme, walks the source once and hands
// every record to each live enzyme in order. Enzyme failures and the
// source error come back separately.
func runBatch(ctx context.Context, job *Job, part []enzyme.Enzyme) (error, error) {
	var errs []error
	tasks := make([]*task, 0, len(part))
	for _, e := range part {
		job.logf("Running in silico digest using %s (%s).", e.Name, e.Pattern)
		d, err := digest.New(e, job.SoftMask)
		if err != nil {
			errs = append(errs, job.report(e, bed.Result{}, err))
			continue
		}
		w, err := bed.Create(bed.FileName(job.Prefix, e, job.Output.Compress), job.Output)
		if err != nil {
			errs = append(errs, job.report(e, bed.Result{}, err))
			continue
		}
		tasks = append(tasks, &task{d: d, w: w})
	}
	if len(tasks) == 0 {
		return errors.Join(errs...), nil
	}

	srcErr := job.Source.Each(ctx, func(rec fasta.Record) error {
		for _, t := range tasks {
			if t.err != nil {
				continue
			}
			n, err := t.d.Digest(rec, t.w.WriteMatch)
			if err != nil {
				t.err = err
				continue
			}
			if job.Verbose {
				job.logf("seq=%s enzyme=%s matches=%d", rec.ID, t.d.Enzyme().Name, n)
			}
		}
		return nil
	})

	for _, t := range tasks {
		res, err := t.w.Close()
		if t.err == nil {
			t.err = err
		}
		switch {
		case t.err != nil:
			errs = append(errs, job.report(t.d.Enzyme(), res, t.err))
		case srcErr != nil:
			job.report(t.d.Enzyme(), res, fmt.Errorf("incomplete: %w", srcErr))
		default:
			job.report(t.d.Enzyme(), res, nil)
		}
	}
	return errors.Join(errs...), srcErr
}

// report forwards the outcome to the collector and returns err annotated
// with the enzyme name.
func (j *Job) report(e enzyme.Enzyme, res bed.Result, err error) error {
	if j.Results != nil {
		j.Results <- collector.Msg{
			Enzyme:  e.Name,
			Pattern: e.Pattern,
			File:    res.Path,
			Matches: res.Matches,
			Lines:   res.Lines,
			SHA3:    res.SHA3,
			Err:     err,
		}
	}
	if err == nil {
		return nil
	}
	return fmt.Errorf("enzyme %s: %w", e.Name, err)
}
