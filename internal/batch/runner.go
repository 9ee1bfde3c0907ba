package batch

import (
	"context"
	"log"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"mailmerge/domain/core"
	"mailmerge/domain/merge"
	"mailmerge/domain/tabular"
	"mailmerge/internal/substitute"
	"mailmerge/internal/validation"
)

// Options configures one batch run.
type Options struct {
	Parallelism int    // 1 renders sequentially; higher values fan out per row
	YieldEvery  int    // cooperative yield cadence in sequential mode
	EmailColumn string // designated contact columns, may be empty
	PhoneColumn string
}

// DefaultOptions returns sequential rendering with a modest yield cadence.
func DefaultOptions() Options {
	return Options{Parallelism: 1, YieldEvery: 50}
}

// RowResult couples everything downstream needs for one rendered row.
type RowResult struct {
	Index    int                      `json:"index"`
	Result   merge.SubstitutionResult `json:"result"`
	Report   merge.ValidationReport   `json:"report"`
	Contacts merge.ContactInfo        `json:"contacts"`
}

// RunResult is the outcome of a batch run. Rows holds results for every row
// completed before any cancellation, in row order.
type RunResult struct {
	RunID       core.RunID     `json:"run_id"`
	Rows        []RowResult    `json:"rows"`
	TotalRows   int            `json:"total_rows"`
	InvalidRows int            `json:"invalid_rows"`
	StartedAt   core.Timestamp `json:"started_at"`
	CompletedAt core.Timestamp `json:"completed_at"`
}

// Runner renders a template across many records. Records are immutable and
// rows are independent, so parallel execution is permitted but never
// required; no locking is involved either way.
type Runner struct {
	engine   *substitute.Engine
	reporter *validation.Reporter
}

// NewRunner creates a batch runner.
func NewRunner(engine *substitute.Engine, reporter *validation.Reporter) *Runner {
	return &Runner{engine: engine, reporter: reporter}
}

// Run renders every record. Cancellation is honored between rows: results
// already produced are returned alongside the context error, uncorrupted.
func (r *Runner) Run(ctx context.Context, template string, records []tabular.Record, mapping merge.FieldMapping, cats merge.CategorySet, opts Options) (*RunResult, error) {
	if opts.Parallelism < 1 {
		opts.Parallelism = 1
	}

	run := &RunResult{
		RunID:     core.RunID(core.NewID()),
		TotalRows: len(records),
		StartedAt: core.NewTimestamp(time.Now()),
	}
	log.Printf("[Batch] Run %s: %d rows, parallelism %d", run.RunID, len(records), opts.Parallelism)

	var err error
	if opts.Parallelism == 1 {
		err = r.runSequential(ctx, template, records, mapping, cats, opts, run)
	} else {
		err = r.runParallel(ctx, template, records, mapping, cats, opts, run)
	}

	for _, row := range run.Rows {
		if !row.Report.IsValid {
			run.InvalidRows++
		}
	}
	run.CompletedAt = core.NewTimestamp(time.Now())
	log.Printf("[Batch] Run %s: %d/%d rows rendered (%d need attention)",
		run.RunID, len(run.Rows), run.TotalRows, run.InvalidRows)
	return run, err
}

func (r *Runner) runSequential(ctx context.Context, template string, records []tabular.Record, mapping merge.FieldMapping, cats merge.CategorySet, opts Options, run *RunResult) error {
	for i, record := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		run.Rows = append(run.Rows, r.renderRow(i, template, record, mapping, cats, opts))

		// Scheduling courtesy only; correctness does not depend on it.
		if opts.YieldEvery > 0 && (i+1)%opts.YieldEvery == 0 {
			runtime.Gosched()
		}
	}
	return nil
}

func (r *Runner) runParallel(ctx context.Context, template string, records []tabular.Record, mapping merge.FieldMapping, cats merge.CategorySet, opts Options, run *RunResult) error {
	results := make([]*RowResult, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallelism)
	for i, record := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row := r.renderRow(i, template, record, mapping, cats, opts)
			results[i] = &row
			return nil
		})
	}
	err := g.Wait()

	for _, row := range results {
		if row != nil {
			run.Rows = append(run.Rows, *row)
		}
	}
	return err
}

func (r *Runner) renderRow(index int, template string, record tabular.Record, mapping merge.FieldMapping, cats merge.CategorySet, opts Options) RowResult {
	result := r.engine.Substitute(template, record, mapping, cats)
	contacts := r.engine.ResolveContacts(record, opts.EmailColumn, opts.PhoneColumn)
	report := r.reporter.Validate(result, record, contacts)
	return RowResult{
		Index:    index,
		Result:   result,
		Report:   report,
		Contacts: contacts,
	}
}
