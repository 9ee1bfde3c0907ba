package batch

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailmerge/domain/merge"
	"mailmerge/domain/tabular"
	"mailmerge/internal/substitute"
	"mailmerge/internal/validation"
)

func newTestRunner() *Runner {
	return NewRunner(
		substitute.NewDefaultEngine(),
		validation.NewReporter(validation.DefaultThresholds()),
	)
}

func testRecords(n int) []tabular.Record {
	records := make([]tabular.Record, n)
	for i := range records {
		records[i] = tabular.Record{
			"Customer Name": fmt.Sprintf("customer %d", i),
			"Email":         fmt.Sprintf("c%d@example.org", i),
		}
	}
	return records
}

var (
	testTemplate = "Dear [Customer Name], thanks for staying with us another year."
	testMapping  = merge.FieldMapping{"[Customer Name]": "Customer Name"}
	testCats     = merge.CategorySet{
		Tokens:  map[string]merge.SemanticCategory{"[Customer Name]": merge.CategoryName},
		Headers: map[string]merge.SemanticCategory{"Customer Name": merge.CategoryName, "Email": merge.CategoryEmail},
	}
)

func TestRun_Sequential(t *testing.T) {
	runner := newTestRunner()

	run, err := runner.Run(context.Background(), testTemplate, testRecords(120), testMapping, testCats, Options{
		Parallelism: 1,
		YieldEvery:  10,
		EmailColumn: "Email",
	})
	require.NoError(t, err)

	assert.False(t, run.RunID.String() == "")
	require.Len(t, run.Rows, 120)
	assert.Equal(t, 0, run.InvalidRows)
	for i, row := range run.Rows {
		assert.Equal(t, i, row.Index)
		assert.Contains(t, row.Result.Message, fmt.Sprintf("Customer %d", i))
		assert.Equal(t, fmt.Sprintf("c%d@example.org", i), row.Contacts.Email)
		assert.True(t, row.Report.IsValid)
	}
}

func TestRun_ParallelMatchesSequential(t *testing.T) {
	runner := newTestRunner()
	records := testRecords(50)

	seq, err := runner.Run(context.Background(), testTemplate, records, testMapping, testCats, Options{Parallelism: 1})
	require.NoError(t, err)
	par, err := runner.Run(context.Background(), testTemplate, records, testMapping, testCats, Options{Parallelism: 8})
	require.NoError(t, err)

	require.Len(t, par.Rows, len(seq.Rows))
	for i := range seq.Rows {
		assert.Equal(t, seq.Rows[i].Index, par.Rows[i].Index)
		assert.Equal(t, seq.Rows[i].Result.Message, par.Rows[i].Result.Message)
	}
}

func TestRun_CancellationPreservesEarlierRows(t *testing.T) {
	runner := newTestRunner()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run, err := runner.Run(ctx, testTemplate, testRecords(10), testMapping, testCats, DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
	// Cancelled before the first row; nothing rendered, nothing corrupted.
	assert.Empty(t, run.Rows)
}

func TestRun_InvalidRowsCounted(t *testing.T) {
	runner := newTestRunner()

	records := []tabular.Record{
		{"Customer Name": "Jo Smith", "Email": "jo@example.org"},
		{"Customer Name": "", "Email": "x@example.org"}, // missing value -> sentinel
	}

	run, err := runner.Run(context.Background(), testTemplate, records, testMapping, testCats, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, run.Rows, 2)
	assert.Equal(t, 1, run.InvalidRows)
	assert.True(t, run.Rows[0].Report.IsValid)
	assert.False(t, run.Rows[1].Report.IsValid)
	assert.Contains(t, run.Rows[1].Result.Message, "[MISSING: Customer Name]")
}
