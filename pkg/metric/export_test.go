package metric

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRunFlattensSamples(t *testing.T) {
	m := &AggregateExecutionMetrics{}
	m.Add(TimedSample{Elapsed: 900 * time.Millisecond, Success: true})
	m.Add(TimedSample{Elapsed: time.Second, Success: false, Cause: errors.New("lint failure")})
	m.Add(TimedSample{Elapsed: 1100 * time.Millisecond, Success: true})

	ep := Exporter{}
	ep.ReportRun("0.9.2", "run-1", m)

	require.Equal(t, 3, ep.GetExecutionRecordLen())
	assert.Equal(t, ExecutionRecord{
		Version:   "0.9.2",
		RunID:     "run-1",
		Iteration: 2,
		Elapsed:   1000000,
		Success:   false,
		Failure:   "lint failure",
	}, ep.executionRecords[1])

	require.Len(t, ep.summaryRecords, 1)
	summary := ep.summaryRecords[0]
	assert.Equal(t, 3, summary.Samples)
	assert.Equal(t, 1, summary.Failures)
	assert.Equal(t, int64(1000000), summary.Mean)
	assert.Equal(t, int64(900000), summary.Min)
	assert.Equal(t, int64(1000000), summary.Median)
	assert.Equal(t, int64(1100000), summary.Max)
}

func TestWriteCSVs(t *testing.T) {
	m := &AggregateExecutionMetrics{}
	m.Add(TimedSample{Elapsed: time.Second, Success: true})
	m.Add(TimedSample{Elapsed: 2 * time.Second, Success: true})

	ep := Exporter{}
	ep.ReportRun("0.10.0", "run-2", m)

	prefix := filepath.Join(t.TempDir(), "perfgate")
	require.NoError(t, ep.WriteCSVs(prefix))

	samplesFile, err := os.Open(prefix + "_samples.csv")
	require.NoError(t, err)
	defer samplesFile.Close()

	var records []ExecutionRecord
	require.NoError(t, gocsv.UnmarshalFile(samplesFile, &records))
	require.Len(t, records, 2)
	assert.Equal(t, "0.10.0", records[0].Version)
	assert.Equal(t, int64(2000000), records[1].Elapsed)

	summaryFile, err := os.Open(prefix + "_summary.csv")
	require.NoError(t, err)
	defer summaryFile.Close()

	var summaries []SummaryRecord
	require.NoError(t, gocsv.UnmarshalFile(summaryFile, &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, int64(1500000), summaries[0].Mean)
}
