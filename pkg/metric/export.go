package metric

import (
	"os"
	"sort"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"
)

// Exporter gathers the per-iteration records and per-version summaries of a
// finished comparison and writes them out as CSV artifacts.
type Exporter struct {
	executionRecords []ExecutionRecord
	summaryRecords   []SummaryRecord
}

// ReportRun flattens one runner's aggregate into execution records and a
// summary record. Expects at least one recorded sample.
func (ep *Exporter) ReportRun(version, runID string, m *AggregateExecutionMetrics) {
	for i, sample := range m.Samples() {
		record := ExecutionRecord{
			Version:   version,
			RunID:     runID,
			Iteration: i + 1,
			Elapsed:   sample.Elapsed.Microseconds(),
			Success:   sample.Success,
		}
		if sample.Cause != nil {
			record.Failure = sample.Cause.Error()
		}

		ep.executionRecords = append(ep.executionRecords, record)
	}

	ep.summaryRecords = append(ep.summaryRecords, summarize(version, runID, m))
}

func summarize(version, runID string, m *AggregateExecutionMetrics) SummaryRecord {
	elapsed := make([]float64, 0, m.Count())
	for _, sample := range m.Samples() {
		elapsed = append(elapsed, float64(sample.Elapsed.Microseconds()))
	}
	sort.Float64s(elapsed)

	return SummaryRecord{
		Version:  version,
		RunID:    runID,
		Samples:  m.Count(),
		Failures: len(m.Failures()),
		Mean:     m.Average().Microseconds(),
		StdErr:   m.StandardErrorOfMean().Microseconds(),
		Min:      int64(elapsed[0]),
		Median:   int64(stat.Quantile(0.5, stat.Empirical, elapsed, nil)),
		Max:      int64(elapsed[len(elapsed)-1]),
	}
}

func (ep *Exporter) GetExecutionRecordLen() int {
	return len(ep.executionRecords)
}

// WriteCSVs writes <prefix>_samples.csv and <prefix>_summary.csv.
func (ep *Exporter) WriteCSVs(prefix string) error {
	samplesFile, err := os.Create(prefix + "_samples.csv")
	if err != nil {
		return err
	}
	defer samplesFile.Close()

	if err := gocsv.MarshalFile(&ep.executionRecords, samplesFile); err != nil {
		return err
	}

	summaryFile, err := os.Create(prefix + "_summary.csv")
	if err != nil {
		return err
	}
	defer summaryFile.Close()

	return gocsv.MarshalFile(&ep.summaryRecords, summaryFile)
}
