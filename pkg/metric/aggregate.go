package metric

import (
	"math"
	"time"
)

// AggregateExecutionMetrics accumulates the timed outcomes of one runner's
// measurement phase and derives summary statistics from incremental
// accumulators. Not safe for concurrent use; the measurement loop is
// strictly sequential.
//
// Variance uses the population formula (divide by count, not count-1), so a
// single sample yields a standard error of exactly zero.
type AggregateExecutionMetrics struct {
	count        int
	sum          float64 // nanoseconds
	sumOfSquares float64 // nanoseconds squared
	samples      []TimedSample
	failures     []TimedSample
}

// Add records one sample. Failed samples still contribute their elapsed
// time to the accumulators.
func (m *AggregateExecutionMetrics) Add(sample TimedSample) {
	ns := float64(sample.Elapsed.Nanoseconds())

	m.count++
	m.sum += ns
	m.sumOfSquares += ns * ns
	m.samples = append(m.samples, sample)

	if !sample.Success {
		m.failures = append(m.failures, sample)
	}
}

func (m *AggregateExecutionMetrics) Count() int {
	return m.count
}

// Average returns the mean elapsed duration. Calling it on an empty
// aggregate is a programming error and panics.
func (m *AggregateExecutionMetrics) Average() time.Duration {
	if m.count == 0 {
		panic("metric: average of an empty sample set")
	}

	return time.Duration(m.sum / float64(m.count))
}

// StandardErrorOfMean returns the population standard deviation divided by
// sqrt(count). Panics on an empty aggregate.
func (m *AggregateExecutionMetrics) StandardErrorOfMean() time.Duration {
	if m.count == 0 {
		panic("metric: standard error of an empty sample set")
	}

	mean := m.sum / float64(m.count)
	variance := m.sumOfSquares/float64(m.count) - mean*mean
	if variance < 0 {
		// floating-point cancellation when all samples are near-identical
		variance = 0
	}

	return time.Duration(math.Sqrt(variance) / math.Sqrt(float64(m.count)))
}

// Failures returns the samples whose build invocation failed, in the order
// they were recorded. Empty means every measured build succeeded.
func (m *AggregateExecutionMetrics) Failures() []TimedSample {
	return m.failures
}

// Samples returns every recorded sample in measurement order.
func (m *AggregateExecutionMetrics) Samples() []TimedSample {
	return m.samples
}
