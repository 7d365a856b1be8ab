/*
 * MIT License
 *
 * Copyright (c) 2025 the perfgate authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package runner

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/codequality-tools/perfgate/pkg/metric"
)

// BuildInvoker runs one build or clean of the workload under test in its
// working directory. Both calls block until the underlying process exits.
// Build and clean run with identical configuration except for the target.
type BuildInvoker interface {
	Build() error
	Clean() error
}

// ExercisePolicy fixes the shape of one warm-up/measurement run and the
// floors of the regression test.
type ExercisePolicy struct {
	WarmupIterations   int
	MeasuredIterations int
	InterRunDelay      time.Duration
	QuiescenceDelay    time.Duration

	// MinRegressionPercentage is the practical-significance floor as a
	// fraction of the baseline mean (0.02 = 2%).
	MinRegressionPercentage float64
	// NumStandardErrors is the statistical-significance floor as a multiple
	// of the tested runner's standard error of the mean.
	NumStandardErrors float64

	// sleep is swapped out by tests; production runs always block on
	// time.Sleep so real filesystem and cache state settles between cycles.
	sleep func(time.Duration)
}

// DefaultExercisePolicy returns the policy used by the harness unless the
// configuration overrides individual knobs. Three standard errors bound the
// false-positive rate below roughly 0.3% under a normality assumption.
func DefaultExercisePolicy() ExercisePolicy {
	return ExercisePolicy{
		WarmupIterations:        3,
		MeasuredIterations:      10,
		InterRunDelay:           500 * time.Millisecond,
		QuiescenceDelay:         5 * time.Second,
		MinRegressionPercentage: 0.02,
		NumStandardErrors:       3,
	}
}

// PerformanceRunner exercises one version of the workload and holds its
// aggregated timing statistics. Create one per version; exercise it once;
// then compare it against other runners.
type PerformanceRunner struct {
	version string
	policy  ExercisePolicy
	metrics *metric.AggregateExecutionMetrics
}

func NewPerformanceRunner(version string, policy ExercisePolicy) *PerformanceRunner {
	if policy.sleep == nil {
		policy.sleep = time.Sleep
	}

	return &PerformanceRunner{
		version: version,
		policy:  policy,
		metrics: &metric.AggregateExecutionMetrics{},
	}
}

func (r *PerformanceRunner) Version() string {
	return r.version
}

func (r *PerformanceRunner) Metrics() *metric.AggregateExecutionMetrics {
	return r.metrics
}

// Exercise runs the warm-up phase, a quiescence delay, and then the
// measurement phase against the invoker. Warm-up outcomes are discarded;
// each measured build contributes exactly one sample, failed or not, and is
// never retried. A failed clean aborts the run since later cycles would
// measure an already-built tree.
func (r *PerformanceRunner) Exercise(invoker BuildInvoker) error {
	log.Infof("[%s] warming up: %d iterations", r.version, r.policy.WarmupIterations)
	for i := 0; i < r.policy.WarmupIterations; i++ {
		if i > 0 {
			r.policy.sleep(r.policy.InterRunDelay)
		}

		if err := invoker.Build(); err != nil {
			log.Debugf("[%s] warm-up build %d failed: %v", r.version, i+1, err)
		}
		if err := invoker.Clean(); err != nil {
			return fmt.Errorf("clean after warm-up iteration %d: %w", i+1, err)
		}
	}

	r.policy.sleep(r.policy.QuiescenceDelay)

	log.Infof("[%s] measuring: %d iterations", r.version, r.policy.MeasuredIterations)
	for i := 0; i < r.policy.MeasuredIterations; i++ {
		if i > 0 {
			r.policy.sleep(r.policy.InterRunDelay)
		}

		start := time.Now()
		buildErr := invoker.Build()
		elapsed := time.Since(start)

		r.metrics.Add(metric.TimedSample{
			Elapsed: elapsed,
			Success: buildErr == nil,
			Cause:   buildErr,
		})

		log.Infof("[%s] iteration %d/%d took %v", r.version, i+1, r.policy.MeasuredIterations, elapsed)

		if err := invoker.Clean(); err != nil {
			return fmt.Errorf("clean after measured iteration %d: %w", i+1, err)
		}
	}

	return nil
}

// AssertVersionHasNotRegressed compares this runner (the candidate) against
// the baseline. It is a pure function of the two final aggregates: it
// re-executes nothing and returns a non-nil error only for recorded build
// failures or a detected regression. A candidate that is significantly
// faster, or statistically on par, is reported at info level.
func (r *PerformanceRunner) AssertVersionHasNotRegressed(baseline *PerformanceRunner) error {
	candidateFailures := len(r.metrics.Failures())
	baselineFailures := len(baseline.metrics.Failures())
	if candidateFailures > 0 || baselineFailures > 0 {
		return &BuildFailuresError{
			CandidateVersion:  r.version,
			BaselineVersion:   baseline.version,
			CandidateFailures: candidateFailures,
			BaselineFailures:  baselineFailures,
		}
	}

	delta := r.metrics.Average() - baseline.metrics.Average()

	if delta > r.regressionThreshold(baseline) {
		return &RegressionError{
			CandidateVersion: r.version,
			BaselineVersion:  baseline.version,
			CandidateAverage: r.metrics.Average(),
			CandidateStdErr:  r.metrics.StandardErrorOfMean(),
			BaselineAverage:  baseline.metrics.Average(),
			BaselineStdErr:   baseline.metrics.StandardErrorOfMean(),
		}
	}

	if -delta > baseline.regressionThreshold(r) {
		speedup := (baseline.metrics.Average().Seconds()/r.metrics.Average().Seconds() - 1) * 100
		log.Infof("[%s] is %.1f%% faster than [%s] (%v vs %v)",
			r.version, speedup, baseline.version, r.metrics.Average(), baseline.metrics.Average())
		return nil
	}

	log.Infof("[%s] and [%s] are on par (%v ± %v vs %v ± %v)",
		r.version, baseline.version,
		r.metrics.Average(), r.metrics.StandardErrorOfMean(),
		baseline.metrics.Average(), baseline.metrics.StandardErrorOfMean())
	return nil
}

// regressionThreshold computes the floor a slowdown of this runner relative
// to other must clear. Deliberately asymmetric: the percentage floor comes
// from the other side's mean, the statistical floor from this runner's own
// standard error.
func (r *PerformanceRunner) regressionThreshold(other *PerformanceRunner) time.Duration {
	percentageFloor := time.Duration(float64(other.metrics.Average()) * r.policy.MinRegressionPercentage)
	statisticalFloor := time.Duration(float64(r.metrics.StandardErrorOfMean()) * r.policy.NumStandardErrors)

	if percentageFloor > statisticalFloor {
		return percentageFloor
	}
	return statisticalFloor
}
