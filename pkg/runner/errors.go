package runner

import (
	"fmt"
	"time"
)

// BuildFailuresError reports that a comparison was requested while at least
// one side recorded failed builds. It pre-empts any statistical computation.
type BuildFailuresError struct {
	CandidateVersion  string
	BaselineVersion   string
	CandidateFailures int
	BaselineFailures  int
}

func (e *BuildFailuresError) Error() string {
	return fmt.Sprintf("some builds have failed: candidate %s had %d failed builds, baseline %s had %d",
		e.CandidateVersion, e.CandidateFailures, e.BaselineVersion, e.BaselineFailures)
}

// RegressionError reports a slowdown of the candidate that cleared both the
// percentage floor and the statistical floor. It carries both sides'
// summary statistics for diagnosis.
type RegressionError struct {
	CandidateVersion string
	BaselineVersion  string
	CandidateAverage time.Duration
	CandidateStdErr  time.Duration
	BaselineAverage  time.Duration
	BaselineStdErr   time.Duration
}

func (e *RegressionError) Error() string {
	return fmt.Sprintf("performance regression detected: %s averaged %v (± %v), baseline %s averaged %v (± %v)",
		e.CandidateVersion, e.CandidateAverage, e.CandidateStdErr,
		e.BaselineVersion, e.BaselineAverage, e.BaselineStdErr)
}
