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

package metric

import "time"

// TimedSample is the outcome of exactly one measured build invocation.
// Immutable once created.
type TimedSample struct {
	Elapsed time.Duration
	Success bool
	Cause   error // nil when Success
}

type ExecutionRecord struct {
	Version   string `csv:"version"`
	RunID     string `csv:"runID"`
	Iteration int    `csv:"iteration"`

	// Measurement in microseconds
	Elapsed int64 `csv:"elapsedMicro"`

	Success bool   `csv:"success"`
	Failure string `csv:"failure"`
}

type SummaryRecord struct {
	Version  string `csv:"version"`
	RunID    string `csv:"runID"`
	Samples  int    `csv:"samples"`
	Failures int    `csv:"failures"`

	// Measurements in microseconds
	Mean   int64 `csv:"meanMicro"`
	StdErr int64 `csv:"stdErrMicro"`
	Min    int64 `csv:"minMicro"`
	Median int64 `csv:"medianMicro"`
	Max    int64 `csv:"maxMicro"`
}
