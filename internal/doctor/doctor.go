// Package doctor provides environment preflight checks for kokorotts.
package doctor

import (
	"fmt"
	"io"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// CheckFunc probes one component and returns a short status string or an
// error when the component is unusable.
type CheckFunc func() (string, error)

// Config holds injectable dependencies for each doctor check.
type Config struct {
	// ModelCheck verifies the model checkpoint can be opened and reports
	// its tensor count.
	ModelCheck CheckFunc
	// VoicesCheck verifies the voices directory and reports the voice count.
	VoicesCheck CheckFunc
	// PhonemizerCheck verifies the external phonemizer when the command
	// backend is configured.
	PhonemizerCheck CheckFunc
	// SkipPhonemizer skips the phonemizer check (rule backend mode).
	SkipPhonemizer bool
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

// AddFailure appends an external failure message to the result.
func (r *Result) AddFailure(msg string) { r.failures = append(r.failures, msg) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	runCheck(&res, w, "model checkpoint", cfg.ModelCheck, false)
	runCheck(&res, w, "voices", cfg.VoicesCheck, false)
	runCheck(&res, w, "phonemizer", cfg.PhonemizerCheck, cfg.SkipPhonemizer)

	return res
}

func runCheck(res *Result, w io.Writer, label string, fn CheckFunc, skip bool) {
	if skip {
		fmt.Fprintf(w, "%s %s: skipped\n", PassMark, label)
		return
	}

	if fn == nil {
		res.fail(fmt.Sprintf("%s: no check configured", label))
		fmt.Fprintf(w, "%s %s: no check configured\n", FailMark, label)
		return
	}

	status, err := fn()
	if err != nil {
		res.fail(fmt.Sprintf("%s: %v", label, err))
		fmt.Fprintf(w, "%s %s: %v\n", FailMark, label, err)
		return
	}

	fmt.Fprintf(w, "%s %s: %s\n", PassMark, label, status)
}
