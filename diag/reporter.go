// Package diag collects and formats the diagnostics produced by every phase
// of the analyzer. Phases do not abort at the first error:
// they call Reporter.Add as they discover problems and keep going on
// whatever partial information survives, so a single run can report many
// diagnostics at once.
package diag

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/golangee/aaa/token"
)

// Reporter is a bulk sink for diagnostics. It never reorders what it is
// given: callers are responsible for adding diagnostics in source order
// within a file and file-declaration order across files, so that two runs
// over identical input produce a bit-identical diagnostic sequence.
type Reporter struct {
	errs []error
}

// NewReporter creates an empty Reporter.
func NewReporter() *Reporter {
	return &Reporter{}
}

// Add records a diagnostic. A nil error is ignored so call sites can write
// `r.Add(check(...))` without an extra guard.
func (r *Reporter) Add(err error) {
	if err == nil {
		return
	}

	r.errs = append(r.errs, err)
}

// HasErrors reports whether any diagnostic was recorded.
func (r *Reporter) HasErrors() bool {
	return len(r.errs) > 0
}

// Count returns the number of recorded diagnostics.
func (r *Reporter) Count() int {
	return len(r.errs)
}

// Errors returns the recorded diagnostics in insertion order.
func (r *Reporter) Errors() []error {
	return append([]error(nil), r.errs...)
}

// PrintTo writes every diagnostic followed by the "Found N errors" summary
// line. useColor selects ANSI severity coloring for
// the "error:" headers via fatih/color; PrintTo itself never touches a
// terminal, so tests can assert against a plain bytes.Buffer.
func (r *Reporter) PrintTo(w io.Writer, useColor bool) {
	headerColor := color.New(color.FgRed, color.Bold)
	headerColor.EnableColor()

	if !useColor {
		headerColor.DisableColor()
	}

	for _, err := range r.errs {
		var posErr *token.PosError
		if errors.As(err, &posErr) {
			fmt.Fprint(w, headerColor.Sprint("error: "))
			fmt.Fprintln(w, err.Error())
			fmt.Fprint(w, posErr.Explain())
		} else {
			fmt.Fprint(w, headerColor.Sprint("error: "))
			fmt.Fprintln(w, err.Error())
		}
	}

	n := len(r.errs)
	noun := "errors"

	if n == 1 {
		noun = "error"
	}

	fmt.Fprintf(w, "Found %d %s\n", n, noun)
}

// ExitCode implements the rule that process exit is non-zero when any
// diagnostic was reported.
func (r *Reporter) ExitCode() int {
	if r.HasErrors() {
		return 1
	}

	return 0
}
