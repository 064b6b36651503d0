package harness

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/roach88/contactbook/internal/objstore"
	"github.com/roach88/contactbook/internal/store"
)

// AssertionContext provides access to the final state of a scenario run.
type AssertionContext struct {
	Fs      afero.Fs
	Store   *store.Store
	Objects *objstore.Memory
}

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s %v -> %s\n", event.Seq, event.Op, event.Args, event.Outcome)
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion and returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(result.Trace, a, actx); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluate(trace []TraceEvent, a Assertion, actx *AssertionContext) error {
	switch a.Type {
	case AssertRows:
		return assertRows(trace, a, actx)
	case AssertRowCount:
		return assertRowCount(trace, a, actx)
	case AssertFileAbsent:
		return assertFileAbsent(trace, actx)
	case AssertFileCopy:
		return assertFileCopy(trace, a, actx)
	case AssertObjectCopy:
		return assertObjectCopy(trace, a, actx)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

// assertRows checks the contact book holds exactly the expected rows.
func assertRows(trace []TraceEvent, a Assertion, actx *AssertionContext) error {
	rows, err := actx.Store.Load()
	if err != nil {
		return &AssertionError{Type: AssertRows, Expected: fmt.Sprintf("%v", a.Rows), Actual: err.Error(), Trace: trace}
	}
	if !equalRows(rows, a.Rows) {
		return &AssertionError{
			Type:     AssertRows,
			Expected: fmt.Sprintf("%q", a.Rows),
			Actual:   fmt.Sprintf("%q", rows),
			Trace:    trace,
		}
	}
	return nil
}

// assertRowCount checks the number of rows in the contact book.
func assertRowCount(trace []TraceEvent, a Assertion, actx *AssertionContext) error {
	rows, err := actx.Store.Load()
	if err != nil {
		return &AssertionError{Type: AssertRowCount, Expected: fmt.Sprintf("%d rows", a.Count), Actual: err.Error(), Trace: trace}
	}
	if len(rows) != a.Count {
		return &AssertionError{
			Type:     AssertRowCount,
			Expected: fmt.Sprintf("%d rows", a.Count),
			Actual:   fmt.Sprintf("%d rows", len(rows)),
			Trace:    trace,
		}
	}
	return nil
}

// assertFileAbsent checks the contact book file was never created.
func assertFileAbsent(trace []TraceEvent, actx *AssertionContext) error {
	exists, err := actx.Store.Exists()
	if err != nil {
		return err
	}
	if exists {
		return &AssertionError{
			Type:     AssertFileAbsent,
			Expected: "no file at " + actx.Store.Path(),
			Actual:   "file exists",
			Trace:    trace,
		}
	}
	return nil
}

// assertFileCopy checks the file at a.Path is byte-identical to the contact book.
func assertFileCopy(trace []TraceEvent, a Assertion, actx *AssertionContext) error {
	want, err := afero.ReadFile(actx.Fs, actx.Store.Path())
	if err != nil {
		return err
	}
	got, err := afero.ReadFile(actx.Fs, a.Path)
	if err != nil {
		return &AssertionError{Type: AssertFileCopy, Expected: "copy at " + a.Path, Actual: err.Error(), Trace: trace}
	}
	if !bytes.Equal(want, got) {
		return &AssertionError{
			Type:     AssertFileCopy,
			Expected: fmt.Sprintf("%q", want),
			Actual:   fmt.Sprintf("%q", got),
			Trace:    trace,
		}
	}
	return nil
}

// assertObjectCopy checks the uploaded object is byte-identical to the contact book.
func assertObjectCopy(trace []TraceEvent, a Assertion, actx *AssertionContext) error {
	if actx.Objects == nil {
		return errors.New("no object store in context")
	}
	want, err := afero.ReadFile(actx.Fs, actx.Store.Path())
	if err != nil {
		return err
	}
	got, ok := actx.Objects.Object(a.Bucket, a.Key)
	if !ok {
		return &AssertionError{
			Type:     AssertObjectCopy,
			Expected: fmt.Sprintf("object %s/%s", a.Bucket, a.Key),
			Actual:   "not uploaded",
			Trace:    trace,
		}
	}
	if !bytes.Equal(want, got) {
		return &AssertionError{
			Type:     AssertObjectCopy,
			Expected: fmt.Sprintf("%q", want),
			Actual:   fmt.Sprintf("%q", got),
			Trace:    trace,
		}
	}
	return nil
}

func equalRows(a, b [][]string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}
