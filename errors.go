package docdiff

import (
	"fmt"
	"strings"
)

// StructuralMismatchError aborts a comparison when a document has no
// diffable structure (for example zero pages).
type StructuralMismatchError struct {
	// Label names the offending document.
	Label  string
	Reason string
}

func (e *StructuralMismatchError) Error() string {
	return fmt.Sprintf("structural mismatch in %q: %s", e.Label, e.Reason)
}

// PartialResultError reports a comparison that did not cover every page,
// either because a worker failed or because the context was cancelled.
// No DiffResult accompanies it; callers never see a truncated result.
type PartialResultError struct {
	// Pages lists the affected page indices, ascending.
	Pages []int
	// Errs holds the per-page failures, aligned with Pages.
	Errs []error
}

func (e *PartialResultError) Error() string {
	pages := make([]string, len(e.Pages))
	for i, p := range e.Pages {
		pages[i] = fmt.Sprintf("%d", p)
	}
	return fmt.Sprintf("comparison incomplete: page(s) %s failed", strings.Join(pages, ", "))
}

// Unwrap exposes the per-page failures to errors.Is/As.
func (e *PartialResultError) Unwrap() []error { return e.Errs }

// newPartialResultError builds the error from a sparse per-page error
// slice; page order stays ascending by construction.
func newPartialResultError(pageErrs []error) *PartialResultError {
	e := &PartialResultError{}
	for page, err := range pageErrs {
		if err != nil {
			e.Pages = append(e.Pages, page)
			e.Errs = append(e.Errs, err)
		}
	}
	return e
}
