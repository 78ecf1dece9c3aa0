package restore

import (
	"errors"
	"fmt"

	"github.com/keshon/ghist/internal/history/entry"
)

// Failure is a file that could not be restored.
type Failure struct {
	Path string
	Err  error
}

// Report is the outcome of applying a plan.
type Report struct {
	Applied   []string
	Unchanged []string
	Failed    []Failure

	// Saved lists copies of unsaved edits taken before the writes.
	Saved []Backup
}

// Err joins every failure under entry.ErrPartialRestore, or returns nil.
func (r *Report) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	errs := []error{fmt.Errorf("%w: %d of %d files failed", entry.ErrPartialRestore, len(r.Failed), r.Total())}
	for _, f := range r.Failed {
		errs = append(errs, fmt.Errorf("%s: %w", f.Path, f.Err))
	}
	return errors.Join(errs...)
}

// Total is the number of mutations processed.
func (r *Report) Total() int {
	return len(r.Applied) + len(r.Unchanged) + len(r.Failed)
}
