// package report contains the canonical models shared by the reporting
// pipeline: date windows, run specifications, and run outcomes.
package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DateWindow is a half-open calendar interval [Start, End) bounding the data
// pulled for one run. Both bounds are date-granular (midnight UTC).
type DateWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateWindow validates the Start < End invariant and returns the window.
func NewDateWindow(start, end time.Time) (DateWindow, error) {
	if !start.Before(end) {
		return DateWindow{}, fmt.Errorf("invalid date window: start %s is not before end %s",
			start.Format(DateLayout), end.Format(DateLayout))
	}
	return DateWindow{Start: start, End: end}, nil
}

// String renders the window as "YYYY-MM-DD to YYYY-MM-DD (exclusive)".
func (w DateWindow) String() string {
	return fmt.Sprintf("%s to %s (exclusive)", w.Start.Format(DateLayout), w.End.Format(DateLayout))
}

// DateLayout is the wire/file format for calendar dates throughout the pipeline.
const DateLayout = "2006-01-02"

// RunSpec fully determines one phase-chain execution.
//
// ArchiveTargetDate is set iff PersistToArchive is true: it names the closed
// month (by its last day) whose published artifact this run creates or amends.
type RunSpec struct {
	Label                 string
	Window                DateWindow
	PersistToArchive      bool
	ArchiveTargetDate     time.Time
	ArchiveArtifactExists bool
}

// RunOutcome is the result of a single phase-chain execution. ExitCode is 0
// on success, 1 on failure; ErrorMessage is empty on success and holds the
// (length-bounded) cause otherwise. RowCount is -1 when no final dataset was
// produced.
type RunOutcome struct {
	Label        string
	ExitCode     int
	ErrorMessage string
	RowCount     int
}

// OverallOutcome aggregates the per-stage outcomes of one scheduler
// execution. It is the sole input to the notification collaborator.
type OverallOutcome struct {
	RunID        string
	ExitCode     int
	ErrorMessage string
}

// NewRunID returns a freshly-generated UUID string identifying one scheduler
// execution in logs and notifications.
func NewRunID() string {
	return uuid.New().String()
}
