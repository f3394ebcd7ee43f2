package pipeline

import (
	"strings"

	"github.com/nextstep-aba/supervision-pipeline/internal/report"
)

// Combine aggregates the ordered per-stage outcomes of one scheduler
// execution: the exit code is 1 if any stage failed, and the error message
// concatenates every non-empty stage message, each prefixed with its stage
// label. An all-success execution carries an empty message.
func Combine(runID string, outcomes []report.RunOutcome) report.OverallOutcome {
	overall := report.OverallOutcome{RunID: runID}

	var msgs []string
	for _, o := range outcomes {
		if o.ExitCode != 0 {
			overall.ExitCode = 1
		}
		if o.ErrorMessage != "" {
			msgs = append(msgs, o.Label+": "+o.ErrorMessage)
		}
	}
	overall.ErrorMessage = strings.Join(msgs, "; ")
	return overall
}
