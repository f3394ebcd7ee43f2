package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/nextstep-aba/supervision-pipeline/internal/archive"
	"github.com/nextstep-aba/supervision-pipeline/internal/notify"
	"github.com/nextstep-aba/supervision-pipeline/internal/report"
)

// Stage labels used in logs and combined error messages.
const (
	labelPreviousMonth = "previous month"
	labelCurrentMonth  = "current month"
)

// Runner executes one phase chain. Satisfied by *Chain; tests substitute
// fakes.
type Runner interface {
	Run(ctx context.Context, spec report.RunSpec) report.RunOutcome
}

// Scheduler drives the daily execution: on days 1-5 a previous-month amend
// run followed by the month-to-date run, on other days the month-to-date run
// alone. Stage failures are isolated: the month-to-date stage always runs.
type Scheduler struct {
	Chain    Runner
	Archive  *archive.Resolver
	Notifier notify.Notifier

	// NotifyTimeout bounds the best-effort notification call; zero means 30s.
	NotifyTimeout time.Duration
}

// Plan resolves the run specs for the given day. On days 1-5 the first spec
// closes out the previous month into the archive; the month-to-date spec is
// always last.
func (s *Scheduler) Plan(today time.Time, explicitStart time.Time) []report.RunSpec {
	var specs []report.RunSpec

	if today.Day() <= 5 {
		target := report.PreviousMonthLastDay(today)
		existing := s.Archive.Find(target)
		specs = append(specs, report.RunSpec{
			Label:                 labelPreviousMonth,
			Window:                report.Resolve(today, time.Time{}),
			PersistToArchive:      true,
			ArchiveTargetDate:     target,
			ArchiveArtifactExists: existing != nil,
		})
	}

	window := report.MonthToDate(today)
	if !explicitStart.IsZero() {
		window = report.Resolve(today, explicitStart)
	}
	specs = append(specs, report.RunSpec{
		Label:  labelCurrentMonth,
		Window: window,
	})
	return specs
}

// Execute runs the planned stages sequentially, aggregates their outcomes,
// and delivers the notification. A stage failure never prevents the next
// stage from running; it only surfaces in the aggregate exit code.
func (s *Scheduler) Execute(ctx context.Context, today time.Time, explicitStart time.Time) report.OverallOutcome {
	runID := report.NewRunID()
	specs := s.Plan(today, explicitStart)
	log.Printf("[scheduler] run %s: day %d, %d stage(s) planned", runID, today.Day(), len(specs))

	outcomes := make([]report.RunOutcome, 0, len(specs))
	for _, spec := range specs {
		if spec.PersistToArchive {
			if spec.ArchiveArtifactExists {
				log.Printf("[scheduler] archive artifact for %s exists, run will amend it",
					spec.ArchiveTargetDate.Format(report.DateLayout))
			} else {
				log.Printf("[scheduler] no archive artifact for %s, run will create one",
					spec.ArchiveTargetDate.Format(report.DateLayout))
			}
		}
		outcomes = append(outcomes, s.Chain.Run(ctx, spec))
	}

	overall := Combine(runID, outcomes)
	if overall.ExitCode == 0 {
		log.Printf("[scheduler] run %s completed successfully", runID)
	} else {
		log.Printf("[scheduler] run %s failed: %s", runID, overall.ErrorMessage)
	}

	s.sendNotification(ctx, overall)
	return overall
}

// sendNotification delivers the aggregate outcome, bounded by NotifyTimeout.
// Failures and timeouts are logged and swallowed; notification is never a
// reason to fail the run.
func (s *Scheduler) sendNotification(ctx context.Context, o report.OverallOutcome) {
	if s.Notifier == nil {
		return
	}
	timeout := s.NotifyTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	nctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	msg := notify.Message{
		RunID:        o.RunID,
		ExitCode:     o.ExitCode,
		ErrorMessage: o.ErrorMessage,
		Ts:           time.Now().UTC(),
	}
	if err := s.Notifier.Notify(nctx, msg); err != nil {
		log.Printf("[scheduler] notification failed: %v", err)
		return
	}
	log.Printf("[scheduler] notification sent (exit_code=%d)", o.ExitCode)
}
