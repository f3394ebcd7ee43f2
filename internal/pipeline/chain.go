// package pipeline sequences the four processing phases for one resolved
// window and schedules the one or two runs a calendar day requires.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/nextstep-aba/supervision-pipeline/internal/archive"
	"github.com/nextstep-aba/supervision-pipeline/internal/export"
	"github.com/nextstep-aba/supervision-pipeline/internal/report"
	"github.com/nextstep-aba/supervision-pipeline/internal/transform"
	"github.com/nextstep-aba/supervision-pipeline/internal/warehouse"
)

// maxErrorLen bounds the error message carried into outcomes and
// notifications so it stays transport-safe.
const maxErrorLen = 500

// Extractor pulls the four source datasets for a window.
type Extractor interface {
	Pull(ctx context.Context, w report.DateWindow) (*warehouse.Extract, error)
}

// Exporter persists phase outputs and the final artifact.
type Exporter interface {
	WriteRawPull(name string, today time.Time, t export.Table) error
	WriteIntermediate(name string, today time.Time, t export.Table) error
	WriteCurrent(stem string, today time.Time, t export.Table) (string, error)
	WriteArchive(ctx context.Context, name string, targetDate time.Time, t export.Table) (string, error)
}

// Chain executes extract -> join -> transform -> merge/export for one run.
// Every error (and panic) from any phase is converted into a failed
// RunOutcome at this boundary; nothing propagates to the scheduler, which is
// what keeps sibling runs isolated from each other.
type Chain struct {
	Source   Extractor
	Exporter Exporter
	Archive  *archive.Resolver

	// Now is the clock used for date-keyed output names; nil means time.Now.
	Now func() time.Time
}

// Run executes the four phases in order for the given spec.
func (c *Chain) Run(ctx context.Context, spec report.RunSpec) (outcome report.RunOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = c.failed(spec, fmt.Errorf("panic: %v", r))
		}
	}()

	today := c.today()
	log.Printf("[pipeline] %s run starting: window %s", spec.Label, spec.Window)

	// Phase 1: extract.
	log.Printf("[pipeline] phase 1: pulling data from warehouse")
	ex, err := c.Source.Pull(ctx, spec.Window)
	if err != nil {
		return c.failed(spec, fmt.Errorf("extract: %w", err))
	}
	if err := c.writeRawPulls(ex, today); err != nil {
		return c.failed(spec, fmt.Errorf("extract: %w", err))
	}

	// Phase 2: join direct and supervision entries.
	log.Printf("[pipeline] phase 2: joining direct and supervision data")
	joined := transform.JoinSupervision(ex.Direct, ex.Supervision)
	if err := c.Exporter.WriteIntermediate("joined_supervision", today, transform.JoinedTable(joined)); err != nil {
		return c.failed(spec, fmt.Errorf("join: %w", err))
	}

	// Phase 3: transform to daily rows.
	log.Printf("[pipeline] phase 3: transforming joined data")
	daily := transform.Daily(joined)
	if err := c.Exporter.WriteIntermediate("daily_supervision_hours", today, transform.DailyTable(daily)); err != nil {
		return c.failed(spec, fmt.Errorf("transform: %w", err))
	}

	// Phase 4: merge reference data and export the artifact.
	log.Printf("[pipeline] phase 4: merging reference data and exporting")
	merged := transform.MergeReference(daily, ex.Certification, ex.Locations)
	table := transform.ReportTable(merged)

	var path string
	if spec.PersistToArchive {
		existing := c.Archive.Find(spec.ArchiveTargetDate)
		name := c.Archive.NextName(spec.ArchiveTargetDate, today, existing)
		path, err = c.Exporter.WriteArchive(ctx, name, spec.ArchiveTargetDate, table)
	} else {
		path, err = c.Exporter.WriteCurrent(archive.FilePrefix, today, table)
	}
	if err != nil {
		return c.failed(spec, fmt.Errorf("export: %w", err))
	}

	log.Printf("[pipeline] %s run completed: %d rows, columns: %s -> %s",
		spec.Label, table.RowCount(), strings.Join(table.Header, ", "), path)
	return report.RunOutcome{Label: spec.Label, ExitCode: 0, RowCount: table.RowCount()}
}

func (c *Chain) writeRawPulls(ex *warehouse.Extract, today time.Time) error {
	pulls := []struct {
		name  string
		table export.Table
	}{
		{"direct_services", warehouse.ServiceEntriesTable(ex.Direct)},
		{"supervision_services", warehouse.ServiceEntriesTable(ex.Supervision)},
		{"bacb_certification_hours", warehouse.CertificationTable(ex.Certification)},
		{"employee_locations", warehouse.LocationsTable(ex.Locations)},
	}
	for _, p := range pulls {
		if err := c.Exporter.WriteRawPull(p.name, today, p.table); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chain) failed(spec report.RunSpec, err error) report.RunOutcome {
	log.Printf("[pipeline] %s run failed: %v", spec.Label, err)
	return report.RunOutcome{
		Label:        spec.Label,
		ExitCode:     1,
		ErrorMessage: truncateError(err.Error()),
		RowCount:     -1,
	}
}

func (c *Chain) today() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	t := now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func truncateError(msg string) string {
	if len(msg) > maxErrorLen {
		return msg[:maxErrorLen] + "... (truncated)"
	}
	return msg
}
