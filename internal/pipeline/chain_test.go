package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextstep-aba/supervision-pipeline/internal/archive"
	"github.com/nextstep-aba/supervision-pipeline/internal/export"
	"github.com/nextstep-aba/supervision-pipeline/internal/report"
	"github.com/nextstep-aba/supervision-pipeline/internal/warehouse"
)

var (
	june15 = time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	may31  = time.Date(2025, time.May, 31, 0, 0, 0, 0, time.UTC)
)

// fakeSource implements Extractor for tests.
type fakeSource struct {
	extract *warehouse.Extract
	err     error
	windows []report.DateWindow
}

func (f *fakeSource) Pull(_ context.Context, w report.DateWindow) (*warehouse.Extract, error) {
	f.windows = append(f.windows, w)
	if f.err != nil {
		return nil, f.err
	}
	if f.extract != nil {
		return f.extract, nil
	}
	return &warehouse.Extract{}, nil
}

// fakeExporter implements Exporter for tests, recording every write.
type fakeExporter struct {
	rawPulls      []string
	intermediates []string
	currentStems  []string
	archiveNames  []string
	exportErr     error
}

func (f *fakeExporter) WriteRawPull(name string, _ time.Time, _ export.Table) error {
	f.rawPulls = append(f.rawPulls, name)
	return nil
}

func (f *fakeExporter) WriteIntermediate(name string, _ time.Time, _ export.Table) error {
	f.intermediates = append(f.intermediates, name)
	return nil
}

func (f *fakeExporter) WriteCurrent(stem string, today time.Time, _ export.Table) (string, error) {
	if f.exportErr != nil {
		return "", f.exportErr
	}
	f.currentStems = append(f.currentStems, stem)
	return "/data/current/" + stem + "_" + today.Format(report.DateLayout) + ".xlsx", nil
}

func (f *fakeExporter) WriteArchive(_ context.Context, name string, _ time.Time, _ export.Table) (string, error) {
	if f.exportErr != nil {
		return "", f.exportErr
	}
	f.archiveNames = append(f.archiveNames, name)
	return "/data/archived/" + name, nil
}

func testExtract() *warehouse.Extract {
	start := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)
	return &warehouse.Extract{
		Direct: []warehouse.ServiceEntry{{
			BillingEntryID: 101, ClientContactID: 7, ClientFullName: "Client A",
			ClientOfficeLocation: "North Office", ProviderContactID: 55,
			ProviderFirstName: "Dana", ProviderLastName: "Reyes", ServiceCode: "97153",
			ServiceStart: start, ServiceEnd: start.Add(2 * time.Hour), ServiceLocation: "Clinic",
		}},
		Supervision: []warehouse.ServiceEntry{{
			BillingEntryID: 201, ClientContactID: 7, ClientFullName: "Client A",
			ClientOfficeLocation: "North Office", ProviderContactID: 91,
			ProviderFirstName: "Lee", ProviderLastName: "Okafor", ServiceCode: "97155",
			ServiceStart: start, ServiceEnd: start.Add(30 * time.Minute), ServiceLocation: "Clinic",
		}},
		Certification: []warehouse.CertificationHours{{ProviderContactID: 91, HasCertificationCodes: true, Hours: 3.25}},
		Locations:     []warehouse.EmployeeLocation{{ProviderContactID: 55, FirstName: "Dana", LastName: "Reyes", WorkLocation: "North Office"}},
	}
}

func newChain(src *fakeSource, exp *fakeExporter, archiveDir string) *Chain {
	return &Chain{
		Source:   src,
		Exporter: exp,
		Archive:  archive.NewResolver(archiveDir),
		Now:      func() time.Time { return june15 },
	}
}

func currentSpec() report.RunSpec {
	return report.RunSpec{
		Label:  labelCurrentMonth,
		Window: report.MonthToDate(june15),
	}
}

func TestChainRunSuccess(t *testing.T) {
	src := &fakeSource{extract: testExtract()}
	exp := &fakeExporter{}
	c := newChain(src, exp, t.TempDir())

	outcome := c.Run(context.Background(), currentSpec())

	assert.Equal(t, 0, outcome.ExitCode)
	assert.Empty(t, outcome.ErrorMessage)
	assert.Equal(t, 1, outcome.RowCount)

	// All four raw pulls, both intermediates, one current artifact, no archive.
	assert.Equal(t, []string{"direct_services", "supervision_services", "bacb_certification_hours", "employee_locations"}, exp.rawPulls)
	assert.Equal(t, []string{"joined_supervision", "daily_supervision_hours"}, exp.intermediates)
	assert.Equal(t, []string{archive.FilePrefix}, exp.currentStems)
	assert.Empty(t, exp.archiveNames)

	// The extractor saw the spec's window.
	require.Len(t, src.windows, 1)
	assert.Equal(t, report.MonthToDate(june15), src.windows[0])
}

func TestChainRunEmptyWindow(t *testing.T) {
	src := &fakeSource{extract: &warehouse.Extract{}}
	exp := &fakeExporter{}
	c := newChain(src, exp, t.TempDir())

	outcome := c.Run(context.Background(), currentSpec())
	assert.Equal(t, 0, outcome.ExitCode)
	assert.Equal(t, 0, outcome.RowCount)
}

func TestChainRunExtractFailure(t *testing.T) {
	src := &fakeSource{err: errors.New("connection reset by peer")}
	exp := &fakeExporter{}
	c := newChain(src, exp, t.TempDir())

	outcome := c.Run(context.Background(), currentSpec())
	assert.Equal(t, 1, outcome.ExitCode)
	assert.Contains(t, outcome.ErrorMessage, "extract:")
	assert.Contains(t, outcome.ErrorMessage, "connection reset")
	assert.Equal(t, -1, outcome.RowCount)
	// Nothing written after the failed phase.
	assert.Empty(t, exp.intermediates)
	assert.Empty(t, exp.currentStems)
}

func TestChainRunExportFailure(t *testing.T) {
	src := &fakeSource{extract: testExtract()}
	exp := &fakeExporter{exportErr: errors.New("disk full")}
	c := newChain(src, exp, t.TempDir())

	outcome := c.Run(context.Background(), currentSpec())
	assert.Equal(t, 1, outcome.ExitCode)
	assert.Contains(t, outcome.ErrorMessage, "export:")
}

func TestChainRunTruncatesLongErrors(t *testing.T) {
	src := &fakeSource{err: errors.New(strings.Repeat("x", 800))}
	c := newChain(src, &fakeExporter{}, t.TempDir())

	outcome := c.Run(context.Background(), currentSpec())
	assert.Equal(t, 1, outcome.ExitCode)
	assert.LessOrEqual(t, len(outcome.ErrorMessage), maxErrorLen+len("... (truncated)"))
	assert.True(t, strings.HasSuffix(outcome.ErrorMessage, "... (truncated)"))
}

func TestChainRunArchiveNewArtifact(t *testing.T) {
	src := &fakeSource{extract: testExtract()}
	exp := &fakeExporter{}
	c := newChain(src, exp, t.TempDir())

	outcome := c.Run(context.Background(), report.RunSpec{
		Label:             labelPreviousMonth,
		Window:            report.DateWindow{Start: time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)},
		PersistToArchive:  true,
		ArchiveTargetDate: may31,
	})

	assert.Equal(t, 0, outcome.ExitCode)
	require.Len(t, exp.archiveNames, 1)
	assert.Equal(t, "daily_supervision_hours_transformed_2025-05-31_FINAL_May.xlsx", exp.archiveNames[0])
	assert.Empty(t, exp.currentStems)
}

func TestChainRunArchiveAmendsExisting(t *testing.T) {
	dir := t.TempDir()
	existing := "daily_supervision_hours_transformed_2025-05-31_FINAL_May.xlsx"
	require.NoError(t, writeFile(dir, existing))

	src := &fakeSource{extract: testExtract()}
	exp := &fakeExporter{}
	c := newChain(src, exp, dir)

	outcome := c.Run(context.Background(), report.RunSpec{
		Label:                 labelPreviousMonth,
		Window:                report.DateWindow{Start: time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)},
		PersistToArchive:      true,
		ArchiveTargetDate:     may31,
		ArchiveArtifactExists: true,
	})

	assert.Equal(t, 0, outcome.ExitCode)
	require.Len(t, exp.archiveNames, 1)
	assert.Equal(t, "daily_supervision_hours_transformed_2025-05-31_FINAL_May_updated_2025-06-15.xlsx", exp.archiveNames[0])
}

// panicSource triggers the chain's panic containment.
type panicSource struct{}

func (panicSource) Pull(context.Context, report.DateWindow) (*warehouse.Extract, error) {
	panic("unexpected column shape")
}

func TestChainRunContainsPanics(t *testing.T) {
	c := newChain(&fakeSource{}, &fakeExporter{}, t.TempDir())
	c.Source = panicSource{}

	outcome := c.Run(context.Background(), currentSpec())
	assert.Equal(t, 1, outcome.ExitCode)
	assert.Contains(t, outcome.ErrorMessage, "unexpected column shape")
}

func writeFile(dir, name string) error {
	return os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644)
}
