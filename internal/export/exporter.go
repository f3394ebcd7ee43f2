package export

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// DateLayout is the filename date format shared with the rest of the pipeline.
const DateLayout = "2006-01-02"

// FileExporter persists run outputs under a data directory:
//
//	<data>/raw_pulls/<name>_<today>.csv        extraction side files
//	<data>/intermediate/<name>_<today>.csv     phase 2/3 outputs
//	<data>/current/<stem>_<today>.xlsx         month-to-date artifact
//	<archive>/<name>.xlsx                      published (never overwritten)
//
// Date-keyed paths make same-day reruns overwrite their own output while
// different days produce new files. An optional Mirror copies each published
// archive artifact to object storage, best-effort.
type FileExporter struct {
	DataDir    string
	ArchiveDir string
	Mirror     Mirror
}

// WriteRawPull writes one extraction side file keyed by today's date.
func (f *FileExporter) WriteRawPull(name string, today time.Time, t Table) error {
	p := filepath.Join(f.DataDir, "raw_pulls", fmt.Sprintf("%s_%s.csv", name, today.Format(DateLayout)))
	if err := WriteCSV(p, t); err != nil {
		return err
	}
	log.Printf("[export] raw pull %s: %d rows -> %s", name, t.RowCount(), p)
	return nil
}

// WriteIntermediate writes a phase output CSV keyed by today's date.
func (f *FileExporter) WriteIntermediate(name string, today time.Time, t Table) error {
	p := filepath.Join(f.DataDir, "intermediate", fmt.Sprintf("%s_%s.csv", name, today.Format(DateLayout)))
	if err := WriteCSV(p, t); err != nil {
		return err
	}
	log.Printf("[export] intermediate %s: %d rows -> %s", name, t.RowCount(), p)
	return nil
}

// WriteCurrent writes the month-to-date artifact to the "current" location.
// The path is keyed by today's date, so a same-day rerun overwrites it.
func (f *FileExporter) WriteCurrent(stem string, today time.Time, t Table) (string, error) {
	p := filepath.Join(f.DataDir, "current", fmt.Sprintf("%s_%s.xlsx", stem, today.Format(DateLayout)))
	if err := WriteXLSX(p, t); err != nil {
		return "", err
	}
	log.Printf("[export] current artifact: %d rows -> %s", t.RowCount(), p)
	return p, nil
}

// WriteArchive publishes an artifact under the archive directory. Archive
// files are never overwritten: a name collision is an error, the caller owes
// us a fresh amendment name. On success the artifact is mirrored to object
// storage when a mirror is configured; mirror failures are logged, never
// escalated.
func (f *FileExporter) WriteArchive(ctx context.Context, name string, targetDate time.Time, t Table) (string, error) {
	p := filepath.Join(f.ArchiveDir, name)
	if _, err := os.Stat(p); err == nil {
		return "", fmt.Errorf("archive artifact %s already exists", p)
	}
	if err := WriteXLSX(p, t); err != nil {
		return "", err
	}
	log.Printf("[export] archive artifact: %d rows -> %s", t.RowCount(), p)

	if f.Mirror != nil {
		key, err := f.Mirror.MirrorArtifact(ctx, p, targetDate)
		if err != nil {
			log.Printf("[export] mirror of %s failed: %v", name, err)
		} else {
			log.Printf("[export] mirrored %s -> %s", name, key)
		}
	}
	return p, nil
}
