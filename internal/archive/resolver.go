// package archive locates previously published report artifacts and decides
// the filename a new publication or amendment must use.
package archive

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nextstep-aba/supervision-pipeline/internal/report"
)

// FilePrefix is the shared stem of every published artifact name.
const FilePrefix = "daily_supervision_hours_transformed"

const fileExt = ".xlsx"

// amendMarker separates the base name from each amendment date suffix.
const amendMarker = "_updated_"

// NameVariant distinguishes the two historical artifact naming schemes.
type NameVariant string

const (
	// VariantLegacy is <prefix>_<date>.xlsx, kept for read-compatibility
	// with artifacts published before the FINAL scheme. Never written for
	// new artifacts.
	VariantLegacy NameVariant = "legacy"
	// VariantFinalized is <prefix>_<date>_FINAL_<MonthName>.xlsx, the scheme
	// all new artifacts use.
	VariantFinalized NameVariant = "finalized"
)

// Artifact describes a previously published report file for a target month.
type Artifact struct {
	Path           string
	TargetDate     time.Time
	Variant        NameVariant
	AmendmentChain int
}

// Resolver scans a directory of published artifacts. It never writes; the
// export collaborator persists new files.
type Resolver struct {
	dir string
}

// NewResolver returns a Resolver over the given archive directory.
func NewResolver(dir string) *Resolver {
	return &Resolver{dir: dir}
}

// Dir returns the archive directory the resolver scans.
func (r *Resolver) Dir() string { return r.dir }

// Find returns the existing artifact for targetDate, or nil when none is
// published. Each directory entry is checked against the finalized scheme
// first (exact, then amended) and the legacy scheme second; the first entry
// matching any pattern wins and scanning stops. This first-match policy is
// load-bearing: it decides which historical file gets amended.
//
// An unreadable directory degrades to "no artifact" with a warning so the
// caller publishes a fresh finalized file instead of failing the run.
func (r *Resolver) Find(targetDate time.Time) *Artifact {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		log.Printf("[archive] cannot read archive dir %s: %v — treating as no existing artifact", r.dir, err)
		return nil
	}

	finalBase := finalizedBase(targetDate)
	legacyBase := legacyBase(targetDate)

	for _, e := range entries {
		name := e.Name()
		switch {
		case name == finalBase+fileExt || strings.HasPrefix(name, finalBase+amendMarker):
			return r.artifact(name, targetDate, VariantFinalized)
		case name == legacyBase+fileExt || strings.HasPrefix(name, legacyBase+amendMarker):
			return r.artifact(name, targetDate, VariantLegacy)
		}
	}
	return nil
}

// NextName returns the filename the next publication for targetDate must
// use. With no existing artifact the new finalized-scheme name is returned;
// otherwise the amendment name: the existing artifact's base name with an
// _updated_<today> suffix appended, preserving whichever scheme the found
// file already used. The existing file is never overwritten.
func (r *Resolver) NextName(targetDate, today time.Time, existing *Artifact) string {
	if existing == nil {
		return finalizedBase(targetDate) + fileExt
	}
	base := strings.TrimSuffix(filepath.Base(existing.Path), fileExt)
	return base + amendMarker + today.Format(report.DateLayout) + fileExt
}

func (r *Resolver) artifact(name string, targetDate time.Time, v NameVariant) *Artifact {
	return &Artifact{
		Path:           filepath.Join(r.dir, name),
		TargetDate:     targetDate,
		Variant:        v,
		AmendmentChain: strings.Count(name, amendMarker),
	}
}

func finalizedBase(targetDate time.Time) string {
	return fmt.Sprintf("%s_%s_FINAL_%s", FilePrefix, targetDate.Format(report.DateLayout), targetDate.Month().String())
}

func legacyBase(targetDate time.Time) string {
	return fmt.Sprintf("%s_%s", FilePrefix, targetDate.Format(report.DateLayout))
}
