package archive_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextstep-aba/supervision-pipeline/internal/archive"
)

var may31 = time.Date(2025, time.May, 31, 0, 0, 0, 0, time.UTC)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
}

func TestFindNoArtifact(t *testing.T) {
	r := archive.NewResolver(t.TempDir())
	assert.Nil(t, r.Find(may31))
}

func TestFindUnreadableDirDegradesToNone(t *testing.T) {
	r := archive.NewResolver(filepath.Join(t.TempDir(), "missing"))
	assert.Nil(t, r.Find(may31))
}

func TestFindFinalized(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "daily_supervision_hours_transformed_2025-05-31_FINAL_May.xlsx")

	got := r(dir).Find(may31)
	require.NotNil(t, got)
	assert.Equal(t, archive.VariantFinalized, got.Variant)
	assert.Equal(t, 0, got.AmendmentChain)
	assert.Equal(t, filepath.Join(dir, "daily_supervision_hours_transformed_2025-05-31_FINAL_May.xlsx"), got.Path)
}

func TestFindLegacy(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "daily_supervision_hours_transformed_2025-05-31.xlsx")

	got := r(dir).Find(may31)
	require.NotNil(t, got)
	assert.Equal(t, archive.VariantLegacy, got.Variant)
	assert.Equal(t, 0, got.AmendmentChain)
}

func TestFindAmendedChainLength(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "daily_supervision_hours_transformed_2025-05-31_FINAL_May_updated_2025-06-02.xlsx")

	got := r(dir).Find(may31)
	require.NotNil(t, got)
	assert.Equal(t, archive.VariantFinalized, got.Variant)
	assert.Equal(t, 1, got.AmendmentChain)
}

// The documented priority is first directory entry matching any pattern, with
// the finalized scheme checked before legacy per entry — not "most recent".
func TestFindFirstEntryWins(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "daily_supervision_hours_transformed_2025-05-31_FINAL_May.xlsx")
	touch(t, dir, "daily_supervision_hours_transformed_2025-05-31_FINAL_May_updated_2025-06-02.xlsx")

	got := r(dir).Find(may31)
	require.NotNil(t, got)
	// Directory entries are scanned in lexical order; the exact finalized
	// name sorts before its amended sibling and must win.
	assert.Equal(t, 0, got.AmendmentChain)
	assert.Equal(t, filepath.Join(dir, "daily_supervision_hours_transformed_2025-05-31_FINAL_May.xlsx"), got.Path)
}

func TestFindFirstEntryWinsAcrossSchemes(t *testing.T) {
	dir := t.TempDir()
	// The legacy name sorts first lexically, so it is the first matching
	// entry even though a finalized sibling exists.
	touch(t, dir, "daily_supervision_hours_transformed_2025-05-31.xlsx")
	touch(t, dir, "daily_supervision_hours_transformed_2025-05-31_FINAL_May.xlsx")

	got := r(dir).Find(may31)
	require.NotNil(t, got)
	assert.Equal(t, archive.VariantLegacy, got.Variant)
}

func TestFindIgnoresOtherDates(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "daily_supervision_hours_transformed_2025-04-30_FINAL_April.xlsx")

	assert.Nil(t, r(dir).Find(may31))
}

func TestNextNameNewArtifact(t *testing.T) {
	name := r(t.TempDir()).NextName(may31, time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC), nil)
	assert.Equal(t, "daily_supervision_hours_transformed_2025-05-31_FINAL_May.xlsx", name)
}

func TestNextNameAmendsPreservingScheme(t *testing.T) {
	dir := t.TempDir()
	today := time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC)

	touch(t, dir, "daily_supervision_hours_transformed_2025-05-31_FINAL_May.xlsx")
	got := r(dir).Find(may31)
	require.NotNil(t, got)
	assert.Equal(t,
		"daily_supervision_hours_transformed_2025-05-31_FINAL_May_updated_2025-06-03.xlsx",
		r(dir).NextName(may31, today, got))
}

func TestNextNameAmendsLegacyScheme(t *testing.T) {
	dir := t.TempDir()
	today := time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC)

	touch(t, dir, "daily_supervision_hours_transformed_2025-05-31.xlsx")
	got := r(dir).Find(may31)
	require.NotNil(t, got)
	assert.Equal(t,
		"daily_supervision_hours_transformed_2025-05-31_updated_2025-06-03.xlsx",
		r(dir).NextName(may31, today, got))
}

func TestNextNameChainsAmendments(t *testing.T) {
	dir := t.TempDir()
	today := time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC)

	touch(t, dir, "daily_supervision_hours_transformed_2025-05-31_FINAL_May_updated_2025-06-02.xlsx")
	got := r(dir).Find(may31)
	require.NotNil(t, got)
	assert.Equal(t,
		"daily_supervision_hours_transformed_2025-05-31_FINAL_May_updated_2025-06-02_updated_2025-06-05.xlsx",
		r(dir).NextName(may31, today, got))
}

func r(dir string) *archive.Resolver { return archive.NewResolver(dir) }
