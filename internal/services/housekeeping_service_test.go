package services

import (
	"lanupload/internal/housekeeping"
	"lanupload/internal/models"
	"lanupload/internal/storage"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingService_TriggerSweep(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "lanupload-1.part")
	fresh := filepath.Join(dir, "lanupload-2.part")
	other := filepath.Join(dir, "keep.txt")
	for _, p := range []string{stale, fresh, other} {
		require.NoError(t, os.WriteFile(p, []byte("abc"), 0o644))
	}
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(stale, past, past))
	require.NoError(t, os.Chtimes(other, past, past))

	var swept int
	target := storage.TempDir{Dir: dir, Prefix: "lanupload-", Suffix: ".part"}
	svc := NewHousekeepingService([]housekeeping.Target{target}, 0, 24*time.Hour, func(r *models.SweepReport) {
		swept += r.FilesDeleted
	})

	svc.Start() // interval 0: no background worker
	defer svc.Stop()

	report, err := svc.TriggerSweep()
	require.NoError(t, err)
	assert.Equal(t, 1, report.FilesDeleted)
	assert.Equal(t, 1, swept)

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	assert.FileExists(t, fresh)
	assert.FileExists(t, other)
}
