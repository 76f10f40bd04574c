package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nudriin/antrian-rest-api/internal/config"
	"github.com/nudriin/antrian-rest-api/internal/dates"
)

func TestGzipRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "dump.sql")
	require.NoError(t, os.WriteFile(src, []byte("CREATE TABLE queues (id BIGSERIAL);"), 0o644))

	gz := src + ".gz"
	require.NoError(t, gzipFile(src, gz))

	restored := filepath.Join(dir, "restored.sql")
	require.NoError(t, gunzipFile(gz, restored))

	got, err := os.ReadFile(restored)
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE queues (id BIGSERIAL);", string(got))
}

func TestPruneOldKeepsRecentBackups(t *testing.T) {
	dir := t.TempDir()
	wib := time.FixedZone("WIB", 7*3600)
	now := time.Date(2025, 6, 11, 1, 0, 0, 0, wib)
	d := dates.NewWithClock(wib, func() time.Time { return now })

	b := NewBackup(config.Config{BackupDir: dir}, d, zerolog.Nop())

	old := filepath.Join(dir, "backup-2025-04-01.sql.gz")
	recent := filepath.Join(dir, "backup-2025-06-01.sql.gz")
	require.NoError(t, os.WriteFile(old, []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(recent, []byte("recent"), 0o644))
	require.NoError(t, os.Chtimes(old, now.AddDate(0, 0, -40), now.AddDate(0, 0, -40)))
	require.NoError(t, os.Chtimes(recent, now.AddDate(0, 0, -10), now.AddDate(0, 0, -10)))

	b.pruneOld()

	_, err := os.Stat(old)
	assert.True(t, os.IsNotExist(err), "40-day-old archive must be pruned")
	_, err = os.Stat(recent)
	assert.NoError(t, err, "10-day-old archive must survive")
}
