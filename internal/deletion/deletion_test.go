package deletion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"media-screensaver/internal/catalog"
	"media-screensaver/internal/sequencer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)

func setup(t *testing.T, names ...string) (*catalog.Catalog, *sequencer.Sequencer, []string) {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for _, n := range names {
		p := filepath.Join(dir, n)
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
		paths = append(paths, p)
	}
	c := catalog.New()
	require.NoError(t, c.Scan(context.Background(), []string{dir}))
	return c, sequencer.New(c, sequencer.Sequential), paths
}

func newCoordinator(seq Remover, auditPath string) *Coordinator {
	c := New(seq, NewAuditLog(auditPath))
	c.now = func() time.Time { return fixedTime }
	return c
}

func TestDeleteCurrent(t *testing.T) {
	c, seq, paths := setup(t, "a.jpg", "b.jpg", "c.jpg")
	auditPath := filepath.Join(t.TempDir(), "logs", "deleted.log")
	coord := newCoordinator(seq, auditPath)

	for i := 0; i < 2; i++ {
		_, err := seq.Next(context.Background())
		require.NoError(t, err)
	}

	entry, err := coord.Delete(seq.Cursor())
	require.NoError(t, err)
	assert.Equal(t, paths[1], entry.Path)

	_, statErr := os.Stat(paths[1])
	assert.True(t, os.IsNotExist(statErr))
	assert.Equal(t, 2, c.Count())
	assert.Equal(t, -1, c.IndexOf(paths[1]))
	assert.Equal(t, 0, seq.Cursor())

	log, err := os.ReadFile(auditPath)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-09 14:05:07: "+paths[1]+"\n", string(log))

	_, err = coord.Delete(0)
	require.NoError(t, err)
	log, err = os.ReadFile(auditPath)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-09 14:05:07: "+paths[1]+"\n2024-03-09 14:05:07: "+paths[0]+"\n", string(log))
}

func TestDeleteDiskFailureKeepsRemoval(t *testing.T) {
	c, seq, paths := setup(t, "a.jpg", "b.jpg")
	require.NoError(t, os.Remove(paths[0]))
	auditPath := filepath.Join(t.TempDir(), "deleted.log")
	coord := newCoordinator(seq, auditPath)

	_, err := seq.Next(context.Background())
	require.NoError(t, err)

	entry, err := coord.Delete(0)
	var diskErr *DiskError
	require.ErrorAs(t, err, &diskErr)
	assert.Equal(t, paths[0], diskErr.Path)
	assert.True(t, os.IsNotExist(diskErr.Err))
	assert.Equal(t, paths[0], entry.Path)
	assert.NotErrorIs(t, err, sequencer.ErrNoFiles)

	assert.Equal(t, 1, c.Count())
	assert.Equal(t, -1, c.IndexOf(paths[0]))

	log, err := os.ReadFile(auditPath)
	require.NoError(t, err)
	assert.Contains(t, string(log), paths[0])
}

func TestDeleteLastEntry(t *testing.T) {
	c, seq, paths := setup(t, "only.mp4")
	coord := newCoordinator(seq, "")

	_, err := seq.Next(context.Background())
	require.NoError(t, err)

	entry, err := coord.Delete(0)
	assert.ErrorIs(t, err, sequencer.ErrNoFiles)
	var diskErr *DiskError
	assert.False(t, errors.As(err, &diskErr))
	assert.Equal(t, paths[0], entry.Path)
	assert.Equal(t, 0, c.Count())
	assert.Equal(t, -1, seq.Cursor())

	_, statErr := os.Stat(paths[0])
	assert.True(t, os.IsNotExist(statErr))
}

func TestDeleteLastEntryWithDiskFailure(t *testing.T) {
	_, seq, paths := setup(t, "only.jpg")
	require.NoError(t, os.Remove(paths[0]))
	coord := newCoordinator(seq, "")

	_, err := coord.Delete(0)
	var diskErr *DiskError
	assert.ErrorAs(t, err, &diskErr)
	assert.ErrorIs(t, err, sequencer.ErrNoFiles)
}

func TestDeleteInvalidIndex(t *testing.T) {
	c, seq, paths := setup(t, "a.jpg")
	auditPath := filepath.Join(t.TempDir(), "deleted.log")
	coord := newCoordinator(seq, auditPath)

	_, err := coord.Delete(4)
	assert.ErrorIs(t, err, catalog.ErrIndexOutOfRange)
	assert.Equal(t, 1, c.Count())

	_, statErr := os.Stat(paths[0])
	assert.NoError(t, statErr)
	_, statErr = os.Stat(auditPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestNilAuditLog(t *testing.T) {
	var a *AuditLog
	assert.NoError(t, a.Append(time.Now(), "/x.jpg"))
	assert.NoError(t, NewAuditLog("").Append(time.Now(), "/x.jpg"))
}
