package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchive(t *testing.T) {
	base := t.TempDir()
	downloads := filepath.Join(base, "downloads")
	archive := filepath.Join(base, "archive")
	src := filepath.Join(downloads, "ITR Q12024A.xlsx")
	touch(t, src, time.Now())

	m := NewManager(archive, nil)
	assert.Equal(t, archive, m.ArchiveDir())
	assert.False(t, m.IsArchived("ITR Q12024A.xlsx"))

	require.NoError(t, m.Archive(src))

	assert.NoFileExists(t, src)
	assert.FileExists(t, filepath.Join(archive, "ITR Q12024A.xlsx"))
	assert.True(t, m.IsArchived("ITR Q12024A.xlsx"))
	assert.True(t, m.IsArchived(src))
}

func TestArchiveReplacesPreviousCopy(t *testing.T) {
	base := t.TempDir()
	archive := filepath.Join(base, "archive")
	require.NoError(t, os.MkdirAll(archive, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(archive, "r.xlsx"), []byte("old"), 0644))

	src := filepath.Join(base, "r.xlsx")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0644))

	require.NoError(t, NewManager(archive, nil).Archive(src))

	data, err := os.ReadFile(filepath.Join(archive, "r.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestArchiveAllContinuesPastFailures(t *testing.T) {
	base := t.TempDir()
	archive := filepath.Join(base, "archive")
	good := filepath.Join(base, "good.xlsx")
	touch(t, good, time.Now())

	err := NewManager(archive, nil).ArchiveAll([]string{filepath.Join(base, "missing.xlsx"), good})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.xlsx")
	assert.FileExists(t, filepath.Join(archive, "good.xlsx"))
}

func TestCopyFile(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "src.xlsx")
	dst := filepath.Join(base, "deep", "dir", "dst.xlsx")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0644))

	m := NewManager(base, nil)
	require.NoError(t, m.CopyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
	assert.FileExists(t, src)

	assert.Error(t, m.CopyFile(filepath.Join(base, "absent"), dst))
}
