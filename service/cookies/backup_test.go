package cookies

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupAndList(t *testing.T) {
	dir := t.TempDir()
	backupDir := filepath.Join(dir, "backups")
	require.NoError(t, os.MkdirAll(backupDir, 0755))
	path := writeCookies(t, dir, sampleCookies)
	store := NewStore(path, backupDir)

	backupPath, err := store.Backup()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(backupPath), backupPrefix))

	data, err := os.ReadFile(backupPath)
	require.NoError(t, err)
	assert.Equal(t, sampleCookies, string(data))

	backups, err := store.ListBackups()
	require.NoError(t, err)
	assert.NotEmpty(t, backups)
}

func TestBackupWithoutCookies(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "absent.txt"), dir)
	_, err := store.Backup()
	assert.Error(t, err)
}

func TestReplaceValidatesAndInstalls(t *testing.T) {
	dir := t.TempDir()
	path := writeCookies(t, dir, sampleCookies)
	store := NewStore(path, dir)

	fresh := sampleCookies + ".youtube.com\tTRUE\t/\tTRUE\t1999999999\tSSID\tnew-value\n"
	srcPath := filepath.Join(dir, "upload.txt")
	require.NoError(t, os.WriteFile(srcPath, []byte(fresh), 0644))

	summary, err := store.Replace(srcPath)
	require.NoError(t, err)
	assert.Contains(t, summary, "Valid cookies file")

	installed, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, fresh, string(installed))
	assert.True(t, store.Available())
	assert.Contains(t, store.YouTubeCookieNames(), "SSID")
}

func TestReplaceRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := writeCookies(t, dir, sampleCookies)
	store := NewStore(path, dir)

	srcPath := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(srcPath, []byte("nonsense"), 0644))

	_, err := store.Replace(srcPath)
	require.Error(t, err)

	// live file untouched
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleCookies, string(data))
}

func TestRestore(t *testing.T) {
	dir := t.TempDir()
	backupDir := filepath.Join(dir, "backups")
	require.NoError(t, os.MkdirAll(backupDir, 0755))
	path := writeCookies(t, dir, sampleCookies)
	store := NewStore(path, backupDir)

	backupPath, err := store.Backup()
	require.NoError(t, err)

	// clobber the live file, then roll back
	mangled := strings.Replace(sampleCookies, "SID", "XXX", 1)
	require.NoError(t, os.WriteFile(path, []byte(mangled), 0644))
	store.Refresh()

	require.NoError(t, store.Restore(backupPath))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleCookies, string(data))
}

func TestDelete(t *testing.T) {
	dir := t.TempDir()
	backupDir := filepath.Join(dir, "backups")
	require.NoError(t, os.MkdirAll(backupDir, 0755))
	path := writeCookies(t, dir, sampleCookies)
	store := NewStore(path, backupDir)

	require.NoError(t, store.Delete())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.False(t, store.Available())

	// a backup survives the delete
	backups, err := store.ListBackups()
	require.NoError(t, err)
	assert.NotEmpty(t, backups)
}
