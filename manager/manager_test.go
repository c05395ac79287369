package manager

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99rahul8605-ops/Yt-v2/service/youtube"
)

func newTestStatus(gid string, userID int64, onComplete func(*DownloadStatus), onError func(*DownloadStatus)) *DownloadStatus {
	status := NewDownloadStatus(gid, userID, "https://youtu.be/abc", onComplete, onError)
	status.SetClient(youtube.NewClient("", status))
	return status
}

func TestDownloadStatusLifecycle(t *testing.T) {
	var completed *DownloadStatus
	status := newTestStatus("gid-1", 42, func(d *DownloadStatus) { completed = d }, nil)

	assert.True(t, status.IsActive())
	assert.Equal(t, "gid-1", status.Gid())
	assert.Equal(t, int64(42), status.UserID())

	status.OnDownloadStart(nil)
	status.OnDownloadComplete(nil, "/tmp/out.mp4")

	assert.True(t, status.IsCompleted())
	assert.False(t, status.IsFailed())
	assert.False(t, status.IsActive())
	assert.Equal(t, "/tmp/out.mp4", status.FilePath())
	require.NotNil(t, completed)
	assert.Equal(t, status, completed)
}

func TestDownloadStatusFailure(t *testing.T) {
	var failed *DownloadStatus
	status := newTestStatus("gid-2", 42, nil, func(d *DownloadStatus) { failed = d })

	status.OnDownloadStart(nil)
	status.OnDownloadError(nil, youtube.ErrVideoUnavailable)

	assert.True(t, status.IsFailed())
	assert.False(t, status.IsCompleted())
	assert.ErrorIs(t, status.GetFailureError(), youtube.ErrVideoUnavailable)
	require.NotNil(t, failed)
	assert.Equal(t, status, failed)
}

func TestAddDownloadRejectsWhenUserAtCap(t *testing.T) {
	m := NewDownloadManager(0)
	_, err := m.AddDownload(&AddDownloadOpts{URL: "https://youtu.be/abc", UserID: 42})
	assert.ErrorIs(t, err, ErrTooManyDownloads)
}

func TestAdmitHoldsCapUnderConcurrency(t *testing.T) {
	m := NewDownloadManager(1)

	const attempts = 16
	var wg sync.WaitGroup
	var mut sync.Mutex
	admitted := 0
	rejected := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := m.admit(newTestStatus(fmt.Sprintf("gid-%d", i), 42, nil, nil))
			mut.Lock()
			defer mut.Unlock()
			if err != nil {
				assert.ErrorIs(t, err, ErrTooManyDownloads)
				rejected++
			} else {
				admitted++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, admitted)
	assert.Equal(t, attempts-1, rejected)
	assert.Equal(t, 1, m.ActiveCountForUser(42))
}

func TestAdmitFreesSlotWhenDownloadEnds(t *testing.T) {
	m := NewDownloadManager(1)

	first := newTestStatus("gid-a", 42, nil, nil)
	require.NoError(t, m.admit(first))
	assert.ErrorIs(t, m.admit(newTestStatus("gid-b", 42, nil, nil)), ErrTooManyDownloads)

	first.OnDownloadError(nil, youtube.ErrCancelled)
	assert.NoError(t, m.admit(newTestStatus("gid-c", 42, nil, nil)))
}

func TestErrorCallbackReclaimsQueueAndDir(t *testing.T) {
	m := NewDownloadManager(1)
	dir := filepath.Join(t.TempDir(), "scratch")
	require.NoError(t, os.MkdirAll(dir, 0777))

	cleanup := func(d *DownloadStatus) {
		m.Remove(d.Gid())
		os.RemoveAll(dir)
	}
	status := newTestStatus("gid-x", 42, cleanup, cleanup)
	require.NoError(t, m.admit(status))

	status.OnDownloadError(nil, youtube.ErrVideoUnavailable)

	assert.Nil(t, m.GetDownloadStatusByGid("gid-x"))
	assert.Zero(t, m.ActiveCountForUser(42))
	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestStatusSurvivesConcurrentReaders(t *testing.T) {
	status := newTestStatus("gid-r", 42, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				status.IsActive()
				status.IsCompleted()
				status.IsFailed()
				status.Speed()
				status.FilePath()
			}
		}()
	}
	status.OnDownloadStart(nil)
	status.OnDownloadComplete(nil, "/tmp/out.mp4")
	wg.Wait()

	assert.True(t, status.IsCompleted())
	assert.Equal(t, "/tmp/out.mp4", status.FilePath())
}

func TestManagerBookkeeping(t *testing.T) {
	m := NewDownloadManager(1)

	first := newTestStatus("gid-a", 1, nil, nil)
	second := newTestStatus("gid-b", 1, nil, nil)
	third := newTestStatus("gid-c", 2, nil, nil)
	m.queue["gid-a"] = first
	m.queue["gid-b"] = second
	m.queue["gid-c"] = third

	second.OnDownloadError(nil, youtube.ErrCancelled)

	assert.Equal(t, 2, m.ActiveCount())
	assert.Equal(t, 1, m.ActiveCountForUser(1))
	assert.Equal(t, 1, m.ActiveCountForUser(2))
	assert.Zero(t, m.ActiveCountForUser(3))
	assert.ElementsMatch(t, []string{"gid-a", "gid-c"}, m.ActiveGids())

	assert.Equal(t, first, m.GetDownloadStatusByGid("gid-a"))
	m.Remove("gid-a")
	assert.Nil(t, m.GetDownloadStatusByGid("gid-a"))
}
