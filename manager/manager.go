package manager

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/99rahul8605-ops/Yt-v2/logging"
	"github.com/99rahul8605-ops/Yt-v2/service/youtube"
)

// ErrTooManyDownloads is returned when a user is already at their
// concurrent download cap.
var ErrTooManyDownloads = errors.New("too many active downloads for user")

func NewDownloadStatus(gid string, userID int64, url string, onDownloadComplete func(*DownloadStatus), onDownloadError func(*DownloadStatus)) *DownloadStatus {
	return &DownloadStatus{
		gid:                            gid,
		userID:                         userID,
		url:                            url,
		onDownloadCompleteUserCallback: onDownloadComplete,
		onDownloadErrorUserCallback:    onDownloadError,
	}
}

type DownloadStatus struct {
	mut                            sync.Mutex
	client                         *youtube.Client
	isCompleted                    bool
	isFailed                       bool
	isObserverRunning              bool
	speed                          int64
	gid                            string
	userID                         int64
	url                            string
	filePath                       string
	failure                        error
	onDownloadCompleteUserCallback func(*DownloadStatus)
	onDownloadErrorUserCallback    func(*DownloadStatus)
}

func (d *DownloadStatus) SetClient(client *youtube.Client) {
	d.client = client
}

func (d *DownloadStatus) StartSpeedObserver() {
	d.mut.Lock()
	d.isObserverRunning = true
	d.mut.Unlock()
	go d.SpeedObserver()
}

func (d *DownloadStatus) StopSpeedObserver() {
	d.mut.Lock()
	d.isObserverRunning = false
	d.mut.Unlock()
}

func (d *DownloadStatus) SpeedObserver() {
	last := d.CompletedLength()
	for d.isSpeedObserverRunning() {
		now := d.CompletedLength()
		d.mut.Lock()
		d.speed = now - last
		d.mut.Unlock()
		last = now
		time.Sleep(1 * time.Second)
	}
}

func (d *DownloadStatus) isSpeedObserverRunning() bool {
	d.mut.Lock()
	defer d.mut.Unlock()
	return d.isObserverRunning
}

func (d *DownloadStatus) OnDownloadStart(client *youtube.Client) {
	logger := logging.GetLogger()
	d.StartSpeedObserver()
	logger.Debug("on download start", zap.String("gid", d.gid), zap.String("url", d.url))
}

func (d *DownloadStatus) OnDownloadProgress(client *youtube.Client, chunk int64) {
	logger := logging.GetLogger()
	logger.Debug("download progress",
		zap.String("gid", d.gid),
		zap.Int64("chunk", chunk),
		zap.Int64("completed", client.CompletedLength()),
	)
}

func (d *DownloadStatus) OnDownloadComplete(client *youtube.Client, path string) {
	logger := logging.GetLogger()
	d.mut.Lock()
	d.filePath = path
	d.isCompleted = true
	d.mut.Unlock()
	d.StopSpeedObserver()
	logger.Debug("on download complete", zap.String("gid", d.gid), zap.String("path", path))

	if d.onDownloadCompleteUserCallback != nil {
		d.onDownloadCompleteUserCallback(d)
	}
}

func (d *DownloadStatus) OnDownloadError(client *youtube.Client, err error) {
	logger := logging.GetLogger()
	d.mut.Lock()
	d.failure = err
	d.isFailed = true
	d.mut.Unlock()
	d.StopSpeedObserver()
	logger.Debug("on download error", zap.String("gid", d.gid), zap.Error(err))

	if d.onDownloadErrorUserCallback != nil {
		d.onDownloadErrorUserCallback(d)
	}
}

func (d *DownloadStatus) Gid() string {
	return d.gid
}

func (d *DownloadStatus) UserID() int64 {
	return d.userID
}

func (d *DownloadStatus) URL() string {
	return d.url
}

func (d *DownloadStatus) Name() string {
	return d.client.Name()
}

func (d *DownloadStatus) FilePath() string {
	d.mut.Lock()
	defer d.mut.Unlock()
	return d.filePath
}

func (d *DownloadStatus) CompletedLength() int64 {
	return d.client.CompletedLength()
}

func (d *DownloadStatus) TotalLength() int64 {
	return d.client.TotalLength()
}

func (d *DownloadStatus) Speed() int64 {
	d.mut.Lock()
	defer d.mut.Unlock()
	return d.speed
}

func (d *DownloadStatus) IsCompleted() bool {
	d.mut.Lock()
	defer d.mut.Unlock()
	return d.isCompleted
}

func (d *DownloadStatus) IsFailed() bool {
	d.mut.Lock()
	defer d.mut.Unlock()
	return d.isFailed
}

func (d *DownloadStatus) IsActive() bool {
	d.mut.Lock()
	defer d.mut.Unlock()
	return !d.isCompleted && !d.isFailed
}

func (d *DownloadStatus) GetFailureError() error {
	d.mut.Lock()
	defer d.mut.Unlock()
	return d.failure
}

func (d *DownloadStatus) Cancel() {
	d.client.Cancel()
}

type AddDownloadOpts struct {
	URL                        string
	UserID                     int64
	Dir                        string
	CookiesPath                string
	Gid                        string
	OnDownloadCompleteCallback func(*DownloadStatus)
	OnDownloadErrorCallback    func(*DownloadStatus)
}

func NewDownloadManager(maxPerUser int) *DownloadManager {
	return &DownloadManager{
		queue:      make(map[string]*DownloadStatus),
		maxPerUser: maxPerUser,
	}
}

type DownloadManager struct {
	mut        sync.Mutex
	queue      map[string]*DownloadStatus
	maxPerUser int
}

func (m *DownloadManager) GetDownloadStatusByGid(gid string) *DownloadStatus {
	m.mut.Lock()
	defer m.mut.Unlock()
	return m.queue[gid]
}

// ActiveCount reports the number of downloads still in flight. Must stay
// cheap, the health endpoint calls it on every probe.
func (m *DownloadManager) ActiveCount() int {
	m.mut.Lock()
	defer m.mut.Unlock()
	count := 0
	for _, status := range m.queue {
		if status.IsActive() {
			count++
		}
	}
	return count
}

func (m *DownloadManager) ActiveCountForUser(userID int64) int {
	m.mut.Lock()
	defer m.mut.Unlock()
	return m.activeCountForUserLocked(userID)
}

func (m *DownloadManager) activeCountForUserLocked(userID int64) int {
	count := 0
	for _, status := range m.queue {
		if status.UserID() == userID && status.IsActive() {
			count++
		}
	}
	return count
}

func (m *DownloadManager) ActiveGids() []string {
	m.mut.Lock()
	defer m.mut.Unlock()
	var gids []string
	for gid, status := range m.queue {
		if status.IsActive() {
			gids = append(gids, gid)
		}
	}
	return gids
}

// CancelForUser cancels every active download owned by userID and returns
// how many were cancelled.
func (m *DownloadManager) CancelForUser(userID int64) int {
	m.mut.Lock()
	var cancel []*DownloadStatus
	for _, status := range m.queue {
		if status.UserID() == userID && status.IsActive() {
			cancel = append(cancel, status)
		}
	}
	m.mut.Unlock()

	for _, status := range cancel {
		status.Cancel()
	}
	return len(cancel)
}

func (m *DownloadManager) Remove(gid string) {
	m.mut.Lock()
	defer m.mut.Unlock()
	delete(m.queue, gid)
}

// admit checks the user's cap and inserts the status in one critical
// section, concurrent adds for the same user cannot both pass the check.
func (m *DownloadManager) admit(status *DownloadStatus) error {
	m.mut.Lock()
	defer m.mut.Unlock()
	if m.activeCountForUserLocked(status.userID) >= m.maxPerUser {
		return ErrTooManyDownloads
	}
	m.queue[status.gid] = status
	return nil
}

func (m *DownloadManager) AddDownload(opts *AddDownloadOpts) (string, error) {
	logger := logging.GetLogger()
	if opts.Gid == "" {
		gid, err := uuid.NewUUID()
		if err != nil {
			logger.Error("Could not create new UUID", zap.Error(err))
			return "", err
		}
		opts.Gid = gid.String()
	}

	status := NewDownloadStatus(opts.Gid, opts.UserID, opts.URL, opts.OnDownloadCompleteCallback, opts.OnDownloadErrorCallback)
	client := youtube.NewClient(opts.CookiesPath, status)
	status.SetClient(client)

	err := m.admit(status)
	if err != nil {
		return "", err
	}

	go func() {
		_, err := client.Download(context.Background(), opts.URL, opts.Dir)
		if err != nil {
			return
		}
	}()

	return opts.Gid, nil
}
