package youtube

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingListener struct {
	started   bool
	progress  int64
	completed string
	failure   error
}

func (r *recordingListener) OnDownloadStart(*Client) { r.started = true }

func (r *recordingListener) OnDownloadProgress(_ *Client, chunk int64) { r.progress += chunk }

func (r *recordingListener) OnDownloadComplete(_ *Client, path string) { r.completed = path }

func (r *recordingListener) OnDownloadError(_ *Client, err error) { r.failure = err }

func TestBaseArgsWithoutCookies(t *testing.T) {
	client := NewClient("", nil)
	args := client.baseArgs()
	assert.Contains(t, args, "--no-playlist")
	assert.Contains(t, args, "--playlist-items")
	assert.Contains(t, args, "--user-agent")
	assert.NotContains(t, args, "--cookies")
}

func TestCommandRunsInOwnProcessGroup(t *testing.T) {
	cmd := command(context.Background(), "-J", "https://youtu.be/abc")
	require.NotNil(t, cmd.SysProcAttr)
	assert.True(t, cmd.SysProcAttr.Setpgid)
}

func TestBaseArgsWithCookies(t *testing.T) {
	client := NewClient("/tmp/cookies.txt", nil)
	args := client.baseArgs()
	assert.Contains(t, args, "--cookies")
	assert.Contains(t, args, "/tmp/cookies.txt")
}

func TestConsumeProgressLine(t *testing.T) {
	listener := &recordingListener{}
	client := NewClient("", listener)

	client.consumeProgressLine("[download]  10.0% of 100.00MiB at 2.50MiB/s ETA 00:36")
	assert.Equal(t, int64(100*1024*1024), client.TotalLength())
	assert.Equal(t, int64(10*1024*1024), client.CompletedLength())
	assert.Equal(t, int64(10*1024*1024), listener.progress)

	client.consumeProgressLine("[download]  50.0% of 100.00MiB at 2.50MiB/s ETA 00:20")
	assert.Equal(t, int64(50*1024*1024), client.CompletedLength())
	assert.Equal(t, int64(50*1024*1024), listener.progress)
}

func TestConsumeProgressLineIgnoresNoise(t *testing.T) {
	listener := &recordingListener{}
	client := NewClient("", listener)

	client.consumeProgressLine("[youtube] dQw4w9WgXcQ: Downloading webpage")
	client.consumeProgressLine("[Merger] Merging formats")
	client.consumeProgressLine("")

	assert.Zero(t, client.CompletedLength())
	assert.Zero(t, client.TotalLength())
	assert.Zero(t, listener.progress)
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		value string
		unit  string
		want  int64
		ok    bool
	}{
		{"512", "B", 512, true},
		{"1.5", "KiB", 1536, true},
		{"2", "MiB", 2 * 1024 * 1024, true},
		{"1", "GiB", 1024 * 1024 * 1024, true},
		{"junk", "MiB", 0, false},
		{"1", "TiB", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseSize(tt.value, tt.unit)
		assert.Equal(t, tt.ok, ok, "unit %s", tt.unit)
		assert.Equal(t, tt.want, got, "value %s %s", tt.value, tt.unit)
	}
}

func TestDecodeInfoSingleVideo(t *testing.T) {
	output := []byte(`{"id":"abc","title":"Some Video","uploader":"someone",` +
		`"duration":63.0,"filesize":1048576,"width":1280,"height":720,"ext":"mp4"}`)

	info, err := decodeInfo(output)
	require.NoError(t, err)
	assert.Equal(t, "Some Video", info.Title)
	assert.Equal(t, 63.0, info.Duration)
	assert.Equal(t, int64(1048576), info.Size())
}

func TestDecodeInfoPlaylistUsesFirstEntry(t *testing.T) {
	output := []byte(`{"_type":"playlist","id":"PLxyz","title":"Some Playlist",` +
		`"entries":[` +
		`{"id":"first","title":"First Video","duration":120.0,"filesize_approx":2097152},` +
		`{"id":"second","title":"Second Video","duration":5400.0,"filesize_approx":999999999}` +
		`]}`)

	info, err := decodeInfo(output)
	require.NoError(t, err)
	assert.Equal(t, "First Video", info.Title)
	assert.Equal(t, 120.0, info.Duration)
	assert.Equal(t, int64(2097152), info.Size())
}

func TestDecodeInfoEmptyPlaylist(t *testing.T) {
	info, err := decodeInfo([]byte(`{"_type":"playlist","id":"PLxyz","entries":[]}`))
	assert.Nil(t, info)
	assert.ErrorIs(t, err, ErrVideoUnavailable)
}

func TestCancelBeforeStart(t *testing.T) {
	listener := &recordingListener{}
	client := NewClient("", listener)
	client.Cancel()

	_, err := client.Download(context.Background(), "https://youtu.be/abc", t.TempDir())
	assert.ErrorIs(t, err, ErrCancelled)
	assert.ErrorIs(t, listener.failure, ErrCancelled)
}
