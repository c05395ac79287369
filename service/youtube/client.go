package youtube

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/99rahul8605-ops/Yt-v2/logging"
	"github.com/99rahul8605-ops/Yt-v2/types"
	"github.com/99rahul8605-ops/Yt-v2/utils"
)

const Binary = "yt-dlp"

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Capped at 720p, merged into mp4. Telegram previews choke on anything
// fancier.
const downloadFormat = "bestvideo[height<=720]+bestaudio/best[height<=720]/best"

func NewClient(cookiesPath string, listener ClientListener) *Client {
	return &Client{
		cookiesPath: cookiesPath,
		listener:    listener,
	}
}

type Client struct {
	cookiesPath string
	listener    ClientListener
	mut         sync.Mutex
	cmd         *exec.Cmd
	completed   int64
	total       int64
	isCancelled bool
	name        string
}

// command builds a yt-dlp invocation in its own process group so Cancel
// can take down the ffmpeg children yt-dlp spawns along with it.
func command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, Binary, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	return cmd
}

func (c *Client) baseArgs() []string {
	args := []string{
		"--no-playlist",
		"--playlist-items", "1",
		"--no-warnings",
		"--socket-timeout", "30",
		"--retries", "10",
		"--fragment-retries", "10",
		"--user-agent", userAgent,
	}
	if c.cookiesPath != "" {
		args = append(args, "--cookies", c.cookiesPath)
	}
	return args
}

// ExtractInfo fetches video metadata without downloading anything.
func (c *Client) ExtractInfo(ctx context.Context, url string) (*types.VideoInfo, error) {
	logger := logging.GetLogger()
	args := append(c.baseArgs(), "-J", "--skip-download", url)

	cmd := command(ctx, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		logger.Error("yt-dlp metadata extraction failed", zap.Error(err),
			zap.String("url", url),
			zap.String("stderr", stderr.String()),
		)
		if classified := ClassifyOutput(stderr.String()); classified != nil {
			return nil, classified
		}
		return nil, fmt.Errorf("ExtractInfo: %w", err)
	}

	info, err := decodeInfo(output)
	if err != nil {
		logger.Error("could not decode yt-dlp json", zap.Error(err), zap.String("url", url))
		return nil, fmt.Errorf("ExtractInfo: %w", err)
	}

	c.mut.Lock()
	c.name = info.Title
	if c.total == 0 {
		c.total = info.Size()
	}
	c.mut.Unlock()
	return info, nil
}

// decodeInfo parses -J output. Playlist URLs yield a playlist object whose
// top-level duration and filesize are zero; only the first entry gets
// downloaded, so the duration and size limits must apply to it.
func decodeInfo(output []byte) (*types.VideoInfo, error) {
	var info types.VideoInfo
	err := json.Unmarshal(output, &info)
	if err != nil {
		return nil, err
	}
	if info.Type == "playlist" {
		if len(info.Entries) == 0 {
			return nil, ErrVideoUnavailable
		}
		entry := info.Entries[0]
		return &entry, nil
	}
	return &info, nil
}

var progressLine = regexp.MustCompile(`\[download\]\s+([0-9.]+)%(?:\s+of\s+~?\s*([0-9.]+)(KiB|MiB|GiB|B))?`)

// Download fetches url into dir and returns the path of the merged file.
// Listener callbacks fire around the subprocess lifecycle.
func (c *Client) Download(ctx context.Context, url string, dir string) (string, error) {
	logger := logging.GetLogger()
	c.listener.OnDownloadStart(c)

	args := append(c.baseArgs(),
		"-f", downloadFormat,
		"--merge-output-format", "mp4",
		"--newline",
		"-o", filepath.Join(dir, "%(title)s.%(ext)s"),
		url,
	)
	cmd := command(ctx, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		c.listener.OnDownloadError(c, err)
		return "", err
	}

	c.mut.Lock()
	if c.isCancelled {
		c.mut.Unlock()
		c.listener.OnDownloadError(c, ErrCancelled)
		return "", ErrCancelled
	}
	c.cmd = cmd
	c.mut.Unlock()

	err = cmd.Start()
	if err != nil {
		logger.Error("could not start yt-dlp", zap.Error(err), zap.String("url", url))
		c.listener.OnDownloadError(c, err)
		return "", err
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		c.consumeProgressLine(scanner.Text())
	}

	err = cmd.Wait()
	c.mut.Lock()
	cancelled := c.isCancelled
	c.mut.Unlock()
	if cancelled {
		c.listener.OnDownloadError(c, ErrCancelled)
		return "", ErrCancelled
	}
	if err != nil {
		logger.Error("yt-dlp download failed", zap.Error(err),
			zap.String("url", url),
			zap.String("stderr", stderr.String()),
		)
		downloadErr := err
		if classified := ClassifyOutput(stderr.String()); classified != nil {
			downloadErr = classified
		}
		c.listener.OnDownloadError(c, downloadErr)
		return "", downloadErr
	}

	path, err := utils.FindNewestFile(dir)
	if err != nil {
		logger.Error("no output file after download", zap.Error(err), zap.String("dir", dir))
		c.listener.OnDownloadError(c, err)
		return "", err
	}

	size, err := utils.GetPathSize(path)
	if err == nil {
		c.mut.Lock()
		c.completed = size
		c.total = size
		c.mut.Unlock()
	}
	c.listener.OnDownloadComplete(c, path)
	return path, nil
}

func (c *Client) consumeProgressLine(line string) {
	match := progressLine.FindStringSubmatch(line)
	if match == nil {
		return
	}
	percent, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return
	}

	c.mut.Lock()
	if match[2] != "" {
		if total, ok := parseSize(match[2], match[3]); ok {
			c.total = total
		}
	}
	var chunk int64
	if c.total > 0 {
		done := int64(percent / 100 * float64(c.total))
		chunk = done - c.completed
		c.completed = done
	}
	c.mut.Unlock()

	if chunk > 0 {
		c.listener.OnDownloadProgress(c, chunk)
	}
}

func parseSize(value string, unit string) (int64, bool) {
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	switch unit {
	case "B":
	case "KiB":
		parsed *= 1024
	case "MiB":
		parsed *= 1024 * 1024
	case "GiB":
		parsed *= 1024 * 1024 * 1024
	default:
		return 0, false
	}
	return int64(parsed), true
}

func (c *Client) CompletedLength() int64 {
	c.mut.Lock()
	defer c.mut.Unlock()
	return c.completed
}

func (c *Client) TotalLength() int64 {
	c.mut.Lock()
	defer c.mut.Unlock()
	return c.total
}

func (c *Client) Name() string {
	c.mut.Lock()
	defer c.mut.Unlock()
	return c.name
}

func (c *Client) Cancel() {
	logger := logging.GetLogger()
	c.mut.Lock()
	defer c.mut.Unlock()
	c.isCancelled = true
	if c.cmd != nil && c.cmd.Process != nil {
		// Negative pid signals the whole process group, yt-dlp's ffmpeg
		// children included.
		err := syscall.Kill(-c.cmd.Process.Pid, syscall.SIGKILL)
		if err != nil {
			err = c.cmd.Process.Kill()
		}
		if err != nil {
			logger.Error("could not kill yt-dlp process", zap.Error(err))
		}
	}
}
