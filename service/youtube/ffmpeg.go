package youtube

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/99rahul8605-ops/Yt-v2/logging"
)

// CheckBinaries verifies the external tools the bot shells out to are on
// PATH. Called once at startup.
func CheckBinaries() error {
	for _, binary := range []string{Binary, "ffmpeg", "ffprobe"} {
		_, err := exec.LookPath(binary)
		if err != nil {
			return fmt.Errorf("required binary %q not found in PATH: %w", binary, err)
		}
	}
	return nil
}

// GenerateThumbnail grabs a frame one second in and writes it as jpeg next
// to the video.
func GenerateThumbnail(ctx context.Context, videoPath string) (string, error) {
	logger := logging.GetLogger()
	thumbnailPath := strings.TrimSuffix(videoPath, ".mp4") + "_thumb.jpg"

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y",
		"-i", videoPath,
		"-ss", "00:00:01",
		"-vframes", "1",
		"-q:v", "2",
		thumbnailPath,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		logger.Error("could not generate thumbnail", zap.Error(err),
			zap.String("video", videoPath),
			zap.String("output", string(output)),
		)
		return "", fmt.Errorf("GenerateThumbnail: %w", err)
	}
	return thumbnailPath, nil
}

// ProbeDuration returns the duration of a media file in seconds.
func ProbeDuration(ctx context.Context, videoPath string) (float64, error) {
	logger := logging.GetLogger()
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
		videoPath,
	)
	output, err := cmd.Output()
	if err != nil {
		logger.Error("ffprobe failed", zap.Error(err), zap.String("video", videoPath))
		return 0, fmt.Errorf("ProbeDuration: %w", err)
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("ProbeDuration: %w", err)
	}
	return duration, nil
}
