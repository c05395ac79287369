package bot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"go.uber.org/zap"
	"gopkg.in/telebot.v3"

	"github.com/99rahul8605-ops/Yt-v2/logging"
	"github.com/99rahul8605-ops/Yt-v2/manager"
	"github.com/99rahul8605-ops/Yt-v2/service/youtube"
	"github.com/99rahul8605-ops/Yt-v2/types"
	"github.com/99rahul8605-ops/Yt-v2/utils"
)

const notAuthorizedText = "❌ You are not authorized to use this bot."

const extractInfoTimeout = 60 * time.Second

func (b *Bot) handleStart(c telebot.Context) error {
	if !b.IsAllowed(c.Sender().ID) {
		return c.Send(notAuthorizedText)
	}

	cookiesStatus := "❌ Not configured"
	if b.store.Available() {
		cookiesStatus = "✅ Active"
	}

	adminCommands := ""
	if b.IsAdmin(c.Sender().ID) {
		adminCommands = "\n\n*👑 Admin Commands:*\n" +
			"• /cookies\\_info - View detailed cookies info\n" +
			"• /cookies\\_upload - Upload new cookies file\n" +
			"• /cookies\\_backup - Backup current cookies\n" +
			"• /cookies\\_restore - Restore from backup\n" +
			"• /cookies\\_test - Test cookies with YouTube\n" +
			"• /cookies\\_delete - Delete cookies file\n"
	}

	text := "🎬 *YouTube Video Downloader Bot*\n\n" +
		"*📋 Commands:*\n" +
		"• /yt - Download a YouTube video\n" +
		"• /status - Check bot status\n" +
		"• /cookies - Check cookies status\n" +
		"• /help - Show this message" +
		adminCommands +
		"\n\n*⚙️ Limits:*\n" +
		fmt.Sprintf("• Max duration: %d minutes\n", b.cfg.MaxDuration/60) +
		"• Max resolution: 720p\n" +
		"• Format: MP4\n\n" +
		fmt.Sprintf("*🍪 Cookies Status:* %s\n", cookiesStatus) +
		"• Age-restricted videos require cookies\n\n" +
		"*📖 Usage:*\n" +
		"1. Send /yt\n" +
		"2. Reply with a YouTube URL"

	return c.Send(text, &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
}

func (b *Bot) handleYt(c telebot.Context) error {
	userID := c.Sender().ID
	if !b.IsAllowed(userID) {
		return c.Send(notAuthorizedText)
	}

	if b.dlmanager.ActiveCountForUser(userID) >= b.cfg.MaxConcurrentDownloads {
		return c.Send("⏳ You have too many active downloads. Please wait for them to complete.")
	}
	if b.states.Get(userID) != StateIdle {
		return c.Send("⏳ Please finish your current operation first, or send /cancel.")
	}

	b.states.Set(userID, StateAwaitingURL)

	cookiesStatus := "❌ Not configured"
	if b.store.Available() {
		cookiesStatus = "✅ Active"
	}
	return c.Send("🔗 *Please send me a YouTube URL*\n\n"+
		"Send /cancel to abort the operation.\n\n"+
		"*Supported URLs:*\n"+
		"• youtube.com/watch?v=...\n"+
		"• youtu.be/...\n"+
		"• youtube.com/shorts/...\n"+
		"• youtube.com/playlist?list=... (first video only)\n\n"+
		fmt.Sprintf("*Cookies:* %s", cookiesStatus),
		&telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
}

func (b *Bot) handleStatus(c telebot.Context) error {
	if !b.IsAllowed(c.Sender().ID) {
		return c.Send(notAuthorizedText)
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	cookiesStatus := "❌ Not configured"
	if b.store.Available() {
		cookiesStatus = "✅ Available"
	}

	text := "🤖 *Bot Status*\n\n" +
		fmt.Sprintf("*System:* %s/%s\n", runtime.GOOS, runtime.GOARCH) +
		fmt.Sprintf("*Goroutines:* %d\n", runtime.NumGoroutine()) +
		fmt.Sprintf("*Memory:* %s in use\n", utils.HumanBytes(int64(memStats.Alloc))) +
		fmt.Sprintf("*Uptime:* %s\n", time.Since(b.startedAt).Round(time.Second)) +
		fmt.Sprintf("*Active Downloads:* %d\n", b.dlmanager.ActiveCount()) +
		fmt.Sprintf("*Cookies:* %s\n", cookiesStatus) +
		fmt.Sprintf("*Temp Directory:* `%s`\n\n", b.cfg.TempDir) +
		"✅ Bot is running normally"

	return c.Send(text, &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
}

func (b *Bot) handleCancel(c telebot.Context) error {
	userID := c.Sender().ID
	if !b.IsAllowed(userID) {
		return c.Send(notAuthorizedText)
	}

	wasActive := b.states.Clear(userID)
	cancelled := b.dlmanager.CancelForUser(userID)
	if !wasActive && cancelled == 0 {
		return c.Send("Nothing to cancel.")
	}
	if cancelled > 0 {
		return c.Send(fmt.Sprintf("❌ Operation cancelled, %d download(s) aborted.", cancelled))
	}
	return c.Send("❌ Operation cancelled.")
}

func (b *Bot) handleText(c telebot.Context) error {
	userID := c.Sender().ID
	if !b.IsAllowed(userID) {
		return nil
	}

	switch b.states.Get(userID) {
	case StateAwaitingBackupIndex:
		return b.handleBackupSelection(c)
	case StateAwaitingURL:
		url := c.Text()
		if !youtube.IsYouTubeURL(url) {
			b.states.Clear(userID)
			return c.Send("❌ Invalid YouTube URL. Please send a valid YouTube link.")
		}
		b.states.Clear(userID)
		go b.processDownload(c, url)
		return nil
	}
	return nil
}

// cookiesPathIfAvailable hands yt-dlp the cookies file only when there is a
// usable one, a dangling --cookies path makes every download fail.
func (b *Bot) cookiesPathIfAvailable() string {
	if b.store.Available() {
		return b.store.Path()
	}
	return ""
}

func (b *Bot) processDownload(c telebot.Context, url string) {
	logger := logging.GetLogger()
	userID := c.Sender().ID

	statusMsg, err := b.tb.Send(c.Chat(), "🔍 Fetching video information...")
	if err != nil {
		logger.Error("could not send status message", zap.Error(err), zap.Int64("user", userID))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), extractInfoTimeout)
	defer cancel()
	infoClient := youtube.NewClient(b.cookiesPathIfAvailable(), nil)
	info, err := infoClient.ExtractInfo(ctx, url)
	if err != nil {
		b.editStatus(statusMsg, "❌ "+describeDownloadError(err))
		return
	}

	if int(info.Duration) > b.cfg.MaxDuration {
		b.editStatus(statusMsg, fmt.Sprintf(
			"❌ Video is too long: %d minutes. Maximum allowed: %d minutes.",
			int(info.Duration)/60, b.cfg.MaxDuration/60))
		return
	}
	if info.Size() > b.cfg.MaxFileSize {
		b.editStatus(statusMsg, fmt.Sprintf(
			"❌ Video is too big: %s. Maximum allowed: %s.",
			utils.HumanBytes(info.Size()), utils.HumanBytes(b.cfg.MaxFileSize)))
		return
	}

	dir := filepath.Join(b.cfg.TempDir, fmt.Sprintf("user_%d", userID), utils.RandString(8))
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		logger.Error("could not create download dir", zap.Error(err), zap.String("dir", dir))
		b.editStatus(statusMsg, "❌ Internal error, try again later.")
		return
	}

	gid, err := b.dlmanager.AddDownload(&manager.AddDownloadOpts{
		URL:         url,
		UserID:      userID,
		Dir:         dir,
		CookiesPath: b.cookiesPathIfAvailable(),
	})
	if err != nil {
		if errors.Is(err, manager.ErrTooManyDownloads) {
			b.editStatus(statusMsg, "⏳ You have too many active downloads. Please wait for them to complete.")
		} else {
			b.editStatus(statusMsg, "❌ Could not start download: "+err.Error())
		}
		b.cleanupDir(dir)
		return
	}

	b.watchDownload(c, statusMsg, gid, dir, info)
}

func (b *Bot) watchDownload(c telebot.Context, statusMsg *telebot.Message, gid string, dir string, info *types.VideoInfo) {
	logger := logging.GetLogger()
	defer b.dlmanager.Remove(gid)
	defer b.cleanupDir(dir)

	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		status := b.dlmanager.GetDownloadStatusByGid(gid)
		if status == nil {
			return
		}
		if status.IsFailed() {
			b.editStatus(statusMsg, "❌ "+describeDownloadError(status.GetFailureError()))
			return
		}
		if status.IsCompleted() {
			b.uploadVideo(c, statusMsg, status.FilePath(), info)
			return
		}
		b.editStatus(statusMsg, formatProgress(info.Title, status))
		logger.Debug("download progress",
			zap.String("gid", gid),
			zap.Int64("completed", status.CompletedLength()),
			zap.Int64("total", status.TotalLength()),
		)
	}
}

func (b *Bot) uploadVideo(c telebot.Context, statusMsg *telebot.Message, videoPath string, info *types.VideoInfo) {
	logger := logging.GetLogger()
	b.editStatus(statusMsg, "📤 Uploading to Telegram...")

	video := &telebot.Video{
		File:      telebot.FromDisk(videoPath),
		FileName:  utils.ToSafeFilename(info.Title) + ".mp4",
		MIME:      utils.GetFileContentTypePath(videoPath),
		Width:     info.Width,
		Height:    info.Height,
		Duration:  int(info.Duration),
		Caption:   fmt.Sprintf("🎬 %s\n👤 %s", info.Title, info.Uploader),
		Streaming: true,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	thumbnailPath, err := youtube.GenerateThumbnail(ctx, videoPath)
	if err == nil {
		video.Thumbnail = &telebot.Photo{File: telebot.FromDisk(thumbnailPath)}
	}

	_, err = b.tb.Send(c.Chat(), video)
	if err != nil {
		logger.Error("could not send video", zap.Error(err), zap.String("path", videoPath))
		b.editStatus(statusMsg, "❌ Failed to upload the video to Telegram.")
		return
	}

	err = b.tb.Delete(statusMsg)
	if err != nil {
		logger.Debug("could not delete status message", zap.Error(err))
	}
}

// editStatus is best effort, Telegram rejects edits with identical text and
// rate limits aggressive editors.
func (b *Bot) editStatus(statusMsg *telebot.Message, text string) {
	logger := logging.GetLogger()
	updated, err := b.tb.Edit(statusMsg, text)
	if err != nil {
		logger.Debug("could not edit status message", zap.Error(err))
		return
	}
	*statusMsg = *updated
}

func (b *Bot) cleanupDir(dir string) {
	logger := logging.GetLogger()
	err := os.RemoveAll(dir)
	if err != nil {
		logger.Warn("could not clean up download dir", zap.Error(err), zap.String("dir", dir))
	}
}

func formatProgress(title string, status *manager.DownloadStatus) string {
	total := status.TotalLength()
	completed := status.CompletedLength()
	if total <= 0 {
		return fmt.Sprintf("⬇️ Downloading %s...\n%s done", title, utils.HumanBytes(completed))
	}
	percent := float64(completed) / float64(total) * 100
	return fmt.Sprintf("⬇️ Downloading %s...\n%.1f%% of %s at %s/s",
		title, percent, utils.HumanBytes(total), utils.HumanBytes(status.Speed()))
}

func describeDownloadError(err error) string {
	switch {
	case errors.Is(err, youtube.ErrPrivate):
		return "This video is private and cannot be downloaded."
	case errors.Is(err, youtube.ErrAgeRestricted):
		return "This video is age-restricted. Ask an admin to upload cookies."
	case errors.Is(err, youtube.ErrGeoBlocked):
		return "This video is not available in the server's region."
	case errors.Is(err, youtube.ErrRateLimited):
		return "YouTube is rate limiting downloads right now. Try again later."
	case errors.Is(err, youtube.ErrVideoUnavailable):
		return "This video is unavailable."
	case errors.Is(err, youtube.ErrCancelled):
		return "Download cancelled."
	case err == nil:
		return "Download failed."
	default:
		return "Download failed: " + err.Error()
	}
}
