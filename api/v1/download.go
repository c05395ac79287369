package v1

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/99rahul8605-ops/Yt-v2/config"
	"github.com/99rahul8605-ops/Yt-v2/logging"
	"github.com/99rahul8605-ops/Yt-v2/manager"
	"github.com/99rahul8605-ops/Yt-v2/service/youtube"
	"github.com/99rahul8605-ops/Yt-v2/types"
	"github.com/99rahul8605-ops/Yt-v2/utils"
)

// DownloadHandler starts a download into the temp directory without a chat
// attached. Progress is visible through the status endpoint.
func DownloadHandler(ctx *fiber.Ctx, dlmanager *manager.DownloadManager, cookiesPath string) error {
	var downloadRequest types.DownloadRequest
	err := ctx.BodyParser(&downloadRequest)
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	if !youtube.IsYouTubeURL(downloadRequest.URL) {
		ctx.SendStatus(400)
		return ctx.JSON(fiber.Map{
			"error": "not a youtube url",
		})
	}

	cfg := config.Get()
	dir := filepath.Join(cfg.TempDir, fmt.Sprintf("user_%d", downloadRequest.UserID), utils.RandString(8))

	// No chat watches these downloads, so the queue entry and the scratch
	// dir are reclaimed as soon as the download finishes either way.
	cleanup := func(status *manager.DownloadStatus) {
		dlmanager.Remove(status.Gid())
		err := os.RemoveAll(dir)
		if err != nil {
			logging.GetLogger().Warn("could not clean up download dir",
				zap.Error(err), zap.String("dir", dir))
		}
	}

	gid, err := dlmanager.AddDownload(&manager.AddDownloadOpts{
		URL:                        downloadRequest.URL,
		UserID:                     downloadRequest.UserID,
		Dir:                        dir,
		CookiesPath:                cookiesPath,
		OnDownloadCompleteCallback: cleanup,
		OnDownloadErrorCallback:    cleanup,
	})
	if err != nil {
		return ctx.JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return ctx.JSON(fiber.Map{
		"gid": gid,
	})
}
