package v1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/99rahul8605-ops/Yt-v2/manager"
)

func ListDownloadsHandler(ctx *fiber.Ctx, dlmanager *manager.DownloadManager) error {
	gids := dlmanager.ActiveGids()
	if gids == nil {
		gids = []string{}
	}
	return ctx.JSON(fiber.Map{
		"active": gids,
		"count":  len(gids),
	})
}
