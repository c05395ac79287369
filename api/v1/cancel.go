package v1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/99rahul8605-ops/Yt-v2/manager"
	"github.com/99rahul8605-ops/Yt-v2/types"
	"github.com/99rahul8605-ops/Yt-v2/utils"
)

func CancelHandler(ctx *fiber.Ctx, dlmanager *manager.DownloadManager) error {
	var cancelRequest types.CancelRequest
	err := ctx.BodyParser(&cancelRequest)
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	status := dlmanager.GetDownloadStatusByGid(cancelRequest.Gid)
	if status == nil {
		ctx.SendStatus(404)
		return ctx.JSON(fiber.Map{
			"error": "gid not found in manager",
		})
	}
	status.Cancel()
	return ctx.JSON(fiber.Map{
		"gid": cancelRequest.Gid,
	})
}
