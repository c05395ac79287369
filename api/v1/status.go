package v1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/99rahul8605-ops/Yt-v2/manager"
)

func StatusHandler(ctx *fiber.Ctx, dlmanager *manager.DownloadManager) error {
	gid := ctx.Params("gid")
	if gid == "" {
		ctx.SendStatus(400)
		return ctx.JSON(fiber.Map{
			"error": "provide gid in param, bad request",
		})
	}

	status := dlmanager.GetDownloadStatusByGid(gid)
	if status == nil {
		ctx.SendStatus(404)
		return ctx.JSON(fiber.Map{
			"error": "gid not found in manager",
		})
	}
	err := status.GetFailureError()
	rtr := fiber.Map{
		"gid":              gid,
		"url":              status.URL(),
		"name":             status.Name(),
		"total_length":     status.TotalLength(),
		"completed_length": status.CompletedLength(),
		"is_completed":     status.IsCompleted(),
		"is_failed":        status.IsFailed(),
		"speed":            status.Speed(),
	}
	if err != nil {
		rtr["error"] = err.Error()
	}
	return ctx.JSON(rtr)
}
