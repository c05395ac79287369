package v1

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/99rahul8605-ops/Yt-v2/manager"
	"github.com/99rahul8605-ops/Yt-v2/service/cookies"
)

// HealthHandler backs the container health check. The orchestrator probes
// it every 30 seconds with a 10 second timeout, so it must never block on
// download state.
func HealthHandler(ctx *fiber.Ctx, dlmanager *manager.DownloadManager, store *cookies.Store, startedAt time.Time) error {
	return ctx.JSON(fiber.Map{
		"status":           "ok",
		"uptime_seconds":   int64(time.Since(startedAt).Seconds()),
		"active_downloads": dlmanager.ActiveCount(),
		"cookies":          store.Available(),
	})
}
