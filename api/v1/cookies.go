package v1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/99rahul8605-ops/Yt-v2/service/cookies"
)

func CookiesHandler(ctx *fiber.Ctx, store *cookies.Store) error {
	meta := store.Metadata()
	return ctx.JSON(fiber.Map{
		"available":    store.Available(),
		"size":         meta.Size,
		"modified":     meta.Modified,
		"format":       meta.Format,
		"line_count":   meta.LineCount,
		"domain_count": meta.DomainCount,
	})
}
