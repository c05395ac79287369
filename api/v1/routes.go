package v1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/99rahul8605-ops/Yt-v2/manager"
	"github.com/99rahul8605-ops/Yt-v2/service/cookies"
)

func AddRoutes(router fiber.Router, dlmanager *manager.DownloadManager, store *cookies.Store) {
	router.Post(
		"/download",
		func(ctx *fiber.Ctx) error {
			cookiesPath := ""
			if store.Available() {
				cookiesPath = store.Path()
			}
			return DownloadHandler(ctx, dlmanager, cookiesPath)
		},
	)
	router.Get(
		"/downloads",
		func(ctx *fiber.Ctx) error {
			return ListDownloadsHandler(ctx, dlmanager)
		},
	)
	router.Get(
		"/status/:gid",
		func(ctx *fiber.Ctx) error {
			return StatusHandler(ctx, dlmanager)
		},
	)
	router.Post(
		"/cancel",
		func(ctx *fiber.Ctx) error {
			return CancelHandler(ctx, dlmanager)
		},
	)
	router.Get(
		"/cookies",
		func(ctx *fiber.Ctx) error {
			return CookiesHandler(ctx, store)
		},
	)
}
