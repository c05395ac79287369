package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	v1 "github.com/99rahul8605-ops/Yt-v2/api/v1"
	"github.com/99rahul8605-ops/Yt-v2/bot"
	"github.com/99rahul8605-ops/Yt-v2/config"
	"github.com/99rahul8605-ops/Yt-v2/logging"
	"github.com/99rahul8605-ops/Yt-v2/manager"
	"github.com/99rahul8605-ops/Yt-v2/service/cookies"
	"github.com/99rahul8605-ops/Yt-v2/service/youtube"
)

func main() {
	cfg := config.Get()
	logger := logging.GetLogger()
	startedAt := time.Now()

	err := cfg.Validate()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}
	err = cfg.EnsureDirs()
	if err != nil {
		logger.Fatal("could not create working directories", zap.Error(err))
	}

	err = youtube.CheckBinaries()
	if err != nil {
		logger.Fatal("missing external dependency", zap.Error(err))
	}

	store := cookies.NewStore(cfg.CookiesPath, cfg.CookiesBackupDir)
	dlmanager := manager.NewDownloadManager(cfg.MaxConcurrentDownloads)

	tgbot, err := bot.New(cfg, dlmanager, store)
	if err != nil {
		logger.Fatal("could not create telegram bot", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Get("/health", func(ctx *fiber.Ctx) error {
		return v1.HealthHandler(ctx, dlmanager, store, startedAt)
	})
	v1.AddRoutes(app.Group("/api/v1"), dlmanager, store)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("health server listening", zap.String("addr", addr))
		err := app.Listen(addr)
		if err != nil {
			logger.Fatal("health server failed", zap.Error(err))
		}
	}()

	go tgbot.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("shutting down", zap.String("signal", sig.String()))

	tgbot.Stop()
	err = app.Shutdown()
	if err != nil {
		logger.Error("error shutting down health server", zap.Error(err))
	}
	_ = logger.Sync()
}
