package logging

import (
	"log"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Logger *zap.Logger

var level = zap.NewAtomicLevelAt(zap.InfoLevel)

const EnvLocal = "local"
const logFile string = "log.txt"

func getLoggerObject() *zap.Logger {
	err := os.Remove(logFile)
	if err != nil && !os.IsNotExist(err) {
		log.Println("Cannot remove logfile", zap.Error(err),
			zap.String("logFile", logFile),
		)
	}

	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder

	handleSync, _, err := zap.Open(logFile)
	if err != nil {
		log.Println("Cannot open log file for zap :", zap.Error(err),
			zap.String("logFile", logFile),
		)
		handleSync = zapcore.AddSync(os.Stderr)
	}

	logger := zap.New(
		zapcore.NewTee(zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), os.Stdout, level),
			zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), handleSync, level),
		),
		zap.AddCaller(),
	)

	defer func(logger *zap.Logger) {
		err = logger.Sync()
		if err != nil {
			logger.Info("Error while syncing logger", zap.Error(err))
		}
	}(logger) // flushes buffer, if any

	return logger
}

// SetLevel changes the level of both cores at runtime.
func SetLevel(lvl string) {
	parsed, err := zapcore.ParseLevel(lvl)
	if err != nil {
		return
	}
	level.SetLevel(parsed)
}

func GetLogger() *zap.Logger {
	if Logger == nil {
		Logger = getLoggerObject()
	}

	return Logger
}
