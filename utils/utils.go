package utils

import (
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/99rahul8605-ops/Yt-v2/logging"
)

func GetFileContentTypePath(file_path string) string {
	file, err := os.Open(file_path)
	if err != nil {

		logging.GetLogger().Error("Error occurred when opening file for getting mimetype", zap.Error(err))
		return "application/octet-stream"
	}
	defer file.Close()
	return GetFileContentType(file)
}

func GetFileContentType(out *os.File) string {
	buffer := make([]byte, 512)
	out.Read(buffer)
	contentType := http.DetectContentType(buffer)

	return contentType
}

func HandleError(ctx *fiber.Ctx, err error) error {
	logger := logging.GetLogger()
	logger.Error("Error occurred", zap.Error(err))
	return ctx.Status(http.StatusInternalServerError).JSON(fiber.Map{"Detail": "internal server error"})
}

func GetFolderSize(filePath string) (int64, error) {
	var size int64
	err := filepath.Walk(filePath, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return err
	})
	return size, err
}

func GetPathSize(filePath string) (int64, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, err
	}
	defer file.Close()
	fileInfo, err := file.Stat()
	if err != nil {
		return 0, err
	}
	if fileInfo.IsDir() {
		return GetFolderSize(filePath)
	}
	return fileInfo.Size(), nil
}

var letterRunes = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

func RandString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letterRunes[rand.Intn(len(letterRunes))]
	}
	return string(b)
}

var unsafeFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// ToSafeFilename strips characters Telegram and common filesystems choke on
// and caps the base name at 100 runes.
func ToSafeFilename(name string) string {
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)
	runes := []rune(name)
	if len(runes) > 100 {
		name = strings.TrimSpace(string(runes[:100]))
	}
	if name == "" {
		name = "video"
	}
	return name
}

// HumanBytes renders a byte count the way users expect to read it.
func HumanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

// FindNewestFile returns the most recently modified regular file in dir.
func FindNewestFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	var newest string
	var newestTime time.Time
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(newestTime) {
			newestTime = info.ModTime()
			newest = filepath.Join(dir, entry.Name())
		}
	}
	if newest == "" {
		return "", fmt.Errorf("no files in %s", dir)
	}
	return newest, nil
}
