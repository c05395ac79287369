package cookies

import (
	"fmt"
	"os"
	"strings"
)

const maxFileSize = 1024 * 1024

// Validate checks whether the file at path is a usable Netscape cookies.txt
// with YouTube cookies in it. Returns a human readable summary on success.
func Validate(path string) (string, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("file does not exist")
	}
	if stat.Size() < minUsableSize {
		return "", fmt.Errorf("file too small (%d bytes), minimum %d bytes required", stat.Size(), minUsableSize)
	}
	if stat.Size() > maxFileSize {
		return "", fmt.Errorf("file too large (%d bytes), maximum 1MB allowed", stat.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("could not read file: %w", err)
	}
	content := string(data)
	lines := strings.Split(content, "\n")

	isNetscape := strings.HasPrefix(lines[0], netscapeHeader)

	cookieLines := 0
	checked := 0
	for _, line := range lines[1:] {
		if checked >= 10 {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		checked++
		if strings.HasPrefix(line, "#") {
			continue
		}
		if len(strings.Split(line, "\t")) >= 7 {
			cookieLines++
		}
	}

	if cookieLines == 0 && !isNetscape {
		return "", fmt.Errorf("file does not look like a valid cookies.txt")
	}
	if !strings.Contains(content, "youtube.com") {
		return "", fmt.Errorf("no YouTube cookies found in file")
	}

	format := "Unknown"
	if isNetscape {
		format = "Netscape"
	}
	return fmt.Sprintf("Valid cookies file. Size: %d bytes, Format: %s, Cookie lines: %d",
		stat.Size(), format, cookieLines), nil
}
