package cookies

import (
	"bufio"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/99rahul8605-ops/Yt-v2/logging"
	"github.com/99rahul8605-ops/Yt-v2/types"
)

const netscapeHeader = "# Netscape HTTP Cookie File"

// Anything smaller than this has no real cookies in it.
const minUsableSize = 100

func NewStore(path string, backupDir string) *Store {
	store := &Store{
		path:      path,
		backupDir: backupDir,
	}
	store.Refresh()
	return store
}

// Store tracks the cookies.txt file yt-dlp authenticates with. All mutation
// goes through backups first, so an admin can always roll back.
type Store struct {
	path      string
	backupDir string
	mut       sync.RWMutex
	available bool
	meta      types.CookiesMetadata
}

func (s *Store) Path() string {
	return s.path
}

// Refresh re-reads the cookies file and rebuilds its metadata.
func (s *Store) Refresh() {
	logger := logging.GetLogger()
	s.mut.Lock()
	defer s.mut.Unlock()

	stat, err := os.Stat(s.path)
	if err != nil {
		logger.Warn("no cookies file found", zap.String("path", s.path))
		s.available = false
		s.meta = types.CookiesMetadata{}
		return
	}

	format := "Unknown"
	lineCount := 0
	domains := make(map[string]struct{})
	file, err := os.Open(s.path)
	if err != nil {
		logger.Error("could not read cookies file", zap.Error(err), zap.String("path", s.path))
		s.available = false
		s.meta = types.CookiesMetadata{}
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if lineCount == 0 && strings.HasPrefix(line, netscapeHeader) {
			format = "Netscape"
		}
		lineCount++
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		fields := strings.Split(trimmed, "\t")
		if len(fields) >= 5 {
			domains[fields[0]] = struct{}{}
		}
	}

	s.available = stat.Size() > minUsableSize
	s.meta = types.CookiesMetadata{
		Path:        s.path,
		Size:        stat.Size(),
		Modified:    stat.ModTime().Format("2006-01-02 15:04:05"),
		Format:      format,
		LineCount:   lineCount,
		DomainCount: len(domains),
	}

	if s.available {
		logger.Info("cookies file loaded",
			zap.String("path", s.path),
			zap.Int64("size", stat.Size()),
			zap.String("modified", s.meta.Modified),
		)
	} else {
		logger.Warn("cookies file is too small or empty", zap.String("path", s.path))
	}
}

func (s *Store) Available() bool {
	s.mut.RLock()
	defer s.mut.RUnlock()
	return s.available
}

func (s *Store) Metadata() types.CookiesMetadata {
	s.mut.RLock()
	defer s.mut.RUnlock()
	return s.meta
}

// SampleLines returns up to n leading lines of the cookies file, for the
// admin info view.
func (s *Store) SampleLines(n int) []string {
	file, err := os.Open(s.path)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() && len(lines) < n {
		lines = append(lines, scanner.Text())
	}
	return lines
}

// YouTubeCookieNames lists the cookie names set for youtube.com domains.
func (s *Store) YouTubeCookieNames() []string {
	file, err := os.Open(s.path)
	if err != nil {
		return nil
	}
	defer file.Close()

	seen := make(map[string]struct{})
	var names []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.Contains(line, "youtube.com") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) >= 6 {
			if _, ok := seen[fields[5]]; !ok {
				seen[fields[5]] = struct{}{}
				names = append(names, fields[5])
			}
		}
	}
	return names
}
