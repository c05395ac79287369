package cookies

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/99rahul8605-ops/Yt-v2/logging"
)

const backupPrefix = "cookies_backup_"

// Backup copies the current cookies file into the backup directory with a
// timestamped name.
func (s *Store) Backup() (string, error) {
	logger := logging.GetLogger()
	if _, err := os.Stat(s.path); err != nil {
		return "", fmt.Errorf("no cookies file to backup")
	}

	name := backupPrefix + time.Now().Format("20060102_150405") + ".txt"
	backupPath := filepath.Join(s.backupDir, name)
	err := copyFile(s.path, backupPath)
	if err != nil {
		logger.Error("failed to backup cookies", zap.Error(err), zap.String("backup", backupPath))
		return "", err
	}
	logger.Info("backed up cookies", zap.String("backup", backupPath))
	return backupPath, nil
}

// ListBackups returns backup files, newest first.
func (s *Store) ListBackups() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.backupDir, backupPrefix+"*.txt"))
	if err != nil {
		return nil, err
	}
	sort.Slice(matches, func(i, j int) bool {
		left, errL := os.Stat(matches[i])
		right, errR := os.Stat(matches[j])
		if errL != nil || errR != nil {
			return matches[i] > matches[j]
		}
		return left.ModTime().After(right.ModTime())
	})
	return matches, nil
}

// Restore replaces the live cookies file with the given backup, saving the
// current file first.
func (s *Store) Restore(backupPath string) error {
	logger := logging.GetLogger()
	if _, err := os.Stat(backupPath); err != nil {
		return fmt.Errorf("backup does not exist: %w", err)
	}

	_, err := s.Backup()
	if err != nil {
		logger.Warn("could not backup current cookies before restore", zap.Error(err))
	}

	err = copyFile(backupPath, s.path)
	if err != nil {
		return err
	}
	s.Refresh()
	return nil
}

// Replace validates srcPath and installs it as the live cookies file. The
// previous file is backed up first.
func (s *Store) Replace(srcPath string) (string, error) {
	logger := logging.GetLogger()
	summary, err := Validate(srcPath)
	if err != nil {
		return "", err
	}

	_, err = s.Backup()
	if err != nil {
		logger.Warn("could not backup current cookies before replace", zap.Error(err))
	}

	err = copyFile(srcPath, s.path)
	if err != nil {
		return "", err
	}
	s.Refresh()
	return summary, nil
}

// Delete removes the live cookies file after backing it up.
func (s *Store) Delete() error {
	logger := logging.GetLogger()
	_, err := s.Backup()
	if err != nil {
		logger.Warn("could not backup cookies before delete", zap.Error(err))
	}

	err = os.Remove(s.path)
	if err != nil {
		return err
	}
	s.Refresh()
	return nil
}

func copyFile(src string, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
