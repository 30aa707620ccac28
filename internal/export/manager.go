package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/logger"
)

// ExportInfo describes an export file on disk
type ExportInfo struct {
	Path string
	Date time.Time
	Size int64
}

// Manager writes export files into a directory and rotates old ones
type Manager struct {
	dir        string
	maxExports int
}

// NewManager creates a manager for dir keeping at most maxExports files.
// A maxExports of zero or less disables rotation.
func NewManager(dir string, maxExports int) *Manager {
	return &Manager{
		dir:        dir,
		maxExports: maxExports,
	}
}

// DefaultDir returns the export directory next to the configuration directory
func DefaultDir(configDir string) string {
	return filepath.Join(configDir, constants.ExportDirName)
}

// GetExportDir returns the export directory path
func (m *Manager) GetExportDir() string {
	return m.dir
}

// FileName returns the name of the export file written on now's day
func FileName(now time.Time) string {
	return constants.ExportFilePrefix + now.Format(constants.DateFormat) + constants.ExportFileSuffix
}

// Write stores data as the export of now's day, replacing an earlier export
// from the same day, then rotates old exports.
func (m *Manager) Write(data []byte, now time.Time) (string, error) {
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(m.dir, FileName(now))
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			logger.Warn("failed to remove temporary export file", "path", tempPath, "error", removeErr)
		}
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	logger.Info("export written", "path", path, "bytes", len(data))

	if err := m.rotate(); err != nil {
		logger.Warn("failed to rotate old exports", "error", err)
	}
	return path, nil
}

// List returns the export files in the directory, newest first
func (m *Manager) List() ([]ExportInfo, error) {
	if _, err := os.Stat(m.dir); os.IsNotExist(err) {
		return []ExportInfo{}, nil
	}

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read export directory: %w", err)
	}

	exports := []ExportInfo{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, constants.ExportFilePrefix) || !strings.HasSuffix(name, constants.ExportFileSuffix) {
			continue
		}
		dateStr := strings.TrimSuffix(strings.TrimPrefix(name, constants.ExportFilePrefix), constants.ExportFileSuffix)
		date, err := time.Parse(constants.DateFormat, dateStr)
		if err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		exports = append(exports, ExportInfo{
			Path: filepath.Join(m.dir, name),
			Date: date,
			Size: info.Size(),
		})
	}

	sort.Slice(exports, func(i, j int) bool {
		return exports[i].Date.After(exports[j].Date)
	})
	return exports, nil
}

func (m *Manager) rotate() error {
	if m.maxExports <= 0 {
		return nil
	}
	exports, err := m.List()
	if err != nil {
		return err
	}
	for i := m.maxExports; i < len(exports); i++ {
		if err := os.Remove(exports[i].Path); err != nil {
			return fmt.Errorf("failed to remove old export %s: %w", exports[i].Path, err)
		}
		logger.Debug("removed old export", "path", exports[i].Path)
	}
	return nil
}
