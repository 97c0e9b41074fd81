// Package backup keeps timestamped snapshots of the scenario file so that saving over it can be undone.
package backup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/optimisable/internal/logger"
	"github.com/julianstephens/optimisable/internal/scenario"
)

const (
	// MaxBackups is the maximum number of snapshots to keep
	MaxBackups = 14
	// BackupDirName is the name of the backup directory, next to the scenario file
	BackupDirName = "backups"
	// BackupFileSuffix is the suffix for snapshot files
	BackupFileSuffix = ".yaml"

	minuteLayout = "20060102-1504"
	secondLayout = "20060102-150405"
)

// ErrNoScenario is returned when there is no scenario file to snapshot
var ErrNoScenario = errors.New("scenario file does not exist")

// BackupInfo contains information about a snapshot file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager handles snapshots of one scenario file
type Manager struct {
	scenarioPath string
	backupDir    string
	prefix       string
	now          func() time.Time
}

// NewManager creates a manager for the scenario at scenarioPath
func NewManager(scenarioPath string) *Manager {
	base := strings.TrimSuffix(filepath.Base(scenarioPath), filepath.Ext(scenarioPath))
	return &Manager{
		scenarioPath: scenarioPath,
		backupDir:    filepath.Join(filepath.Dir(scenarioPath), BackupDirName),
		prefix:       base + "-",
		now:          time.Now,
	}
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

// CreateBackup snapshots the scenario file and prunes snapshots beyond MaxBackups
func (m *Manager) CreateBackup() (string, error) {
	path, err := m.createBackup()
	if err != nil {
		return "", err
	}
	if err := m.rotateBackups(); err != nil {
		logger.Warn("failed to rotate old backups", "error", err)
	}
	return path, nil
}

// BackupIfExists snapshots the scenario file when there is one, and is a no-op otherwise.
// Callers use it right before overwriting the file.
func (m *Manager) BackupIfExists() (string, error) {
	path, err := m.CreateBackup()
	if errors.Is(err, ErrNoScenario) {
		return "", nil
	}
	return path, err
}

func (m *Manager) createBackup() (string, error) {
	if _, err := os.Stat(m.scenarioPath); errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNoScenario, m.scenarioPath)
	}
	if err := os.MkdirAll(m.backupDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path, err := m.uniqueName()
	if err != nil {
		return "", err
	}
	if err := copyFile(m.scenarioPath, path); err != nil {
		return "", fmt.Errorf("failed to back up scenario: %w", err)
	}
	logger.Debug("scenario backed up", "path", path)
	return path, nil
}

// uniqueName picks a free snapshot name, adding seconds and then a counter on collision
func (m *Manager) uniqueName() (string, error) {
	now := m.now()
	path := m.pathFor(now.Format(minuteLayout))
	if !exists(path) {
		return path, nil
	}
	stamp := now.Format(secondLayout)
	path = m.pathFor(stamp)
	for counter := 1; exists(path); counter++ {
		if counter > 100 {
			return "", errors.New("failed to generate unique backup filename")
		}
		path = m.pathFor(fmt.Sprintf("%s-%d", stamp, counter))
	}
	return path, nil
}

func (m *Manager) pathFor(stamp string) string {
	return filepath.Join(m.backupDir, m.prefix+stamp+BackupFileSuffix)
}

// ListBackups returns the snapshots of this scenario, newest first
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if errors.Is(err, os.ErrNotExist) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, m.prefix) || !strings.HasSuffix(name, BackupFileSuffix) {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, m.prefix), BackupFileSuffix)
		ts, ok := parseStamp(stamp)
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Path:      filepath.Join(m.backupDir, name),
			Timestamp: ts,
			Size:      info.Size(),
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Path > backups[j].Path
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// parseStamp reads YYYYMMDD-HHMM or YYYYMMDD-HHMMSS, optionally followed by -N
func parseStamp(stamp string) (time.Time, bool) {
	parts := strings.Split(stamp, "-")
	if len(parts) == 3 {
		stamp = parts[0] + "-" + parts[1]
	} else if len(parts) != 2 {
		return time.Time{}, false
	}
	for _, layout := range []string{minuteLayout, secondLayout} {
		if ts, err := time.Parse(layout, stamp); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for i := MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// RestoreBackup replaces the scenario file with a snapshot. The snapshot must parse, and the
// current file is snapshotted first.
func (m *Manager) RestoreBackup(backupPath string) error {
	if _, err := os.Stat(backupPath); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("backup file does not exist: %s", backupPath)
	}
	if _, err := scenario.Load(backupPath); err != nil {
		return fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	if exists(m.scenarioPath) {
		if _, err := m.createBackup(); err != nil {
			return fmt.Errorf("failed to back up current scenario before restore: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(m.scenarioPath), 0o755); err != nil {
		return fmt.Errorf("failed to create scenario directory: %w", err)
	}
	tempPath := m.scenarioPath + ".restore.tmp"
	if err := copyFile(backupPath, tempPath); err != nil {
		return fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tempPath, m.scenarioPath); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			logger.Warn("failed to remove temporary file", "path", tempPath, "error", removeErr)
		}
		return fmt.Errorf("failed to restore scenario: %w", err)
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := destFile.ReadFrom(sourceFile); err != nil {
		return err
	}
	return destFile.Sync()
}
