package backup

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/optimisable/internal/scenario"
)

func setupTestScenario(t *testing.T) (string, *Manager) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "week.yaml")
	if err := scenario.Save(path, "week", scenario.Default()); err != nil {
		t.Fatalf("failed to write scenario: %v", err)
	}
	return path, NewManager(path)
}

// fixedClock returns a clock that advances by step on every call
func fixedClock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		t := current
		current = current.Add(step)
		return t
	}
}

func TestCreateBackup(t *testing.T) {
	path, mgr := setupTestScenario(t)

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if filepath.Dir(backupPath) != filepath.Join(filepath.Dir(path), BackupDirName) {
		t.Errorf("backup written to %s, want the backups directory", backupPath)
	}
	if _, err := scenario.Load(backupPath); err != nil {
		t.Errorf("backup is not a readable scenario: %v", err)
	}
}

func TestCreateBackup_NoScenario(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := mgr.CreateBackup(); !errors.Is(err, ErrNoScenario) {
		t.Errorf("error = %v, want ErrNoScenario", err)
	}
	path, err := mgr.BackupIfExists()
	if err != nil || path != "" {
		t.Errorf("BackupIfExists() = %q, %v, want no-op", path, err)
	}
}

func TestCreateBackup_SameMinute(t *testing.T) {
	_, mgr := setupTestScenario(t)
	start := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	mgr.now = func() time.Time { return start }

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		p, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup %d failed: %v", i, err)
		}
		if seen[p] {
			t.Fatalf("backup %d reused name %s", i, p)
		}
		seen[p] = true
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 3 {
		t.Errorf("expected 3 backups, got %d", len(backups))
	}
}

func TestListBackups(t *testing.T) {
	_, mgr := setupTestScenario(t)
	mgr.now = fixedClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), time.Hour)

	for i := 0; i < 3; i++ {
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatalf("CreateBackup failed: %v", err)
		}
	}
	// Files belonging to other scenarios or with bad stamps are ignored.
	for _, name := range []string{"other-20260302-0900.yaml", "week-notatime.yaml", "week-20260302-0900.txt"} {
		if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), name), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups, got %d", len(backups))
	}
	for i := 1; i < len(backups); i++ {
		if backups[i-1].Timestamp.Before(backups[i].Timestamp) {
			t.Errorf("backups not sorted newest first: %v before %v", backups[i-1].Timestamp, backups[i].Timestamp)
		}
	}
	if want := time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC); !backups[0].Timestamp.Equal(want) {
		t.Errorf("newest timestamp = %v, want %v", backups[0].Timestamp, want)
	}
}

func TestListBackups_NoDirectory(t *testing.T) {
	_, mgr := setupTestScenario(t)
	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups, got %d", len(backups))
	}
}

func TestRotateBackups(t *testing.T) {
	_, mgr := setupTestScenario(t)
	mgr.now = fixedClock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), time.Hour)

	for i := 0; i < MaxBackups+4; i++ {
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatalf("CreateBackup %d failed: %v", i, err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != MaxBackups {
		t.Errorf("expected %d backups after rotation, got %d", MaxBackups, len(backups))
	}
	oldestKept := time.Date(2026, 3, 1, 4, 0, 0, 0, time.UTC)
	if got := backups[len(backups)-1].Timestamp; !got.Equal(oldestKept) {
		t.Errorf("oldest kept = %v, want %v", got, oldestKept)
	}
}

func TestRestoreBackup(t *testing.T) {
	path, mgr := setupTestScenario(t)
	mgr.now = fixedClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), time.Minute)

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	changed := scenario.Default()
	changed.Staff[0].DailyCost = decimal.NewFromInt(999)
	if err := scenario.Save(path, "changed", changed); err != nil {
		t.Fatal(err)
	}

	if err := mgr.RestoreBackup(backupPath); err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}

	ws, err := scenario.Load(path)
	if err != nil {
		t.Fatalf("restored scenario unreadable: %v", err)
	}
	if !ws.Staff[0].DailyCost.Equal(decimal.NewFromInt(100)) {
		t.Errorf("restored cost = %s, want 100", ws.Staff[0].DailyCost)
	}

	// The overwritten version was kept as a second snapshot.
	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 2 {
		t.Fatalf("expected 2 backups after restore, got %d", len(backups))
	}
	prev, err := scenario.Load(backups[0].Path)
	if err != nil {
		t.Fatal(err)
	}
	if !prev.Staff[0].DailyCost.Equal(decimal.NewFromInt(999)) {
		t.Errorf("pre-restore snapshot cost = %s, want 999", prev.Staff[0].DailyCost)
	}
}

func TestRestoreBackup_Invalid(t *testing.T) {
	_, mgr := setupTestScenario(t)

	if err := mgr.RestoreBackup(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for a missing backup")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("staff: [broken"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := mgr.RestoreBackup(bad); err == nil {
		t.Error("expected error for an unparseable backup")
	}
}
