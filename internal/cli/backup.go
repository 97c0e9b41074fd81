package cli

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/optimisable/internal/backup"
	"github.com/julianstephens/optimisable/internal/scenario"
)

// backupScenario snapshots the scenario file before it is overwritten
func backupScenario(ctx *Context) error {
	path, err := backup.NewManager(ctx.ScenarioPath).BackupIfExists()
	if err != nil {
		return fmt.Errorf("failed to back up scenario: %w", err)
	}
	if path != "" {
		fmt.Fprintf(ctx.out(), "Backed up previous scenario to %s\n", path)
	}
	return nil
}

type BackupCreateCmd struct{}

func (cmd *BackupCreateCmd) Run(ctx *Context) error {
	path, err := backup.NewManager(ctx.ScenarioPath).CreateBackup()
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.out(), "✓ Backup created: %s\n", path)
	return nil
}

type BackupListCmd struct{}

func (cmd *BackupListCmd) Run(ctx *Context) error {
	mgr := backup.NewManager(ctx.ScenarioPath)
	backups, err := mgr.ListBackups()
	if err != nil {
		return err
	}

	w := ctx.out()
	if len(backups) == 0 {
		fmt.Fprintf(w, "No backups found in %s\n", mgr.GetBackupDir())
		return nil
	}
	fmt.Fprintf(w, "Backups in %s:\n", mgr.GetBackupDir())
	for _, b := range backups {
		fmt.Fprintf(w, "  %s  %s  %s\n", filepath.Base(b.Path), b.Timestamp.Format("2006-01-02 15:04:05"), humanize.Bytes(uint64(b.Size)))
	}
	return nil
}

type BackupRestoreCmd struct {
	Path string `arg:"" help:"Backup file to restore (as shown by 'backup list')."`
}

func (cmd *BackupRestoreCmd) Run(ctx *Context) error {
	mgr := backup.NewManager(ctx.ScenarioPath)
	path := cmd.Path
	if !filepath.IsAbs(path) && filepath.Dir(path) == "." {
		path = filepath.Join(mgr.GetBackupDir(), path)
	}
	if err := mgr.RestoreBackup(path); err != nil {
		return err
	}

	ws, err := scenario.Load(ctx.ScenarioPath)
	if err != nil {
		return err
	}
	ctx.Session.ReplaceWorkingSet(ws)
	ctx.FromFile = true
	fmt.Fprintf(ctx.out(), "✓ Restored %s from %s\n", ctx.ScenarioPath, filepath.Base(path))
	return nil
}

// BackupCmd groups the backup subcommands
type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Snapshot the scenario file." default:"1"`
	List    BackupListCmd    `cmd:"" help:"List scenario snapshots."`
	Restore BackupRestoreCmd `cmd:"" help:"Restore the scenario file from a snapshot."`
}
