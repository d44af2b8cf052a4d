package system

import (
	"fmt"

	"github.com/julianstephens/tracker/internal/backup"
	"github.com/julianstephens/tracker/internal/cli"
	"github.com/julianstephens/tracker/internal/storage/sqlite"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
	List    BackupListCmd    `cmd:"" help:"List available backups."`
	Restore BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
}

func backupManager(ctx *cli.Context) (*backup.Manager, error) {
	store, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return nil, fmt.Errorf("backups are only supported for sqlite storage (current: %s)", ctx.Store.GetConfigPath())
	}
	return backup.NewManager(store.GetConfigPath()), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	info, err := mgr.Create()
	if err != nil {
		return err
	}
	fmt.Printf("Created backup: %s\n", info.Path)
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		fmt.Printf("No backups found in %s\n", mgr.Dir())
		return nil
	}

	fmt.Printf("Backups in %s:\n", mgr.Dir())
	for _, b := range backups {
		fmt.Printf("  %s  %s  %.1f KB\n", b.Name(), b.Timestamp.Format("2006-01-02 15:04:05"), float64(b.Size)/1024)
	}
	return nil
}

type BackupRestoreCmd struct {
	Name string `arg:"" help:"Backup file name as shown by 'backup list'."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	info, err := mgr.Find(c.Name)
	if err != nil {
		return err
	}

	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	current, err := mgr.Restore(info.Path)
	if err != nil {
		return err
	}
	if current.Path != "" {
		fmt.Printf("Saved current database as: %s\n", current.Name())
	}
	fmt.Printf("Restored database from: %s\n", info.Name())
	return nil
}
