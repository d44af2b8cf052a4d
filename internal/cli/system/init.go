package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/tracker/internal/cli"
	"github.com/julianstephens/tracker/internal/filter"
	"github.com/julianstephens/tracker/internal/storage/postgres"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting existing database before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	path := ctx.Store.GetConfigPath()
	_, isPostgres := ctx.Store.(*postgres.Store)

	fresh := false
	if !isPostgres {
		_, err := os.Stat(path)
		switch {
		case err == nil && c.Force:
			// close first to prevent file locking issues
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", path)
			fresh = true
		case os.IsNotExist(err):
			fresh = true
		case err != nil:
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}

	if fresh {
		mode, err := filter.ParseMode(ctx.Config.DefaultMode)
		if err != nil {
			return err
		}
		if err := ctx.Board.SaveMode(mode); err != nil {
			return err
		}
	}

	fmt.Printf("Initialized tracker storage at: %s\n", path)
	return nil
}
