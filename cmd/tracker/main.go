package main

import (
	"github.com/alecthomas/kong"

	"github.com/julianstephens/tracker/internal/cli"
	"github.com/julianstephens/tracker/internal/cli/categories"
	"github.com/julianstephens/tracker/internal/cli/system"
	"github.com/julianstephens/tracker/internal/cli/trackers"
	"github.com/julianstephens/tracker/internal/config"
	"github.com/julianstephens/tracker/internal/constants"
	apperrors "github.com/julianstephens/tracker/internal/errors"
	"github.com/julianstephens/tracker/internal/logger"
)

var CLI struct {
	Version    kong.VersionFlag
	ConfigFile string `name:"config-file" help:"YAML config file." default:"${config_file}"`
	Store      string `name:"config" help:"Storage location: a sqlite file, a *.json file, or a PostgreSQL connection string. PostgreSQL credentials must NOT be embedded; use TRACKER_DB_CONNECTION or the OS keyring instead."`
	Debug      bool   `help:"Log debug output to stderr."`

	Init     system.InitCmd         `cmd:"" help:"Initialize tracker storage."`
	Migrate  system.MigrateCmd      `cmd:"" help:"Run database migrations."`
	Tui      system.TuiCmd          `cmd:"" help:"Launch the interactive board." default:"1"`
	Keyring  system.KeyringCmd      `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Backup   system.BackupCmd       `cmd:"" help:"Manage sqlite database backups."`
	Doctor   system.DoctorCmd       `cmd:"" help:"Run health checks and diagnostics."`
	Category categories.CategoryCmd `cmd:"" help:"Manage categories."`
	Tracker  trackers.TrackerCmd    `cmd:"" help:"Manage habits and irregular events."`
	Mark     trackers.MarkCmd       `cmd:"" help:"Mark a tracker done for a day."`
	Unmark   trackers.UnmarkCmd     `cmd:"" help:"Remove a tracker's completion for a day."`
	List     trackers.ListCmd       `cmd:"" help:"Show the board for a day."`
	Stats    trackers.StatsCmd      `cmd:"" help:"Show completion statistics."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit and irregular event tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_file": constants.DefaultConfigFile,
		},
	)

	if err := run(ctx); err != nil {
		apperrors.Fatal(err)
	}
}

func run(ctx *kong.Context) error {
	cfg, err := config.Load(CLI.ConfigFile)
	if err != nil {
		return err
	}
	if CLI.Store != "" {
		cfg.Store = config.ExpandPath(CLI.Store)
	}
	if CLI.Debug {
		cfg.Log.Debug = true
	}

	if err := logger.Init(logger.Config{Debug: cfg.Log.Debug, Dir: cfg.LogDir()}); err != nil {
		return err
	}
	logger.Debug("Starting", "version", constants.Version, "command", ctx.Command(), "store", cfg.Store)

	store, err := cli.OpenStore(cfg.Store, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close store", "error", err)
		}
	}()

	appCtx, err := cli.NewContext(store, cfg)
	if err != nil {
		return err
	}
	defer appCtx.Board.Close()

	return ctx.Run(appCtx)
}
