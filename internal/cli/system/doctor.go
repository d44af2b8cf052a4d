package system

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/tracker/internal/backup"
	"github.com/julianstephens/tracker/internal/cli"
	"github.com/julianstephens/tracker/internal/constants"
	"github.com/julianstephens/tracker/internal/filter"
	"github.com/julianstephens/tracker/internal/storage/sqlite"
	"github.com/julianstephens/tracker/internal/utils"
)

type DoctorCmd struct{}

// check is one diagnostic. The gate check decides whether needsDB checks
// run; warn checks are reported but never fail the run.
type check struct {
	name    string
	run     func(*cli.Context) error
	needsDB bool
	gate    bool
	warn    bool
}

var checks = []check{
	{name: "Storage reachable", run: checkStorage, gate: true},
	{name: "Catalog integrity", run: checkCatalog, needsDB: true},
	{name: "Saved filter mode", run: checkSavedMode, needsDB: true},
	{name: "Backups present", run: checkBackups, warn: true},
	{name: "Clock/timezone", run: checkClock},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	failed := runChecks(ctx, os.Stdout)
	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	return nil
}

func runChecks(ctx *cli.Context, w io.Writer) int {
	fmt.Fprintln(w, "Running diagnostics...")
	fmt.Fprintln(w)

	failed := 0
	reachable := false
	for _, c := range checks {
		if c.needsDB && !reachable {
			fmt.Fprintf(w, "⊘ %s: SKIPPED (storage not reachable)\n", c.name)
			continue
		}

		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Fprintf(w, "✓ %s: OK\n", c.name)
		case c.warn:
			fmt.Fprintf(w, "⚠ %s: WARNING\n   %v\n", c.name, err)
		default:
			fmt.Fprintf(w, "❌ %s: FAIL\n   Error: %v\n", c.name, err)
			failed++
		}

		if c.gate {
			reachable = err == nil
		}
	}
	return failed
}

func checkStorage(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	_, err := ctx.Repo.Categories()
	return err
}

// checkCatalog verifies every tracker is valid and that only pinned trackers
// remember an original category.
func checkCatalog(ctx *cli.Context) error {
	categories, err := ctx.Repo.Categories()
	if err != nil {
		return err
	}

	var problems []string
	for _, category := range categories {
		pinned := category.Title == constants.PinnedCategoryTitle
		for _, tracker := range category.Trackers {
			if err := tracker.Validate(); err != nil {
				problems = append(problems, fmt.Sprintf("%s: %v", tracker.Name, err))
			}
			switch {
			case pinned && tracker.OriginalCategory == "":
				problems = append(problems, fmt.Sprintf("%s is pinned without an original category", tracker.Name))
			case !pinned && tracker.OriginalCategory != "":
				problems = append(problems, fmt.Sprintf("%s remembers %q but is not pinned", tracker.Name, tracker.OriginalCategory))
			}
		}
	}

	if len(problems) > 0 {
		msg := fmt.Sprintf("%d problem(s) found", len(problems))
		for _, p := range problems {
			msg += "\n   - " + p
		}
		return fmt.Errorf("%s", msg)
	}
	return nil
}

func checkSavedMode(ctx *cli.Context) error {
	value, err := ctx.Store.GetSetting(constants.SettingChosenFilter)
	if err != nil {
		return err
	}
	if value == "" {
		return fmt.Errorf("no filter mode saved, run '%s init'", constants.AppName)
	}
	_, err = filter.ParseMode(value)
	return err
}

func checkBackups(ctx *cli.Context) error {
	store, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return nil
	}
	backups, err := backup.NewManager(store.GetConfigPath()).List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found, run '%s backup create'", constants.AppName)
	}
	if age := time.Since(backups[0].Timestamp); age > 7*24*time.Hour {
		return fmt.Errorf("newest backup is %d days old", int(age.Hours()/24))
	}
	return nil
}

func checkClock(ctx *cli.Context) error {
	if _, err := utils.LoadLocation(ctx.Config.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", ctx.Config.Timezone, err)
	}
	if now := ctx.Now(); now.Year() < 2000 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	return nil
}
