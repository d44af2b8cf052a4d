package trackers

import (
	"fmt"
	"strings"

	"github.com/julianstephens/tracker/internal/cli"
	"github.com/julianstephens/tracker/internal/models"
)

type TrackerCmd struct {
	Add    TrackerAddCmd    `cmd:"" help:"Add a new habit or irregular event."`
	Edit   TrackerEditCmd   `cmd:"" help:"Edit an existing tracker."`
	Delete TrackerDeleteCmd `cmd:"" help:"Delete a tracker and its completion history."`
	Pin    PinCmd           `cmd:"" help:"Pin a tracker to the top of the board."`
	Unpin  UnpinCmd         `cmd:"" help:"Return a pinned tracker to its category."`
}

type TrackerAddCmd struct {
	Name        string `arg:"" optional:"" help:"Tracker name."`
	Category    string `short:"c" help:"Category title (created if missing)."`
	Type        string `short:"t" help:"Tracker type (habit|event)." default:"habit"`
	Schedule    string `short:"s" help:"Days for a habit: daily, weekdays, weekends, or a list like mon,wed,fri." default:"daily"`
	Color       string `help:"Color as #RRGGBB (default: next palette color)."`
	Emoji       string `short:"e" help:"Emoji shown next to the name."`
	Interactive bool   `short:"i" help:"Fill in the tracker with an interactive form."`
}

func (c *TrackerAddCmd) Validate() error {
	if c.Interactive {
		return nil
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("tracker name is required (or use --interactive)")
	}
	if strings.TrimSpace(c.Category) == "" {
		return fmt.Errorf("--category is required (or use --interactive)")
	}
	if _, err := models.ParseTrackerType(c.Type); err != nil {
		return err
	}
	if _, err := models.ParseSchedule(c.Schedule); err != nil {
		return err
	}
	if c.Color != "" {
		if _, err := models.ParseColor(c.Color); err != nil {
			return err
		}
	}
	return nil
}

func (c *TrackerAddCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	var (
		tracker  models.Tracker
		category string
		err      error
	)
	if c.Interactive {
		tracker, category, err = runAddForm(ctx, c.Name)
	} else {
		tracker, category, err = c.build(ctx)
	}
	if err != nil {
		return err
	}

	if err := ctx.Repo.CreateTracker(tracker, category); err != nil {
		return err
	}
	fmt.Printf("Added %s %q to %s (%s)\n", tracker.Type.Label(), tracker.Name, category, tracker.Schedule)
	return nil
}

func (c *TrackerAddCmd) build(ctx *cli.Context) (models.Tracker, string, error) {
	trackerType, err := models.ParseTrackerType(c.Type)
	if err != nil {
		return models.Tracker{}, "", err
	}

	// events start out every day and narrow on completion
	var schedule models.Schedule
	if !trackerType.IsEvent() {
		if schedule, err = models.ParseSchedule(c.Schedule); err != nil {
			return models.Tracker{}, "", err
		}
	}

	color, err := pickColor(ctx, c.Color)
	if err != nil {
		return models.Tracker{}, "", err
	}

	return models.NewTracker(c.Name, trackerType, schedule, color, c.Emoji), strings.TrimSpace(c.Category), nil
}

// pickColor parses hex, or cycles through the palette by tracker count when
// hex is empty.
func pickColor(ctx *cli.Context, hex string) (models.Color, error) {
	if hex != "" {
		return models.ParseColor(hex)
	}
	count := 0
	for _, category := range ctx.Repo.LoadAllCategories() {
		count += len(category.Trackers)
	}
	return models.Palette[count%len(models.Palette)], nil
}
