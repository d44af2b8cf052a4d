package trackers

import (
	"fmt"
	"strings"

	"github.com/julianstephens/tracker/internal/cli"
	"github.com/julianstephens/tracker/internal/models"
)

type TrackerEditCmd struct {
	Ref      string `arg:"" help:"Tracker name or id."`
	Name     string `help:"New name."`
	Category string `short:"c" help:"Move to this category. For a pinned tracker, the category it returns to."`
	Schedule string `short:"s" help:"New days, e.g. daily or mon,wed,fri."`
	Color    string `help:"New color as #RRGGBB."`
	Emoji    string `short:"e" help:"New emoji."`
}

func (c *TrackerEditCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	tracker, _, err := ctx.Repo.Find(c.Ref)
	if err != nil {
		return err
	}

	if strings.TrimSpace(c.Name) != "" {
		tracker.Name = strings.TrimSpace(c.Name)
	}
	if c.Schedule != "" {
		schedule, err := models.ParseSchedule(c.Schedule)
		if err != nil {
			return err
		}
		tracker.Schedule = schedule
	}
	if c.Color != "" {
		color, err := models.ParseColor(c.Color)
		if err != nil {
			return err
		}
		tracker.Color = color
	}
	if c.Emoji != "" {
		tracker.Emoji = c.Emoji
	}

	if err := ctx.Repo.UpdateTracker(tracker, c.Category); err != nil {
		return err
	}
	fmt.Printf("Updated tracker: %s\n", tracker.Name)
	return nil
}

type TrackerDeleteCmd struct {
	Ref string `arg:"" help:"Tracker name or id."`
}

func (c *TrackerDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	tracker, _, err := ctx.Repo.Find(c.Ref)
	if err != nil {
		return err
	}
	if err := ctx.Repo.DeleteTracker(tracker.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted tracker: %s\n", tracker.Name)
	return nil
}

type PinCmd struct {
	Ref string `arg:"" help:"Tracker name or id."`
}

func (c *PinCmd) Run(ctx *cli.Context) error {
	return setPinned(ctx, c.Ref, true)
}

type UnpinCmd struct {
	Ref string `arg:"" help:"Tracker name or id."`
}

func (c *UnpinCmd) Run(ctx *cli.Context) error {
	return setPinned(ctx, c.Ref, false)
}

func setPinned(ctx *cli.Context, ref string, pin bool) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	tracker, _, err := ctx.Repo.Find(ref)
	if err != nil {
		return err
	}
	if err := ctx.Repo.PinTracker(tracker.ID, pin); err != nil {
		return err
	}

	_, category, err := ctx.Repo.GetTracker(tracker.ID)
	if err != nil {
		return err
	}
	fmt.Printf("%s is now in %s\n", tracker.Name, category)
	return nil
}
