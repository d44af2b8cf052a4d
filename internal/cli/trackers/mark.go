package trackers

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/tracker/internal/cli"
	"github.com/julianstephens/tracker/internal/utils"
)

type MarkCmd struct {
	Ref  string `arg:"" help:"Tracker name or id."`
	Date string `help:"Date in YYYY-MM-DD format, today or yesterday (default: today)." default:""`
}

func (c *MarkCmd) Run(ctx *cli.Context) error {
	return c.mark(ctx, os.Stdout)
}

func (c *MarkCmd) mark(ctx *cli.Context, w io.Writer) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}
	tracker, _, err := ctx.Repo.Find(c.Ref)
	if err != nil {
		return err
	}

	result, err := ctx.Board.MarkDone(tracker.ID, date)
	if err != nil {
		return err
	}
	day := utils.DayKey(date)
	if result.Created {
		fmt.Fprintf(w, "Marked %q done for %s\n", tracker.Name, day)
	} else {
		fmt.Fprintf(w, "%s was already done on %s\n", tracker.Name, day)
	}
	if result.Narrow != nil {
		fmt.Fprintf(w, "Event now scheduled on %s\n", *result.Narrow)
	}
	return nil
}

type UnmarkCmd struct {
	Ref  string `arg:"" help:"Tracker name or id."`
	Date string `help:"Date in YYYY-MM-DD format, today or yesterday (default: today)." default:""`
}

func (c *UnmarkCmd) Run(ctx *cli.Context) error {
	return c.unmark(ctx, os.Stdout)
}

func (c *UnmarkCmd) unmark(ctx *cli.Context, w io.Writer) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}
	tracker, _, err := ctx.Repo.Find(c.Ref)
	if err != nil {
		return err
	}

	result, err := ctx.Board.MarkUndone(tracker.ID, date)
	if err != nil {
		return err
	}
	day := utils.DayKey(date)
	if result.Removed == 0 {
		fmt.Fprintf(w, "%s was not done on %s\n", tracker.Name, day)
		return nil
	}
	fmt.Fprintf(w, "Unmarked %q for %s\n", tracker.Name, day)
	if result.Narrow != nil {
		fmt.Fprintf(w, "Event now scheduled on %s\n", *result.Narrow)
	}
	return nil
}
