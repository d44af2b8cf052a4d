package trackers

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/tracker/internal/board"
	"github.com/julianstephens/tracker/internal/cli"
	"github.com/julianstephens/tracker/internal/filter"
	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/utils"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).MarginTop(1)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

type ListCmd struct {
	Date    string `help:"Date in YYYY-MM-DD format, today or yesterday (default: today)." default:""`
	Weekday string `short:"w" help:"Show habits scheduled on this weekday instead of the date's."`
	Search  string `short:"s" help:"Only show trackers whose name contains this text."`
	Mode    string `short:"m" help:"Filter mode (all|today|completed|uncompleted). Saved as the new default."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	return c.render(ctx, os.Stdout)
}

func (c *ListCmd) query(ctx *cli.Context) (filter.Query, error) {
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return filter.Query{}, err
	}

	mode := ctx.Board.SavedMode()
	if c.Mode != "" {
		if mode, err = filter.ParseMode(c.Mode); err != nil {
			return filter.Query{}, err
		}
		if err := ctx.Board.SaveMode(mode); err != nil {
			return filter.Query{}, err
		}
	}
	// an explicit day makes "today" meaningless
	if mode == filter.ModeToday && (c.Date != "" || c.Weekday != "") {
		mode = filter.ModeAll
	}

	q := filter.Query{Date: date, SearchText: c.Search, Mode: mode}
	if c.Weekday != "" {
		day, err := parseWeekDay(c.Weekday)
		if err != nil {
			return filter.Query{}, err
		}
		q.Weekday = day
	}
	return q, nil
}

func (c *ListCmd) render(ctx *cli.Context, w io.Writer) error {
	q, err := c.query(ctx)
	if err != nil {
		return err
	}
	if err := ctx.Board.Refresh(q); err != nil {
		return err
	}

	date := q.ReferenceDate(ctx.Now())
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%s · %s · %s", utils.DayKey(date), q.ReferenceWeekDay(ctx.Now()), q.Mode)))

	if ctx.Board.NumberOfSections() == 0 {
		fmt.Fprintln(w, mutedStyle.Render("Nothing to track."))
		return nil
	}

	for section := 0; section < ctx.Board.NumberOfSections(); section++ {
		fmt.Fprintln(w, sectionStyle.Render(ctx.Board.SectionTitle(section)))
		for row := 0; row < ctx.Board.NumberOfRows(section); row++ {
			tracker, _ := ctx.Board.Object(section, row)
			view, err := ctx.Board.TrackerView(tracker.ID, date)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, renderRow(view))
		}
	}
	return nil
}

func renderRow(view board.View) string {
	check := "[ ]"
	if view.Completed {
		check = doneStyle.Render("[x]")
	}
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(view.Tracker.Color.Hex())).Render("●")
	details := fmt.Sprintf("%s · %s · %s", view.Tracker.Type.Label(), view.Tracker.Schedule, pluralDays(view.DaysCompleted))
	return fmt.Sprintf("  %s %s %s  %s", check, swatch, view.Tracker.Label(), mutedStyle.Render(details))
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

func parseWeekDay(s string) (int, error) {
	day, err := models.ParseWeekDay(s)
	if err != nil {
		return 0, err
	}
	return day.Calendar(), nil
}

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	return renderStats(ctx, os.Stdout)
}

func renderStats(ctx *cli.Context, w io.Writer) error {
	stats, err := ctx.Board.Stats()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, headerStyle.Render("Statistics"))
	fmt.Fprintf(w, "Trackers completed: %d\n", stats.CompletedTrackers)
	if len(stats.Trackers) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	for _, s := range stats.Trackers {
		fmt.Fprintf(w, "  %-24s %s\n", s.Tracker.Label(), mutedStyle.Render(fmt.Sprintf("%s · %s", s.Category, pluralDays(s.Days))))
	}
	return nil
}
