package trackers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tracker/internal/cli"
	"github.com/julianstephens/tracker/internal/constants"
	"github.com/julianstephens/tracker/internal/models"
)

type trackerFormModel struct {
	Name     string
	Category string
	Type     models.TrackerType
	Days     []models.WeekDay
	Color    string
	Emoji    string
}

func (fm *trackerFormModel) tracker() (models.Tracker, error) {
	color, err := models.ParseColor(fm.Color)
	if err != nil {
		return models.Tracker{}, err
	}
	var schedule models.Schedule
	if !fm.Type.IsEvent() {
		schedule = models.NewSchedule(fm.Days...)
	}
	return models.NewTracker(fm.Name, fm.Type, schedule, color, strings.TrimSpace(fm.Emoji)), nil
}

func newTrackerForm(fm *trackerFormModel, categories []string) *huh.Form {
	dayOptions := make([]huh.Option[models.WeekDay], 0, 7)
	for _, d := range models.AllWeekDays() {
		dayOptions = append(dayOptions, huh.NewOption(d.String(), d))
	}
	colorOptions := make([]huh.Option[string], 0, len(models.Palette))
	for _, c := range models.Palette {
		colorOptions = append(colorOptions, huh.NewOption(c.Hex(), c.Hex()))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("tracker name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Category").
				Suggestions(categories).
				Value(&fm.Category).
				Validate(func(s string) error {
					switch strings.TrimSpace(s) {
					case "":
						return fmt.Errorf("category cannot be empty")
					case constants.PinnedCategoryTitle:
						return fmt.Errorf("category %q is reserved", constants.PinnedCategoryTitle)
					}
					return nil
				}),
			huh.NewSelect[models.TrackerType]().
				Title("Type").
				Options(
					huh.NewOption("Habit", models.TrackerTypeHabit),
					huh.NewOption("Irregular event", models.TrackerTypeIrregularEvent),
				).
				Value(&fm.Type),
		),
		huh.NewGroup(
			huh.NewMultiSelect[models.WeekDay]().
				Title("Schedule").
				Options(dayOptions...).
				Value(&fm.Days).
				Validate(func(days []models.WeekDay) error {
					if len(days) == 0 {
						return fmt.Errorf("pick at least one day")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return fm.Type.IsEvent() }),
		huh.NewGroup(
			huh.NewInput().
				Title("Emoji").
				Value(&fm.Emoji),
			huh.NewSelect[string]().
				Title("Color").
				Options(colorOptions...).
				Value(&fm.Color),
		),
	).WithTheme(huh.ThemeDracula())
}

func runAddForm(ctx *cli.Context, name string) (models.Tracker, string, error) {
	categories, err := ctx.Repo.CategoryTitles()
	if err != nil {
		return models.Tracker{}, "", err
	}
	color, err := pickColor(ctx, "")
	if err != nil {
		return models.Tracker{}, "", err
	}

	fm := &trackerFormModel{
		Name:  name,
		Type:  models.TrackerTypeHabit,
		Color: color.Hex(),
	}
	if err := newTrackerForm(fm, categories).Run(); err != nil {
		return models.Tracker{}, "", err
	}

	tracker, err := fm.tracker()
	if err != nil {
		return models.Tracker{}, "", err
	}
	return tracker, strings.TrimSpace(fm.Category), nil
}
