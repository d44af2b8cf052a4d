package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/tracker/internal/board"
	"github.com/julianstephens/tracker/internal/catalog"
	"github.com/julianstephens/tracker/internal/completion"
	"github.com/julianstephens/tracker/internal/config"
	"github.com/julianstephens/tracker/internal/storage"
	"github.com/julianstephens/tracker/internal/utils"
)

type Context struct {
	Store       storage.Provider
	Config      *config.Config
	Repo        *catalog.Repository
	Completions *completion.Tracker
	Board       *board.Board
	Location    *time.Location
}

// NewContext wires the catalog, completion tracker and board over store.
// The store does not need to be loaded yet.
func NewContext(store storage.Provider, cfg *config.Config) (*Context, error) {
	loc, err := utils.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	repo := catalog.New(store)
	completions := completion.New(store)
	b := board.New(repo, completions, store)
	b.SetClock(func() time.Time { return time.Now().In(loc) })

	return &Context{
		Store:       store,
		Config:      cfg,
		Repo:        repo,
		Completions: completions,
		Board:       b,
		Location:    loc,
	}, nil
}

// Now returns the current time in the configured timezone.
func (c *Context) Now() time.Time {
	return c.Board.Now()
}

// ParseDate resolves a --date flag. Empty and "today" mean the current day;
// "yesterday" is also accepted. Anything else must be YYYY-MM-DD.
func (c *Context) ParseDate(s string) (time.Time, error) {
	now := c.Now()
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return now, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	}
	return utils.ParseDayInLocation(strings.TrimSpace(s), c.Location)
}
