package models

import (
	"sort"

	"github.com/julianstephens/tracker/internal/constants"
)

type TrackerCategory struct {
	Title    string    `json:"title"`
	Trackers []Tracker `json:"trackers"`
}

func (c *TrackerCategory) IsPinned() bool {
	return c.Title == constants.PinnedCategoryTitle
}

// Find returns the index of the tracker with the given id, or -1.
func (c *TrackerCategory) Find(id string) int {
	for i := range c.Trackers {
		if c.Trackers[i].ID == id {
			return i
		}
	}
	return -1
}

// SortCategories orders categories with Pinned first and the rest by title.
// Titles compare byte-wise, so the order is case-sensitive.
func SortCategories(categories []TrackerCategory) {
	sort.SliceStable(categories, func(i, j int) bool {
		pi, pj := categories[i].IsPinned(), categories[j].IsPinned()
		if pi != pj {
			return pi
		}
		return categories[i].Title < categories[j].Title
	})
}
