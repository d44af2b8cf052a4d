package sqlstore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/storage"
)

func (s *Store) AddCategory(title string) error {
	return s.inTx(func(tx *sql.Tx) error {
		exists, err := s.categoryExists(tx, title)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("category %q: %w", title, storage.ErrDuplicateName)
		}
		_, err = tx.Exec(s.rebind(`INSERT INTO categories (title, created_at) VALUES (?, ?)`), title, now())
		return err
	})
}

func (s *Store) CategoryExists(title string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	var count int
	if err := s.db.QueryRow(s.rebind(`SELECT COUNT(*) FROM categories WHERE title = ?`), title).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) categoryExists(tx *sql.Tx, title string) (bool, error) {
	var count int
	if err := tx.QueryRow(s.rebind(`SELECT COUNT(*) FROM categories WHERE title = ?`), title).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// ensureCategory creates the category inside tx if it is missing.
func (s *Store) ensureCategory(tx *sql.Tx, title string) error {
	_, err := tx.Exec(s.rebind(`
		INSERT INTO categories (title, created_at) VALUES (?, ?)
		ON CONFLICT (title) DO NOTHING`), title, now())
	if err != nil {
		return fmt.Errorf("failed to create category %q: %w", title, err)
	}
	return nil
}

func (s *Store) DeleteCategory(title string) error {
	return s.inTx(func(tx *sql.Tx) error {
		exists, err := s.categoryExists(tx, title)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("category %q: %w", title, storage.ErrNotFound)
		}

		var trackers int
		if err := tx.QueryRow(s.rebind(`SELECT COUNT(*) FROM trackers WHERE category_title = ?`), title).Scan(&trackers); err != nil {
			return err
		}
		if trackers > 0 {
			return fmt.Errorf("category %q has %d tracker(s): %w", title, trackers, storage.ErrCategoryNotEmpty)
		}

		_, err = tx.Exec(s.rebind(`DELETE FROM categories WHERE title = ?`), title)
		return err
	})
}

func (s *Store) GetAllCategories() ([]models.TrackerCategory, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT title FROM categories ORDER BY title`)
	if err != nil {
		return nil, err
	}
	var categories []models.TrackerCategory
	index := make(map[string]int)
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			rows.Close()
			return nil, err
		}
		index[title] = len(categories)
		categories = append(categories, models.TrackerCategory{Title: title})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	trackerRows, err := s.db.Query(`
		SELECT ` + trackerColumns + `, category_title
		FROM trackers ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer trackerRows.Close()

	for trackerRows.Next() {
		var categoryTitle string
		t, err := scanTracker(trackerRows, &categoryTitle)
		if err != nil {
			return nil, err
		}
		i, ok := index[categoryTitle]
		if !ok {
			// orphaned row; surface it under its own title
			i = len(categories)
			index[categoryTitle] = i
			categories = append(categories, models.TrackerCategory{Title: categoryTitle})
		}
		categories[i].Trackers = append(categories[i].Trackers, t)
	}

	return categories, trackerRows.Err()
}

const trackerColumns = `id, name, color, emoji, schedule, type, original_category, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanTracker(row scanner, extra ...any) (models.Tracker, error) {
	var t models.Tracker
	var color, schedule, trackerType, createdAt string
	var originalCategory sql.NullString

	dest := append([]any{&t.ID, &t.Name, &color, &t.Emoji, &schedule, &trackerType, &originalCategory, &createdAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return models.Tracker{}, err
	}

	c, err := models.ParseColor(color)
	if err != nil {
		return models.Tracker{}, fmt.Errorf("failed to parse color for tracker %s: %w", t.ID, err)
	}
	t.Color = c
	t.Schedule = models.DecodeSchedule(schedule)
	t.Type = models.TrackerType(trackerType)
	if originalCategory.Valid {
		t.OriginalCategory = originalCategory.String
	}
	t.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return models.Tracker{}, fmt.Errorf("failed to parse created_at for tracker %s: %w", t.ID, err)
	}
	return t, nil
}
