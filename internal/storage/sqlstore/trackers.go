package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/storage"
)

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *Store) AddTracker(tracker models.Tracker, categoryTitle string) error {
	createdAt := tracker.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return s.inTx(func(tx *sql.Tx) error {
		if err := s.ensureCategory(tx, categoryTitle); err != nil {
			return err
		}
		_, err := tx.Exec(s.rebind(`
			INSERT INTO trackers (id, name, color, emoji, schedule, type, original_category, category_title, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			tracker.ID, tracker.Name, tracker.Color.Hex(), tracker.Emoji, tracker.Schedule.Encode(),
			string(tracker.Type), nullString(tracker.OriginalCategory), categoryTitle,
			formatTime(createdAt))
		if err != nil {
			return fmt.Errorf("failed to insert tracker %s: %w", tracker.ID, err)
		}
		return nil
	})
}

func (s *Store) GetTracker(id string) (models.Tracker, string, error) {
	if err := s.ready(); err != nil {
		return models.Tracker{}, "", err
	}

	row := s.db.QueryRow(s.rebind(`
		SELECT `+trackerColumns+`, category_title
		FROM trackers WHERE id = ?`), id)

	var categoryTitle string
	t, err := scanTracker(row, &categoryTitle)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Tracker{}, "", fmt.Errorf("tracker %s: %w", id, storage.ErrNotFound)
		}
		return models.Tracker{}, "", err
	}
	return t, categoryTitle, nil
}

func (s *Store) UpdateTracker(tracker models.Tracker, categoryTitle string) error {
	return s.inTx(func(tx *sql.Tx) error {
		if err := s.ensureCategory(tx, categoryTitle); err != nil {
			return err
		}

		result, err := tx.Exec(s.rebind(`
			UPDATE trackers SET
				name = ?, color = ?, emoji = ?, schedule = ?, type = ?,
				original_category = ?, category_title = ?
			WHERE id = ?`),
			tracker.Name, tracker.Color.Hex(), tracker.Emoji, tracker.Schedule.Encode(),
			string(tracker.Type), nullString(tracker.OriginalCategory), categoryTitle, tracker.ID)
		if err != nil {
			return fmt.Errorf("failed to update tracker %s: %w", tracker.ID, err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf("tracker %s: %w", tracker.ID, storage.ErrNotFound)
		}
		return nil
	})
}

func (s *Store) DeleteTracker(id string) error {
	return s.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(s.rebind(`DELETE FROM tracker_records WHERE tracker_id = ?`), id); err != nil {
			return fmt.Errorf("failed to delete records for tracker %s: %w", id, err)
		}

		result, err := tx.Exec(s.rebind(`DELETE FROM trackers WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("failed to delete tracker %s: %w", id, err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf("tracker %s: %w", id, storage.ErrNotFound)
		}
		return nil
	})
}
