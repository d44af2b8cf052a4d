package sqlstore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/tracker/internal/constants"
	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/storage"
)

func (s *Store) AddRecord(record models.TrackerRecord) (bool, error) {
	var created bool
	err := s.inTx(func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRow(s.rebind(`SELECT COUNT(*) FROM trackers WHERE id = ?`), record.TrackerID).Scan(&count); err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("tracker %s: %w", record.TrackerID, storage.ErrNotFound)
		}

		result, err := tx.Exec(s.rebind(`
			INSERT INTO tracker_records (tracker_id, day, created_at)
			VALUES (?, ?, ?)
			ON CONFLICT (tracker_id, day) DO NOTHING`),
			record.TrackerID, record.Day(), now())
		if err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		created = rows > 0
		return nil
	})
	return created, err
}

func (s *Store) DeleteRecords(trackerID, day string) (int, error) {
	var deleted int
	err := s.inTx(func(tx *sql.Tx) error {
		result, err := tx.Exec(s.rebind(`DELETE FROM tracker_records WHERE tracker_id = ? AND day = ?`), trackerID, day)
		if err != nil {
			return fmt.Errorf("failed to delete records: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		deleted = int(rows)
		return nil
	})
	return deleted, err
}

func (s *Store) HasRecord(trackerID, day string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	var count int
	err := s.db.QueryRow(s.rebind(`SELECT COUNT(*) FROM tracker_records WHERE tracker_id = ? AND day = ?`), trackerID, day).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) CountRecords(trackerID string) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	var count int
	err := s.db.QueryRow(s.rebind(`SELECT COUNT(*) FROM tracker_records WHERE tracker_id = ?`), trackerID).Scan(&count)
	return count, err
}

func (s *Store) CountCompletedTrackers() (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	var count int
	err := s.db.QueryRow(`SELECT COUNT(DISTINCT tracker_id) FROM tracker_records`).Scan(&count)
	return count, err
}

func (s *Store) GetRecordsForDay(day string) ([]models.TrackerRecord, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	date, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return nil, fmt.Errorf("invalid day %q: %w", day, err)
	}

	rows, err := s.db.Query(s.rebind(`SELECT tracker_id FROM tracker_records WHERE day = ? ORDER BY tracker_id`), day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.TrackerRecord
	for rows.Next() {
		var trackerID string
		if err := rows.Scan(&trackerID); err != nil {
			return nil, err
		}
		records = append(records, models.NewRecord(trackerID, date))
	}
	return records, rows.Err()
}
