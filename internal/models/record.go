package models

import (
	"time"

	"github.com/julianstephens/tracker/internal/constants"
)

// TrackerRecord marks a tracker done on one calendar day. Time of day is
// not part of a record's identity.
type TrackerRecord struct {
	TrackerID string    `json:"tracker_id"`
	Date      time.Time `json:"date"`
}

func NewRecord(trackerID string, date time.Time) TrackerRecord {
	return TrackerRecord{TrackerID: trackerID, Date: date}
}

// Day returns the calendar day key of the record in its date's location.
func (r TrackerRecord) Day() string {
	return r.Date.Format(constants.DateFormat)
}

// Equal reports whether both records mark the same tracker on the same day.
func (r TrackerRecord) Equal(other TrackerRecord) bool {
	return r.TrackerID == other.TrackerID && r.Day() == other.Day()
}
