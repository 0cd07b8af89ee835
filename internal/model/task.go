package model

import (
	"encoding/json"
	"time"
)

// Task statuses as reported by the task service.
const (
	TaskStatusOpen      = "open"
	TaskStatusDone      = "done"
	TaskStatusCancelled = "cancelled"
)

// Task is a read-only snapshot of a record in the external task service.
// Snapshots are ephemeral: nothing is cached or diffed between polls.
type Task struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	DueDate *DueDate `json:"due_date,omitempty"`
	Status  string   `json:"status"`
}

// IsOpen reports whether the task still needs doing.
func (t Task) IsOpen() bool {
	return t.Status != TaskStatusDone && t.Status != TaskStatusCancelled
}

// DueDate accepts either an RFC 3339 timestamp or a bare YYYY-MM-DD date,
// which the task service emits interchangeably. Date-only values are
// anchored to local midnight. An unparseable value is left as the zero
// time rather than failing the whole response.
type DueDate struct {
	time.Time
}

func (d *DueDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		d.Time = t
		return nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		d.Time = t
	}
	return nil
}

func (d DueDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(time.RFC3339))
}
