package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rfoley/lodestar/internal/model"
)

// NotificationStore persists notification-center entries and the sent-reminder
// log used to keep scheduled reminders to one firing per day.
type NotificationStore struct {
	db *sql.DB
}

func NewNotificationStore(db *sql.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

// Append inserts a new unread entry and fills in its ID and creation time.
func (s *NotificationStore) Append(n *model.Notification) error {
	now := time.Now().UTC()
	result, err := s.db.Exec(
		`INSERT INTO notifications (type, title, message, link, created_at) VALUES (?, ?, ?, ?, ?)`,
		n.Type, n.Title, n.Message, n.Link, now,
	)
	if err != nil {
		return fmt.Errorf("append notification: %w", err)
	}
	n.ID, _ = result.LastInsertId()
	n.CreatedAt = now
	return nil
}

// List returns entries newest first. With unreadOnly, read entries are skipped.
func (s *NotificationStore) List(unreadOnly bool) ([]model.Notification, error) {
	query := `SELECT id, type, title, message, link, read, created_at
	          FROM notifications ORDER BY created_at DESC, id DESC`
	if unreadOnly {
		query = `SELECT id, type, title, message, link, read, created_at
		         FROM notifications WHERE read = 0 ORDER BY created_at DESC, id DESC`
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifs []model.Notification
	for rows.Next() {
		var n model.Notification
		var readInt int
		if err := rows.Scan(&n.ID, &n.Type, &n.Title, &n.Message, &n.Link, &readInt, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Read = readInt != 0
		notifs = append(notifs, n)
	}
	return notifs, rows.Err()
}

func (s *NotificationStore) MarkRead(id int64) error {
	_, err := s.db.Exec(`UPDATE notifications SET read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

func (s *NotificationStore) MarkAllRead() error {
	_, err := s.db.Exec(`UPDATE notifications SET read = 1 WHERE read = 0`)
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

func (s *NotificationStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM notifications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return nil
}

// Clear removes every entry from the notification center.
func (s *NotificationStore) Clear() error {
	_, err := s.db.Exec(`DELETE FROM notifications`)
	if err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}

// Prune deletes entries created before the given time. The center is
// otherwise unbounded, so the scheduler calls this on its hourly tick.
func (s *NotificationStore) Prune(before time.Time) error {
	_, err := s.db.Exec(`DELETE FROM notifications WHERE created_at < ?`, before.UTC())
	if err != nil {
		return fmt.Errorf("prune notifications: %w", err)
	}
	return nil
}

// RecordSent records that a scheduled reminder fired (for daily dedup).
func (s *NotificationStore) RecordSent(notifType, refID string) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO sent_reminders (type, reference_id) VALUES (?, ?)`,
		notifType, refID,
	)
	if err != nil {
		return fmt.Errorf("record sent reminder: %w", err)
	}
	return nil
}

// WasSent checks whether a scheduled reminder already fired for refID.
func (s *NotificationStore) WasSent(notifType, refID string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM sent_reminders WHERE type = ? AND reference_id = ?`,
		notifType, refID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check sent reminder: %w", err)
	}
	return count > 0, nil
}

// CleanupSent deletes sent-reminder rows older than the given time.
func (s *NotificationStore) CleanupSent(before time.Time) error {
	_, err := s.db.Exec(`DELETE FROM sent_reminders WHERE sent_at < ?`, before.UTC())
	if err != nil {
		return fmt.Errorf("cleanup sent reminders: %w", err)
	}
	return nil
}
