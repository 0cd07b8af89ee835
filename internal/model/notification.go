package model

import "time"

// Notification type constants. Every emitted notification carries exactly
// one of these, and each maps to a preference flag in Preferences.
const (
	TypeTaskDue          = "task_due"
	TypeTaskOverdue      = "task_overdue"
	TypeHealthReminder   = "health_reminder"
	TypeWeeklyPlanning   = "weekly_planning"
	TypeDailyReflection  = "daily_reflection"
	TypeTaskCompleted    = "task_completed"
	TypePhaseApproaching = "phase_approaching"
)

// Notification is a durable notification-center entry.
type Notification struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type PushSubscription struct {
	ID         int64     `json:"id"`
	Endpoint   string    `json:"endpoint"`
	P256dhKey  string    `json:"p256dh_key"`
	AuthKey    string    `json:"auth_key"`
	DeviceName string    `json:"device_name"`
	CreatedAt  time.Time `json:"created_at"`
}
