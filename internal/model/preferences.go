package model

// Preferences holds the user's notification settings. One set of
// preferences applies to the whole deployment; they are persisted in the
// settings table and read fresh on every scheduler tick.
type Preferences struct {
	TaskDue         bool `json:"task_due_enabled"`
	TaskOverdue     bool `json:"task_overdue_enabled"`
	Health          bool `json:"health_enabled"`
	WeeklyPlanning  bool `json:"weekly_planning_enabled"`
	DailyReflection bool `json:"daily_reflection_enabled"`
	Celebrations    bool `json:"celebrations_enabled"`
	PhaseDeadlines  bool `json:"phase_deadlines_enabled"`

	// Browser gates native push delivery on top of the per-category flags.
	// A disabled category never reaches any sink; an enabled category with
	// Browser off still reaches the notification center and toasts.
	Browser bool `json:"browser_enabled"`

	// DoNotDisturb suppresses every outbound notification regardless of
	// the per-category flags.
	DoNotDisturb bool `json:"do_not_disturb"`

	HealthTime         string `json:"health_time"`          // "HH:00"
	ReflectionTime     string `json:"reflection_time"`      // "HH:00"
	WeeklyPlanningDay  int    `json:"weekly_planning_day"`  // 0 = Sunday
	WeeklyPlanningTime string `json:"weekly_planning_time"` // "HH:00"
}

// DefaultPreferences returns the built-in defaults used for any setting
// missing from durable storage.
func DefaultPreferences() Preferences {
	return Preferences{
		TaskDue:            true,
		TaskOverdue:        true,
		Health:             true,
		WeeklyPlanning:     true,
		DailyReflection:    true,
		Celebrations:       true,
		PhaseDeadlines:     true,
		Browser:            true,
		HealthTime:         "09:00",
		ReflectionTime:     "21:00",
		WeeklyPlanningDay:  0,
		WeeklyPlanningTime: "18:00",
	}
}

// Allows reports whether a notification of the given type may be emitted:
// do-not-disturb must be off and the category's flag must be enabled.
// Unknown types are never allowed.
func (p Preferences) Allows(notifType string) bool {
	if p.DoNotDisturb {
		return false
	}
	switch notifType {
	case TypeTaskDue:
		return p.TaskDue
	case TypeTaskOverdue:
		return p.TaskOverdue
	case TypeHealthReminder:
		return p.Health
	case TypeWeeklyPlanning:
		return p.WeeklyPlanning
	case TypeDailyReflection:
		return p.DailyReflection
	case TypeTaskCompleted:
		return p.Celebrations
	case TypePhaseApproaching:
		return p.PhaseDeadlines
	default:
		return false
	}
}
