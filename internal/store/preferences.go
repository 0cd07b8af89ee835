package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/rfoley/lodestar/internal/model"
)

// PreferenceStore persists the single set of notification preferences in the
// settings key-value table. Missing keys fall back to built-in defaults, so a
// fresh database behaves sensibly before the user ever opens settings.
type PreferenceStore struct {
	db *sql.DB
}

func NewPreferenceStore(db *sql.DB) *PreferenceStore {
	return &PreferenceStore{db: db}
}

// Load reads the stored preferences, applying defaults for absent keys.
func (s *PreferenceStore) Load() (model.Preferences, error) {
	p := model.DefaultPreferences()

	rows, err := s.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return p, fmt.Errorf("load preferences: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return p, fmt.Errorf("scan preference: %w", err)
		}
		applySetting(&p, key, value)
	}
	if err := rows.Err(); err != nil {
		return p, fmt.Errorf("load preferences: %w", err)
	}
	return p, nil
}

// Save upserts every preference key.
func (s *PreferenceStore) Save(p model.Preferences) error {
	for key, value := range settingPairs(p) {
		if err := s.set(key, value); err != nil {
			return err
		}
	}
	return nil
}

func (s *PreferenceStore) set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set preference %q: %w", key, err)
	}
	return nil
}

func applySetting(p *model.Preferences, key, value string) {
	switch key {
	case "task_due_enabled":
		p.TaskDue = value == "true"
	case "task_overdue_enabled":
		p.TaskOverdue = value == "true"
	case "health_enabled":
		p.Health = value == "true"
	case "weekly_planning_enabled":
		p.WeeklyPlanning = value == "true"
	case "daily_reflection_enabled":
		p.DailyReflection = value == "true"
	case "celebrations_enabled":
		p.Celebrations = value == "true"
	case "phase_deadlines_enabled":
		p.PhaseDeadlines = value == "true"
	case "browser_enabled":
		p.Browser = value == "true"
	case "do_not_disturb":
		p.DoNotDisturb = value == "true"
	case "health_time":
		p.HealthTime = value
	case "reflection_time":
		p.ReflectionTime = value
	case "weekly_planning_day":
		if n, err := strconv.Atoi(value); err == nil && n >= 0 && n <= 6 {
			p.WeeklyPlanningDay = n
		}
	case "weekly_planning_time":
		p.WeeklyPlanningTime = value
	}
}

func settingPairs(p model.Preferences) map[string]string {
	return map[string]string{
		"task_due_enabled":         strconv.FormatBool(p.TaskDue),
		"task_overdue_enabled":     strconv.FormatBool(p.TaskOverdue),
		"health_enabled":           strconv.FormatBool(p.Health),
		"weekly_planning_enabled":  strconv.FormatBool(p.WeeklyPlanning),
		"daily_reflection_enabled": strconv.FormatBool(p.DailyReflection),
		"celebrations_enabled":     strconv.FormatBool(p.Celebrations),
		"phase_deadlines_enabled":  strconv.FormatBool(p.PhaseDeadlines),
		"browser_enabled":          strconv.FormatBool(p.Browser),
		"do_not_disturb":           strconv.FormatBool(p.DoNotDisturb),
		"health_time":              p.HealthTime,
		"reflection_time":          p.ReflectionTime,
		"weekly_planning_day":      strconv.Itoa(p.WeeklyPlanningDay),
		"weekly_planning_time":     p.WeeklyPlanningTime,
	}
}
