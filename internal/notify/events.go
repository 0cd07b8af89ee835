package notify

import (
	"fmt"

	"github.com/rfoley/lodestar/internal/model"
)

// Event is a single notification ready to fan out: category, human copy, a
// deep link for click-through, and a tag for platform-level collapse of
// same-category push notifications.
type Event struct {
	Type    string
	Title   string
	Message string
	Link    string
	Tag     string
}

func TaskDueEvent(t model.Task) Event {
	return Event{
		Type:    model.TypeTaskDue,
		Title:   "Task Due Today",
		Message: fmt.Sprintf("%q is due today", t.Title),
		Link:    "/",
		Tag:     "task-due",
	}
}

func TaskOverdueEvent(t model.Task, days int) Event {
	unit := "days"
	if days == 1 {
		unit = "day"
	}
	return Event{
		Type:    model.TypeTaskOverdue,
		Title:   "Task Overdue",
		Message: fmt.Sprintf("%q is %d %s overdue", t.Title, days, unit),
		Link:    "/",
		Tag:     "task-overdue",
	}
}

func HealthReminderEvent() Event {
	return Event{
		Type:    model.TypeHealthReminder,
		Title:   "Health Check-In",
		Message: "Time to log today's health entry.",
		Link:    "/health",
		Tag:     "health-reminder",
	}
}

func WeeklyPlanningEvent() Event {
	return Event{
		Type:    model.TypeWeeklyPlanning,
		Title:   "Weekly Planning",
		Message: "Time to plan the week ahead.",
		Link:    "/planning",
		Tag:     "weekly-planning",
	}
}

func DailyReflectionEvent() Event {
	return Event{
		Type:    model.TypeDailyReflection,
		Title:   "Daily Reflection",
		Message: "Take a moment to reflect on your day.",
		Link:    "/planning",
		Tag:     "daily-reflection",
	}
}

func TaskCompletedEvent(taskTitle string) Event {
	return Event{
		Type:    model.TypeTaskCompleted,
		Title:   "Task Completed",
		Message: fmt.Sprintf("Nice work finishing %q!", taskTitle),
		Link:    "/",
		Tag:     "task-completed",
	}
}

func PhaseApproachingEvent(phaseName string, daysLeft int) Event {
	unit := "days"
	if daysLeft == 1 {
		unit = "day"
	}
	return Event{
		Type:    model.TypePhaseApproaching,
		Title:   "Phase Deadline Approaching",
		Message: fmt.Sprintf("%q wraps up in %d %s", phaseName, daysLeft, unit),
		Link:    "/ventures",
		Tag:     "phase-approaching",
	}
}
