package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rfoley/lodestar/internal/model"
	"github.com/rfoley/lodestar/internal/store"
)

const (
	taskCheckInterval  = time.Hour
	clockCheckInterval = time.Minute

	notificationRetention = 30 * 24 * time.Hour
	sentLogRetention      = 48 * time.Hour
)

// TaskSource supplies current task snapshots from the task service.
type TaskSource interface {
	DueToday(ctx context.Context, day time.Time) ([]model.Task, error)
	Open(ctx context.Context) ([]model.Task, error)
}

// Status reports scheduler poll diagnostics. Fetch failures are never
// surfaced to the user directly; this is the observability escape hatch.
type Status struct {
	Running      bool      `json:"running"`
	PollFailures int64     `json:"poll_failures"`
	LastPollOK   time.Time `json:"last_poll_ok"`
}

// Scheduler drives the two reminder cadences: an hourly poll of the task
// service for due and overdue work, and a minutely wall-clock check for the
// scheduled health, weekly-planning, and reflection reminders. One goroutine
// selects over both tickers, so check bodies never overlap.
type Scheduler struct {
	mu       sync.Mutex
	tasks    TaskSource
	prefs    *store.PreferenceStore
	notifs   *store.NotificationStore
	notifier *Notifier
	logger   *slog.Logger

	taskInterval  time.Duration
	clockInterval time.Duration

	cancel context.CancelFunc
	done   chan struct{}

	statusMu     sync.Mutex
	pollFailures int64
	lastPollOK   time.Time
}

func NewScheduler(tasks TaskSource, prefs *store.PreferenceStore, notifs *store.NotificationStore, notifier *Notifier, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		tasks:         tasks,
		prefs:         prefs,
		notifs:        notifs,
		notifier:      notifier,
		logger:        logger,
		taskInterval:  taskCheckInterval,
		clockInterval: clockCheckInterval,
	}
}

// Start begins the polling loop. It is safe to call repeatedly: any loop
// started earlier is stopped first, so at most one pair of tickers is ever
// live. An immediate pass of every check runs before the tickers start, so
// the user sees current state without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) {
	s.Stop()

	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	done := make(chan struct{})
	s.done = done
	s.mu.Unlock()

	go func() {
		defer close(done)

		s.runTaskChecks(ctx)
		s.CheckScheduledReminders(time.Now())

		taskTicker := time.NewTicker(s.taskInterval)
		defer taskTicker.Stop()
		clockTicker := time.NewTicker(s.clockInterval)
		defer clockTicker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-taskTicker.C:
				s.runTaskChecks(ctx)
				s.housekeep()
			case <-clockTicker.C:
				s.CheckScheduledReminders(time.Now())
			}
		}
	}()
}

// Stop cancels the polling loop and waits for it to exit. Calling Stop when
// nothing is running is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Status returns current poll diagnostics.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	running := s.done != nil
	s.mu.Unlock()

	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	return Status{
		Running:      running,
		PollFailures: s.pollFailures,
		LastPollOK:   s.lastPollOK,
	}
}

func (s *Scheduler) runTaskChecks(ctx context.Context) {
	s.CheckDueTasks(ctx)
	s.CheckOverdueTasks(ctx)
}

// CheckDueTasks raises a notification for every open task due today. There
// is deliberately no per-task dedup: the hourly cadence keeps repeats
// infrequent, and the push tag collapses duplicates at the platform level.
func (s *Scheduler) CheckDueTasks(ctx context.Context) {
	prefs, err := s.prefs.Load()
	if err != nil {
		s.logger.Error("load preferences", "error", err)
		return
	}
	if !prefs.Allows(model.TypeTaskDue) {
		return
	}

	tasks, err := s.tasks.DueToday(ctx, time.Now())
	if err != nil {
		s.pollFailed("due_tasks", err)
		return
	}
	s.pollSucceeded()

	for _, t := range tasks {
		if !t.IsOpen() {
			continue
		}
		s.notifier.Emit(prefs, TaskDueEvent(t))
	}
}

// CheckOverdueTasks raises a notification for every open task whose due date
// is strictly in the past, reporting the overdue span as a whole-day floor.
func (s *Scheduler) CheckOverdueTasks(ctx context.Context) {
	prefs, err := s.prefs.Load()
	if err != nil {
		s.logger.Error("load preferences", "error", err)
		return
	}
	if !prefs.Allows(model.TypeTaskOverdue) {
		return
	}

	tasks, err := s.tasks.Open(ctx)
	if err != nil {
		s.pollFailed("overdue_tasks", err)
		return
	}
	s.pollSucceeded()

	now := time.Now()
	for _, t := range tasks {
		if !t.IsOpen() || t.DueDate == nil || t.DueDate.IsZero() {
			continue
		}
		due := t.DueDate.Time
		if !due.Before(now) {
			continue
		}
		days := int(now.Sub(due).Hours() / 24)
		s.notifier.Emit(prefs, TaskOverdueEvent(t, days))
	}
}

// CheckScheduledReminders fires the health, weekly-planning, and reflection
// reminders when the wall clock matches the configured times. Matching is
// hour-granular: a setting of "08:00" matches the whole 08:00-08:59 hour.
// The weekly-planning reminder additionally requires a weekday match. Each
// reminder fires at most once per calendar day; the sent log stops the
// minute ticker re-firing for the rest of the matching hour.
func (s *Scheduler) CheckScheduledReminders(now time.Time) {
	prefs, err := s.prefs.Load()
	if err != nil {
		s.logger.Error("load preferences", "error", err)
		return
	}

	hour := now.Format("15") + ":00"
	weekday := int(now.Weekday())
	day := now.Format("2006-01-02")

	if prefs.Allows(model.TypeHealthReminder) && hour == prefs.HealthTime {
		s.fireDaily(prefs, model.TypeHealthReminder, day, HealthReminderEvent())
	}

	if prefs.Allows(model.TypeWeeklyPlanning) && weekday == prefs.WeeklyPlanningDay && hour == prefs.WeeklyPlanningTime {
		s.fireDaily(prefs, model.TypeWeeklyPlanning, day, WeeklyPlanningEvent())
	}

	if prefs.Allows(model.TypeDailyReflection) && hour == prefs.ReflectionTime {
		s.fireDaily(prefs, model.TypeDailyReflection, day, DailyReflectionEvent())
	}
}

func (s *Scheduler) fireDaily(prefs model.Preferences, notifType, day string, ev Event) {
	sent, err := s.notifs.WasSent(notifType, day)
	if err != nil {
		s.logger.Error("check sent reminder", "type", notifType, "error", err)
		return
	}
	if sent {
		return
	}

	s.notifier.Emit(prefs, ev)

	if err := s.notifs.RecordSent(notifType, day); err != nil {
		s.logger.Error("record sent reminder", "type", notifType, "error", err)
	}
}

func (s *Scheduler) pollFailed(check string, err error) {
	s.logger.Error("task poll failed", "check", check, "error", err)
	s.statusMu.Lock()
	s.pollFailures++
	s.statusMu.Unlock()
}

func (s *Scheduler) pollSucceeded() {
	s.statusMu.Lock()
	s.lastPollOK = time.Now()
	s.statusMu.Unlock()
}

func (s *Scheduler) housekeep() {
	now := time.Now()
	if err := s.notifs.Prune(now.Add(-notificationRetention)); err != nil {
		s.logger.Error("prune notifications", "error", err)
	}
	if err := s.notifs.CleanupSent(now.Add(-sentLogRetention)); err != nil {
		s.logger.Error("cleanup sent reminders", "error", err)
	}
}
