package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rfoley/lodestar/internal/model"
)

type fakeSource struct {
	mu        sync.Mutex
	due       []model.Task
	open      []model.Task
	err       error
	dueCalls  int
	openCalls int
}

func (f *fakeSource) DueToday(ctx context.Context, day time.Time) ([]model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dueCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.due, nil
}

func (f *fakeSource) Open(ctx context.Context) ([]model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.openCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.open, nil
}

func (f *fakeSource) set(due, open []model.Task, err error) {
	f.mu.Lock()
	f.due, f.open, f.err = due, open, err
	f.mu.Unlock()
}

func (f *fakeSource) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dueCalls, f.openCalls
}

func newScheduler(t *testing.T, src TaskSource) (*Scheduler, *fixture) {
	t.Helper()
	f := newFixture(t)
	s := NewScheduler(src, f.prefs, f.notifs, f.notifier, testLogger())
	return s, f
}

func dueAt(at time.Time) *model.DueDate {
	return &model.DueDate{Time: at}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestCheckDueTasksEmitsPerOpenTask(t *testing.T) {
	src := &fakeSource{due: []model.Task{
		{ID: "1", Title: "Water plants", Status: model.TaskStatusOpen},
		{ID: "2", Title: "File taxes", Status: model.TaskStatusOpen},
		{ID: "3", Title: "Old chore", Status: model.TaskStatusDone},
	}}
	s, f := newScheduler(t, src)

	s.CheckDueTasks(context.Background())

	entries := f.entries(t)
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	for _, n := range entries {
		if n.Type != model.TypeTaskDue {
			t.Errorf("type = %q, want %q", n.Type, model.TypeTaskDue)
		}
	}
	// Newest first: the second task's entry comes back first.
	if !strings.Contains(entries[0].Message, "File taxes") {
		t.Errorf("message = %q, want the second task first", entries[0].Message)
	}
	if f.toast.count() != 2 || f.pusher.count() != 2 {
		t.Errorf("toasts = %d, pushes = %d, want 2 each", f.toast.count(), f.pusher.count())
	}
}

func TestCheckDueTasksDisabledSkipsFetch(t *testing.T) {
	src := &fakeSource{due: []model.Task{{ID: "1", Title: "T", Status: model.TaskStatusOpen}}}
	s, f := newScheduler(t, src)

	prefs := model.DefaultPreferences()
	prefs.TaskDue = false
	if err := f.prefs.Save(prefs); err != nil {
		t.Fatalf("save prefs: %v", err)
	}

	s.CheckDueTasks(context.Background())

	if dueCalls, _ := src.calls(); dueCalls != 0 {
		t.Errorf("due fetches = %d, want 0 when the category is disabled", dueCalls)
	}
	if n := len(f.entries(t)); n != 0 {
		t.Errorf("entries = %d, want 0", n)
	}
}

func TestCheckDueTasksRepeatPollsRepeatNotifications(t *testing.T) {
	src := &fakeSource{due: []model.Task{{ID: "1", Title: "T", Status: model.TaskStatusOpen}}}
	s, f := newScheduler(t, src)

	s.CheckDueTasks(context.Background())
	s.CheckDueTasks(context.Background())

	// No per-task dedup: each poll raises the task again.
	if n := len(f.entries(t)); n != 2 {
		t.Errorf("entries = %d, want 2", n)
	}
}

func TestCheckOverdueTasksDayCount(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name string
		due  time.Time
		want string
	}{
		{"one day", now.Add(-36 * time.Hour), "1 day overdue"},
		{"two days", now.Add(-49 * time.Hour), "2 days overdue"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := &fakeSource{open: []model.Task{
				{ID: "1", Title: "Late task", DueDate: dueAt(tc.due), Status: model.TaskStatusOpen},
			}}
			s, f := newScheduler(t, src)

			s.CheckOverdueTasks(context.Background())

			entries := f.entries(t)
			if len(entries) != 1 {
				t.Fatalf("entries = %d, want 1", len(entries))
			}
			if !strings.Contains(entries[0].Message, tc.want) {
				t.Errorf("message = %q, want substring %q", entries[0].Message, tc.want)
			}
		})
	}
}

func TestCheckOverdueTasksSkipsFutureAndUndated(t *testing.T) {
	now := time.Now()
	src := &fakeSource{open: []model.Task{
		{ID: "1", Title: "Future", DueDate: dueAt(now.Add(24 * time.Hour)), Status: model.TaskStatusOpen},
		{ID: "2", Title: "No due date", Status: model.TaskStatusOpen},
		{ID: "3", Title: "Done anyway", DueDate: dueAt(now.Add(-48 * time.Hour)), Status: model.TaskStatusDone},
	}}
	s, f := newScheduler(t, src)

	s.CheckOverdueTasks(context.Background())

	if n := len(f.entries(t)); n != 0 {
		t.Errorf("entries = %d, want 0", n)
	}
}

func TestCheckScheduledRemindersHourMatch(t *testing.T) {
	cases := []struct {
		name  string
		at    time.Time
		fires bool
	}{
		{"inside the hour", time.Date(2026, 3, 2, 8, 5, 0, 0, time.Local), true},
		{"minute before", time.Date(2026, 3, 2, 7, 59, 0, 0, time.Local), false},
		{"hour after", time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, f := newScheduler(t, &fakeSource{})
			prefs := model.DefaultPreferences()
			prefs.HealthTime = "08:00"
			if err := f.prefs.Save(prefs); err != nil {
				t.Fatalf("save prefs: %v", err)
			}

			s.CheckScheduledReminders(tc.at)

			want := 0
			if tc.fires {
				want = 1
			}
			entries := f.entries(t)
			if len(entries) != want {
				t.Fatalf("entries = %d, want %d", len(entries), want)
			}
			if tc.fires && entries[0].Type != model.TypeHealthReminder {
				t.Errorf("type = %q, want %q", entries[0].Type, model.TypeHealthReminder)
			}
		})
	}
}

func TestCheckScheduledRemindersOncePerDay(t *testing.T) {
	s, f := newScheduler(t, &fakeSource{})
	prefs := model.DefaultPreferences()
	prefs.HealthTime = "08:00"
	if err := f.prefs.Save(prefs); err != nil {
		t.Fatalf("save prefs: %v", err)
	}

	day := time.Date(2026, 3, 2, 8, 5, 0, 0, time.Local)
	s.CheckScheduledReminders(day)
	s.CheckScheduledReminders(day.Add(25 * time.Minute))

	if n := len(f.entries(t)); n != 1 {
		t.Fatalf("entries = %d, want 1 within the same day", n)
	}

	s.CheckScheduledReminders(day.Add(24 * time.Hour))

	if n := len(f.entries(t)); n != 2 {
		t.Errorf("entries = %d, want 2 across two days", n)
	}
}

func TestWeeklyPlanningNeedsWeekdayAndTime(t *testing.T) {
	// 2026-03-01 is a Sunday, 2026-03-02 a Monday.
	cases := []struct {
		name  string
		at    time.Time
		fires bool
	}{
		{"sunday at time", time.Date(2026, 3, 1, 18, 30, 0, 0, time.Local), true},
		{"monday at time", time.Date(2026, 3, 2, 18, 30, 0, 0, time.Local), false},
		{"sunday wrong hour", time.Date(2026, 3, 1, 17, 30, 0, 0, time.Local), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, f := newScheduler(t, &fakeSource{})

			s.CheckScheduledReminders(tc.at)

			var planning int
			for _, n := range f.entries(t) {
				if n.Type == model.TypeWeeklyPlanning {
					planning++
				}
			}
			want := 0
			if tc.fires {
				want = 1
			}
			if planning != want {
				t.Errorf("weekly planning entries = %d, want %d", planning, want)
			}
		})
	}
}

func TestCheckScheduledRemindersDoNotDisturb(t *testing.T) {
	s, f := newScheduler(t, &fakeSource{})
	prefs := model.DefaultPreferences()
	prefs.HealthTime = "08:00"
	prefs.DoNotDisturb = true
	if err := f.prefs.Save(prefs); err != nil {
		t.Fatalf("save prefs: %v", err)
	}

	at := time.Date(2026, 3, 2, 8, 5, 0, 0, time.Local)
	s.CheckScheduledReminders(at)

	if n := len(f.entries(t)); n != 0 {
		t.Fatalf("entries = %d, want 0 under do-not-disturb", n)
	}

	// Suppression happens before the sent log, so lifting do-not-disturb
	// within the matching hour still delivers the reminder.
	prefs.DoNotDisturb = false
	if err := f.prefs.Save(prefs); err != nil {
		t.Fatalf("save prefs: %v", err)
	}
	s.CheckScheduledReminders(at.Add(10 * time.Minute))

	if n := len(f.entries(t)); n != 1 {
		t.Errorf("entries = %d, want 1 after lifting do-not-disturb", n)
	}
}

func TestFetchFailureCountsAndRecovers(t *testing.T) {
	src := &fakeSource{err: errors.New("connection refused")}
	s, f := newScheduler(t, src)

	s.CheckDueTasks(context.Background())
	s.CheckOverdueTasks(context.Background())

	st := s.Status()
	if st.PollFailures != 2 {
		t.Errorf("poll failures = %d, want 2", st.PollFailures)
	}
	if !st.LastPollOK.IsZero() {
		t.Errorf("last poll ok = %v, want zero before any success", st.LastPollOK)
	}
	if n := len(f.entries(t)); n != 0 {
		t.Errorf("entries = %d, want 0 after failed fetches", n)
	}

	// The next tick is unaffected by earlier failures.
	src.set([]model.Task{{ID: "1", Title: "T", Status: model.TaskStatusOpen}}, nil, nil)
	s.CheckDueTasks(context.Background())

	st = s.Status()
	if st.PollFailures != 2 {
		t.Errorf("poll failures = %d, want 2 after recovery", st.PollFailures)
	}
	if st.LastPollOK.IsZero() {
		t.Error("last poll ok should be set after a successful fetch")
	}
	if n := len(f.entries(t)); n != 1 {
		t.Errorf("entries = %d, want 1", n)
	}
}

func TestStartRunsImmediatePass(t *testing.T) {
	src := &fakeSource{due: []model.Task{{ID: "1", Title: "T", Status: model.TaskStatusOpen}}}
	s, f := newScheduler(t, src)

	// Intervals stay at their hour/minute defaults; only the immediate
	// pass can produce the entry within the wait window.
	s.Start(context.Background())
	defer s.Stop()

	waitFor(t, 2*time.Second, func() bool {
		entries, err := f.notifs.List(false)
		return err == nil && len(entries) > 0
	})
}

func TestStartIsIdempotentAndStopHalts(t *testing.T) {
	src := &fakeSource{err: errors.New("down")}
	s, _ := newScheduler(t, src)
	s.taskInterval = 10 * time.Millisecond
	s.clockInterval = 10 * time.Millisecond

	s.Start(context.Background())
	s.Start(context.Background())

	if !s.Status().Running {
		t.Fatal("scheduler should report running after Start")
	}

	waitFor(t, 2*time.Second, func() bool {
		due, _ := src.calls()
		return due >= 3
	})

	s.Stop()
	if s.Status().Running {
		t.Fatal("scheduler should report stopped after Stop")
	}

	dueBefore, openBefore := src.calls()
	time.Sleep(50 * time.Millisecond)
	dueAfter, openAfter := src.calls()
	if dueAfter != dueBefore || openAfter != openBefore {
		t.Errorf("fetches continued after Stop: due %d->%d open %d->%d",
			dueBefore, dueAfter, openBefore, openAfter)
	}

	// Stopping again is a no-op.
	s.Stop()
}
