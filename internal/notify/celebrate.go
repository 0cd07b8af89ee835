package notify

import (
	"log/slog"

	"github.com/rfoley/lodestar/internal/model"
	"github.com/rfoley/lodestar/internal/store"
)

// Celebrator raises the one-shot "task completed" notification the moment a
// task is finished, outside the polling cadence. It shares the scheduler's
// suppression rules and fanout path.
type Celebrator struct {
	prefs    *store.PreferenceStore
	notifier *Notifier
	confetti func(taskTitle string)
	logger   *slog.Logger
}

// NewCelebrator creates a celebrator. The confetti callback triggers a
// decorative animation on connected clients and may be nil.
func NewCelebrator(prefs *store.PreferenceStore, notifier *Notifier, confetti func(string), logger *slog.Logger) *Celebrator {
	return &Celebrator{prefs: prefs, notifier: notifier, confetti: confetti, logger: logger}
}

// Celebrate fires the completion notification for the named task.
func (c *Celebrator) Celebrate(taskTitle string) {
	prefs, err := c.prefs.Load()
	if err != nil {
		c.logger.Error("load preferences", "error", err)
		return
	}
	if !prefs.Allows(model.TypeTaskCompleted) {
		return
	}

	c.notifier.Emit(prefs, TaskCompletedEvent(taskTitle))

	if c.confetti != nil {
		c.confetti(taskTitle)
	}
}
