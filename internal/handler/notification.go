package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rfoley/lodestar/internal/model"
	"github.com/rfoley/lodestar/internal/notify"
	"github.com/rfoley/lodestar/internal/store"
)

type NotificationHandler struct {
	store     *store.NotificationStore
	prefs     *store.PreferenceStore
	notifier  *notify.Notifier
	scheduler *notify.Scheduler
	logger    *slog.Logger
}

func NewNotificationHandler(ns *store.NotificationStore, ps *store.PreferenceStore, notifier *notify.Notifier, scheduler *notify.Scheduler, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{store: ns, prefs: ps, notifier: notifier, scheduler: scheduler, logger: logger}
}

// List handles GET /api/notifications. With ?unread=true only unread
// entries are returned.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unread") == "true"

	notifs, err := h.store.List(unreadOnly)
	if err != nil {
		h.logger.Error("list notifications", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list notifications"})
		return
	}
	if notifs == nil {
		notifs = []model.Notification{}
	}
	writeJSON(w, http.StatusOK, notifs)
}

// MarkRead handles POST /api/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	if err := h.store.MarkRead(id); err != nil {
		h.logger.Error("mark notification read", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to mark read"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead handles POST /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := h.store.MarkAllRead(); err != nil {
		h.logger.Error("mark all notifications read", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to mark all read"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/notifications/{id}
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	if err := h.store.Delete(id); err != nil {
		h.logger.Error("delete notification", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete notification"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear handles DELETE /api/notifications
func (h *NotificationHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(); err != nil {
		h.logger.Error("clear notifications", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to clear notifications"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPreferences handles GET /api/preferences
func (h *NotificationHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.prefs.Load()
	if err != nil {
		h.logger.Error("load preferences", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load preferences"})
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

// UpdatePreferences handles PUT /api/preferences. The request body may be
// partial; omitted fields keep their stored values.
func (h *NotificationHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.prefs.Load()
	if err != nil {
		h.logger.Error("load preferences", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load preferences"})
		return
	}

	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if err := h.prefs.Save(prefs); err != nil {
		h.logger.Error("save preferences", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save preferences"})
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

// SchedulerStatus handles GET /api/scheduler/status
func (h *NotificationHandler) SchedulerStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.scheduler.Status())
}

type testRequest struct {
	Type string `json:"type"`
}

// Test handles POST /api/notifications/test. It emits one notification of
// the named category so the user can verify their settings end to end.
func (h *NotificationHandler) Test(w http.ResponseWriter, r *http.Request) {
	var req testRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	ev, ok := sampleEvent(req.Type)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown notification type"})
		return
	}

	prefs, err := h.prefs.Load()
	if err != nil {
		h.logger.Error("load preferences", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load preferences"})
		return
	}

	h.notifier.Emit(prefs, ev)
	w.WriteHeader(http.StatusAccepted)
}

func sampleEvent(notifType string) (notify.Event, bool) {
	switch notifType {
	case model.TypeTaskDue:
		return notify.TaskDueEvent(model.Task{Title: "Sample task"}), true
	case model.TypeTaskOverdue:
		return notify.TaskOverdueEvent(model.Task{Title: "Sample task"}, 2), true
	case model.TypeHealthReminder:
		return notify.HealthReminderEvent(), true
	case model.TypeWeeklyPlanning:
		return notify.WeeklyPlanningEvent(), true
	case model.TypeDailyReflection:
		return notify.DailyReflectionEvent(), true
	case model.TypeTaskCompleted:
		return notify.TaskCompletedEvent("Sample task"), true
	case model.TypePhaseApproaching:
		return notify.PhaseApproachingEvent("Discovery", 3), true
	}
	return notify.Event{}, false
}

func parseIDParam(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	return strconv.ParseInt(idStr, 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
