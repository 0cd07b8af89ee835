package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rfoley/lodestar/internal/notify"
)

type CelebrationHandler struct {
	celebrator *notify.Celebrator
}

func NewCelebrationHandler(c *notify.Celebrator) *CelebrationHandler {
	return &CelebrationHandler{celebrator: c}
}

type celebrateRequest struct {
	TaskTitle string `json:"task_title"`
}

// Celebrate handles POST /api/celebrations, fired by the UI the moment a
// task transitions to done.
func (h *CelebrationHandler) Celebrate(w http.ResponseWriter, r *http.Request) {
	var req celebrateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if strings.TrimSpace(req.TaskTitle) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "task_title is required"})
		return
	}

	h.celebrator.Celebrate(req.TaskTitle)
	w.WriteHeader(http.StatusAccepted)
}
