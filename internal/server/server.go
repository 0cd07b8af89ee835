package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rfoley/lodestar/internal/handler"
	"github.com/rfoley/lodestar/internal/middleware"
	"github.com/rfoley/lodestar/internal/notify"
	"github.com/rfoley/lodestar/internal/push"
	"github.com/rfoley/lodestar/internal/store"
	ws "github.com/rfoley/lodestar/internal/websocket"
)

type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	notificationH *handler.NotificationHandler
	celebrationH  *handler.CelebrationHandler
	pushH         *handler.PushHandler
	scheduler     *notify.Scheduler
	logger        *slog.Logger
}

// New wires the stores, fanout sinks, scheduler, and handlers together.
// Push is optional: without VAPID keys the native sink is disabled and the
// push API routes are not registered, but everything else works unchanged.
func New(db *sql.DB, tasks notify.TaskSource, pushCfg push.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	notifStore := store.NewNotificationStore(db)
	prefStore := store.NewPreferenceStore(db)
	pushStore := store.NewPushStore(db)

	pushLogger := logger.With("component", "push")

	var pushSvc *push.Service
	var pushH *handler.PushHandler
	if pushCfg.VAPIDPublicKey != "" && pushCfg.VAPIDPrivateKey != "" {
		pushSvc = push.NewService(pushCfg.VAPIDPublicKey, pushCfg.VAPIDPrivateKey)
		pushH = handler.NewPushHandler(pushStore, pushSvc, pushLogger)
	}
	bridge := push.NewBridge(pushSvc, pushStore, pushLogger)

	notifier := notify.NewNotifier(notifStore, hub, bridge, logger.With("component", "notifier"))
	scheduler := notify.NewScheduler(tasks, prefStore, notifStore, notifier, logger.With("component", "scheduler"))
	celebrator := notify.NewCelebrator(prefStore, notifier, hub.Confetti, logger.With("component", "celebrate"))

	return &Server{
		db:            db,
		hub:           hub,
		notificationH: handler.NewNotificationHandler(notifStore, prefStore, notifier, scheduler, logger.With("component", "notification")),
		celebrationH:  handler.NewCelebrationHandler(celebrator),
		pushH:         pushH,
		scheduler:     scheduler,
		logger:        logger,
	}
}

// Scheduler returns the reminder scheduler so main can start and stop it
// with the process lifecycle.
func (s *Server) Scheduler() *notify.Scheduler {
	return s.scheduler
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/notifications", s.notificationH.List)
	mux.HandleFunc("POST /api/notifications/{id}/read", s.notificationH.MarkRead)
	mux.HandleFunc("POST /api/notifications/read-all", s.notificationH.MarkAllRead)
	mux.HandleFunc("DELETE /api/notifications/{id}", s.notificationH.Delete)
	mux.HandleFunc("DELETE /api/notifications", s.notificationH.Clear)
	mux.HandleFunc("POST /api/notifications/test", s.notificationH.Test)

	mux.HandleFunc("GET /api/preferences", s.notificationH.GetPreferences)
	mux.HandleFunc("PUT /api/preferences", s.notificationH.UpdatePreferences)

	mux.HandleFunc("GET /api/scheduler/status", s.notificationH.SchedulerStatus)

	mux.HandleFunc("POST /api/celebrations", s.celebrationH.Celebrate)

	if s.pushH != nil {
		mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
		mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.Unsubscribe)
		mux.HandleFunc("GET /api/push/subscriptions", s.pushH.ListSubscriptions)
		mux.HandleFunc("GET /api/push/vapid-key", s.pushH.GetVAPIDKey)
	}

	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))
	mux.HandleFunc("GET /healthz", s.healthHandler)

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
