// Package server wires the stores, feeds, services, screens, and handlers
// into one HTTP surface.
package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ckapps/quicknote/internal/auth"
	"github.com/ckapps/quicknote/internal/backup"
	"github.com/ckapps/quicknote/internal/handler"
	"github.com/ckapps/quicknote/internal/image"
	"github.com/ckapps/quicknote/internal/live"
	"github.com/ckapps/quicknote/internal/middleware"
	"github.com/ckapps/quicknote/internal/push"
	"github.com/ckapps/quicknote/internal/reminder"
	"github.com/ckapps/quicknote/internal/screen"
	"github.com/ckapps/quicknote/internal/service"
	"github.com/ckapps/quicknote/internal/store"
	ws "github.com/ckapps/quicknote/internal/websocket"
)

// Config carries everything the server needs beyond the open database.
type Config struct {
	ImageDir string
	Push     push.Config
	Backup   backup.Config
}

type Server struct {
	db     *sql.DB
	hub    *ws.Hub
	logger *slog.Logger

	feeds     *live.Feeds
	reminders *reminder.Scheduler
	noteStore *store.NoteStore
	appLock   *auth.AppLock
	backupMgr *backup.Manager

	home    *screen.Home
	archive *screen.Archive
	search  *screen.Search

	noteH     *handler.NoteHandler
	folderH   *handler.FolderHandler
	settingsH *handler.SettingsHandler
	screenH   *handler.ScreenHandler
	lockH     *handler.LockHandler
	pushH     *handler.PushHandler
	imageH    *handler.ImageHandler
	backupH   *handler.BackupHandler

	rateLimiter *middleware.RateLimiter
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) (*Server, error) {
	hub := ws.NewHub(logger.With("component", "websocket"))

	noteStore := store.NewNoteStore(db)
	folderStore := store.NewFolderStore(db)
	settingsStore := store.NewSettingsStore(db)
	pushStore := store.NewPushStore(db)
	backupStore := store.NewBackupStore(db)

	feeds := live.NewFeeds(noteStore, folderStore, settingsStore, logger.With("component", "feeds"))

	var pushSvc *push.Service
	if cfg.Push.VAPIDPublicKey != "" && cfg.Push.VAPIDPrivateKey != "" {
		pushSvc = push.NewService(cfg.Push.VAPIDPublicKey, cfg.Push.VAPIDPrivateKey)
	}
	notifier := push.NewNotifier(pushSvc, pushStore, hub, logger.With("component", "push"))
	reminders := reminder.NewScheduler(notifier, logger.With("component", "reminder"))

	noteSvc := service.NewNoteService(noteStore, feeds, reminders, hub, logger.With("component", "note"))
	folderSvc := service.NewFolderService(folderStore, feeds, hub, logger.With("component", "folder"))

	home := screen.NewHome(noteSvc, settingsStore, feeds, hub, logger.With("screen", "home"))
	archive := screen.NewArchive(feeds, hub, logger.With("screen", "archive"))
	search := screen.NewSearch(feeds, hub, logger.With("screen", "search"))

	appLock := auth.NewAppLock(settingsStore)

	backupMgr := backup.NewManager(cfg.Backup, db, backupStore, func(s backup.Status) {
		hub.Broadcast(ws.Message{
			Type:   "backup_status",
			Entity: "backup",
			Action: string(s.State),
			Extra: map[string]any{
				"in_progress": s.InProgress,
				"error":       s.Error,
			},
		})
	}, logger.With("component", "backup"))

	images, err := image.NewStore(cfg.ImageDir)
	if err != nil {
		return nil, fmt.Errorf("image store: %w", err)
	}

	var pushH *handler.PushHandler
	if pushSvc != nil {
		pushH = handler.NewPushHandler(pushStore, pushSvc, logger.With("component", "push_handler"))
	}

	return &Server{
		db:          db,
		hub:         hub,
		logger:      logger,
		feeds:       feeds,
		reminders:   reminders,
		noteStore:   noteStore,
		appLock:     appLock,
		backupMgr:   backupMgr,
		home:        home,
		archive:     archive,
		search:      search,
		noteH:       handler.NewNoteHandler(noteSvc, logger.With("component", "note_handler")),
		folderH:     handler.NewFolderHandler(folderSvc, folderStore, logger.With("component", "folder_handler")),
		settingsH:   handler.NewSettingsHandler(settingsStore, feeds, logger.With("component", "settings_handler")),
		screenH:     handler.NewScreenHandler(home, archive, search, logger.With("component", "screen_handler")),
		lockH:       handler.NewLockHandler(appLock, feeds, logger.With("component", "lock_handler")),
		pushH:       pushH,
		imageH:      handler.NewImageHandler(images, logger.With("component", "image_handler")),
		backupH:     handler.NewBackupHandler(backupMgr, backupStore, logger.With("component", "backup_handler")),
		rateLimiter: middleware.NewRateLimiter(),
	}, nil
}

// Start primes the feeds, starts the screen reconcilers and the backup loop,
// and rearms persisted reminders.
func (s *Server) Start(ctx context.Context) error {
	s.feeds.Prime()

	s.home.Start(ctx)
	s.archive.Start(ctx)
	s.search.Start(ctx)

	notes, err := s.noteStore.ListWithReminders()
	if err != nil {
		return fmt.Errorf("load reminders: %w", err)
	}
	s.reminders.Rearm(notes)
	s.logger.Info("reminders rearmed", "count", s.reminders.Pending())

	s.backupMgr.Start(ctx)
	return nil
}

// Stop shuts down the background work in reverse order.
func (s *Server) Stop() {
	s.backupMgr.Stop()
	s.reminders.Stop()
	s.search.Stop()
	s.archive.Stop()
	s.home.Stop()
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Routes reachable while locked
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.HandleFunc("GET /api/lock", s.lockH.Status)
	outerMux.HandleFunc("POST /api/lock/unlock", s.rateLimitedHandler(s.lockH.Unlock))

	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)
	outerMux.Handle("/", s.appLock.Require(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// rateLimitedHandler guards passcode attempts against brute force.
func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// Lock management
	mux.HandleFunc("POST /api/lock", s.lockH.Enable)
	mux.HandleFunc("DELETE /api/lock", s.lockH.Disable)
	mux.HandleFunc("POST /api/lock/relock", s.lockH.Relock)

	// Notes
	mux.HandleFunc("POST /api/notes", s.noteH.Save)
	mux.HandleFunc("GET /api/notes/{id}", s.noteH.Get)
	mux.HandleFunc("PUT /api/notes/{id}", s.noteH.Save)
	mux.HandleFunc("DELETE /api/notes/{id}", s.noteH.Delete)
	mux.HandleFunc("POST /api/notes/{id}/pin", s.noteH.TogglePin)
	mux.HandleFunc("POST /api/notes/{id}/archive", s.noteH.ToggleArchive)

	// Folders
	mux.HandleFunc("GET /api/folders", s.folderH.List)
	mux.HandleFunc("POST /api/folders", s.folderH.Create)
	mux.HandleFunc("PUT /api/folders/{id}", s.folderH.Rename)
	mux.HandleFunc("DELETE /api/folders/{id}", s.folderH.Delete)

	// Settings
	mux.HandleFunc("GET /api/settings", s.settingsH.GetAll)
	mux.HandleFunc("PUT /api/settings/theme", s.settingsH.UpdateTheme)

	// Screen state and events
	mux.HandleFunc("GET /api/screens/home", s.screenH.HomeState)
	mux.HandleFunc("POST /api/screens/home/folder", s.screenH.SelectFolder)
	mux.HandleFunc("POST /api/screens/home/sort", s.screenH.SetSortOrder)
	mux.HandleFunc("POST /api/screens/home/view", s.screenH.ToggleView)
	mux.HandleFunc("DELETE /api/screens/home/notes/{id}", s.screenH.DeleteNote)
	mux.HandleFunc("POST /api/screens/home/restore", s.screenH.RestoreNote)
	mux.HandleFunc("GET /api/screens/archive", s.screenH.ArchiveState)
	mux.HandleFunc("GET /api/screens/search", s.screenH.SearchState)
	mux.HandleFunc("POST /api/screens/search/query", s.screenH.SetQuery)
	mux.HandleFunc("POST /api/screens/search/pinned", s.screenH.TogglePinnedFilter)
	mux.HandleFunc("POST /api/screens/search/image", s.screenH.ToggleImageFilter)

	// Images
	mux.HandleFunc("POST /api/images", s.imageH.Upload)
	mux.HandleFunc("GET /api/images/{name}", s.imageH.Serve)
	mux.HandleFunc("DELETE /api/images/{name}", s.imageH.Delete)

	// Backups
	mux.HandleFunc("GET /api/backups", s.backupH.History)
	mux.HandleFunc("GET /api/backups/status", s.backupH.Status)
	mux.HandleFunc("POST /api/backups", s.backupH.BackupNow)
	mux.HandleFunc("POST /api/backups/{id}/restore", s.backupH.Restore)

	// Push notifications
	if s.pushH != nil {
		mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
		mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.Unsubscribe)
		mux.HandleFunc("GET /api/push/subscriptions", s.pushH.ListSubscriptions)
		mux.HandleFunc("GET /api/push/vapid-key", s.pushH.GetVAPIDKey)
	}

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "ws_handler")))
}
