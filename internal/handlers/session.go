package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mfigueira/aventuria/internal/services"
	queueSvc "github.com/mfigueira/aventuria/internal/services/queue"
	"github.com/mfigueira/aventuria/internal/storage"
	"github.com/mfigueira/aventuria/internal/worker"
	"github.com/mfigueira/aventuria/pkg/game"
)

// SessionHandler serves everything under /v1/session.
//
// Routes:
//
//	POST   /v1/session                   create a session
//	GET    /v1/session/{id}              read a session snapshot
//	DELETE /v1/session/{id}              delete a session
//	POST   /v1/session/{id}/world        generate or set the world
//	POST   /v1/session/{id}/characters   add a character
//	POST   /v1/session/{id}/start        open the narrative
//	POST   /v1/session/{id}/turn         submit a turn (sync or async)
//	POST   /v1/session/{id}/action       inventory/equipment/trade command
//	POST   /v1/session/{id}/suggest      queue a GM suggestion
type SessionHandler struct {
	store       storage.Storage
	oracle      services.OracleService
	processor   *worker.TurnProcessor
	turnQueue   *queueSvc.TurnQueue
	suggestions *queueSvc.SuggestionQueue
	lock        *queueSvc.SessionLock
	logger      *slog.Logger
}

// NewSessionHandler wires the session routes.
func NewSessionHandler(
	store storage.Storage,
	oracle services.OracleService,
	processor *worker.TurnProcessor,
	turnQueue *queueSvc.TurnQueue,
	suggestions *queueSvc.SuggestionQueue,
	lock *queueSvc.SessionLock,
	logger *slog.Logger,
) *SessionHandler {
	return &SessionHandler{
		store:       store,
		oracle:      oracle,
		processor:   processor,
		turnQueue:   turnQueue,
		suggestions: suggestions,
		lock:        lock,
		logger:      logger,
	}
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/session"), "/")

	if path == "" {
		if r.Method != http.MethodPost {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.handleCreate(w, r)
		return
	}

	parts := strings.SplitN(path, "/", 2)
	sessionID, err := uuid.Parse(parts[0])
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid session ID")
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			h.handleRead(w, r, sessionID)
		case http.MethodDelete:
			h.handleDelete(w, r, sessionID)
		default:
			writeError(w, h.logger, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	gs, ok := h.loadSession(w, r, sessionID)
	if !ok {
		return
	}

	switch parts[1] {
	case "world":
		h.handleWorld(w, r, gs)
	case "characters":
		h.handleCharacters(w, r, gs)
	case "start":
		h.handleStart(w, r, gs)
	case "turn":
		h.handleTurn(w, r, gs)
	case "action":
		h.handleAction(w, r, gs)
	case "suggest":
		h.handleSuggest(w, r, gs)
	default:
		writeError(w, h.logger, http.StatusNotFound, "unknown session operation")
	}
}

// loadSession fetches a session or writes the 404 itself.
func (h *SessionHandler) loadSession(w http.ResponseWriter, r *http.Request, id uuid.UUID) (*game.GameState, bool) {
	gs, err := h.store.LoadSession(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to load session", "session_id", id.String(), "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "failed to load session")
		return nil, false
	}
	if gs == nil {
		writeError(w, h.logger, http.StatusNotFound, "session not found")
		return nil, false
	}
	return gs, true
}

// lockSession takes the cross-process session lock shared with the
// workers, so a synchronous mutation cannot race an in-flight async
// turn. Writes the 409 itself when the session is held elsewhere.
func (h *SessionHandler) lockSession(w http.ResponseWriter, r *http.Request, id uuid.UUID) (func(), bool) {
	if h.lock == nil {
		return func() {}, true
	}
	locked, err := h.lock.Acquire(r.Context(), id, "api")
	if err != nil {
		h.logger.Error("failed to acquire session lock", "session_id", id.String(), "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "failed to lock session")
		return nil, false
	}
	if !locked {
		writeError(w, h.logger, http.StatusConflict, "session is busy; try again shortly")
		return nil, false
	}
	return func() { h.lock.Release(r.Context(), id) }, true
}

// save persists a session or writes the 500 itself.
func (h *SessionHandler) save(w http.ResponseWriter, r *http.Request, gs *game.GameState) bool {
	if err := h.store.SaveSession(r.Context(), gs); err != nil {
		h.logger.Error("failed to save session", "session_id", gs.ID.String(), "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "failed to save session")
		return false
	}
	return true
}

// CreateSessionRequest selects the four mode toggles.
type CreateSessionRequest struct {
	Modes game.Modes `json:"modes"`
}

func (h *SessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	gs := game.NewGameState(req.Modes)
	if !h.save(w, r, gs) {
		return
	}

	h.logger.Info("session created", "session_id", gs.ID.String(),
		"karmic_dice", gs.Modes.KarmicDice, "permadeath", gs.Modes.Permadeath,
		"gm_assist", gs.Modes.GMAssist, "manual_dice", gs.Modes.ManualDice)
	writeJSON(w, h.logger, http.StatusCreated, gs)
}

func (h *SessionHandler) handleRead(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	gs, ok := h.loadSession(w, r, id)
	if !ok {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, gs)
}

func (h *SessionHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.store.DeleteSession(r.Context(), id); err != nil {
		h.logger.Error("failed to delete session", "session_id", id.String(), "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "failed to delete session")
		return
	}
	if h.suggestions != nil {
		if err := h.suggestions.Clear(r.Context(), id); err != nil {
			h.logger.Warn("failed to clear suggestions", "session_id", id.String(), "error", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
