package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mfigueira/aventuria/pkg/game"
	"github.com/mfigueira/aventuria/pkg/queue"
)

// TurnRequest submits the party's declared actions. With Async set the
// turn is queued for the worker and the call returns 202 immediately;
// the client polls the session for the resolved state.
type TurnRequest struct {
	Actions []game.TurnAction `json:"actions"`
	Async   bool              `json:"async,omitempty"`
}

func (h *SessionHandler) handleTurn(w http.ResponseWriter, r *http.Request, gs *game.GameState) {
	if gs.Phase != game.PhaseNarrative {
		writeError(w, h.logger, http.StatusConflict, "session is not accepting turns")
		return
	}

	var req TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Actions) == 0 {
		writeError(w, h.logger, http.StatusBadRequest, "at least one action is required")
		return
	}

	if req.Async {
		if h.turnQueue == nil {
			writeError(w, h.logger, http.StatusNotImplemented, "async turns are not enabled")
			return
		}
		job := queue.NewTurnJob(gs.ID, req.Actions)
		if err := h.turnQueue.Enqueue(r.Context(), job); err != nil {
			h.logger.Error("failed to enqueue turn", "session_id", gs.ID.String(), "error", err)
			writeError(w, h.logger, http.StatusInternalServerError, "failed to enqueue turn")
			return
		}
		writeJSON(w, h.logger, http.StatusAccepted, job)
		return
	}

	release, ok := h.lockSession(w, r, gs.ID)
	if !ok {
		return
	}
	defer release()

	// Reload under the lock; the pre-dispatch load was unguarded and a
	// worker may have finished a turn in between.
	gs, ok = h.loadSession(w, r, gs.ID)
	if !ok {
		return
	}
	if gs.Phase != game.PhaseNarrative {
		writeError(w, h.logger, http.StatusConflict, "session is not accepting turns")
		return
	}

	var suggestion string
	if gs.Modes.GMAssist && h.suggestions != nil {
		var err error
		suggestion, err = h.suggestions.Drain(r.Context(), gs.ID)
		if err != nil {
			h.logger.Warn("failed to drain suggestions", "session_id", gs.ID.String(), "error", err)
		}
	}

	result, turnErr := h.processor.ProcessTurn(r.Context(), gs, req.Actions, suggestion)
	// The retry notice written by a failed turn must survive, so the
	// session is saved on both paths.
	if !h.save(w, r, gs) {
		return
	}
	if turnErr != nil {
		writeError(w, h.logger, http.StatusBadGateway, "turn resolution failed; the session is unchanged")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, result)
}

// SuggestRequest queues a GM suggestion. With text it is the human GM's
// own direction; without, the Oracle is asked for one via the worker.
type SuggestRequest struct {
	Suggestion string `json:"suggestion,omitempty"`
}

func (h *SessionHandler) handleSuggest(w http.ResponseWriter, r *http.Request, gs *game.GameState) {
	if !gs.Modes.GMAssist {
		writeError(w, h.logger, http.StatusConflict, "session does not have gm-assist enabled")
		return
	}
	if h.suggestions == nil {
		writeError(w, h.logger, http.StatusNotImplemented, "suggestions are not enabled")
		return
	}

	var req SuggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Suggestion != "" {
		if err := h.suggestions.Enqueue(r.Context(), gs.ID, req.Suggestion); err != nil {
			writeError(w, h.logger, http.StatusInternalServerError, "failed to queue suggestion")
			return
		}
		writeJSON(w, h.logger, http.StatusAccepted, map[string]string{"status": "queued"})
		return
	}

	if h.turnQueue == nil {
		writeError(w, h.logger, http.StatusNotImplemented, "generated suggestions are not enabled")
		return
	}
	job := queue.NewSuggestionJob(gs.ID)
	if err := h.turnQueue.Enqueue(r.Context(), job); err != nil {
		writeError(w, h.logger, http.StatusInternalServerError, "failed to enqueue suggestion job")
		return
	}
	writeJSON(w, h.logger, http.StatusAccepted, job)
}
