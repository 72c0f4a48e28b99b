package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mfigueira/aventuria/pkg/actor"
	"github.com/mfigueira/aventuria/pkg/game"
)

// ActionRequest is a direct inventory/equipment/trade command. The
// engine resolves these itself; the Oracle is not consulted.
type ActionRequest struct {
	Type        string     `json:"type"` // take, drop, give, equip, unequip, use, buy, sell
	CharacterID string     `json:"character_id"`
	TargetID    string     `json:"target_id,omitempty"`    // give
	ItemIndex   int        `json:"item_index"`             // drop, give, equip, use, sell
	GroundIndex int        `json:"ground_index"`           // take
	Slot        actor.Slot `json:"slot,omitempty"`         // unequip
	Merchant    string     `json:"merchant,omitempty"`     // buy, sell
	ItemName    string     `json:"item_name,omitempty"`    // buy
}

// ActionResponse pairs the command outcome with the updated session.
type ActionResponse struct {
	Result game.ActionResult `json:"result"`
	State  *game.GameState   `json:"state"`
}

func (h *SessionHandler) handleAction(w http.ResponseWriter, r *http.Request, gs *game.GameState) {
	if gs.Phase != game.PhaseNarrative {
		writeError(w, h.logger, http.StatusConflict, "session is not accepting actions")
		return
	}

	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	release, ok := h.lockSession(w, r, gs.ID)
	if !ok {
		return
	}
	defer release()

	// Reload under the lock so the command applies to the live snapshot.
	gs, ok = h.loadSession(w, r, gs.ID)
	if !ok {
		return
	}
	if gs.Phase != game.PhaseNarrative {
		writeError(w, h.logger, http.StatusConflict, "session is not accepting actions")
		return
	}

	var result game.ActionResult
	switch req.Type {
	case "take":
		result = gs.TakeItem(req.CharacterID, req.GroundIndex)
	case "drop":
		result = gs.DropItem(req.CharacterID, req.ItemIndex)
	case "give":
		result = gs.GiveItem(req.CharacterID, req.TargetID, req.ItemIndex)
	case "equip":
		result = gs.EquipItem(req.CharacterID, req.ItemIndex)
	case "unequip":
		result = gs.UnequipItem(req.CharacterID, req.Slot)
	case "use":
		result = gs.UseItem(req.CharacterID, req.ItemIndex, nil)
	case "buy":
		result = gs.BuyItem(req.CharacterID, req.Merchant, req.ItemName)
	case "sell":
		result = gs.SellItem(req.CharacterID, req.ItemIndex, req.Merchant)
	default:
		writeError(w, h.logger, http.StatusBadRequest, "unknown action type")
		return
	}

	if !h.save(w, r, gs) {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, ActionResponse{Result: result, State: gs})
}
