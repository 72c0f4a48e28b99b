package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/mfigueira/aventuria/pkg/actor"
	"github.com/mfigueira/aventuria/pkg/game"
	"github.com/mfigueira/aventuria/pkg/prompts"
)

// WorldRequest sets the world: either a theme for the Oracle to expand,
// or a fully manual WorldData.
type WorldRequest struct {
	Theme string          `json:"theme,omitempty"`
	World *game.WorldData `json:"world,omitempty"`
}

func (h *SessionHandler) handleWorld(w http.ResponseWriter, r *http.Request, gs *game.GameState) {
	if gs.Phase != game.PhaseSetup && gs.Phase != game.PhaseCharacterCreation {
		writeError(w, h.logger, http.StatusConflict, "world can only be set before the narrative starts")
		return
	}

	var req WorldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	switch {
	case req.World != nil:
		if req.World.Premise == "" {
			writeError(w, h.logger, http.StatusBadRequest, "manual world requires a premise")
			return
		}
		gs.World = req.World
	case req.Theme != "":
		world, err := h.oracle.GenerateWorld(r.Context(), prompts.WorldMessages(req.Theme))
		if err != nil {
			h.logger.Error("world generation failed", "session_id", gs.ID.String(), "error", err)
			writeError(w, h.logger, http.StatusBadGateway, "world generation failed")
			return
		}
		gs.World = world
	default:
		writeError(w, h.logger, http.StatusBadRequest, "either theme or world is required")
		return
	}

	gs.Phase = game.PhaseCharacterCreation
	if !h.save(w, r, gs) {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, gs)
}

func (h *SessionHandler) handleCharacters(w http.ResponseWriter, r *http.Request, gs *game.GameState) {
	if gs.Phase != game.PhaseCharacterCreation {
		writeError(w, h.logger, http.StatusConflict, "characters are added after the world, before the start")
		return
	}

	var draft game.CharacterDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := draft.Validate(); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}
	if gs.CharacterByName(draft.Name) != nil {
		writeError(w, h.logger, http.StatusConflict, fmt.Sprintf("character %q already exists", draft.Name))
		return
	}

	c, err := h.buildCharacter(r, gs, &draft)
	if err != nil {
		h.logger.Error("character generation failed", "session_id", gs.ID.String(), "error", err)
		writeError(w, h.logger, http.StatusBadGateway, "character generation failed")
		return
	}

	gs.Characters = append(gs.Characters, c)
	if !h.save(w, r, gs) {
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, c)
}

// buildCharacter turns a draft into a playable character. Pools derive
// from the attributes; a draft without flavor gets it from the Oracle.
func (h *SessionHandler) buildCharacter(r *http.Request, gs *game.GameState, draft *game.CharacterDraft) (*actor.Character, error) {
	c := &actor.Character{
		ID:          uuid.NewString(),
		Name:        draft.Name,
		Concept:     draft.Concept,
		Description: draft.Description,
		Skills:      draft.Skills,
		Attributes:  draft.Attributes,
		Items:       draft.StartingItems,
		Status:      []actor.StatusEffect{},
		Wealth:      draft.Wealth,
		SelectedDie: "d20",
	}
	pools := actor.DerivePools(draft.Attributes)
	c.Derived = pools
	c.MaxPools = pools

	if c.Description == "" {
		msgs, err := prompts.CharacterMessages(gs.World, draft.Name, draft.Concept)
		if err != nil {
			return nil, err
		}
		seed, err := h.oracle.GenerateCharacter(r.Context(), msgs)
		if err != nil {
			return nil, err
		}
		c.Description = seed.Description
		if len(c.Skills) == 0 {
			c.Skills = seed.Skills
		}
		if len(c.Items) == 0 {
			c.Items = seed.StartingItems
		}
	}
	if c.Items == nil {
		c.Items = []actor.Item{}
	}
	return c, nil
}

func (h *SessionHandler) handleStart(w http.ResponseWriter, r *http.Request, gs *game.GameState) {
	if gs.Phase != game.PhaseCharacterCreation {
		writeError(w, h.logger, http.StatusConflict, "start requires the character creation phase")
		return
	}
	if len(gs.Characters) == 0 {
		writeError(w, h.logger, http.StatusBadRequest, "at least one character is required")
		return
	}

	msgs, err := prompts.OpeningMessages(gs)
	if err != nil {
		writeError(w, h.logger, http.StatusInternalServerError, "failed to build opening prompt")
		return
	}
	scene, err := h.oracle.OpenScene(r.Context(), msgs)
	if err != nil {
		h.logger.Error("opening scene failed", "session_id", gs.ID.String(), "error", err)
		writeError(w, h.logger, http.StatusBadGateway, "opening scene generation failed")
		return
	}

	gs.Phase = game.PhaseNarrative
	gs.AppendLog(game.LogGM, scene.StoryText)
	if scene.ActiveEnemies != nil {
		gs.Enemies = scene.ActiveEnemies
	}
	if scene.ActiveAllies != nil {
		gs.Allies = scene.ActiveAllies
	}
	if scene.ActiveNeutrals != nil {
		gs.Neutrals = scene.ActiveNeutrals
	}
	if scene.MapData != nil {
		gs.Map = scene.MapData
	}
	if scene.TimeData != nil {
		gs.Time = scene.TimeData
	} else {
		gs.Time = &game.TimeData{DayCount: 1, Phase: game.PhaseDawn}
	}

	if !h.save(w, r, gs) {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, gs)
}
