// Package worker resolves narrative turns: it rolls the dice, consults
// the Oracle, and reconciles the returned delta into the session.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mfigueira/aventuria/internal/services"
	"github.com/mfigueira/aventuria/pkg/dice"
	"github.com/mfigueira/aventuria/pkg/game"
	"github.com/mfigueira/aventuria/pkg/prompts"
)

// OracleUnavailableText is logged when a turn fails before its delta is
// applied. The session stays playable; the player simply retries.
const OracleUnavailableText = "The Oracle's voice falters. Nothing happens; try again."

// DefaultOracleTimeout bounds a single Oracle call during a turn.
const DefaultOracleTimeout = 60 * time.Second

// TurnProcessor resolves one turn at a time against a session.
type TurnProcessor struct {
	oracle        services.OracleService
	source        dice.Source
	logger        *slog.Logger
	historyLimit  int
	oracleTimeout time.Duration
}

// NewTurnProcessor creates a processor. A nil source selects the
// crypto-random default; tests inject deterministic sources.
func NewTurnProcessor(oracle services.OracleService, source dice.Source, logger *slog.Logger) *TurnProcessor {
	return &TurnProcessor{
		oracle:        oracle,
		source:        source,
		logger:        logger,
		historyLimit:  prompts.DefaultHistoryLimit,
		oracleTimeout: DefaultOracleTimeout,
	}
}

// WithHistoryLimit overrides the prompt log window.
func (p *TurnProcessor) WithHistoryLimit(limit int) *TurnProcessor {
	if limit > 0 {
		p.historyLimit = limit
	}
	return p
}

// WithOracleTimeout overrides the per-call Oracle deadline.
func (p *TurnProcessor) WithOracleTimeout(d time.Duration) *TurnProcessor {
	if d > 0 {
		p.oracleTimeout = d
	}
	return p
}

// ProcessTurn resolves a full turn. All mutation happens on a deep copy
// that replaces the session only after the Oracle's delta applies
// cleanly; a failed turn leaves the session untouched except for a
// single retryable notice in the log.
func (p *TurnProcessor) ProcessTurn(ctx context.Context, gs *game.GameState, actions []game.TurnAction, suggestion string) (*game.TurnResult, error) {
	if gs.Phase != game.PhaseNarrative {
		return nil, fmt.Errorf("session is in phase %s, not accepting turns", gs.Phase)
	}
	if len(actions) == 0 {
		return nil, fmt.Errorf("a turn requires at least one declared action")
	}
	for _, a := range actions {
		if gs.CharacterByID(a.CharacterID) == nil {
			return nil, fmt.Errorf("unknown character %q in declared actions", a.CharacterID)
		}
		if a.Action == "" {
			return nil, fmt.Errorf("empty action for character %q", a.CharacterID)
		}
	}

	cp, err := gs.DeepCopy()
	if err != nil {
		return nil, fmt.Errorf("failed to copy session: %w", err)
	}

	rolls, err := p.rollActions(cp, actions)
	if err != nil {
		return nil, err
	}

	msgs, err := prompts.New().
		WithGameState(cp).
		WithActions(actions).
		WithRolls(rolls).
		WithSuggestion(suggestion).
		WithHistoryLimit(p.historyLimit).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build turn prompt: %w", err)
	}

	oracleCtx, cancel := context.WithTimeout(ctx, p.oracleTimeout)
	defer cancel()

	resp, err := p.oracle.ResolveTurn(oracleCtx, msgs)
	if err != nil {
		gs.AppendLog(game.LogGM, OracleUnavailableText)
		p.logger.Error("oracle turn failed", "session_id", gs.ID.String(), "error", err)
		return nil, fmt.Errorf("oracle turn failed: %w", err)
	}

	if err := game.NewDeltaWorker(cp, resp, p.logger).Apply(); err != nil {
		gs.AppendLog(game.LogGM, OracleUnavailableText)
		p.logger.Error("delta application failed", "session_id", gs.ID.String(), "error", err)
		return nil, fmt.Errorf("delta application failed: %w", err)
	}

	cp.Turn++
	cp.AppendLog(game.LogGM, resp.StoryText)

	if resp.IsGameOver {
		cp.Phase = game.PhaseGameOver
		cp.Result = resp.GameResult
	} else if cp.Modes.Permadeath && cp.AllDead() {
		cp.Phase = game.PhaseGameOver
		cp.Result = game.ResultDefeat
		cp.AppendLog(game.LogSystem, "The party has fallen.")
	}

	*gs = *cp

	results := make([]dice.Result, 0, len(rolls))
	for _, a := range actions {
		if r, ok := rolls[a.CharacterID]; ok {
			results = append(results, r)
		}
	}

	return &game.TurnResult{
		StoryText: resp.StoryText,
		Rolls:     results,
		Ambience:  gs.Ambience(),
		GameOver:  gs.Phase == game.PhaseGameOver,
		Result:    gs.Result,
		State:     gs,
	}, nil
}

// rollActions produces this turn's dice results and writes the player
// and roll log entries. Manual-dice sessions pass player-entered values
// through unrolled; incapacitated characters do not roll at all.
func (p *TurnProcessor) rollActions(cp *game.GameState, actions []game.TurnAction) (map[string]dice.Result, error) {
	roller := dice.NewRoller(p.source, cp.Modes.KarmicDice)
	rolls := make(map[string]dice.Result, len(actions))

	for _, a := range actions {
		c := cp.CharacterByID(a.CharacterID)
		if !c.CanAct() {
			cp.AppendLog(game.LogPlayer, fmt.Sprintf("%s (incapacitated): %s", c.Name, a.Action))
			continue
		}
		cp.AppendLog(game.LogPlayer, fmt.Sprintf("%s: %s", c.Name, a.Action))

		die := dice.D20
		if c.SelectedDie != "" {
			parsed, err := dice.ParseDie(c.SelectedDie)
			if err != nil {
				return nil, fmt.Errorf("character %s: %w", c.Name, err)
			}
			die = parsed
		}

		var result dice.Result
		if cp.Modes.ManualDice {
			if a.Roll < 1 || a.Roll > int(die) {
				return nil, fmt.Errorf("manual roll %d out of range for %s", a.Roll, die)
			}
			result = dice.Result{
				Die:     die,
				Value:   a.Roll,
				Success: a.Roll > die.Threshold(),
				Entity:  c.ID,
			}
		} else {
			result = roller.Roll(die, c.ID, cp.KarmaStreaks)
		}
		rolls[c.ID] = result

		outcome := "failure"
		if result.Success {
			outcome = "success"
		}
		cp.AppendLog(game.LogRoll, fmt.Sprintf("%s rolls %d on %s (%s)", c.Name, result.Value, result.Die, outcome))
	}
	return rolls, nil
}
