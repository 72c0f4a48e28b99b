// Package services holds the Oracle (LLM) providers, the Redis-backed
// session storage, and the job queues shared by the API and the worker.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/mfigueira/aventuria/pkg/chat"
	"github.com/mfigueira/aventuria/pkg/game"
)

// OracleService is the narrative backend. Every structured call parses
// and validates the model's reply before it reaches the engine; a reply
// that fails validation is an error, never a partial application.
type OracleService interface {
	// InitModel prepares the backing model on startup.
	InitModel(ctx context.Context, modelName string) error

	// GenerateWorld invents a campaign setting.
	GenerateWorld(ctx context.Context, messages []chat.Message) (*game.WorldData, error)

	// GenerateCharacter fleshes out a player's character concept.
	GenerateCharacter(ctx context.Context, messages []chat.Message) (*game.CharacterSeed, error)

	// OpenScene produces the opening narration and starting rosters.
	OpenScene(ctx context.Context, messages []chat.Message) (*game.OpeningScene, error)

	// ResolveTurn narrates a turn and returns the validated state delta.
	ResolveTurn(ctx context.Context, messages []chat.Message) (*game.TurnResponse, error)

	// Suggest returns a one-line GM-assist nudge as plain prose.
	Suggest(ctx context.Context, messages []chat.Message) (string, error)
}

// extractJSON salvages the outermost JSON object from a model reply
// that may wrap it in prose or a code fence.
func extractJSON(content string) (string, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("no JSON object in response")
	}
	return content[start : end+1], nil
}
