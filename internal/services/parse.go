package services

import (
	"encoding/json"
	"fmt"

	"github.com/mfigueira/aventuria/pkg/game"
)

// The parse helpers turn a raw model reply into a validated engine
// struct. They are shared by every provider so a backend swap never
// changes what the engine accepts.

func parseWorldData(content string) (*game.WorldData, error) {
	raw, err := extractJSON(content)
	if err != nil {
		return nil, fmt.Errorf("world response: %w", err)
	}
	var world game.WorldData
	if err := json.Unmarshal([]byte(raw), &world); err != nil {
		return nil, fmt.Errorf("failed to parse world response: %w", err)
	}
	if world.Premise == "" || world.MainObjective == "" {
		return nil, fmt.Errorf("world response missing premise or main objective")
	}
	if world.CurrencyName == "" {
		world.CurrencyName = "gold"
	}
	return &world, nil
}

func parseCharacterSeed(content string) (*game.CharacterSeed, error) {
	raw, err := extractJSON(content)
	if err != nil {
		return nil, fmt.Errorf("character response: %w", err)
	}
	var seed game.CharacterSeed
	if err := json.Unmarshal([]byte(raw), &seed); err != nil {
		return nil, fmt.Errorf("failed to parse character response: %w", err)
	}
	if seed.Description == "" {
		return nil, fmt.Errorf("character response missing description")
	}
	return &seed, nil
}

func parseOpeningScene(content string) (*game.OpeningScene, error) {
	raw, err := extractJSON(content)
	if err != nil {
		return nil, fmt.Errorf("opening scene: %w", err)
	}
	var scene game.OpeningScene
	if err := json.Unmarshal([]byte(raw), &scene); err != nil {
		return nil, fmt.Errorf("failed to parse opening scene: %w", err)
	}
	if err := scene.Validate(); err != nil {
		return nil, err
	}
	return &scene, nil
}

func parseTurnResponse(content string) (*game.TurnResponse, error) {
	raw, err := extractJSON(content)
	if err != nil {
		return nil, fmt.Errorf("turn response: %w", err)
	}
	var resp game.TurnResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse turn response: %w", err)
	}
	if err := resp.Validate(); err != nil {
		return nil, err
	}
	return &resp, nil
}
