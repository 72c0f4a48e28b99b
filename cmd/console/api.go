package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/mfigueira/aventuria/pkg/actor"
	"github.com/mfigueira/aventuria/pkg/game"
)

// ErrorResponse matches the API error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	return resp.StatusCode == http.StatusOK
}

// postJSON sends a request body and decodes the response into out,
// translating the API's error envelope into a Go error.
func postJSON(client *http.Client, url string, in any, wantStatus int, out any) error {
	var buf bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&buf).Encode(in); err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	resp, err := client.Post(url, "application/json", &buf)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil || errorResp.Error == "" {
			return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return fmt.Errorf("%s", errorResp.Error)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

func createSession(client *http.Client, baseURL string, modes game.Modes) (*game.GameState, error) {
	var gs game.GameState
	req := struct {
		Modes game.Modes `json:"modes"`
	}{Modes: modes}
	if err := postJSON(client, baseURL+"/v1/session", req, http.StatusCreated, &gs); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &gs, nil
}

func setWorld(client *http.Client, baseURL string, id uuid.UUID, theme string) (*game.GameState, error) {
	var gs game.GameState
	req := struct {
		Theme string `json:"theme"`
	}{Theme: theme}
	url := fmt.Sprintf("%s/v1/session/%s/world", baseURL, id)
	if err := postJSON(client, url, req, http.StatusOK, &gs); err != nil {
		return nil, fmt.Errorf("failed to set world: %w", err)
	}
	return &gs, nil
}

func addCharacter(client *http.Client, baseURL string, id uuid.UUID, draft game.CharacterDraft) (*actor.Character, error) {
	var c actor.Character
	url := fmt.Sprintf("%s/v1/session/%s/characters", baseURL, id)
	if err := postJSON(client, url, draft, http.StatusCreated, &c); err != nil {
		return nil, fmt.Errorf("failed to add character: %w", err)
	}
	return &c, nil
}

func startSession(client *http.Client, baseURL string, id uuid.UUID) (*game.GameState, error) {
	var gs game.GameState
	url := fmt.Sprintf("%s/v1/session/%s/start", baseURL, id)
	if err := postJSON(client, url, struct{}{}, http.StatusOK, &gs); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	return &gs, nil
}

func submitTurn(client *http.Client, baseURL string, id uuid.UUID, actions []game.TurnAction) (*game.TurnResult, error) {
	var result game.TurnResult
	req := struct {
		Actions []game.TurnAction `json:"actions"`
	}{Actions: actions}
	url := fmt.Sprintf("%s/v1/session/%s/turn", baseURL, id)
	if err := postJSON(client, url, req, http.StatusOK, &result); err != nil {
		return nil, fmt.Errorf("turn failed: %w", err)
	}
	return &result, nil
}

func getSession(client *http.Client, baseURL string, id uuid.UUID) (*game.GameState, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/session/%s", baseURL, id))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil || errorResp.Error == "" {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to get session: %s", errorResp.Error)
	}

	var gs game.GameState
	if err := json.Unmarshal(body, &gs); err != nil {
		return nil, fmt.Errorf("failed to parse session response: %w", err)
	}
	return &gs, nil
}

type actionRequest struct {
	Type        string `json:"type"`
	CharacterID string `json:"character_id"`
	ItemIndex   int    `json:"item_index"`
	GroundIndex int    `json:"ground_index"`
	Merchant    string `json:"merchant,omitempty"`
	ItemName    string `json:"item_name,omitempty"`
}

type actionResponse struct {
	Result game.ActionResult `json:"result"`
	State  *game.GameState   `json:"state"`
}

func doAction(client *http.Client, baseURL string, id uuid.UUID, req actionRequest) (*actionResponse, error) {
	var resp actionResponse
	url := fmt.Sprintf("%s/v1/session/%s/action", baseURL, id)
	if err := postJSON(client, url, req, http.StatusOK, &resp); err != nil {
		return nil, fmt.Errorf("action failed: %w", err)
	}
	return &resp, nil
}
