package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mfigueira/aventuria/pkg/chat"
	"github.com/mfigueira/aventuria/pkg/game"
)

const (
	anthropicBaseURL = "https://api.anthropic.com/v1"
	anthropicVersion = "2023-06-01"

	DefaultAnthropicTemperature = 0.7
	DefaultAnthropicMaxTokens   = 4096
)

// AnthropicService implements OracleService against the Anthropic API.
type AnthropicService struct {
	apiKey     string
	modelName  string
	httpClient *http.Client
	logger     *slog.Logger
}

type anthropicRequest struct {
	Model       string         `json:"model"`
	MaxTokens   int            `json:"max_tokens"`
	Temperature *float64       `json:"temperature,omitempty"`
	Messages    []chat.Message `json:"messages"`
	System      string         `json:"system,omitempty"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicResponse struct {
	ID         string                  `json:"id"`
	Content    []anthropicContentBlock `json:"content"`
	Model      string                  `json:"model"`
	StopReason string                  `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewAnthropicService creates an Anthropic-backed Oracle.
func NewAnthropicService(apiKey, modelName string, logger *slog.Logger) *AnthropicService {
	return &AnthropicService{
		apiKey:    apiKey,
		modelName: modelName,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		logger: logger,
	}
}

var _ OracleService = (*AnthropicService)(nil)

func (a *AnthropicService) InitModel(ctx context.Context, modelName string) error {
	if modelName != "" {
		a.modelName = modelName
	}
	if a.modelName == "" {
		return fmt.Errorf("anthropic model name is required")
	}
	return nil
}

// splitMessages folds the system messages into one system prompt, as
// the Anthropic API takes them outside the message array.
func splitMessages(messages []chat.Message) (string, []chat.Message) {
	var systemParts []string
	var conversation []chat.Message
	for _, msg := range messages {
		if msg.Role == chat.RoleSystem {
			systemParts = append(systemParts, msg.Content)
		} else {
			conversation = append(conversation, msg)
		}
	}
	return strings.Join(systemParts, "\n\n"), conversation
}

func (a *AnthropicService) chatCompletion(ctx context.Context, messages []chat.Message) (string, error) {
	system, conversation := splitMessages(messages)
	if len(conversation) == 0 {
		conversation = []chat.Message{{Role: chat.RoleUser, Content: "Begin."}}
	}

	temperature := DefaultAnthropicTemperature
	body, err := json.Marshal(anthropicRequest{
		Model:       a.modelName,
		MaxTokens:   DefaultAnthropicMaxTokens,
		Temperature: &temperature,
		Messages:    conversation,
		System:      system,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicBaseURL+"/messages", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("API error: %s", parsed.Error.Message)
	}

	var text string
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}

	a.logger.Debug("anthropic completion",
		"model", parsed.Model,
		"stop_reason", parsed.StopReason,
		"input_tokens", parsed.Usage.InputTokens,
		"output_tokens", parsed.Usage.OutputTokens)
	return text, nil
}

func (a *AnthropicService) GenerateWorld(ctx context.Context, messages []chat.Message) (*game.WorldData, error) {
	content, err := a.chatCompletion(ctx, messages)
	if err != nil {
		return nil, err
	}
	return parseWorldData(content)
}

func (a *AnthropicService) GenerateCharacter(ctx context.Context, messages []chat.Message) (*game.CharacterSeed, error) {
	content, err := a.chatCompletion(ctx, messages)
	if err != nil {
		return nil, err
	}
	return parseCharacterSeed(content)
}

func (a *AnthropicService) OpenScene(ctx context.Context, messages []chat.Message) (*game.OpeningScene, error) {
	content, err := a.chatCompletion(ctx, messages)
	if err != nil {
		return nil, err
	}
	return parseOpeningScene(content)
}

func (a *AnthropicService) ResolveTurn(ctx context.Context, messages []chat.Message) (*game.TurnResponse, error) {
	content, err := a.chatCompletion(ctx, messages)
	if err != nil {
		return nil, err
	}
	return parseTurnResponse(content)
}

func (a *AnthropicService) Suggest(ctx context.Context, messages []chat.Message) (string, error) {
	content, err := a.chatCompletion(ctx, messages)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}
