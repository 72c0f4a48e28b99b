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
	DefaultOpenAITemperature = 0.7
	DefaultOpenAIMaxTokens   = 4096
)

// OpenAIService implements OracleService against the OpenAI chat
// completions API. Any OpenAI-compatible endpoint works through the
// configurable base URL.
type OpenAIService struct {
	apiKey     string
	baseURL    string
	modelName  string
	httpClient *http.Client
	logger     *slog.Logger
}

type openAIRequest struct {
	Model       string         `json:"model"`
	Messages    []chat.Message `json:"messages"`
	MaxTokens   int            `json:"max_tokens,omitempty"`
	Temperature *float64       `json:"temperature,omitempty"`
}

type openAIResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message      chat.Message `json:"message"`
		FinishReason string       `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewOpenAIService creates an OpenAI-backed Oracle.
func NewOpenAIService(apiKey, baseURL, modelName string, logger *slog.Logger) *OpenAIService {
	return &OpenAIService{
		apiKey:    apiKey,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		modelName: modelName,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		logger: logger,
	}
}

var _ OracleService = (*OpenAIService)(nil)

func (o *OpenAIService) InitModel(ctx context.Context, modelName string) error {
	if modelName != "" {
		o.modelName = modelName
	}
	if o.modelName == "" {
		return fmt.Errorf("openai model name is required")
	}
	return nil
}

func (o *OpenAIService) chatCompletion(ctx context.Context, messages []chat.Message) (string, error) {
	temperature := DefaultOpenAITemperature
	body, err := json.Marshal(openAIRequest{
		Model:       o.modelName,
		Messages:    messages,
		MaxTokens:   DefaultOpenAIMaxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
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

	var parsed openAIResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("API error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty response from model")
	}

	o.logger.Debug("openai completion",
		"model", parsed.Model,
		"finish_reason", parsed.Choices[0].FinishReason,
		"prompt_tokens", parsed.Usage.PromptTokens,
		"completion_tokens", parsed.Usage.CompletionTokens)
	return parsed.Choices[0].Message.Content, nil
}

func (o *OpenAIService) GenerateWorld(ctx context.Context, messages []chat.Message) (*game.WorldData, error) {
	content, err := o.chatCompletion(ctx, messages)
	if err != nil {
		return nil, err
	}
	return parseWorldData(content)
}

func (o *OpenAIService) GenerateCharacter(ctx context.Context, messages []chat.Message) (*game.CharacterSeed, error) {
	content, err := o.chatCompletion(ctx, messages)
	if err != nil {
		return nil, err
	}
	return parseCharacterSeed(content)
}

func (o *OpenAIService) OpenScene(ctx context.Context, messages []chat.Message) (*game.OpeningScene, error) {
	content, err := o.chatCompletion(ctx, messages)
	if err != nil {
		return nil, err
	}
	return parseOpeningScene(content)
}

func (o *OpenAIService) ResolveTurn(ctx context.Context, messages []chat.Message) (*game.TurnResponse, error) {
	content, err := o.chatCompletion(ctx, messages)
	if err != nil {
		return nil, err
	}
	return parseTurnResponse(content)
}

func (o *OpenAIService) Suggest(ctx context.Context, messages []chat.Message) (string, error) {
	content, err := o.chatCompletion(ctx, messages)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}
