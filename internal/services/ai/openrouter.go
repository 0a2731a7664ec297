package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/anyidea-app/anyidea/internal/config"
	"github.com/anyidea-app/anyidea/internal/logging"
	"github.com/anyidea-app/anyidea/internal/models"
)

const (
	defaultModel   = "moonshotai/kimi-k2:free"
	requestTimeout = 10 * time.Second
	maxTokens      = 1000
	temperature    = 0.7
)

var openRouterBaseURL = "https://openrouter.ai/api/v1"

type Service struct {
	apiKey string
	model  string
	client *http.Client
}

func NewService(cfg *config.Config) *Service {
	model := cfg.AI.Model
	if model == "" {
		model = defaultModel
	}
	return &Service{
		apiKey: cfg.AI.APIKey,
		model:  model,
		client: &http.Client{Timeout: requestTimeout},
	}
}

func (s *Service) Model() string { return s.model }

func (s *Service) IsConfigured() bool { return strings.TrimSpace(s.apiKey) != "" }

// OpenRouter chat completion request/response structs

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// aiPayload is the JSON object the prompt instructs the model to emit.
// Items stay raw so one malformed entry cannot sink the batch.
type aiPayload struct {
	Suggestions []json.RawMessage `json:"suggestions"`
	Reasoning   string            `json:"reasoning"`
}

type rawSuggestion struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	TimeRequired    float64  `json:"time_required"`
	Cost            float64  `json:"cost"`
	Difficulty      string   `json:"difficulty"`
	Instructions    []string `json:"instructions"`
	MaterialsNeeded []string `json:"materials_needed"`
}

// Suggest sends the prompt to OpenRouter and returns every well-formed
// suggestion from the reply. Malformed items are dropped individually; an
// error is returned only when the call fails outright or nothing usable
// remains.
func (s *Service) Suggest(ctx context.Context, prompt string) ([]models.Suggestion, *models.AIMetadata, error) {
	start := time.Now()
	if !s.IsConfigured() {
		return nil, nil, ErrAINotConfigured
	}

	jsonBody, err := json.Marshal(chatRequest{
		Model:       s.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to marshal request", ErrAIProviderUnavailable)
	}

	logging.Info("Sending request to OpenRouter", logging.Fields{
		"model":         s.model,
		"prompt_length": len(prompt),
	})

	resp, err := s.send(ctx, jsonBody)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrAIProviderUnavailable, err)
	}
	defer func() {
		// Drain and close the body to ensure connection reuse
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, nil, fmt.Errorf("%w: status %d", ErrRateLimitExceeded, resp.StatusCode)
		}

		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		logging.Error("OpenRouter non-200 response", logging.Fields{
			"status": resp.StatusCode,
			"body":   string(bodyBytes),
		})
		return nil, nil, fmt.Errorf("%w: status %d", ErrAIProviderUnavailable, resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, nil, fmt.Errorf("%w: failed to decode response", ErrAIProviderUnavailable)
	}

	if len(chatResp.Choices) == 0 {
		return nil, nil, fmt.Errorf("%w: empty choices", ErrMalformedReply)
	}

	content := chatResp.Choices[0].Message.Content
	logging.Debug("Received response from OpenRouter", logging.Fields{
		"response_length": len(content),
		"tokens_input":    chatResp.Usage.PromptTokens,
		"tokens_output":   chatResp.Usage.CompletionTokens,
	})

	payload, err := extractPayload(content)
	if err != nil {
		return nil, nil, err
	}

	suggestions := make([]models.Suggestion, 0, len(payload.Suggestions))
	dropped := 0
	for _, raw := range payload.Suggestions {
		suggestion, ok := parseSuggestion(raw, payload.Reasoning)
		if !ok {
			dropped++
			continue
		}
		suggestions = append(suggestions, suggestion)
	}
	if dropped > 0 {
		logging.Warn("Dropped malformed AI suggestions", logging.Fields{
			"dropped": dropped,
			"kept":    len(suggestions),
		})
	}
	if len(suggestions) == 0 {
		return nil, nil, ErrMalformedReply
	}

	modelUsed := chatResp.Model
	if modelUsed == "" {
		modelUsed = s.model
	}
	meta := &models.AIMetadata{
		ModelUsed:      modelUsed,
		Reasoning:      payload.Reasoning,
		ProcessingTime: time.Since(start).Seconds(),
	}

	return suggestions, meta, nil
}

// send posts the payload, retrying once on transport failure. HTTP error
// statuses are not retried.
func (s *Service) send(ctx context.Context, body []byte) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, openRouterBaseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
		req.Header.Set("HTTP-Referer", "https://anyidea.app")
		req.Header.Set("X-Title", "AnyIdea? Activity Suggestions")

		resp, err := s.client.Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

// extractPayload pulls the outermost JSON object out of the reply text.
// Models sometimes wrap the object in prose or markdown fences.
func extractPayload(content string) (*aiPayload, error) {
	startIdx := strings.Index(content, "{")
	endIdx := strings.LastIndex(content, "}")
	if startIdx == -1 || endIdx <= startIdx {
		return nil, fmt.Errorf("%w: no JSON object in reply", ErrMalformedReply)
	}

	var payload aiPayload
	if err := json.Unmarshal([]byte(content[startIdx:endIdx+1]), &payload); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedReply)
	}
	return &payload, nil
}

// parseSuggestion validates one reply item. Every field is treated as
// optional until proven present and sane.
func parseSuggestion(raw json.RawMessage, reasoning string) (models.Suggestion, bool) {
	var item rawSuggestion
	if err := json.Unmarshal(raw, &item); err != nil {
		return models.Suggestion{}, false
	}

	title := strings.TrimSpace(item.Title)
	if title == "" {
		return models.Suggestion{}, false
	}
	if item.TimeRequired <= 0 || item.Cost < 0 {
		return models.Suggestion{}, false
	}

	difficulty := item.Difficulty
	if !models.IsValidDifficulty(difficulty) {
		difficulty = "easy"
	}

	suggestion := models.Suggestion{
		Type:            models.TypeAIGenerated,
		Title:           title,
		Description:     strings.TrimSpace(item.Description),
		TimeRequired:    int(item.TimeRequired),
		Cost:            decimal.NewFromFloat(item.Cost),
		Difficulty:      difficulty,
		Instructions:    item.Instructions,
		MaterialsNeeded: item.MaterialsNeeded,
	}
	if reasoning != "" {
		suggestion.AIReasoning = &reasoning
	}
	return suggestion, true
}
