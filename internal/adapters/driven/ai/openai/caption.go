package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/memvault-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memvault-cli/internal/logger"
)

// DefaultCaptionModel is used when the config names none.
const DefaultCaptionModel = "gpt-4o"

// captionPrompt asks for one description of the whole clip, not one per frame.
const captionPrompt = "These are frames sampled in order from a single short video. " +
	"Describe what happens in the video in two or three sentences. " +
	"Mention any visible text. Do not describe the frames individually."

// captionMaxTokens bounds the response length.
const captionMaxTokens = 300

// Ensure CaptionService implements the interface.
var _ driven.CaptionService = (*CaptionService)(nil)

// CaptionService describes sampled video frames via the OpenAI vision API.
type CaptionService struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
	apiKey  string
	model   string
}

// NewCaptionService creates the captioning adapter.
func NewCaptionService(cfg Config) (*CaptionService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	cfg.normalize(DefaultCaptionModel)

	return &CaptionService{
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: newLimiter(cfg.RequestsPerMinute),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// chat completion request/response subset for vision captioning.
type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail"`
}

type chatResponse struct {
	apiError
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Caption describes the ordered frames as one scene. When the multi-frame
// request fails, it retries once with the first frame alone - an oversized
// payload is the usual culprit and a single low-detail frame is cheap.
func (s *CaptionService) Caption(ctx context.Context, framePaths []string) (string, error) {
	if len(framePaths) == 0 {
		return "", fmt.Errorf("no frames to caption")
	}

	caption, err := s.captionFrames(ctx, framePaths)
	if err == nil || len(framePaths) == 1 {
		return caption, err
	}

	logger.Warn("Multi-frame caption failed (%v), retrying with first frame", err)
	return s.captionFrames(ctx, framePaths[:1])
}

func (s *CaptionService) captionFrames(ctx context.Context, framePaths []string) (string, error) {
	parts := []contentPart{{Type: "text", Text: captionPrompt}}
	for _, path := range framePaths {
		dataURL, err := encodeFrame(path)
		if err != nil {
			return "", err
		}
		parts = append(parts, contentPart{
			Type:     "image_url",
			ImageURL: &imageURL{URL: dataURL, Detail: "low"},
		})
	}

	reqBody := chatRequest{
		Model:     s.model,
		Messages:  []chatMessage{{Role: "user", Content: parts}},
		MaxTokens: captionMaxTokens,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("openai error: %s", chatResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai error (status %d): %s", resp.StatusCode, string(body))
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("openai: no caption returned")
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

// Close releases resources.
func (s *CaptionService) Close() error {
	return nil
}

// encodeFrame reads a frame file into a base64 data URL.
func encodeFrame(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading frame %s: %w", path, err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data), nil
}
