package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/memvault-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memvault-cli/internal/logger"
)

// DefaultTranscriptionModel is used when the config names none.
const DefaultTranscriptionModel = "whisper-1"

// maxAudioBytes is the Whisper API upload ceiling. Oversized audio yields an
// empty transcript, not an error - the rest of the pipeline carries on.
const maxAudioBytes = 25 << 20

// Ensure TranscriptionService implements the interface.
var _ driven.TranscriptionService = (*TranscriptionService)(nil)

// TranscriptionService transcribes audio via the Whisper API.
type TranscriptionService struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
	apiKey  string
	model   string
}

// NewTranscriptionService creates the transcription adapter.
func NewTranscriptionService(cfg Config) (*TranscriptionService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	cfg.normalize(DefaultTranscriptionModel)

	return &TranscriptionService{
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: newLimiter(cfg.RequestsPerMinute),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

type transcriptionResponse struct {
	apiError
	Text string `json:"text"`
}

// Transcribe returns the transcript of the audio file in the given language.
func (s *TranscriptionService) Transcribe(ctx context.Context, audioPath, language string) (string, error) {
	info, err := os.Stat(audioPath)
	if err != nil {
		return "", fmt.Errorf("stat audio: %w", err)
	}
	if info.Size() > maxAudioBytes {
		logger.Warn("Audio %s exceeds the %d MB upload ceiling, skipping transcription",
			audioPath, maxAudioBytes>>20)
		return "", nil
	}

	body, contentType, err := buildTranscriptionForm(audioPath, s.model, language)
	if err != nil {
		return "", err
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, s.baseURL+"/audio/transcriptions", body,
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var trResp transcriptionResponse
	if err := json.Unmarshal(respBody, &trResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if trResp.Error != nil {
		return "", fmt.Errorf("openai error: %s", trResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return strings.TrimSpace(trResp.Text), nil
}

// Close releases resources.
func (s *TranscriptionService) Close() error {
	return nil
}

// buildTranscriptionForm assembles the multipart upload body.
func buildTranscriptionForm(audioPath, model, language string) (io.Reader, string, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return nil, "", fmt.Errorf("opening audio: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("copying audio: %w", err)
	}

	if err := writer.WriteField("model", model); err != nil {
		return nil, "", fmt.Errorf("writing model field: %w", err)
	}
	if language != "" {
		if err := writer.WriteField("language", language); err != nil {
			return nil, "", fmt.Errorf("writing language field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("finalizing form: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}
