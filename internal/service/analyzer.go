package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/topherjaynes/Screenshot-Holmes/internal/config"
	"github.com/topherjaynes/Screenshot-Holmes/internal/gemini"
	"github.com/topherjaynes/Screenshot-Holmes/internal/model"
)

// Failure kinds the processor dispatches on. The analyzer itself never
// retries; retry policy belongs to the processor.
var (
	// ErrServiceUnavailable covers network errors, timeouts and server-side
	// failures. Retryable.
	ErrServiceUnavailable = errors.New("analysis service unavailable")
	// ErrServiceRejected covers malformed requests, e.g. an unsupported
	// image payload. Not retryable.
	ErrServiceRejected = errors.New("analysis service rejected the request")
	// ErrEmptyResponse means the service answered but produced no usable
	// text. The caller falls back to the generic label.
	ErrEmptyResponse = errors.New("analysis service returned no usable text")
)

// Analyzer turns image bytes into an Analysis. Implementations other than
// ImageAnalyzer exist only in tests.
type Analyzer interface {
	Analyze(ctx context.Context, data []byte, nameHint string) (model.Analysis, error)
}

// ImageAnalyzer sends one synchronous request per image to Gemini.
type ImageAnalyzer struct {
	client  *genai.Client
	model   string
	timeout time.Duration

	maxWords int
	maxLen   int
	fallback string
}

func NewImageAnalyzer(client *genai.Client, cfg *config.Config) *ImageAnalyzer {
	return &ImageAnalyzer{
		client:   client,
		model:    cfg.Model,
		timeout:  time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		maxWords: cfg.LabelMaxWords,
		maxLen:   cfg.LabelMaxLength,
		fallback: cfg.FallbackLabel,
	}
}

type analysisPayload struct {
	Description string `json:"description"`
	Label       string `json:"label"`
}

// Analyze issues the content-understanding request and derives the
// filesystem-safe label from the response.
func (a *ImageAnalyzer) Analyze(ctx context.Context, data []byte, nameHint string) (model.Analysis, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	prompt := gemini.GetPrompt()
	if nameHint != "" {
		prompt += fmt.Sprintf("\n\nThe file is currently named %q.", nameHint)
	}

	parts := []*genai.Part{
		{Text: prompt},
		{InlineData: &genai.Blob{Data: data, MIMEType: "image/png"}},
	}

	result, err := a.client.Models.GenerateContent(ctx, a.model, []*genai.Content{{Parts: parts}}, gemini.GetConfig())
	if err != nil {
		return model.Analysis{}, classifyServiceError(err)
	}

	text, err := result.Text()
	if err != nil || strings.TrimSpace(text) == "" {
		return model.Analysis{}, fmt.Errorf("%w: %v", ErrEmptyResponse, err)
	}

	var payload analysisPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		// Schema miss: keep the raw text as the description and derive the
		// label from it.
		payload = analysisPayload{Description: strings.TrimSpace(text)}
	}
	if payload.Description == "" && payload.Label == "" {
		return model.Analysis{}, ErrEmptyResponse
	}

	raw := payload.Label
	if raw == "" {
		raw = payload.Description
	}
	return model.Analysis{
		Description: strings.TrimSpace(payload.Description),
		Label:       SanitizeLabel(raw, a.maxWords, a.maxLen, a.fallback),
	}, nil
}

// classifyServiceError maps an SDK error onto the taxonomy. The SDK exposes
// the HTTP status only in the message text, so a 4xx is detected by string.
func classifyServiceError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	msg := err.Error()
	if strings.Contains(msg, "400") || strings.Contains(msg, "INVALID_ARGUMENT") {
		return fmt.Errorf("%w: %v", ErrServiceRejected, err)
	}
	return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
}

// SanitizeLabel is the pure post-processing step that makes a raw label safe
// to use as a filename: whitespace runs become single underscores, runes
// outside [A-Za-z0-9_-] are dropped, the result is capped at maxWords words
// and maxLen bytes, and fallback is returned when nothing survives.
func SanitizeLabel(raw string, maxWords, maxLen int, fallback string) string {
	fields := strings.Fields(raw)
	if len(fields) > maxWords {
		fields = fields[:maxWords]
	}

	words := make([]string, 0, len(fields))
	for _, f := range fields {
		var b strings.Builder
		for _, r := range f {
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
				b.WriteRune(r)
			}
		}
		if w := b.String(); w != "" {
			words = append(words, w)
		}
	}

	label := strings.Join(words, "_")
	if len(label) > maxLen {
		// Safe to slice bytes: the label is ASCII-only at this point.
		label = strings.TrimRight(label[:maxLen], "_-")
	}
	if label == "" {
		return fallback
	}
	return label
}
