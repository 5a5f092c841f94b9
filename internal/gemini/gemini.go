package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// SetupClient creates a Gemini API client authenticated with an API key.
func SetupClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return client, nil
}

// GetConfig constrains the response to a JSON object so the analyzer can
// parse it deterministically instead of scraping free text.
func GetConfig() *genai.GenerateContentConfig {
	responseSchema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"description": {
				Type:        genai.TypeString,
				Description: "One or two sentences summarizing the visible content",
			},
			"label": {
				Type:        genai.TypeString,
				Description: "Short descriptive filename label, at most 8 words",
			},
		},
		Required: []string{"description", "label"},
	}
	return &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema,
	}
}

func GetPrompt() string {
	return `You are looking at a single screenshot. Do two things:

1. "description": describe the visible content in one or two sentences.
2. "label": propose a short, descriptive filename label (no extension) that
captures the most salient distinguishing details. For example, for a movie
showtimes screen include the title, rating, duration, content type, and
format tags. Use at most 8 words. Use only letters, digits, spaces and
hyphens.

Return a JSON object with exactly the fields "description" and "label".`
}
