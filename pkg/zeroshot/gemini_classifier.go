package zeroshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// GeminiClassifier implements Classifier using the Google Gemini API with the
// same prompt contract as the OpenAI-backed classifier.
type GeminiClassifier struct {
	client *genai.Client
	model  string
}

// NewGeminiClassifier creates a Gemini-backed classifier. With no API key the
// provider comes back disabled (nil client) rather than failing startup.
func NewGeminiClassifier(ctx context.Context, apiKey, modelName string) (*GeminiClassifier, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY") // Fallback to env var
	}
	if apiKey == "" {
		log.Warn("Gemini API key not provided. Gemini classifier will be disabled.")
		return &GeminiClassifier{client: nil}, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	log.Infof("Gemini classifier initialized with model %s", modelName)
	return &GeminiClassifier{client: client, model: modelName}, nil
}

func (c *GeminiClassifier) Classify(ctx context.Context, text string, candidateLabels []string) (Prediction, error) {
	if c.client == nil {
		return Prediction{}, fmt.Errorf("Gemini classifier is not initialized (missing API key)")
	}

	prompt := llmPromptTemplate
	prompt = strings.ReplaceAll(prompt, "{{LABELS}}", strings.Join(candidateLabels, "\n"))
	prompt = strings.ReplaceAll(prompt, "{{TEXT}}", text)

	model := c.client.GenerativeModel(c.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return Prediction{}, fmt.Errorf("Gemini API error generating classification: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return Prediction{}, fmt.Errorf("Gemini API returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	content := strings.TrimSpace(sb.String())
	// Gemini tends to fence JSON in markdown even when told not to.
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var parsed struct {
		Labels []string  `json:"labels"`
		Scores []float64 `json:"scores"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return Prediction{}, fmt.Errorf("failed to parse Gemini response as JSON: %w\nResponse content: %s", err, content)
	}
	if len(parsed.Labels) != len(parsed.Scores) {
		return Prediction{}, fmt.Errorf("Gemini response label/score length mismatch: %d vs %d",
			len(parsed.Labels), len(parsed.Scores))
	}

	pred := Prediction{Labels: parsed.Labels, Scores: parsed.Scores}
	sortByScore(&pred)
	return pred, nil
}

// Close releases the underlying API client.
func (c *GeminiClassifier) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
