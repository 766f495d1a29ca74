package zeroshot

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const llmPromptTemplate = `You are a zero-shot text classifier. Score the text below against every candidate label. The labels are mutually exclusive: scores must be between 0 and 1 and sum to 1 across all labels.

Candidate labels:
{{LABELS}}

Text:
{{TEXT}}

Return ONLY a JSON object of the form {"labels": [...], "scores": [...]} with every candidate label present, ordered by score descending.`

// LLMClassifier implements Classifier on top of an OpenAI-compatible chat
// completion API. It is the fallback oracle for deployments without an
// inference endpoint for the MNLI model.
type LLMClassifier struct {
	client interface {
		CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	}
	model string
}

// NewLLMClassifier creates a classifier using an OpenAI-compatible client.
func NewLLMClassifier(client interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}, model string) *LLMClassifier {
	return &LLMClassifier{client: client, model: model}
}

func (c *LLMClassifier) Classify(ctx context.Context, text string, candidateLabels []string) (Prediction, error) {
	if c.client == nil {
		return Prediction{}, fmt.Errorf("LLM classifier is not initialized with an OpenAI client")
	}

	prompt := llmPromptTemplate
	prompt = strings.ReplaceAll(prompt, "{{LABELS}}", strings.Join(candidateLabels, "\n"))
	prompt = strings.ReplaceAll(prompt, "{{TEXT}}", text)

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)
	if err != nil {
		return Prediction{}, fmt.Errorf("openai chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Prediction{}, fmt.Errorf("no choices returned from OpenAI")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)

	var parsed struct {
		Labels []string  `json:"labels"`
		Scores []float64 `json:"scores"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return Prediction{}, fmt.Errorf("failed to parse LLM response as JSON: %w\nResponse content: %s", err, content)
	}
	if len(parsed.Labels) != len(parsed.Scores) {
		return Prediction{}, fmt.Errorf("LLM response label/score length mismatch: %d vs %d",
			len(parsed.Labels), len(parsed.Scores))
	}

	pred := Prediction{Labels: parsed.Labels, Scores: parsed.Scores}
	sortByScore(&pred)
	return pred, nil
}

// sortByScore enforces descending score order. The MNLI pipeline guarantees
// it; an LLM sometimes does not.
func sortByScore(p *Prediction) {
	idx := make([]int, len(p.Labels))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return p.Scores[idx[a]] > p.Scores[idx[b]] })

	labels := make([]string, len(idx))
	scores := make([]float64, len(idx))
	for i, j := range idx {
		labels[i] = p.Labels[j]
		scores[i] = p.Scores[j]
	}
	p.Labels, p.Scores = labels, scores
}
