package zeroshot

import (
	"context"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock OpenAI Client ---
type mockOpenAIClient struct {
	mockResponse openai.ChatCompletionResponse
	mockError    error
	lastRequest  openai.ChatCompletionRequest
}

func (m *mockOpenAIClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.lastRequest = req
	if m.mockError != nil {
		return openai.ChatCompletionResponse{}, m.mockError
	}
	return m.mockResponse, nil
}

// --- End Mock OpenAI Client ---

func chatResponse(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func TestLLMClassifier_Classify_Parsing(t *testing.T) {
	mockClient := &mockOpenAIClient{
		mockResponse: chatResponse(`{"labels": ["Tecnologia", "Esports"], "scores": [0.9, 0.1]}`),
	}
	c := NewLLMClassifier(mockClient, "gpt-test")

	pred, err := c.Classify(context.Background(), "novidades de IA", []string{"Tecnologia", "Esports"})
	require.NoError(t, err, "Classify should not return an error for valid JSON")

	assert.Equal(t, []string{"Tecnologia", "Esports"}, pred.Labels)
	assert.Equal(t, []float64{0.9, 0.1}, pred.Scores)

	// Prompt must carry the text and every candidate label.
	prompt := mockClient.lastRequest.Messages[0].Content
	assert.Contains(t, prompt, "novidades de IA")
	assert.Contains(t, prompt, "Tecnologia")
	assert.Contains(t, prompt, "Esports")
}

func TestLLMClassifier_Classify_ReordersByScore(t *testing.T) {
	mockClient := &mockOpenAIClient{
		mockResponse: chatResponse(`{"labels": ["low", "high"], "scores": [0.2, 0.8]}`),
	}
	c := NewLLMClassifier(mockClient, "gpt-test")

	pred, err := c.Classify(context.Background(), "texto", []string{"low", "high"})
	require.NoError(t, err)
	assert.Equal(t, []string{"high", "low"}, pred.Labels)
	assert.Equal(t, []float64{0.8, 0.2}, pred.Scores)
}

func TestLLMClassifier_Classify_InvalidJSON(t *testing.T) {
	invalid := `This is just plain text, not JSON.`
	mockClient := &mockOpenAIClient{mockResponse: chatResponse(invalid)}
	c := NewLLMClassifier(mockClient, "gpt-test")

	_, err := c.Classify(context.Background(), "texto", []string{"a"})
	require.Error(t, err, "Classify should return an error for invalid JSON")
	assert.Contains(t, err.Error(), "failed to parse LLM response as JSON")
	assert.Contains(t, err.Error(), invalid, "Error message should include the raw invalid content")
}

func TestLLMClassifier_Classify_APIError(t *testing.T) {
	mockErr := errors.New("simulated API error 429 Too Many Requests")
	mockClient := &mockOpenAIClient{mockError: mockErr}
	c := NewLLMClassifier(mockClient, "gpt-test")

	_, err := c.Classify(context.Background(), "texto", []string{"a"})
	require.Error(t, err)
	assert.ErrorIs(t, err, mockErr, "Returned error should wrap the original API error")
	assert.Contains(t, err.Error(), "openai chat completion failed")
}

func TestLLMClassifier_Classify_EmptyResponse(t *testing.T) {
	mockClient := &mockOpenAIClient{
		mockResponse: openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{}},
	}
	c := NewLLMClassifier(mockClient, "gpt-test")

	_, err := c.Classify(context.Background(), "texto", []string{"a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices returned from OpenAI")
}

func TestLLMClassifier_Classify_LengthMismatch(t *testing.T) {
	mockClient := &mockOpenAIClient{
		mockResponse: chatResponse(`{"labels": ["a", "b"], "scores": [1.0]}`),
	}
	c := NewLLMClassifier(mockClient, "gpt-test")

	_, err := c.Classify(context.Background(), "texto", []string{"a", "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatch")
}
