// Package categorizer orchestrates candidate-label assembly, the
// classification oracle call and top-k truncation.
package categorizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	log "github.com/sirupsen/logrus"

	"categorization-service/internal/labels"
	"categorization-service/internal/models"
	"categorization-service/pkg/zeroshot"
)

// Request holds one categorization call. CandidateLabels replaces the
// built-in taxonomy when set; Category and Tags extend whichever set is in
// effect. TopK <= 0 falls back to the service default.
type Request struct {
	Text            string
	Tags            []string
	Category        string
	CandidateLabels []string
	TopK            int
}

// Service drives the classification oracle. It keeps no per-call state and
// is safe for concurrent use.
type Service struct {
	classifier    zeroshot.Classifier
	defaultTopK   int
	maxInputChars int
	tokenizer     *sentences.DefaultSentenceTokenizer
}

// New creates a categorizer around a classification oracle. maxInputChars
// bounds the text handed to the oracle; 0 disables truncation.
func New(classifier zeroshot.Classifier, defaultTopK, maxInputChars int) *Service {
	if defaultTopK <= 0 {
		defaultTopK = 10
	}
	// english.NewSentenceTokenizer(nil) loads the embedded English training
	// data; the error path is only reachable if that embedded asset is missing.
	tokenizer, _ := english.NewSentenceTokenizer(nil)
	return &Service{
		classifier:    classifier,
		defaultTopK:   defaultTopK,
		maxInputChars: maxInputChars,
		tokenizer:     tokenizer,
	}
}

// Categorize validates the text, resolves the candidate label set and returns
// the oracle's ranking truncated to top-k. Identical text always triggers a
// fresh oracle call; results are never cached.
func (s *Service) Categorize(ctx context.Context, req Request) ([]models.CategoryScore, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("input text cannot be empty: %w", models.ErrInvalidInput)
	}

	candidates := req.CandidateLabels
	if candidates == nil {
		candidates = labels.Default()
	}
	candidates = labels.Merge(candidates, req.Category, req.Tags)

	topK := req.TopK
	if topK <= 0 {
		topK = s.defaultTopK
	}

	text = s.truncate(text)

	pred, err := s.classifier.Classify(ctx, text, candidates)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrOracle, err)
	}

	n := len(pred.Labels)
	if m := len(pred.Scores); m < n {
		n = m
	}
	if topK < n {
		n = topK
	}

	result := make([]models.CategoryScore, n)
	for i := 0; i < n; i++ {
		result[i] = models.CategoryScore{Category: pred.Labels[i], Score: pred.Scores[i]}
	}
	return result, nil
}

// truncate cuts overlong transcripts on sentence boundaries so the oracle
// sees coherent text instead of a mid-word chop. Falls back to a hard rune
// cut when a single sentence exceeds the budget.
func (s *Service) truncate(text string) string {
	if s.maxInputChars <= 0 || len([]rune(text)) <= s.maxInputChars {
		return text
	}

	var sb strings.Builder
	for _, sent := range s.tokenizer.Tokenize(text) {
		chunk := strings.TrimSpace(sent.Text)
		if chunk == "" {
			continue
		}
		if sb.Len() > 0 && len([]rune(sb.String()))+len([]rune(chunk))+1 > s.maxInputChars {
			break
		}
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(chunk)
	}

	out := sb.String()
	if out == "" {
		runes := []rune(text)
		out = string(runes[:s.maxInputChars])
	} else if len([]rune(out)) > s.maxInputChars {
		runes := []rune(out)
		out = string(runes[:s.maxInputChars])
	}

	log.WithFields(log.Fields{"original_chars": len([]rune(text)), "truncated_chars": len([]rune(out))}).
		Debug("transcript truncated before classification")
	return out
}
