// Package zeroshot defines the classification oracle contract: score a text
// against a caller-supplied candidate label set without task-specific
// training.
package zeroshot

import "context"

// Prediction holds every candidate label re-ranked by confidence. Labels and
// Scores pair positionally; scores are descending and sum to 1 across all
// labels (single-label mode, labels mutually exclusive).
type Prediction struct {
	Labels []string
	Scores []float64
}

// Classifier scores a text against candidate labels. Implementations must be
// safe for repeated concurrent calls; they hold no per-call state.
type Classifier interface {
	Classify(ctx context.Context, text string, candidateLabels []string) (Prediction, error)
}
