package zeroshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
)

// HFClassifier calls the Hugging Face zero-shot inference API. The default
// model is facebook/bart-large-mnli.
type HFClassifier struct {
	httpClient *http.Client
	baseURL    string
	model      string
	token      string
	maxElapsed time.Duration
}

// NewHFClassifier creates a Hugging Face inference client. baseURL is the
// inference root (e.g. https://api-inference.huggingface.co); token may be
// empty for an unauthenticated endpoint such as a local TEI/inference server.
func NewHFClassifier(baseURL, model, token string, timeout time.Duration) *HFClassifier {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HFClassifier{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		model:      model,
		token:      token,
		maxElapsed: timeout,
	}
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	CandidateLabels []string `json:"candidate_labels"`
	MultiLabel      bool     `json:"multi_label"`
}

type hfResponse struct {
	Sequence string    `json:"sequence"`
	Labels   []string  `json:"labels"`
	Scores   []float64 `json:"scores"`
	Error    string    `json:"error"`
}

func (c *HFClassifier) Classify(ctx context.Context, text string, candidateLabels []string) (Prediction, error) {
	payload, err := json.Marshal(hfRequest{
		Inputs: text,
		Parameters: hfParameters{
			CandidateLabels: candidateLabels,
			MultiLabel:      false,
		},
	})
	if err != nil {
		return Prediction{}, fmt.Errorf("failed to encode inference request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s", c.baseURL, c.model)

	var parsed hfResponse
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err // network errors retry
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			// fall through to decode below
		case resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode >= 500:
			// 503 covers a cold model still loading; retry.
			log.WithFields(log.Fields{"status": resp.StatusCode, "model": c.model}).
				Warn("inference endpoint not ready, retrying")
			return fmt.Errorf("inference endpoint returned %d: %s", resp.StatusCode, string(body))
		default:
			return backoff.Permanent(fmt.Errorf("inference endpoint returned %d: %s", resp.StatusCode, string(body)))
		}

		if err := json.Unmarshal(body, &parsed); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode inference response: %w", err))
		}
		if parsed.Error != "" {
			return fmt.Errorf("inference error: %s", parsed.Error)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = c.maxElapsed
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return Prediction{}, err
	}

	if len(parsed.Labels) != len(parsed.Scores) {
		return Prediction{}, fmt.Errorf("inference response label/score length mismatch: %d vs %d",
			len(parsed.Labels), len(parsed.Scores))
	}
	return Prediction{Labels: parsed.Labels, Scores: parsed.Scores}, nil
}
