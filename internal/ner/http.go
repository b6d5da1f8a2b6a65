package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HTTPRecognizer calls a model served over HTTP. The service accepts
// {"text": "..."} and answers {"entities": [{"text","label","pos"}]}.
type HTTPRecognizer struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

func NewHTTPRecognizer(endpoint string, timeout time.Duration, logger *zap.Logger) *HTTPRecognizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPRecognizer{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

func (r *HTTPRecognizer) Recognize(ctx context.Context, text string) ([]Entity, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("marshal ner request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build ner request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("NER service request failed", zap.String("endpoint", r.endpoint), zap.Error(err))
		return nil, fmt.Errorf("call ner service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.Error("NER service returned error", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("ner service error: %d", resp.StatusCode)
	}

	var result struct {
		Entities []Entity `json:"entities"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		r.logger.Error("Failed to decode NER response", zap.Error(err))
		return nil, fmt.Errorf("decode ner response: %w", err)
	}
	for i := range result.Entities {
		if result.Entities[i].POS == "" {
			result.Entities[i].POS = Unknown
		}
	}
	return result.Entities, nil
}
