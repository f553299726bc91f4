package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// DefaultLocalEndpoint is where a local feedback server listens.
const DefaultLocalEndpoint = "http://127.0.0.1:5000/api/feedback"

// Local posts the exchange to a fixed local endpoint. No model selection and
// no credential are involved.
type Local struct {
	endpoint string
	client   *http.Client
}

// LocalOption configures the local backend.
type LocalOption func(*Local)

// WithEndpoint overrides the local endpoint URL.
func WithEndpoint(url string) LocalOption {
	return func(l *Local) {
		if url != "" {
			l.endpoint = url
		}
	}
}

// WithLocalHTTPClient replaces the HTTP client.
func WithLocalHTTPClient(client *http.Client) LocalOption {
	return func(l *Local) {
		if client != nil {
			l.client = client
		}
	}
}

// NewLocal creates the local backend.
func NewLocal(opts ...LocalOption) *Local {
	l := &Local{
		endpoint: DefaultLocalEndpoint,
		client:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name identifies the backend in logs and metrics.
func (l *Local) Name() string {
	return "local"
}

// Submit posts the exchange and returns the reply text.
func (l *Local) Submit(ctx context.Context, ex Exchange) (string, error) {
	raw, err := json.Marshal(ex)
	if err != nil {
		return "", fmt.Errorf("encoding feedback request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.endpoint, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("building feedback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling local feedback server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("local feedback server returned status %d", resp.StatusCode)
	}

	var reply chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return "", fmt.Errorf("decoding feedback response: %w", err)
	}
	return reply.content(l.Name())
}
