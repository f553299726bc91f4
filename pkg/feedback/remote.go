package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/scriptcell/scriptcell/pkg/domain"
)

// Remote talks to a remote model-listing chat API: it fetches the available
// model ids, picks one, then posts the exchange to the completions endpoint.
type Remote struct {
	baseURL    string
	credential string
	preferred  string
	client     *http.Client
}

// RemoteOption configures the remote backend.
type RemoteOption func(*Remote)

// WithPreferredModel sets the model id to use when the listing offers it.
func WithPreferredModel(id string) RemoteOption {
	return func(r *Remote) {
		r.preferred = id
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) RemoteOption {
	return func(r *Remote) {
		if client != nil {
			r.client = client
		}
	}
}

// NewRemote creates the remote backend. The credential may be empty; Submit
// then aborts before any network call with domain.ErrCredentialMissing.
func NewRemote(baseURL, credential string, opts ...RemoteOption) *Remote {
	r := &Remote{
		baseURL:    strings.TrimRight(baseURL, "/"),
		credential: credential,
		client:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name identifies the backend in logs and metrics.
func (r *Remote) Name() string {
	return "remote"
}

// Submit lists the available models, selects one and posts the exchange.
// The preferred model id wins when the listing offers it; otherwise the
// first listed id is used.
func (r *Remote) Submit(ctx context.Context, ex Exchange) (string, error) {
	if r.credential == "" {
		return "", domain.ErrCredentialMissing
	}

	model, err := r.selectModel(ctx)
	if err != nil {
		return "", err
	}

	payload := struct {
		Model    string    `json:"model"`
		Messages []Message `json:"messages"`
	}{Model: model, Messages: ex.Messages}

	var reply chatResponse
	if err := r.do(ctx, http.MethodPost, "/chat/completions", payload, &reply); err != nil {
		return "", err
	}
	return reply.content(r.Name())
}

func (r *Remote) selectModel(ctx context.Context) (string, error) {
	var listing struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := r.do(ctx, http.MethodGet, "/models", nil, &listing); err != nil {
		return "", err
	}
	if len(listing.Data) == 0 {
		return "", &ShapeError{Backend: r.Name(), Detail: "model listing is empty"}
	}

	for _, m := range listing.Data {
		if m.ID == r.preferred {
			return m.ID, nil
		}
	}
	return listing.Data[0].ID, nil
}

func (r *Remote) do(ctx context.Context, method, path string, payload, out any) error {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding %s request: %w", path, err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building %s request: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+r.credential)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("calling %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
