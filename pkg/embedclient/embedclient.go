// Package embedclient models the embedding-provider HTTP clients spec.md
// §6 places out of core scope: the runtime only depends on the abstract
// Embedder interface. A thin "local" provider implementation is included
// since it's one HTTP call with no provider-specific auth; OpenAI/Gemini/
// Azure clients are named but not implemented, per spec.md §1.
package embedclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cuemby/helixdb/pkg/herrors"
)

// Embedder fetches a dense embedding vector for text. Implementations may
// suspend on an HTTP round trip; ctx governs cancellation and deadline.
type Embedder interface {
	FetchEmbedding(ctx context.Context, text string) ([]float64, error)
}

// Spec is a parsed `provider[:model[:task_type]]` embedding_model string,
// per spec.md §6.
type Spec struct {
	Provider string
	Model    string
	Task     string
}

// ParseSpec parses the colon-separated provider spec string from
// types.Config.EmbeddingModel.
func ParseSpec(s string) (Spec, error) {
	parts := strings.SplitN(s, ":", 3)
	spec := Spec{Provider: parts[0]}
	if len(parts) > 1 {
		spec.Model = parts[1]
	}
	if len(parts) > 2 {
		spec.Task = parts[2]
	}
	switch spec.Provider {
	case "openai", "azure_openai", "gemini", "local":
	default:
		return Spec{}, herrors.Newf(herrors.InvalidInput, "unknown embedding provider %q", spec.Provider)
	}
	return spec, nil
}

// LocalConfig configures the "local" provider, an embedder served by a
// self-hosted HTTP endpoint (e.g. a local inference server).
type LocalConfig struct {
	URL     string
	Timeout time.Duration
}

// LocalEmbedder calls a self-hosted embedding endpoint that accepts
// {"input": text} and returns {"embedding": [...]}.
type LocalEmbedder struct {
	cfg    LocalConfig
	client *http.Client
}

// NewLocalEmbedder builds an Embedder over cfg. cfg.URL is required, per
// spec.md §6 ("local requires a URL").
func NewLocalEmbedder(cfg LocalConfig) (*LocalEmbedder, error) {
	if cfg.URL == "" {
		return nil, herrors.New(herrors.InvalidInput, "local embedding provider requires a URL")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &LocalEmbedder{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}, nil
}

type localRequest struct {
	Input string `json:"input"`
}

type localResponse struct {
	Embedding []float64 `json:"embedding"`
}

// FetchEmbedding posts text to the configured endpoint and decodes the
// resulting vector.
func (e *LocalEmbedder) FetchEmbedding(ctx context.Context, text string) ([]float64, error) {
	payload, err := json.Marshal(localRequest{Input: text})
	if err != nil {
		return nil, herrors.Wrap(herrors.ExternalFailure, "encoding embedding request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, herrors.Wrap(herrors.ExternalFailure, "building embedding request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, herrors.Wrap(herrors.ExternalFailure, "calling embedding endpoint", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, herrors.Newf(herrors.ExternalFailure, "embedding endpoint returned %d: %s", resp.StatusCode, body)
	}

	var out localResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, herrors.Wrap(herrors.ExternalFailure, "decoding embedding response", err)
	}
	return out.Embedding, nil
}

// UnimplementedProvider builds the error for providers that spec.md §1
// explicitly places out of scope (the core owes only the Embedder
// contract, not a concrete client for every provider).
func UnimplementedProvider(provider string) error {
	return herrors.Newf(herrors.ExternalFailure, "embedding provider %q has no client in the core module; wire it at the host binary layer", provider)
}
