// Package openai implements the EmbeddingService port against the
// OpenAI embeddings API.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// DefaultModel is the embedding model used when none is configured.
const DefaultModel = "text-embedding-3-small"

// defaultTimeout bounds a single embeddings request.
const defaultTimeout = 60 * time.Second

// modelDimensions maps known models to their native vector size.
var modelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// Config holds OpenAI embedding service settings.
type Config struct {
	// APIKey authenticates against the API. Required.
	APIKey string
	// BaseURL overrides the API endpoint, for proxies and
	// API-compatible providers. Optional.
	BaseURL string
	// Model is the embedding model name. Defaults to DefaultModel.
	Model string
	// Timeout bounds a single request. Zero means the default.
	Timeout time.Duration
}

// Service is the OpenAI-backed embedding service.
type Service struct {
	client     *openai.Client
	model      string
	dimensions int
}

// NewService creates the service from config.
func NewService(cfg Config) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set", domain.ErrEmbeddingUnavailable)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	dimensions, ok := modelDimensions[model]
	if !ok {
		logger.Warn("unknown embedding model %q, dimensions unavailable until first request", model)
	}

	return &Service{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      model,
		dimensions: dimensions,
	}, nil
}

var _ driven.EmbeddingService = (*Service)(nil)

// EmbedBatch embeds a batch of texts in one API request. Vectors are
// returned in input order regardless of response ordering.
func (s *Service) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: openai.EmbeddingModel(s.model),
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("create embeddings: got %d vectors for %d texts", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(texts) {
			return nil, fmt.Errorf("create embeddings: index %d out of range", item.Index)
		}
		vectors[item.Index] = item.Embedding
	}
	for i, v := range vectors {
		if v == nil {
			return nil, fmt.Errorf("create embeddings: missing vector for input %d", i)
		}
	}

	if s.dimensions == 0 && len(vectors) > 0 {
		s.dimensions = len(vectors[0])
	}
	return vectors, nil
}

// Dimensions returns the model's vector size.
func (s *Service) Dimensions() int {
	return s.dimensions
}

// ModelName returns the configured model identifier.
func (s *Service) ModelName() string {
	return s.model
}

// Ping verifies the API key by listing models.
func (s *Service) Ping(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}
	return nil
}

// Close releases resources. The HTTP client holds none.
func (s *Service) Close() error {
	return nil
}
