// Package embedding provides the degrading gateway that the pipeline
// consumes. Provider failure yields zero vectors of the model's known
// dimensionality instead of an error, so indexing and search proceed
// with well-typed results rather than crashing a request.
package embedding

import (
	"context"

	"github.com/custodia-labs/askdocs/internal/core/ports/driven"
	"github.com/custodia-labs/askdocs/internal/logger"
)

// Ensure Gateway implements the interface.
var _ driven.EmbeddingService = (*Gateway)(nil)

// Gateway wraps a provider-backed embedding service with the
// degrade-not-fail policy.
type Gateway struct {
	provider driven.EmbeddingService
}

// NewGateway wraps the provider. The provider must already be
// constructed and validated; construction failure is a startup error
// that belongs to the caller, not to the gateway.
func NewGateway(provider driven.EmbeddingService) *Gateway {
	return &Gateway{provider: provider}
}

// Embed returns the provider's embedding, or a zero vector of the
// model's dimensionality when the provider fails.
func (g *Gateway) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := g.provider.Embed(ctx, text)
	if err != nil {
		logger.Warn("embedding provider failed, degrading to zero vector: %v", err)
		return make([]float32, g.provider.Dimensions()), nil
	}
	return vec, nil
}

// EmbedBatch returns the provider's embeddings, or zero vectors for
// every input when the provider fails.
func (g *Gateway) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vecs, err := g.provider.EmbedBatch(ctx, texts)
	if err != nil {
		logger.Warn("embedding provider failed, degrading to zero vectors for %d texts: %v", len(texts), err)
		dims := g.provider.Dimensions()
		vecs = make([][]float32, len(texts))
		for i := range vecs {
			vecs[i] = make([]float32, dims)
		}
		return vecs, nil
	}
	return vecs, nil
}

// Dimensions returns the underlying model's vector size.
func (g *Gateway) Dimensions() int {
	return g.provider.Dimensions()
}

// ModelName returns the underlying model name.
func (g *Gateway) ModelName() string {
	return g.provider.ModelName()
}

// Ping reports provider reachability. Not degraded: startup checks
// need the truth.
func (g *Gateway) Ping(ctx context.Context) error {
	return g.provider.Ping(ctx)
}

// Close releases the provider's resources.
func (g *Gateway) Close() error {
	return g.provider.Close()
}
