// Package embedclient is a concrete capability.Embedder backed by an
// OpenAI-compatible embeddings HTTP endpoint. It keeps the teacher's
// embedding client wire shapes (Request/Data/Response, the BGE/BCE/Qwen
// model catalogue) and layers the capability.Embedder contract on top.
package embedclient

import (
	"context"
	"fmt"

	"github.com/inkframe/doccore/internal/apperr"
	"github.com/inkframe/doccore/internal/clients/base"
	"github.com/inkframe/doccore/internal/config"
)

const serviceName = "embedding"

// Client is a concrete capability.Embedder.
type Client struct {
	httpClient *base.HTTPClient
	model      string
	dimensions int
}

// NewClient builds a Client for cfg, defaulting Dimensions() to the
// model's catalogued default when cfg.Model is recognized.
func NewClient(cfg config.ServiceConfig) *Client {
	return &Client{
		httpClient: base.NewHTTPClient(serviceName, cfg, base.DefaultTimeout),
		model:      cfg.Model,
		dimensions: GetDefaultDimensions(cfg.Model),
	}
}

// Request is an embeddings API request body.
type Request struct {
	Model          string      `json:"model"`
	Input          interface{} `json:"input"`
	EncodingFormat string      `json:"encoding_format,omitempty"`
}

// Data is one embedding result.
type Data struct {
	Object    string    `json:"object"`
	Embedding []float64 `json:"embedding"`
	Index     int       `json:"index"`
}

// Usage reports token accounting for an embeddings call.
type Usage struct {
	PromptTokens int `json:"prompt_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Response is the full embeddings API response.
type Response struct {
	Object string `json:"object"`
	Model  string `json:"model"`
	Data   []Data `json:"data"`
	Usage  Usage  `json:"usage"`
}

// Embed implements capability.Embedder.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, &apperr.EmbedderError{Op: "Embed", Err: fmt.Errorf("empty response for input")}
	}
	return vectors[0], nil
}

// EmbedBatch implements capability.Embedder.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	req := Request{Model: c.model, Input: texts, EncodingFormat: "float"}
	var resp Response
	if err := c.httpClient.Post(ctx, "/embeddings", req, &resp); err != nil {
		return nil, &apperr.EmbedderError{Op: "EmbedBatch", Err: err}
	}
	if len(resp.Data) != len(texts) {
		return nil, &apperr.EmbedderError{Op: "EmbedBatch", Err: fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))}
	}
	vectors := make([][]float32, len(resp.Data))
	for _, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float32(v)
		}
		vectors[d.Index] = vec
	}
	return vectors, nil
}

// Dimensions implements capability.Embedder.
func (c *Client) Dimensions() int {
	return c.dimensions
}

// Supported embedding models, organized by provider.
const (
	ModelBGELargeZhV15     = "BAAI/bge-large-zh-v1.5"
	ModelBGELargeEnV15     = "BAAI/bge-large-en-v1.5"
	ModelBGEM3             = "BAAI/bge-m3"
	ModelBCEEmbeddingBase  = "netease-youdao/bce-embedding-base_v1"
	ModelQwen3Embedding8B  = "Qwen/Qwen3-Embedding-8B"
	ModelQwen3Embedding4B  = "Qwen/Qwen3-Embedding-4B"
	ModelQwen3Embedding06B = "Qwen/Qwen3-Embedding-0.6B"
)

// GetDefaultDimensions returns the catalogued default embedding dimension
// for model, or a conservative fallback for anything unrecognized.
func GetDefaultDimensions(model string) int {
	switch model {
	case ModelQwen3Embedding8B:
		return 4096
	case ModelQwen3Embedding4B:
		return 2048
	case ModelQwen3Embedding06B:
		return 1024
	case ModelBGELargeZhV15, ModelBGELargeEnV15, ModelBGEM3:
		return 1024
	case ModelBCEEmbeddingBase:
		return 768
	default:
		return 1536
	}
}
