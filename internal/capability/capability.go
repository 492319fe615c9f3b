// Package capability holds the contracts the document-analysis core needs
// from the outside world: an embedding model, a vector store, and a chat
// model. Chunking, hierarchy, docsync and orchestrate each depend only on
// these interfaces, never on one another's concrete adapters, mirroring the
// teacher's adapters.VectorDB interface-first design.
package capability

import "context"

// Embedder turns text into a fixed-size vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}

// ChunkRecord is a chunk plus its vector, ready to persist.
type ChunkRecord struct {
	Text          string    `json:"text"`
	ChunkHash     string    `json:"chunkHash"`
	ChunkIndex    int       `json:"chunkIndex"`
	Start         int       `json:"start"`
	End           int       `json:"end"`
	SectionTitle  string    `json:"sectionTitle,omitempty"`
	SectionPath   string    `json:"sectionPath,omitempty"`
	ContextPrefix string    `json:"contextPrefix,omitempty"`
	Vector        []float32 `json:"vector,omitempty"`
}

// SearchResult is one hit from a vector search, with its distance to the
// query vector.
type SearchResult struct {
	Record   ChunkRecord
	Distance float32
}

// VectorStore persists chunk records and serves nearest-neighbor search
// over their vectors.
type VectorStore interface {
	Insert(ctx context.Context, records []ChunkRecord) error
	VectorSearch(ctx context.Context, query []float32, limit int) ([]SearchResult, error)
	Reset(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}

// Message is one turn in a chat completion request.
type Message struct {
	Role    string
	Content string
}

// GenerateOptions overrides per-call generation behavior; the zero value
// means "use the adapter's configured default".
type GenerateOptions struct {
	Model string
}

// Agent produces a single completion from a system prompt and a message
// history.
type Agent interface {
	Generate(ctx context.Context, systemPrompt string, messages []Message, opts GenerateOptions) (string, error)
}
