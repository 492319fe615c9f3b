// Package docsync keeps a document's chunks mirrored into an external
// vector store. A document that only gained chunks has just the new ones
// embedded and inserted; the whole document is re-embedded only when a
// previously stored chunk is gone.
package docsync

import (
	"context"
	"sync"

	"github.com/inkframe/doccore/internal/apperr"
	"github.com/inkframe/doccore/internal/capability"
	"github.com/inkframe/doccore/internal/chunking"
	"github.com/inkframe/doccore/internal/hashutil"
	"github.com/inkframe/doccore/internal/hierarchy"
)

// Options bundles the chunk/hierarchy options and the query result limit a
// sync/query call should use.
type Options struct {
	Limit     int
	Chunk     chunking.Options
	Hierarchy hierarchy.Options
}

// DefaultOptions returns the core's documented defaults.
func DefaultOptions() Options {
	return Options{
		Limit:     10,
		Chunk:     chunking.DefaultOptions(),
		Hierarchy: hierarchy.DefaultOptions(),
	}
}

func (o Options) normalize() Options {
	if o.Limit <= 0 {
		o.Limit = 10
	}
	return o
}

// Manager is a DocSyncManager: it tracks the last document it synced by
// document hash, and by the per-chunk hash set, so a second call against an
// unchanged document is a no-op, a call that only adds chunks embeds and
// inserts just those, and a call where any stored chunk disappeared resets
// the store and re-embeds every chunk.
type Manager struct {
	mu sync.Mutex

	embedder capability.Embedder
	store    capability.VectorStore

	lastDocHash   string
	storedHashes  map[string]struct{}
	lastHierarchy *hierarchy.HierarchyMap
}

// NewManager builds a Manager around the given embedder and vector store.
func NewManager(embedder capability.Embedder, store capability.VectorStore) *Manager {
	return &Manager{
		embedder:     embedder,
		store:        store,
		storedHashes: make(map[string]struct{}),
	}
}

// SyncIfNeeded hashes text and, if it matches the document hash from the
// last successful sync, returns immediately without touching the vector
// store. Otherwise it re-extracts the hierarchy, re-chunks, diffs chunk
// hashes against what's currently stored, and either inserts only the new
// chunks or — if any previously-stored chunk disappeared — resets and
// re-inserts everything. It reports whether it actually wrote anything.
func (m *Manager) SyncIfNeeded(ctx context.Context, text string, opts Options) (bool, error) {
	opts = opts.normalize()

	m.mu.Lock()
	defer m.mu.Unlock()

	docHash := hashutil.HashHex(text)
	if docHash == m.lastDocHash {
		return false, nil
	}

	hier, err := hierarchy.ExtractHierarchy(ctx, text, m.embedder, opts.Hierarchy)
	if err != nil {
		return false, err
	}
	chunks, err := chunking.ChunkWithHierarchy(text, hier, opts.Chunk)
	if err != nil {
		return false, err
	}

	currentHashes := make(map[string]struct{}, len(chunks))
	var toInsert []chunking.Chunk
	for _, c := range chunks {
		currentHashes[c.Hash] = struct{}{}
		if _, ok := m.storedHashes[c.Hash]; !ok {
			toInsert = append(toInsert, c)
		}
	}
	var anyDeleted bool
	for h := range m.storedHashes {
		if _, ok := currentHashes[h]; !ok {
			anyDeleted = true
			break
		}
	}

	switch {
	case anyDeleted:
		if err := m.fullResync(ctx, chunks); err != nil {
			return false, err
		}
	case len(toInsert) > 0:
		if err := m.appendChunks(ctx, toInsert); err != nil {
			return false, err
		}
	default:
		m.lastDocHash = docHash
		m.lastHierarchy = hier
		return false, nil
	}

	m.storedHashes = currentHashes
	m.lastDocHash = docHash
	m.lastHierarchy = hier
	return true, nil
}

func (m *Manager) fullResync(ctx context.Context, chunks []chunking.Chunk) error {
	records, err := m.embedChunks(ctx, chunks)
	if err != nil {
		return err
	}
	if err := m.store.Reset(ctx); err != nil {
		return &apperr.VectorStoreError{Op: "fullResync.Reset", Err: err}
	}
	if err := m.store.Insert(ctx, records); err != nil {
		return &apperr.VectorStoreError{Op: "fullResync.Insert", Err: err}
	}
	return nil
}

func (m *Manager) appendChunks(ctx context.Context, chunks []chunking.Chunk) error {
	records, err := m.embedChunks(ctx, chunks)
	if err != nil {
		return err
	}
	if err := m.store.Insert(ctx, records); err != nil {
		return &apperr.VectorStoreError{Op: "appendChunks.Insert", Err: err}
	}
	return nil
}

func (m *Manager) embedChunks(ctx context.Context, chunks []chunking.Chunk) ([]capability.ChunkRecord, error) {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := m.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, &apperr.EmbedderError{Op: "embedChunks", Err: err}
	}
	records := make([]capability.ChunkRecord, len(chunks))
	for i, c := range chunks {
		records[i] = capability.ChunkRecord{
			Text:          c.Text,
			ChunkHash:     c.Hash,
			ChunkIndex:    c.Index,
			Start:         c.Start,
			End:           c.End,
			SectionTitle:  c.SectionTitle,
			SectionPath:   c.SectionPath,
			ContextPrefix: c.ContextPrefix,
			Vector:        vectors[i],
		}
	}
	return records, nil
}

// QueryResult carries a query's hits alongside the hierarchy that was in
// effect when the sync ran.
type QueryResult struct {
	Results   []capability.SearchResult
	Hierarchy *hierarchy.HierarchyMap
}

// QueryWithSync syncs text if needed, then embeds question and runs a
// vector search against the (now current) store.
func (m *Manager) QueryWithSync(ctx context.Context, text, question string, opts Options) (QueryResult, error) {
	opts = opts.normalize()

	if _, err := m.SyncIfNeeded(ctx, text, opts); err != nil {
		return QueryResult{}, err
	}

	qvec, err := m.embedder.Embed(ctx, question)
	if err != nil {
		return QueryResult{}, &apperr.EmbedderError{Op: "QueryWithSync.Embed", Err: err}
	}
	results, err := m.store.VectorSearch(ctx, qvec, opts.Limit)
	if err != nil {
		return QueryResult{}, &apperr.VectorStoreError{Op: "QueryWithSync.VectorSearch", Err: err}
	}

	m.mu.Lock()
	hier := m.lastHierarchy
	m.mu.Unlock()

	return QueryResult{Results: results, Hierarchy: hier}, nil
}

// Reset clears the vector store and the manager's own bookkeeping, so the
// next SyncIfNeeded behaves like the very first call.
func (m *Manager) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Reset(ctx); err != nil {
		return &apperr.VectorStoreError{Op: "Reset", Err: err}
	}
	m.storedHashes = make(map[string]struct{})
	m.lastDocHash = ""
	m.lastHierarchy = nil
	return nil
}
