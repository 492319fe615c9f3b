package docsync_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkframe/doccore/internal/capability"
	"github.com/inkframe/doccore/internal/docsync"
	"github.com/inkframe/doccore/internal/hashutil"
)

// fakeEmbedder returns a deterministic vector derived from the text's hash
// so embeddings are stable across calls without a real model.
type fakeEmbedder struct {
	calls int
	mu    sync.Mutex
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := f.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	f.calls += len(texts)
	f.mu.Unlock()
	out := make([][]float32, len(texts))
	for i, t := range texts {
		h := hashutil.HashHex(t)
		out[i] = []float32{float32(len(h)), float32(len(t))}
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int { return 2 }

// fakeStore is an in-memory capability.VectorStore.
type fakeStore struct {
	mu      sync.Mutex
	records []capability.ChunkRecord
}

func (s *fakeStore) Insert(ctx context.Context, records []capability.ChunkRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
	return nil
}

func (s *fakeStore) VectorSearch(ctx context.Context, query []float32, limit int) ([]capability.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]capability.SearchResult, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, capability.SearchResult{Record: r, Distance: 0})
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}

func (s *fakeStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records), nil
}

func TestSyncIfNeeded_UnchangedDocumentIsNoOp(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeStore{}
	mgr := docsync.NewManager(embedder, store)

	text := "A paragraph.\n\nAnother paragraph with more words in it."
	changed, err := mgr.SyncIfNeeded(context.Background(), text, docsync.DefaultOptions())
	require.NoError(t, err)
	assert.True(t, changed)
	firstCalls := embedder.calls

	changed, err = mgr.SyncIfNeeded(context.Background(), text, docsync.DefaultOptions())
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, firstCalls, embedder.calls, "unchanged document must not re-embed")
}

func TestSyncIfNeeded_AppendOnlyInsertsNewChunks(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeStore{}
	mgr := docsync.NewManager(embedder, store)

	// A small MaxChunkSize keeps each paragraph its own chunk, so the
	// second sync preserves text1's chunk hash and takes the append path
	// instead of merging both paragraphs into one chunk and triggering a
	// full resync.
	opts := docsync.DefaultOptions()
	opts.Chunk.MaxChunkSize = 30

	text1 := "First paragraph only."
	_, err := mgr.SyncIfNeeded(context.Background(), text1, opts)
	require.NoError(t, err)
	countAfterFirst, _ := store.Count(context.Background())
	callsAfterFirst := embedder.calls

	text2 := text1 + "\n\nSecond paragraph added on."
	changed, err := mgr.SyncIfNeeded(context.Background(), text2, opts)
	require.NoError(t, err)
	assert.True(t, changed)
	countAfterSecond, _ := store.Count(context.Background())
	assert.Greater(t, countAfterSecond, countAfterFirst)
	assert.Equal(t, countAfterFirst+1, countAfterSecond, "append must only insert the one new chunk, not resync everything")
	assert.Equal(t, callsAfterFirst+1, embedder.calls, "append must only embed the new chunk's text, not re-embed the whole document")
}

func TestSyncIfNeeded_DeletedChunkTriggersFullResync(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeStore{}
	mgr := docsync.NewManager(embedder, store)

	text1 := "Alpha paragraph.\n\nBravo paragraph."
	_, err := mgr.SyncIfNeeded(context.Background(), text1, docsync.DefaultOptions())
	require.NoError(t, err)

	text2 := "Charlie paragraph replaces everything."
	changed, err := mgr.SyncIfNeeded(context.Background(), text2, docsync.DefaultOptions())
	require.NoError(t, err)
	assert.True(t, changed)

	count, _ := store.Count(context.Background())
	assert.Equal(t, 1, count)
}

func TestQueryWithSync_EmbedsAndSearches(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeStore{}
	mgr := docsync.NewManager(embedder, store)

	result, err := mgr.QueryWithSync(context.Background(), "some document text here", "a question", docsync.DefaultOptions())
	require.NoError(t, err)
	assert.NotEmpty(t, result.Results)
	assert.NotNil(t, result.Hierarchy)
}

func TestReset_ClearsBookkeeping(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeStore{}
	mgr := docsync.NewManager(embedder, store)

	text := "Some content to sync once."
	_, err := mgr.SyncIfNeeded(context.Background(), text, docsync.DefaultOptions())
	require.NoError(t, err)

	require.NoError(t, mgr.Reset(context.Background()))
	count, _ := store.Count(context.Background())
	assert.Equal(t, 0, count)

	changed, err := mgr.SyncIfNeeded(context.Background(), text, docsync.DefaultOptions())
	require.NoError(t, err)
	assert.True(t, changed, "after Reset, the same document must be treated as new again")
}
