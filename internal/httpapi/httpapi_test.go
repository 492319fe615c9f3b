package httpapi_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkframe/doccore/internal/capability"
	"github.com/inkframe/doccore/internal/chunking"
	"github.com/inkframe/doccore/internal/docsync"
	"github.com/inkframe/doccore/internal/hierarchy"
	"github.com/inkframe/doccore/internal/httpapi"
)

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1, 0.2}, nil
}

func (fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2}
	}
	return out, nil
}

func (fakeEmbedder) Dimensions() int { return 2 }

type fakeAgent struct{ response string }

func (a fakeAgent) Generate(ctx context.Context, systemPrompt string, messages []capability.Message, opts capability.GenerateOptions) (string, error) {
	return a.response, nil
}

type fakeStore struct{ records []capability.ChunkRecord }

func (s *fakeStore) Insert(ctx context.Context, records []capability.ChunkRecord) error {
	s.records = append(s.records, records...)
	return nil
}

func (s *fakeStore) VectorSearch(ctx context.Context, query []float32, limit int) ([]capability.SearchResult, error) {
	out := make([]capability.SearchResult, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, capability.SearchResult{Record: r})
	}
	return out, nil
}

func (s *fakeStore) Reset(ctx context.Context) error { s.records = nil; return nil }
func (s *fakeStore) Count(ctx context.Context) (int, error) {
	return len(s.records), nil
}

func newTestServer() *httpapi.Server {
	return &httpapi.Server{
		Embedder:  fakeEmbedder{},
		Agent:     fakeAgent{response: "[]"},
		Sync:      docsync.NewManager(fakeEmbedder{}, &fakeStore{}),
		ChunkOpts: chunking.DefaultOptions(),
		HierOpts:  hierarchy.DefaultOptions(),
		SyncOpts:  docsync.DefaultOptions(),
	}
}

func doRequest(t *testing.T, handler http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := sonic.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleStats_ValidText(t *testing.T) {
	handler := httpapi.NewRouter(newTestServer())
	rec := doRequest(t, handler, "/analyze/stats", map[string]string{"text": "one two three"})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))
	assert.EqualValues(t, 3, resp["totalWords"])
}

func TestHandleStats_MissingTextReturns400(t *testing.T) {
	handler := httpapi.NewRouter(newTestServer())
	rec := doRequest(t, handler, "/analyze/stats", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["error"])
}

func TestHandleChunk_WithoutHierarchy(t *testing.T) {
	handler := httpapi.NewRouter(newTestServer())
	rec := doRequest(t, handler, "/analyze/chunk", map[string]interface{}{
		"text": "A short paragraph of text to chunk.",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotNil(t, resp["chunks"])
	assert.Nil(t, resp["hierarchy"])
}

func TestHandleChunk_WithHierarchy(t *testing.T) {
	handler := httpapi.NewRouter(newTestServer())
	rec := doRequest(t, handler, "/analyze/chunk", map[string]interface{}{
		"text":         "# Title\n\nSome intro text.\n\n## Section\n\nSection body text here.",
		"useHierarchy": true,
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotNil(t, resp["hierarchy"])
}

func TestHandleHierarchy(t *testing.T) {
	handler := httpapi.NewRouter(newTestServer())
	rec := doRequest(t, handler, "/analyze/hierarchy", map[string]string{
		"text": "# Title\n\nBody text goes here.",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleQuery_MissingQuestionReturns400(t *testing.T) {
	handler := httpapi.NewRouter(newTestServer())
	rec := doRequest(t, handler, "/analyze/query", map[string]string{"text": "some document text"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleQuery_Valid(t *testing.T) {
	handler := httpapi.NewRouter(newTestServer())
	rec := doRequest(t, handler, "/analyze/query", map[string]string{
		"text":     "some document text to sync and search against",
		"question": "what is this about?",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleSummarize(t *testing.T) {
	server := newTestServer()
	server.Agent = fakeAgent{response: "a concise summary"}
	handler := httpapi.NewRouter(server)
	rec := doRequest(t, handler, "/analyze/summarize", map[string]string{"text": "short document to summarize."})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "a concise summary", resp["summary"])
}

func TestHandleCriticize_EmptyArrayResponse(t *testing.T) {
	handler := httpapi.NewRouter(newTestServer())
	rec := doRequest(t, handler, "/analyze/criticize", map[string]string{"text": "some text to criticize."})
	assert.Equal(t, http.StatusOK, rec.Code)

	var items []interface{}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &items))
	assert.Empty(t, items)
}

func TestCORSHeaders(t *testing.T) {
	handler := httpapi.NewRouter(newTestServer())
	rec := doRequest(t, handler, "/analyze/stats", map[string]string{"text": "hi"})
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
