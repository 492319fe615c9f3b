package httpapi

import (
	"net/http"

	"github.com/inkframe/doccore/internal/apperr"
	"github.com/inkframe/doccore/internal/capability"
	"github.com/inkframe/doccore/internal/chunking"
	"github.com/inkframe/doccore/internal/hierarchy"
	"github.com/inkframe/doccore/internal/orchestrate"
)

// wireChunk is the camelCase wire shape for chunking.Chunk.
type wireChunk struct {
	Index         int    `json:"index"`
	Text          string `json:"text"`
	Start         int    `json:"start"`
	End           int    `json:"end"`
	Hash          string `json:"hash"`
	SectionTitle  string `json:"sectionTitle,omitempty"`
	SectionPath   string `json:"sectionPath,omitempty"`
	ContextPrefix string `json:"contextPrefix,omitempty"`
}

func toWireChunks(cs []chunking.Chunk) []wireChunk {
	out := make([]wireChunk, len(cs))
	for i, c := range cs {
		out[i] = wireChunk{
			Index: c.Index, Text: c.Text, Start: c.Start, End: c.End, Hash: c.Hash,
			SectionTitle: c.SectionTitle, SectionPath: c.SectionPath, ContextPrefix: c.ContextPrefix,
		}
	}
	return out
}

// wireHeadingNode is the camelCase wire shape for hierarchy.HeadingNode.
type wireHeadingNode struct {
	Level    int               `json:"level"`
	Title    string            `json:"title"`
	Start    int               `json:"start"`
	End      int               `json:"end"`
	Children []wireHeadingNode `json:"children"`
}

func toWireHeadings(nodes []*hierarchy.HeadingNode) []wireHeadingNode {
	out := make([]wireHeadingNode, len(nodes))
	for i, n := range nodes {
		out[i] = wireHeadingNode{
			Level: n.Level, Title: n.Title, Start: n.StartOffset, End: n.EndOffset,
			Children: toWireHeadings(n.Children),
		}
	}
	return out
}

// wireHierarchy is the camelCase wire shape for hierarchy.HierarchyMap.
type wireHierarchy struct {
	Headings         []wireHeadingNode          `json:"headings"`
	Strategy         string                     `json:"strategy"`
	Outline          string                     `json:"outline"`
	DocumentSummary  string                     `json:"documentSummary"`
	SectionSummaries []hierarchy.SectionSummary `json:"sectionSummaries"`
}

func toWireHierarchy(h *hierarchy.HierarchyMap) *wireHierarchy {
	if h == nil {
		return nil
	}
	return &wireHierarchy{
		Headings:         toWireHeadings(h.Headings),
		Strategy:         string(h.Strategy),
		Outline:          h.Outline,
		DocumentSummary:  h.DocumentSummary,
		SectionSummaries: h.SectionSummaries,
	}
}

// --- /analyze/chunk ---

type chunkRequest struct {
	Text         string `json:"text"`
	UseHierarchy bool   `json:"useHierarchy"`
	Options      *struct {
		MaxChunkSize int `json:"maxChunkSize"`
		Overlap      int `json:"overlap"`
	} `json:"options"`
}

type analysisResponse struct {
	TotalCharacters int            `json:"totalCharacters"`
	TotalWords      int            `json:"totalWords"`
	TotalParagraphs int            `json:"totalParagraphs"`
	Chunks          []wireChunk    `json:"chunks"`
	Hierarchy       *wireHierarchy `json:"hierarchy,omitempty"`
}

func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req chunkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, apperr.NewInputError("text", err))
		return
	}
	if err := requireText(req.Text, "text"); err != nil {
		writeError(w, err)
		return
	}

	chunkOpts := s.ChunkOpts
	if req.Options != nil {
		if req.Options.MaxChunkSize > 0 {
			chunkOpts.MaxChunkSize = req.Options.MaxChunkSize
		}
		if req.Options.Overlap > 0 {
			chunkOpts.Overlap = req.Options.Overlap
		}
	}

	stats := chunking.AnalyzeText(req.Text)
	resp := analysisResponse{
		TotalCharacters: stats.TotalCharacters,
		TotalWords:      stats.TotalWords,
		TotalParagraphs: stats.TotalParagraphs,
	}

	if req.UseHierarchy {
		result, err := chunking.AnalyzeDocument(ctx, req.Text, chunkOpts, s.HierOpts, s.Embedder)
		if err != nil {
			writeError(w, err)
			return
		}
		resp.Chunks = toWireChunks(result.Chunks)
		resp.Hierarchy = toWireHierarchy(result.Hierarchy)
	} else {
		chunks, err := chunking.ChunkText(req.Text, chunkOpts)
		if err != nil {
			writeError(w, err)
			return
		}
		resp.Chunks = toWireChunks(chunks)
	}

	writeJSON(w, http.StatusOK, resp)
}

// --- /analyze/stats ---

type statsRequest struct {
	Text string `json:"text"`
}

type statsResponse struct {
	TotalCharacters int `json:"totalCharacters"`
	TotalWords      int `json:"totalWords"`
	TotalParagraphs int `json:"totalParagraphs"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var req statsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, apperr.NewInputError("text", err))
		return
	}
	if err := requireText(req.Text, "text"); err != nil {
		writeError(w, err)
		return
	}
	stats := chunking.AnalyzeText(req.Text)
	writeJSON(w, http.StatusOK, statsResponse{
		TotalCharacters: stats.TotalCharacters,
		TotalWords:      stats.TotalWords,
		TotalParagraphs: stats.TotalParagraphs,
	})
}

// --- /analyze/query ---

type queryRequest struct {
	Text     string `json:"text"`
	Question string `json:"question"`
	Options  *struct {
		Limit int `json:"limit"`
	} `json:"options"`
}

type wireSearchResult struct {
	Record   capability.ChunkRecord `json:"record"`
	Distance float32                `json:"_distance"`
}

type queryResponse struct {
	Results   []wireSearchResult `json:"results"`
	Hierarchy *wireHierarchy     `json:"hierarchy"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req queryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, apperr.NewInputError("text", err))
		return
	}
	if err := requireText(req.Text, "text"); err != nil {
		writeError(w, err)
		return
	}
	if err := requireText(req.Question, "question"); err != nil {
		writeError(w, err)
		return
	}

	syncOpts := s.SyncOpts
	if req.Options != nil && req.Options.Limit > 0 {
		syncOpts.Limit = req.Options.Limit
	}

	result, err := s.Sync.QueryWithSync(ctx, req.Text, req.Question, syncOpts)
	if err != nil {
		writeError(w, err)
		return
	}

	wireResults := make([]wireSearchResult, len(result.Results))
	for i, res := range result.Results {
		wireResults[i] = wireSearchResult{Record: res.Record, Distance: res.Distance}
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Results:   wireResults,
		Hierarchy: toWireHierarchy(result.Hierarchy),
	})
}

// --- /analyze/hierarchy ---

type hierarchyRequest struct {
	Text    string `json:"text"`
	Options *struct {
		SimilarityThreshold float64 `json:"similarityThreshold"`
		MinSectionSize      int     `json:"minSectionSize"`
	} `json:"options"`
}

func (s *Server) handleHierarchy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req hierarchyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, apperr.NewInputError("text", err))
		return
	}
	if err := requireText(req.Text, "text"); err != nil {
		writeError(w, err)
		return
	}

	hierOpts := s.HierOpts
	if req.Options != nil {
		if req.Options.SimilarityThreshold > 0 {
			hierOpts.SimilarityThreshold = req.Options.SimilarityThreshold
		}
		if req.Options.MinSectionSize > 0 {
			hierOpts.MinSectionSize = req.Options.MinSectionSize
		}
	}

	hier, err := hierarchy.ExtractHierarchy(ctx, req.Text, s.Embedder, hierOpts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWireHierarchy(hier))
}

// --- /analyze/criticize, /analyze/suggest, /analyze/summarize ---

type textOnlyRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleCriticize(w http.ResponseWriter, r *http.Request) {
	var req textOnlyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, apperr.NewInputError("text", err))
		return
	}
	if err := requireText(req.Text, "text"); err != nil {
		writeError(w, err)
		return
	}
	items, err := orchestrate.Criticize(r.Context(), req.Text, s.Agent)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req textOnlyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, apperr.NewInputError("text", err))
		return
	}
	if err := requireText(req.Text, "text"); err != nil {
		writeError(w, err)
		return
	}
	items, err := orchestrate.SuggestChanges(r.Context(), req.Text, s.Agent)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type summarizeResponse struct {
	Summary string `json:"summary"`
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req textOnlyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, apperr.NewInputError("text", err))
		return
	}
	if err := requireText(req.Text, "text"); err != nil {
		writeError(w, err)
		return
	}
	summary, err := orchestrate.Summarize(r.Context(), req.Text, s.Agent)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summarizeResponse{Summary: summary})
}
