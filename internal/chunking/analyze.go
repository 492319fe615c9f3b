package chunking

import (
	"context"
	"strings"

	"github.com/inkframe/doccore/internal/capability"
	"github.com/inkframe/doccore/internal/hierarchy"
	"github.com/inkframe/doccore/internal/textseg"
)

// TextStats are the document-level counters AnalyzeText/AnalyzeDocument
// report alongside chunks.
type TextStats struct {
	TotalCharacters int
	TotalWords      int
	TotalParagraphs int
}

// AnalyzeText computes TextStats without chunking or hierarchy extraction.
func AnalyzeText(text string) TextStats {
	return TextStats{
		TotalCharacters: len(text),
		TotalWords:      len(strings.Fields(text)),
		TotalParagraphs: len(textseg.SplitParagraphs(text)),
	}
}

// AnalysisResult bundles a document's stats, its chunks, and its
// hierarchy, the combined payload behind the /analyze/chunk route when
// hierarchy-aware chunking is requested.
type AnalysisResult struct {
	TextStats
	Chunks    []Chunk
	Hierarchy *hierarchy.HierarchyMap
}

// AnalyzeDocument extracts a hierarchy (using embedder when no headings are
// found), chunks leaf sections against it, and returns both alongside the
// document's stats. Pass a nil embedder to force the positional fallback
// when no headings are present.
func AnalyzeDocument(ctx context.Context, text string, chunkOpts Options, hierOpts hierarchy.Options, embedder capability.Embedder) (AnalysisResult, error) {
	stats := AnalyzeText(text)

	hier, err := hierarchy.ExtractHierarchy(ctx, text, embedder, hierOpts)
	if err != nil {
		return AnalysisResult{}, err
	}

	chunks, err := ChunkWithHierarchy(text, hier, chunkOpts)
	if err != nil {
		return AnalysisResult{}, err
	}

	return AnalysisResult{
		TextStats: stats,
		Chunks:    chunks,
		Hierarchy: hier,
	}, nil
}
