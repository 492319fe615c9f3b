package hierarchy_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkframe/doccore/internal/hierarchy"
)

func TestExtractHierarchy_Empty(t *testing.T) {
	hm, err := hierarchy.ExtractHierarchy(context.Background(), "", nil, hierarchy.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, hierarchy.StrategyPositional, hm.Strategy)
	require.Len(t, hm.Headings, 1)
	assert.Equal(t, 0, hm.Headings[0].StartOffset)
	assert.Equal(t, 0, hm.Headings[0].EndOffset)
}

func TestExtractHierarchy_MarkdownHeadings(t *testing.T) {
	text := "# Title\n\nIntro.\n\n## Section One\n\nBody one.\n\n## Section Two\n\nBody two."
	hm, err := hierarchy.ExtractHierarchy(context.Background(), text, nil, hierarchy.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, hierarchy.StrategyHeading, hm.Strategy)
	require.Len(t, hm.Headings, 1)
	assert.Equal(t, "Title", hm.Headings[0].Title)
	require.Len(t, hm.Headings[0].Children, 2)
	assert.Equal(t, "Section One", hm.Headings[0].Children[0].Title)
}

func TestExtractHierarchy_NumericHeadings(t *testing.T) {
	text := "1. Introduction\nSome text.\n1.1. Background\nMore text.\n2. Conclusion\nFinal text."
	hm, err := hierarchy.ExtractHierarchy(context.Background(), text, nil, hierarchy.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, hierarchy.StrategyHeading, hm.Strategy)
	require.Len(t, hm.Headings, 2)
}

func TestExtractHierarchy_NoHeadingsNoEmbedderFallsBackPositional(t *testing.T) {
	text := "just some plain prose with no structure whatsoever, repeated a few times for length. "
	hm, err := hierarchy.ExtractHierarchy(context.Background(), text, nil, hierarchy.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, hierarchy.StrategyPositional, hm.Strategy)
	assert.NotEmpty(t, hm.Headings)
	assert.Equal(t, len(text), hm.Headings[len(hm.Headings)-1].EndOffset)
}

type fakeEmbedder struct {
	dims int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := f.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec := make([]float32, f.dims)
		// deterministic per-text vector: texts starting with 'Z' point in a
		// sharply different direction from all other texts
		for j := range vec {
			vec[j] = 0.1
			if len(t) > 0 && t[0] == 'Z' && j%2 == 1 {
				vec[j] = -0.9
			}
		}
		out[i] = vec
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int { return f.dims }

func TestExtractHierarchy_EmbeddingSegmentationWhenNoHeadings(t *testing.T) {
	text := "Apple paragraph one with content.\n\nApple paragraph two similar content.\n\nZebra paragraph with a very different topic entirely."
	hm, err := hierarchy.ExtractHierarchy(context.Background(), text, &fakeEmbedder{dims: 8}, hierarchy.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, hierarchy.StrategyEmbedding, hm.Strategy)
	assert.NotEmpty(t, hm.Headings)
}

func TestExtractHierarchy_OutlineRespectsMaxDepth(t *testing.T) {
	text := "# Top\n\nintro\n\n###### Deep\n\ndeep content"
	opts := hierarchy.DefaultOptions()
	opts.MaxOutlineDepth = 1
	hm, err := hierarchy.ExtractHierarchy(context.Background(), text, nil, opts)
	require.NoError(t, err)
	assert.Contains(t, hm.Outline, "Top")
	assert.NotContains(t, hm.Outline, "Deep")
}

func TestBuildContextPrefix(t *testing.T) {
	text := "# Title\n\nintro\n\n## Section\n\nsection body text here"
	hm, err := hierarchy.ExtractHierarchy(context.Background(), text, nil, hierarchy.DefaultOptions())
	require.NoError(t, err)
	offset := len(text) - 5 // somewhere inside "Section"'s body
	prefix := hierarchy.BuildContextPrefix(offset, hm.Headings)
	assert.Contains(t, prefix, "Title")
	assert.Contains(t, prefix, "Section")
}
