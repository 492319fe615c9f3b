package hierarchy

import (
	"context"
)

// ExtractHierarchy picks the first applicable strategy — real headings,
// then embedding-similarity segmentation if an embedder is available, then
// an evenly-spaced positional fallback — and derives an outline and
// extractive summaries from the resulting tree.
//
// An empty document always takes the positional path regardless of
// embedder availability, producing a single zero-length section; this
// check comes before the normal strategy order.
func ExtractHierarchy(ctx context.Context, text string, embedder Embedder, opts Options) (*HierarchyMap, error) {
	opts = opts.normalize()

	var roots []*HeadingNode
	var strategy Strategy
	var err error

	switch {
	case len(text) == 0:
		roots = positionalFallback(text)
		strategy = StrategyPositional
	default:
		flat := extractHeadings(text)
		switch {
		case len(flat) > 0:
			roots = buildTree(flat, len(text))
			strategy = StrategyHeading
		case embedder != nil:
			roots, err = embeddingSegmentation(ctx, text, embedder, opts)
			if err != nil {
				return nil, err
			}
			strategy = StrategyEmbedding
		default:
			roots = positionalFallback(text)
			strategy = StrategyPositional
		}
	}

	hm := &HierarchyMap{Headings: roots, Strategy: strategy}
	hm.Outline = renderOutline(roots, opts.MaxOutlineDepth)
	hm.DocumentSummary = documentSummary(text, opts.DocSummaryMaxSentences)
	hm.SectionSummaries = sectionSummaries(text, roots, opts.SectionSummaryMaxSentences)
	return hm, nil
}
