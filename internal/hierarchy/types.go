// Package hierarchy extracts a heading tree from a document — from real
// Markdown/ALL-CAPS/numeric headings when present, or by segmenting on
// embedding-similarity drops, or, failing that, by splitting the document
// into positionally even sections — and derives an outline and extractive
// summaries from it.
package hierarchy

import (
	"github.com/inkframe/doccore/internal/capability"
)

// Embedder is capability.Embedder, which the hierarchy extractor uses for
// its embedding-similarity strategy.
type Embedder = capability.Embedder

// HeadingNode is one node of the extracted heading tree, spanning
// [StartOffset, EndOffset) of the source document.
type HeadingNode struct {
	Level       int
	Title       string
	StartOffset int
	EndOffset   int
	Children    []*HeadingNode
}

func (n *HeadingNode) leaves() []*HeadingNode {
	if len(n.Children) == 0 {
		return []*HeadingNode{n}
	}
	var out []*HeadingNode
	for _, c := range n.Children {
		out = append(out, c.leaves()...)
	}
	return out
}

// Strategy names which of the three detection methods produced a
// HierarchyMap's tree.
type Strategy string

const (
	StrategyHeading    Strategy = "heading"
	StrategyEmbedding  Strategy = "embedding-similarity"
	StrategyPositional Strategy = "positional"
)

// SectionSummary is one shallowest-level section's extractive summary.
type SectionSummary struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// HierarchyMap is the full result of ExtractHierarchy.
type HierarchyMap struct {
	Headings         []*HeadingNode
	Strategy         Strategy
	Outline          string
	DocumentSummary  string
	SectionSummaries []SectionSummary
}

// Leaves returns every leaf node of the tree, in document order. The
// chunker chunks exactly these spans.
func (h *HierarchyMap) Leaves() []*HeadingNode {
	var out []*HeadingNode
	for _, root := range h.Headings {
		out = append(out, root.leaves()...)
	}
	return out
}

// Options configures heading detection, embedding segmentation, and
// summary length.
type Options struct {
	SimilarityThreshold        float64
	MinSectionSize             int
	DocSummaryMaxSentences     int
	SectionSummaryMaxSentences int
	MaxOutlineDepth            int
}

// DefaultOptions returns the core's documented defaults.
func DefaultOptions() Options {
	return Options{
		SimilarityThreshold:        0.5,
		MinSectionSize:             200,
		DocSummaryMaxSentences:     3,
		SectionSummaryMaxSentences: 1,
		MaxOutlineDepth:            6,
	}
}

func (o Options) normalize() Options {
	if o.SimilarityThreshold <= 0 {
		o.SimilarityThreshold = 0.5
	}
	if o.MinSectionSize <= 0 {
		o.MinSectionSize = 200
	}
	if o.DocSummaryMaxSentences <= 0 {
		o.DocSummaryMaxSentences = 3
	}
	if o.SectionSummaryMaxSentences <= 0 {
		o.SectionSummaryMaxSentences = 1
	}
	if o.MaxOutlineDepth <= 0 {
		o.MaxOutlineDepth = 6
	}
	return o
}
