package hierarchy

import (
	"context"
	"fmt"
	"math"

	"github.com/inkframe/doccore/internal/apperr"
	"github.com/inkframe/doccore/internal/textseg"
)

// embeddingSegmentation embeds every paragraph, scores adjacent pairs by
// cosine similarity, and places a section boundary wherever a pair's
// similarity drops more than SimilarityThreshold standard deviations below
// the mean — a topic shift. Candidate boundaries that would leave too
// small a section behind are then dropped, merging that section forward.
func embeddingSegmentation(ctx context.Context, text string, embedder Embedder, opts Options) ([]*HeadingNode, error) {
	paragraphs := textseg.SplitParagraphs(text)
	if len(paragraphs) <= 1 {
		return []*HeadingNode{{Level: 1, Title: "Section 1 of 1", StartOffset: 0, EndOffset: len(text)}}, nil
	}

	texts := make([]string, len(paragraphs))
	for i, p := range paragraphs {
		texts[i] = p.Text
	}
	vectors, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, &apperr.EmbedderError{Op: "embeddingSegmentation.EmbedBatch", Err: err}
	}

	sims := make([]float64, len(paragraphs)-1)
	for i := 1; i < len(paragraphs); i++ {
		sims[i-1] = cosineSimilarity(vectors[i-1], vectors[i])
	}
	mean, stdev := meanStdev(sims)
	threshold := mean - opts.SimilarityThreshold*stdev

	boundaries := []int{0}
	for i, s := range sims {
		if s < threshold {
			boundaries = append(boundaries, i+1)
		}
	}
	boundaries = mergeTinyBoundaries(boundaries, paragraphs, opts.MinSectionSize)

	return sectionsFromBoundaries(boundaries, paragraphs, len(text)), nil
}

// mergeTinyBoundaries drops any candidate boundary whose preceding section
// (measured as the sum of its paragraphs' text lengths) would be shorter
// than minSize, so that section runs on into the paragraphs after the
// dropped boundary. Boundary 0 is always kept.
func mergeTinyBoundaries(boundaries []int, paragraphs []textseg.Paragraph, minSize int) []int {
	if len(boundaries) <= 1 {
		return boundaries
	}
	kept := []int{boundaries[0]}
	for i := 1; i < len(boundaries); i++ {
		from := kept[len(kept)-1]
		to := boundaries[i]
		if sectionTextLength(paragraphs, from, to) < minSize {
			continue
		}
		kept = append(kept, to)
	}
	return kept
}

func sectionTextLength(paragraphs []textseg.Paragraph, fromIdx, toIdx int) int {
	total := 0
	for i := fromIdx; i < toIdx; i++ {
		total += len(paragraphs[i].Text)
	}
	return total
}

func sectionsFromBoundaries(boundaries []int, paragraphs []textseg.Paragraph, textLen int) []*HeadingNode {
	n := len(boundaries)
	nodes := make([]*HeadingNode, n)
	for i, b := range boundaries {
		start := paragraphs[b].Start
		end := textLen
		if i < n-1 {
			end = paragraphs[boundaries[i+1]-1].End
		}
		nodes[i] = &HeadingNode{
			Level:       1,
			Title:       fmt.Sprintf("Section %d of %d", i+1, n),
			StartOffset: start,
			EndOffset:   end,
		}
	}
	return nodes
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// meanStdev returns the mean and population standard deviation of xs.
func meanStdev(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))

	var variance float64
	for _, x := range xs {
		d := x - mean
		variance += d * d
	}
	variance /= float64(len(xs))
	return mean, math.Sqrt(variance)
}
