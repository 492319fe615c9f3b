// Package chunking splits document text into overlapping, positioned chunks
// for embedding and retrieval. It keeps the teacher's chunker shape — a
// config-with-defaults struct, precompiled segmentation rules, chunk
// metadata carrying section context — but replaces the goldmark-AST
// chunking algorithm with the paragraph/sentence/merge/overlap pipeline the
// document-analysis core requires.
package chunking

import (
	"strings"

	"github.com/inkframe/doccore/internal/hashutil"
	"github.com/inkframe/doccore/internal/hierarchy"
	"github.com/inkframe/doccore/internal/textseg"
)

// Chunk is one positioned, overlapped, hashed span of a document.
type Chunk struct {
	Index         int
	Text          string
	Start         int
	End           int
	Hash          string
	SectionTitle  string
	SectionPath   string
	ContextPrefix string
}

// Options controls chunk sizing. The zero value is not ready to use;
// construct via DefaultOptions and override as needed.
type Options struct {
	MaxChunkSize int
	Overlap      int
}

// DefaultOptions returns the core's documented defaults: 1000-byte chunks
// with 200 bytes of overlap.
func DefaultOptions() Options {
	return Options{MaxChunkSize: 1000, Overlap: 200}
}

func (o Options) normalize() Options {
	if o.MaxChunkSize <= 0 {
		o.MaxChunkSize = 1000
	}
	if o.Overlap < 0 {
		o.Overlap = 0
	}
	return o
}

// ChunkText runs the core segmentation pipeline over text: split into
// paragraphs, break paragraphs larger than MaxChunkSize at sentence
// boundaries, merge runs of small segments back together, apply trailing
// overlap, and locate and hash each resulting chunk. Empty or
// whitespace-only text yields an empty, non-nil slice.
func ChunkText(text string, opts Options) ([]Chunk, error) {
	opts = opts.normalize()

	paragraphs := textseg.SplitParagraphs(text)
	var segments []string
	for _, p := range paragraphs {
		segments = append(segments, breakOversized(p, opts.MaxChunkSize)...)
	}
	if len(segments) == 0 {
		return []Chunk{}, nil
	}

	segments = mergeTiny(segments, opts.MaxChunkSize)
	positions := locatePositions(text, segments)
	overlapped := applyOverlap(segments, opts.Overlap)

	chunks := make([]Chunk, len(segments))
	for i := range segments {
		chunks[i] = Chunk{
			Index: i,
			Text:  overlapped[i],
			Start: positions[i].start,
			End:   positions[i].end,
			Hash:  hashutil.HashHex(overlapped[i]),
		}
	}
	return chunks, nil
}

// breakOversized splits a paragraph into one or more literal substrings of
// its own text, none longer than maxChunkSize where sentence boundaries
// allow it. A paragraph already within budget is returned whole; one with
// no sentence-terminating punctuation at all is also returned whole, since
// there is no boundary to split on.
func breakOversized(p textseg.Paragraph, maxChunkSize int) []string {
	if len(p.Text) <= maxChunkSize {
		return []string{p.Text}
	}

	bounds := textseg.SentenceBounds(p.Text)
	if len(bounds) == 0 {
		return []string{p.Text}
	}

	out := make([]string, 0, len(bounds))
	bufStart := bounds[0].Start
	bufEnd := bounds[0].End
	for i := 1; i < len(bounds); i++ {
		nextEnd := bounds[i].End
		if nextEnd-bufStart > maxChunkSize && bufEnd > bufStart {
			out = append(out, p.Text[bufStart:bufEnd])
			bufStart = bounds[i].Start
			bufEnd = bounds[i].End
			continue
		}
		bufEnd = nextEnd
	}
	out = append(out, p.Text[bufStart:bufEnd])
	return out
}

// mergeTiny greedily packs consecutive segments, joined by a blank line,
// for as long as the combined text stays within maxChunkSize+2 (the budget
// for the joining "\n\n"). This is a plain bin-pack over the whole ordered
// segment list, not just within one paragraph's own segments.
func mergeTiny(segments []string, maxChunkSize int) []string {
	merged := make([]string, 0, len(segments))
	buf := segments[0]
	for i := 1; i < len(segments); i++ {
		candidate := buf + "\n\n" + segments[i]
		if len(candidate) > maxChunkSize+2 {
			merged = append(merged, buf)
			buf = segments[i]
			continue
		}
		buf = candidate
	}
	merged = append(merged, buf)
	return merged
}

type position struct {
	start int
	end   int
}

// locatePositions finds each canonical (pre-overlap) segment's byte offset
// in text with a left-to-right search cursor, advancing past each match by
// one byte so that repeated literal text can still be matched again
// further on. When a segment can't be located — merged segments joined
// with a literal "\n\n" the source didn't actually contain, for
// instance — it's reported as spanning [0, cursor), the last successful
// search point.
func locatePositions(text string, segments []string) []position {
	cursor := 0
	out := make([]position, len(segments))
	for i, seg := range segments {
		idx := indexFrom(text, seg, cursor)
		if idx < 0 {
			out[i] = position{start: 0, end: cursor}
			continue
		}
		out[i] = position{start: idx, end: idx + len(seg)}
		cursor = idx + 1
	}
	return out
}

func indexFrom(text, needle string, from int) int {
	if from > len(text) {
		return -1
	}
	rel := strings.Index(text[from:], needle)
	if rel < 0 {
		return -1
	}
	return from + rel
}

// applyOverlap prepends a trailing slice of each segment's predecessor,
// trimmed back to the nearest word boundary, so that each chunk after the
// first carries a little of the previous chunk's trailing context.
func applyOverlap(segments []string, overlap int) []string {
	out := make([]string, len(segments))
	out[0] = segments[0]
	if overlap <= 0 {
		copy(out, segments)
		return out
	}
	for i := 1; i < len(segments); i++ {
		prev := segments[i-1]
		start := len(prev) - overlap
		if start < 0 {
			start = 0
		}
		slice := prev[start:]
		if idx := strings.Index(slice, " "); idx >= 0 {
			slice = slice[idx+1:]
		}
		if slice == "" {
			out[i] = segments[i]
			continue
		}
		out[i] = slice + " " + segments[i]
	}
	return out
}

// ChunkWithHierarchy chunks each leaf section of hier independently and
// flattens the results in document order, so a chunk never spans a section
// boundary. Mid-level sections that have both their own content and
// children are not chunked on their own — only leaves are, so any content
// that sits directly under a non-leaf heading (before its first
// subheading) is dropped from the output. This is a known, literal
// behavior, not a bug: see DESIGN.md.
func ChunkWithHierarchy(text string, hier *hierarchy.HierarchyMap, opts Options) ([]Chunk, error) {
	leaves := hier.Leaves()
	var all []Chunk
	idx := 0
	for _, leaf := range leaves {
		sectionText := text[leaf.StartOffset:leaf.EndOffset]
		sub, err := ChunkText(sectionText, opts)
		if err != nil {
			return nil, err
		}
		path := hierarchy.BuildContextPrefix(leaf.StartOffset, hier.Headings)
		var prefix string
		if path != "" {
			prefix = "[" + path + "] "
		}
		for _, c := range sub {
			c.Start += leaf.StartOffset
			c.End += leaf.StartOffset
			c.Index = idx
			c.SectionTitle = leaf.Title
			c.SectionPath = path
			c.ContextPrefix = prefix
			all = append(all, c)
			idx++
		}
	}
	if all == nil {
		all = []Chunk{}
	}
	return all, nil
}

// HashDocument returns the document-level content hash DocSyncManager uses
// for its fast-path skip check.
func HashDocument(text string) string {
	return hashutil.HashHex(text)
}
