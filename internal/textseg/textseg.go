// Package textseg holds the paragraph/sentence segmentation rules shared by
// internal/chunking and internal/hierarchy. Factoring this out once keeps
// both packages honoring the same paragraph boundaries instead of each
// reimplementing its own approximation.
package textseg

import (
	"regexp"
	"strings"
)

// Paragraph is a blank-line-delimited span of text located in its source
// document.
type Paragraph struct {
	Text  string
	Start int
	End   int
}

var paragraphSplitRE = regexp.MustCompile(`\n\s*\n`)

// SplitParagraphs splits text on blank-line boundaries, drops empty
// paragraphs, and recovers each paragraph's byte offset in text with a
// forward-scanning cursor rather than arithmetic on the split parts'
// lengths, which drifts as soon as the separator whitespace is irregular.
func SplitParagraphs(text string) []Paragraph {
	parts := paragraphSplitRE.Split(text, -1)
	paragraphs := make([]Paragraph, 0, len(parts))
	cursor := 0
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		idx := strings.Index(text[cursor:], trimmed)
		if idx < 0 {
			idx = strings.Index(text, trimmed)
			if idx < 0 {
				continue
			}
			cursor = 0
		}
		start := cursor + idx
		end := start + len(trimmed)
		paragraphs = append(paragraphs, Paragraph{Text: trimmed, Start: start, End: end})
		cursor = end
	}
	return paragraphs
}

// Bound is a half-open [Start, End) byte range of one sentence within a
// piece of text, End including the terminating punctuation.
type Bound struct {
	Start int
	End   int
}

// Go's regexp is RE2 and has no lookbehind, so the sentence boundary
// `(?<=[.!?])\s+` from the original rule can't be translated literally.
// sentenceBoundaryRE matches the punctuation plus the run of whitespace
// that follows it; SentenceBounds then carves the boundary so the
// punctuation stays attached to the sentence before it and the whitespace
// is dropped, which is exactly what the lookbehind split would produce.
var sentenceBoundaryRE = regexp.MustCompile(`[.!?]\s+`)

// SentenceBounds returns the sentence spans of text in source order. A
// trailing fragment with no terminating punctuation is returned as a final
// bound covering the rest of the text.
func SentenceBounds(text string) []Bound {
	matches := sentenceBoundaryRE.FindAllStringIndex(text, -1)
	bounds := make([]Bound, 0, len(matches)+1)
	last := 0
	for _, m := range matches {
		end := m[0] + 1 // keep the terminator, drop the following whitespace
		bounds = append(bounds, Bound{Start: last, End: end})
		last = m[1]
	}
	if last < len(text) {
		bounds = append(bounds, Bound{Start: last, End: len(text)})
	}
	return bounds
}

var extractiveSentenceRE = regexp.MustCompile(`[^.!?]+[.!?]+`)

// ExtractSentences returns the first n sentences of text, joined by a
// single space, for use as an extractive summary. When text contains no
// sentence-terminating punctuation at all, the whole trimmed text is
// returned rather than an empty string.
func ExtractSentences(text string, n int) string {
	matches := extractiveSentenceRE.FindAllString(text, -1)
	if len(matches) == 0 {
		return strings.TrimSpace(text)
	}
	if n > len(matches) {
		n = len(matches)
	}
	if n < 0 {
		n = 0
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = strings.TrimSpace(matches[i])
	}
	return strings.Join(out, " ")
}
