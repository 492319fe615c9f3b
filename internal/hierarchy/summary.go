package hierarchy

import (
	"github.com/inkframe/doccore/internal/textseg"
)

// documentSummary extracts the first maxSentences sentences of text
// verbatim, for use as the whole-document summary. Operates on the raw
// text, Markdown syntax included, matching the extractive rule exactly.
func documentSummary(text string, maxSentences int) string {
	return textseg.ExtractSentences(text, maxSentences)
}

// sectionSummaries extracts a summary for each root section whose level is
// the shallowest level among the roots; roots at a deeper declared level
// get no summary.
func sectionSummaries(text string, roots []*HeadingNode, maxSentences int) []SectionSummary {
	if len(roots) == 0 {
		return nil
	}
	minLevel := roots[0].Level
	for _, r := range roots {
		if r.Level < minLevel {
			minLevel = r.Level
		}
	}

	var out []SectionSummary
	for _, r := range roots {
		if r.Level != minLevel {
			continue
		}
		section := text[r.StartOffset:r.EndOffset]
		out = append(out, SectionSummary{
			Title:   r.Title,
			Summary: documentSummary(section, maxSentences),
		})
	}
	return out
}
