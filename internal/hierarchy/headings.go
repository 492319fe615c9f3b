package hierarchy

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	markdownHeadingRE = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	numericHeadingRE  = regexp.MustCompile(`^(\d+(?:\.\d+)*)[.)]\s+(.+)$`)
)

type flatHeading struct {
	Level  int
	Title  string
	Offset int
}

// extractHeadings scans text line by line for three heading shapes —
// Markdown ATX (#..######), ALL-CAPS lines, and numbered headings
// (1. / 1.2.3)) — in that precedence order per line.
func extractHeadings(text string) []flatHeading {
	var out []flatHeading
	offset := 0
	for _, line := range strings.Split(text, "\n") {
		if h, ok := matchMarkdownHeading(line, offset); ok {
			out = append(out, h)
		} else if h, ok := matchAllCapsHeading(line, offset); ok {
			out = append(out, h)
		} else if h, ok := matchNumericHeading(line, offset); ok {
			out = append(out, h)
		}
		offset += len(line) + 1
	}
	return out
}

func matchMarkdownHeading(line string, offset int) (flatHeading, bool) {
	m := markdownHeadingRE.FindStringSubmatch(line)
	if m == nil {
		return flatHeading{}, false
	}
	level := len(m[1])
	if level > 6 {
		level = 6
	}
	return flatHeading{Level: level, Title: strings.TrimSpace(m[2]), Offset: offset}, true
}

// matchAllCapsHeading recognizes a line that is entirely upper case, has at
// least three words, starts with a letter, isn't a Markdown block marker,
// and isn't trivially short.
func matchAllCapsHeading(line string, offset int) (flatHeading, bool) {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < 5 {
		return flatHeading{}, false
	}
	if trimmed != strings.ToUpper(trimmed) {
		return flatHeading{}, false
	}
	first := rune(trimmed[0])
	if first < 'A' || first > 'Z' {
		return flatHeading{}, false
	}
	if strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "-") ||
		strings.HasPrefix(trimmed, "*") || strings.HasPrefix(trimmed, ">") {
		return flatHeading{}, false
	}
	if len(strings.Fields(trimmed)) < 3 {
		return flatHeading{}, false
	}
	return flatHeading{Level: 1, Title: toTitleCase(trimmed), Offset: offset}, true
}

func matchNumericHeading(line string, offset int) (flatHeading, bool) {
	m := numericHeadingRE.FindStringSubmatch(line)
	if m == nil {
		return flatHeading{}, false
	}
	level := strings.Count(m[1], ".") + 1
	if level > 6 {
		level = 6
	}
	return flatHeading{Level: level, Title: strings.TrimSpace(m[2]), Offset: offset}, true
}

func toTitleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 {
			r[0] = unicode.ToUpper(r[0])
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// buildTree nests a flat, offset-ordered heading list into a forest: each
// node's end offset is the start of the next heading at the same or a
// shallower level (or the end of the document), and each node's children
// are the immediately-following headings at a strictly deeper level before
// the next sibling.
func buildTree(flat []flatHeading, textLen int) []*HeadingNode {
	nodes := make([]*HeadingNode, len(flat))
	for i, f := range flat {
		nodes[i] = &HeadingNode{Level: f.Level, Title: f.Title, StartOffset: f.Offset}
	}
	for i := range nodes {
		end := textLen
		for j := i + 1; j < len(nodes); j++ {
			if nodes[j].Level <= nodes[i].Level {
				end = nodes[j].StartOffset
				break
			}
		}
		nodes[i].EndOffset = end
	}

	var roots []*HeadingNode
	var stack []*HeadingNode
	for _, n := range nodes {
		for len(stack) > 0 && stack[len(stack)-1].Level >= n.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, n)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, n)
		}
		stack = append(stack, n)
	}
	return roots
}
