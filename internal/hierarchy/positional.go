package hierarchy

import (
	"fmt"
	"math"
)

// positionalFallback splits text into a number of evenly sized sections
// between 1 and 5, scaled to document length (one section per ~500 bytes),
// used when no headings are found and no embedder is available.
func positionalFallback(text string) []*HeadingNode {
	n := len(text)
	count := clampSectionCount(n)

	step := n / count
	nodes := make([]*HeadingNode, count)
	start := 0
	for i := 0; i < count; i++ {
		end := start + step
		if i == count-1 {
			end = n
		}
		nodes[i] = &HeadingNode{
			Level:       1,
			Title:       fmt.Sprintf("Section %d of %d", i+1, count),
			StartOffset: start,
			EndOffset:   end,
		}
		start = end
	}
	return nodes
}

func clampSectionCount(textLen int) int {
	c := int(math.Ceil(float64(textLen) / 500))
	if c < 1 {
		c = 1
	}
	if c > 5 {
		c = 5
	}
	return c
}
