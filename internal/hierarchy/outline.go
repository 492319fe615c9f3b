package hierarchy

import (
	"fmt"
	"strings"
)

// renderOutline renders the tree as a dotted, indented outline. The
// sibling number is the recursive 1-based position among siblings (root
// "1", its second child "1.2", and so on); indentation instead follows
// each node's declared heading level, so a level-3 heading nested directly
// under a level-1 parent still indents as level 3.
func renderOutline(roots []*HeadingNode, maxDepth int) string {
	var sb strings.Builder
	renderOutlineNodes(&sb, roots, maxDepth, "")
	return strings.TrimRight(sb.String(), "\n")
}

func renderOutlineNodes(sb *strings.Builder, nodes []*HeadingNode, maxDepth int, numberPrefix string) {
	for i, n := range nodes {
		number := fmt.Sprintf("%d", i+1)
		if numberPrefix != "" {
			number = numberPrefix + "." + number
		}
		if n.Level <= maxDepth {
			indent := strings.Repeat("  ", n.Level-1)
			fmt.Fprintf(sb, "%s%s. %s\n", indent, number, n.Title)
		}
		renderOutlineNodes(sb, n.Children, maxDepth, number)
	}
}

// BuildContextPrefix returns the " > "-joined chain of ancestor titles
// containing offset, from the root down. An offset outside every section
// returns "".
func BuildContextPrefix(offset int, roots []*HeadingNode) string {
	var path []string
	nodes := roots
	for {
		var next *HeadingNode
		for _, n := range nodes {
			if offset >= n.StartOffset && offset < n.EndOffset {
				next = n
				break
			}
		}
		if next == nil {
			break
		}
		path = append(path, next.Title)
		nodes = next.Children
	}
	return strings.Join(path, " > ")
}
