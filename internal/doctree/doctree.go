package doctree

import "strings"

// DocTree is the root of a parsed document.
type DocTree struct {
	Title    string     // Document title (from metadata or filename)
	Children []*DocNode // Top-level sections
}

// DocNode is a recursive section in the document tree.
type DocNode struct {
	Title    string     // Section heading (empty for leaf text)
	Text     string     // Text content of this node (may be empty for container nodes)
	Page     int        // Source page/line (0 if N/A)
	Children []*DocNode // Subsections
}

// Flatten joins all text in document order into a single string. Blocks are
// separated by newlines so downstream matching can treat them as hard
// breaks; section titles are included as their own blocks since question
// headers sometimes land in headings.
func (t *DocTree) Flatten() string {
	var sb strings.Builder
	var walk func(nodes []*DocNode)
	walk = func(nodes []*DocNode) {
		for _, n := range nodes {
			if n.Title != "" {
				writeBlock(&sb, n.Title)
			}
			if n.Text != "" {
				writeBlock(&sb, n.Text)
			}
			walk(n.Children)
		}
	}
	walk(t.Children)
	return sb.String()
}

func writeBlock(sb *strings.Builder, text string) {
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString(text)
}
