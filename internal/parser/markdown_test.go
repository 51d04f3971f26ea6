package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_HeadingHierarchy(t *testing.T) {
	input := `# Title

Intro text.

## Section A

Section A content.

## Section B

Section B content.
`
	p := &MarkdownParser{}
	tree, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tree.Title != "doc" {
		t.Errorf("expected title %q, got %q", "doc", tree.Title)
	}
	if len(tree.Children) != 1 {
		t.Fatalf("expected 1 top-level child (h1), got %d", len(tree.Children))
	}

	h1 := tree.Children[0]
	if h1.Title != "Title" {
		t.Errorf("expected h1 title %q, got %q", "Title", h1.Title)
	}
	if !strings.Contains(h1.Text, "Intro text.") {
		t.Errorf("expected h1 text to contain %q, got %q", "Intro text.", h1.Text)
	}
	if len(h1.Children) != 2 {
		t.Fatalf("expected 2 h2 children, got %d", len(h1.Children))
	}
	if h1.Children[0].Title != "Section A" || h1.Children[1].Title != "Section B" {
		t.Errorf("unexpected section titles: %q, %q", h1.Children[0].Title, h1.Children[1].Title)
	}
}

func TestMarkdownParser_NoHeadings(t *testing.T) {
	input := "Q.1 What is X?\n\nQ.2 What is Y?\n"
	p := &MarkdownParser{}
	tree, err := p.Parse(strings.NewReader(input), "quiz.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Children) != 1 {
		t.Fatalf("expected 1 child for heading-less doc, got %d", len(tree.Children))
	}
	flat := tree.Flatten()
	if !strings.Contains(flat, "Q.1 What is X?") || !strings.Contains(flat, "Q.2 What is Y?") {
		t.Errorf("expected both questions in flattened text, got %q", flat)
	}
}
