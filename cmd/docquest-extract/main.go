package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dgallion1/docquest/internal/extract"
	"github.com/dgallion1/docquest/internal/parser"
)

// docquest-extract runs the question extractor against a single file and
// prints the result as JSON. Useful for eyeballing extraction quality
// without a running server.
func main() {
	var (
		filePath = flag.String("file", "", "path to the document (txt, md, csv, html, pdf, docx)")
		raw      = flag.Bool("raw", false, "treat input as plain text and skip format detection")
		pretty   = flag.Bool("pretty", false, "indent the JSON output")
	)
	flag.Parse()

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "usage: docquest-extract -file exam.pdf [-raw] [-pretty]")
		os.Exit(2)
	}

	text, err := loadText(*filePath, *raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	questions := extract.Questions(text)

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(map[string]any{
		"file":      *filePath,
		"count":     len(questions),
		"questions": questions,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadText(path string, raw bool) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if raw {
		data, err := io.ReadAll(f)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	p, err := parser.ForFile(path)
	if err != nil {
		return "", err
	}
	if pp, ok := p.(*parser.PDFParser); ok {
		pp.FallbackPdftotext = true
	}
	tree, err := p.Parse(f, path)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", path, err)
	}
	return tree.Flatten(), nil
}
