package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docquest/internal/doctree"
)

// CSVParser handles CSV question lists, e.g. exported spreadsheets with an
// id column and a text column. Each row becomes its own line so a leading
// numeric cell lines up with the bare-numeral header pattern downstream.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	tree := &doctree.DocTree{
		Title: baseName(filename),
	}

	if len(records) == 0 {
		return tree, nil
	}

	// A non-numeric first cell in the first row is a header row; drop it so
	// column names don't pollute the extracted text.
	rows := records
	if !startsNumeric(rows[0]) {
		rows = rows[1:]
	}

	var lines []string
	for _, row := range rows {
		var cells []string
		for _, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell != "" {
				cells = append(cells, cell)
			}
		}
		if len(cells) > 0 {
			lines = append(lines, strings.Join(cells, " "))
		}
	}

	if len(lines) > 0 {
		tree.Children = append(tree.Children, &doctree.DocNode{
			Text: strings.Join(lines, "\n"),
		})
	}

	return tree, nil
}

func startsNumeric(row []string) bool {
	if len(row) == 0 {
		return false
	}
	cell := strings.TrimSpace(row[0])
	if cell == "" {
		return false
	}
	for _, r := range cell {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
