package extract

import (
	"regexp"
	"strings"
)

// Noise phrases stripped before pattern matching. Removal is case-insensitive
// and applies wherever a phrase occurs, not only at text boundaries. The
// open-ended variants consume the rest of their line, never the rest of the
// document.
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Here is the answer to the question.*`),
	regexp.MustCompile(`(?i)I hope this helps!`),
	regexp.MustCompile(`(?i)Let me know if you have any further questions.*`),
	regexp.MustCompile(`(?i)In summary,.*`),
	regexp.MustCompile(`(?i)The following are key points.*`),
	regexp.MustCompile(`(?i)Please note that.*`),
	regexp.MustCompile(`(?i)Answer in HTML format:`),
	regexp.MustCompile(`(?i)know if you need any changes.*`),
}

var (
	horizontalWS = regexp.MustCompile(`[^\S\n]+`)
	blankLines   = regexp.MustCompile(`[^\S\n]*\n\s*`)
	qDotMarker   = regexp.MustCompile(`Q\s*\.\s*`)
	questionWord = regexp.MustCompile(`Question\s+`)
	disallowed   = regexp.MustCompile(`[^\p{L}\p{N}_\s.?,:;()\[\]-]`)
)

// Normalize cleans raw document text ahead of pattern matching. Single
// newlines survive as block boundaries; all other whitespace runs collapse
// to one space. Pure and deterministic.
func Normalize(raw string) string {
	text := raw
	for _, p := range noisePatterns {
		text = p.ReplaceAllString(text, "")
	}

	// Whitespace: horizontal runs to one space, blank-line runs to one newline.
	text = horizontalWS.ReplaceAllString(text, " ")
	text = blankLines.ReplaceAllString(text, "\n")

	// Marker spelling: "Q . " -> "Q.", "Question   " -> "Question ".
	// May join a marker to an id across a line break, which is intended.
	text = qDotMarker.ReplaceAllString(text, "Q.")
	text = questionWord.ReplaceAllString(text, "Question ")

	// Keep word characters, whitespace and essential punctuation only.
	text = disallowed.ReplaceAllString(text, "")

	return strings.TrimSpace(text)
}
