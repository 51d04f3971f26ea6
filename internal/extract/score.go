package extract

import (
	"strings"
	"unicode/utf8"
)

// ConfidenceThreshold is the minimum acceptance bar. Acceptance requires a
// score strictly greater than this; candidates at or below it are discarded.
const ConfidenceThreshold = 0.5

const (
	shortBodyRunes = 10
	longBodyRunes  = 500
)

// Score computes the heuristic confidence for a candidate body, in [0,1].
// Factors multiply from a base of 1.0 and the result clamps at 1.0.
func Score(body string, markerPresent bool) float64 {
	confidence := 1.0

	switch n := utf8.RuneCountInString(body); {
	case n < shortBodyRunes:
		confidence *= 0.5 // likely a spurious fragment
	case n > longBodyRunes:
		confidence *= 0.8 // likely over-captured across several questions
	}

	if markerPresent {
		confidence *= 1.2
	}
	if strings.ContainsRune(body, '?') {
		confidence *= 1.1
	}

	// Guard against float drift above 1.0 from the bonus factors.
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}
