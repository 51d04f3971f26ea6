package extract

import (
	"regexp"
	"sort"
	"strings"
)

// Question is one extracted record. IDs carry the source document's own
// numbering: unique and ascending within a result, but not renumbered, so
// gaps are legal.
type Question struct {
	ID   int    `json:"question_id"`
	Text string `json:"text"`
}

// Candidate is a scored match before final cleaning.
type Candidate struct {
	ID         int
	Text       string
	Confidence float64
}

// Questions runs the full extraction pipeline over raw document text. It is
// a pure function with no retained state, safe to call concurrently. An
// empty result means no recognizable questions and is valid output, not an
// error.
func Questions(raw string) []Question {
	candidates := matchAll(Normalize(raw))

	out := make([]Question, 0, len(candidates))
	for _, c := range candidates {
		if q, ok := finalize(c); ok {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// matchAll applies every rule in priority order over the whole cleaned text,
// keeping at most one accepted candidate per id. Candidates are scored as
// they are found: a match from an early rule that fails the threshold does
// not claim its id away from a later rule.
func matchAll(cleaned string) []Candidate {
	var candidates []Candidate
	claimed := make(map[int]bool)

	for _, r := range rules {
		for _, c := range r.findAll(cleaned) {
			if claimed[c.ID] {
				continue
			}
			confidence := Score(c.Text, c.Marker != "")
			if confidence <= ConfidenceThreshold {
				continue
			}
			claimed[c.ID] = true
			candidates = append(candidates, Candidate{
				ID:         c.ID,
				Text:       c.Text,
				Confidence: confidence,
			})
		}
	}
	return candidates
}

var innerWS = regexp.MustCompile(`\s+`)

// finalize collapses leftover whitespace from capture boundaries, trims, and
// enforces terminal punctuation. Candidates that clean down to nothing are
// dropped entirely.
func finalize(c Candidate) (Question, bool) {
	text := strings.TrimSpace(innerWS.ReplaceAllString(c.Text, " "))
	if text == "" {
		return Question{}, false
	}
	if last := text[len(text)-1]; last != '.' && last != '?' {
		text += "."
	}
	return Question{ID: c.ID, Text: text}, true
}
