package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Capture is a single raw match produced by one rule.
type Capture struct {
	Marker string // literal marker token, empty when the rule matched without one
	ID     int
	Text   string
}

// rule recognizes one question-header family. A capture's body runs from the
// end of its header to the start of the same rule's next header (or end of
// text), so multi-line bodies are bounded without knowing the next question's
// id. Headers are plain RE2 with no lookahead: matching stays linear.
type rule struct {
	name   string
	header *regexp.Regexp
}

// rules are tried in this order. Order is precedence, not recall: an id
// accepted by an earlier rule is never reconsidered by a later one.
var rules = []rule{
	// Q3 / Q.3 / Question 3. May start mid-line so that several questions
	// packed onto one line still split at each marker.
	{"marker", regexp.MustCompile(`\b(?P<marker>Question|Q)[\s.]?(?P<id>\d+)[.:\s]+`)},
	// 3. / 3: at line start. Lowest specificity, so tried after the
	// explicit-marker form.
	{"numbered", regexp.MustCompile(`(?m)^ ?(?P<id>\d+)[.:\s]+`)},
	// [3] / [Q.3]
	{"bracketed", regexp.MustCompile(`(?m)^ ?\[(?P<marker>Q\.?)?(?P<id>\d+)\][.:\s]+`)},
	// Problem 3 / Exercise 3
	{"exercise", regexp.MustCompile(`(?m)^ ?(?P<marker>Problem|Exercise)[\s.]?(?P<id>\d+)[.:\s]+`)},
}

// findAll returns every capture for this rule in document order, keeping only
// the first occurrence of each id within the rule.
func (r rule) findAll(text string) []Capture {
	locs := r.header.FindAllStringSubmatchIndex(text, -1)
	if locs == nil {
		return nil
	}
	markerIdx := r.header.SubexpIndex("marker")
	idIdx := r.header.SubexpIndex("id")

	caps := make([]Capture, 0, len(locs))
	seen := make(map[int]bool, len(locs))
	for i, m := range locs {
		id, err := strconv.Atoi(submatch(text, m, idIdx))
		if err != nil {
			// Digit runs too long to parse as an int are not a match.
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true

		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		caps = append(caps, Capture{
			Marker: submatch(text, m, markerIdx),
			ID:     id,
			Text:   strings.TrimSpace(text[m[1]:end]),
		})
	}
	return caps
}

func submatch(text string, m []int, idx int) string {
	if idx < 0 || m[2*idx] < 0 {
		return ""
	}
	return text[m[2*idx]:m[2*idx+1]]
}
