package extract

import (
	"strings"
	"testing"
)

func ruleByName(t *testing.T, name string) rule {
	t.Helper()
	for _, r := range rules {
		if r.name == name {
			return r
		}
	}
	t.Fatalf("no rule named %q", name)
	return rule{}
}

func TestRuleOrder(t *testing.T) {
	// Order is precedence and is part of the contract.
	want := []string{"marker", "numbered", "bracketed", "exercise"}
	if len(rules) != len(want) {
		t.Fatalf("expected %d rules, got %d", len(want), len(rules))
	}
	for i, name := range want {
		if rules[i].name != name {
			t.Errorf("rule[%d]: expected %q, got %q", i, name, rules[i].name)
		}
	}
}

func TestMarkerRule_Variants(t *testing.T) {
	r := ruleByName(t, "marker")
	tests := []struct {
		name       string
		input      string
		wantID     int
		wantMarker string
		wantText   string
	}{
		{"Q with dot", "Q.3 What is the speed of light?", 3, "Q", "What is the speed of light?"},
		{"Q with space", "Q 3 What is the speed of light?", 3, "Q", "What is the speed of light?"},
		{"bare Q", "Q3. What is the speed of light?", 3, "Q", "What is the speed of light?"},
		{"full word", "Question 12: Define entropy in your own words.", 12, "Question", "Define entropy in your own words."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			caps := r.findAll(tc.input)
			if len(caps) != 1 {
				t.Fatalf("expected 1 capture, got %d", len(caps))
			}
			c := caps[0]
			if c.ID != tc.wantID || c.Marker != tc.wantMarker || c.Text != tc.wantText {
				t.Errorf("expected {%d %q %q}, got {%d %q %q}",
					tc.wantID, tc.wantMarker, tc.wantText, c.ID, c.Marker, c.Text)
			}
		})
	}
}

func TestMarkerRule_BoundsBodyAtNextHeader(t *testing.T) {
	r := ruleByName(t, "marker")
	caps := r.findAll("Q1. First question text here Q2. Second question text here")
	if len(caps) != 2 {
		t.Fatalf("expected 2 captures, got %d", len(caps))
	}
	if caps[0].Text != "First question text here" {
		t.Errorf("first body: expected %q, got %q", "First question text here", caps[0].Text)
	}
	if caps[1].Text != "Second question text here" {
		t.Errorf("second body: expected %q, got %q", "Second question text here", caps[1].Text)
	}
}

func TestMarkerRule_NoMatchInsideWords(t *testing.T) {
	r := ruleByName(t, "marker")
	if caps := r.findAll("The BBQ2 sauce recipe serves four."); len(caps) != 0 {
		t.Errorf("expected no captures inside words, got %d", len(caps))
	}
}

func TestNumberedRule_LineAnchored(t *testing.T) {
	r := ruleByName(t, "numbered")

	caps := r.findAll("1. First line of question one\ncontinues on a second line\n2. Second question text here")
	if len(caps) != 2 {
		t.Fatalf("expected 2 captures, got %d", len(caps))
	}
	wantFirst := "First line of question one\ncontinues on a second line"
	if caps[0].Text != wantFirst {
		t.Errorf("expected multi-line body %q, got %q", wantFirst, caps[0].Text)
	}
	if caps[0].Marker != "" {
		t.Errorf("numbered rule has no marker, got %q", caps[0].Marker)
	}

	// Mid-line digits must not open a capture.
	caps = r.findAll("The year 1969 saw the moon landing.")
	if len(caps) != 0 {
		t.Errorf("expected no captures for mid-line digits, got %d", len(caps))
	}
}

func TestBracketedRule(t *testing.T) {
	r := ruleByName(t, "bracketed")
	tests := []struct {
		name       string
		input      string
		wantID     int
		wantMarker string
	}{
		{"plain brackets", "[12] Solve the linear system given above.", 12, ""},
		{"with Q marker", "[Q.7] State the second law of thermodynamics.", 7, "Q."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			caps := r.findAll(tc.input)
			if len(caps) != 1 {
				t.Fatalf("expected 1 capture, got %d", len(caps))
			}
			if caps[0].ID != tc.wantID {
				t.Errorf("expected id %d, got %d", tc.wantID, caps[0].ID)
			}
			if caps[0].Marker != tc.wantMarker {
				t.Errorf("expected marker %q, got %q", tc.wantMarker, caps[0].Marker)
			}
		})
	}
}

func TestExerciseRule(t *testing.T) {
	r := ruleByName(t, "exercise")
	caps := r.findAll("Problem 4: Compute the derivative of x squared.\nExercise 5. Integrate the result.")
	if len(caps) != 2 {
		t.Fatalf("expected 2 captures, got %d", len(caps))
	}
	if caps[0].Marker != "Problem" || caps[0].ID != 4 {
		t.Errorf("expected Problem 4, got %q %d", caps[0].Marker, caps[0].ID)
	}
	if caps[1].Marker != "Exercise" || caps[1].ID != 5 {
		t.Errorf("expected Exercise 5, got %q %d", caps[1].Marker, caps[1].ID)
	}
}

func TestFindAll_SkipsUnparsableID(t *testing.T) {
	r := ruleByName(t, "marker")
	// A digit run too long for an int is a malformed capture, not a match.
	caps := r.findAll("Q99999999999999999999. This id cannot be parsed at all.")
	if len(caps) != 0 {
		t.Errorf("expected overflowing id to be skipped, got %d captures", len(caps))
	}
}

func TestFindAll_KeepsFirstOccurrencePerID(t *testing.T) {
	r := ruleByName(t, "marker")
	caps := r.findAll("Q.1 First version of the question here\nQ.1 Second version entirely different")
	if len(caps) != 1 {
		t.Fatalf("expected 1 capture for duplicated id, got %d", len(caps))
	}
	if !strings.HasPrefix(caps[0].Text, "First version") {
		t.Errorf("expected first occurrence kept, got %q", caps[0].Text)
	}
}

func TestFindAll_LastBodyRunsToEndOfText(t *testing.T) {
	r := ruleByName(t, "numbered")
	caps := r.findAll("8. The only question runs\nall the way to the end")
	if len(caps) != 1 {
		t.Fatalf("expected 1 capture, got %d", len(caps))
	}
	want := "The only question runs\nall the way to the end"
	if caps[0].Text != want {
		t.Errorf("expected %q, got %q", want, caps[0].Text)
	}
}
