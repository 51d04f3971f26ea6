package extract

import (
	"reflect"
	"strings"
	"testing"
)

// examDoc mixes all four header families plus trailing noise.
const examDoc = "Q.1 What is the capital of France?\n" +
	"Q.2 Explain the water cycle in detail.\n" +
	"5. Name the largest planet in the solar system.\n" +
	"[Q.7] State the second law of thermodynamics.\n" +
	"Problem 9: Compute the area of a unit circle.\n" +
	"I hope this helps!"

func TestQuestions_NoiseRemovedBeforeMatching(t *testing.T) {
	input := "Q.1 What is X? Here is the answer to the question: blah. I hope this helps!"
	got := Questions(input)
	if len(got) != 1 {
		t.Fatalf("expected 1 question, got %d", len(got))
	}
	if got[0].ID != 1 {
		t.Errorf("expected id 1, got %d", got[0].ID)
	}
	if got[0].Text != "What is X?" {
		t.Errorf("expected %q, got %q", "What is X?", got[0].Text)
	}
}

func TestQuestions_BoundaryCapture(t *testing.T) {
	got := Questions("Q1. First question text here Q2. Second question text here")
	if len(got) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(got))
	}
	want := []Question{
		{ID: 1, Text: "First question text here."},
		{ID: 2, Text: "Second question text here."},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestQuestions_ExplicitMarkerPrecedence(t *testing.T) {
	// Both the explicit-marker form and the bare-numeral form claim id 3; the
	// explicit marker wins by rule order, not by comparing confidences.
	got := Questions("Q.3 What is X?\n3. Different text")
	if len(got) != 1 {
		t.Fatalf("expected 1 question, got %d", len(got))
	}
	if got[0].ID != 3 {
		t.Errorf("expected id 3, got %d", got[0].ID)
	}
	if !strings.HasPrefix(got[0].Text, "What is X?") {
		t.Errorf("expected explicit-marker text to win, got %q", got[0].Text)
	}
}

func TestQuestions_ThresholdRejection(t *testing.T) {
	// 3-char body, no marker, no question mark: 1.0 * 0.5 = 0.5, which is not
	// strictly greater than the threshold.
	if got := Questions("1. abc"); len(got) != 0 {
		t.Errorf("expected no questions, got %+v", got)
	}
}

func TestQuestions_LaterRuleClaimsIDAfterRejection(t *testing.T) {
	// The bare-numeral match for id 12 fails the threshold, so the id stays
	// unclaimed and the bracketed rule may take it.
	got := Questions("[12] Solve the linear system carefully.\n12. abc")
	if len(got) != 1 {
		t.Fatalf("expected 1 question, got %d", len(got))
	}
	if got[0].ID != 12 {
		t.Errorf("expected id 12, got %d", got[0].ID)
	}
	if !strings.HasPrefix(got[0].Text, "Solve the linear system") {
		t.Errorf("expected bracketed text, got %q", got[0].Text)
	}
}

func TestQuestions_Determinism(t *testing.T) {
	first := Questions(examDoc)
	second := Questions(examDoc)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical results, got %+v and %+v", first, second)
	}
}

func TestQuestions_IDUniquenessAndOrdering(t *testing.T) {
	got := Questions(examDoc)
	wantIDs := []int{1, 2, 5, 7, 9}
	if len(got) != len(wantIDs) {
		t.Fatalf("expected %d questions, got %d: %+v", len(wantIDs), len(got), got)
	}
	seen := make(map[int]bool)
	for i, q := range got {
		if q.ID != wantIDs[i] {
			t.Errorf("question[%d]: expected id %d, got %d", i, wantIDs[i], q.ID)
		}
		if seen[q.ID] {
			t.Errorf("duplicate id %d in output", q.ID)
		}
		seen[q.ID] = true
		if i > 0 && got[i-1].ID >= q.ID {
			t.Errorf("output not strictly ascending at index %d", i)
		}
	}
}

func TestQuestions_TerminalPunctuation(t *testing.T) {
	for _, q := range Questions(examDoc) {
		if q.Text == "" {
			t.Fatalf("question %d has empty text", q.ID)
		}
		last := q.Text[len(q.Text)-1]
		if last != '.' && last != '?' {
			t.Errorf("question %d: expected terminal . or ?, got %q", q.ID, q.Text)
		}
	}
}

func TestQuestions_IDGapsPreserved(t *testing.T) {
	got := Questions("Q.2 Why is the sky blue during daytime hours\nQ.40 Explain how rainbows form after rain")
	if len(got) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(got))
	}
	if got[0].ID != 2 || got[1].ID != 40 {
		t.Errorf("expected source ids 2 and 40 preserved, got %d and %d", got[0].ID, got[1].ID)
	}
}

func TestQuestions_DuplicateIDKeepsFirstOccurrence(t *testing.T) {
	got := Questions("Q.1 First version of the question here\nQ.1 Second version entirely different")
	if len(got) != 1 {
		t.Fatalf("expected 1 question, got %d", len(got))
	}
	if !strings.HasPrefix(got[0].Text, "First version") {
		t.Errorf("expected first occurrence kept, got %q", got[0].Text)
	}
}

func TestQuestions_EmptyAndQuestionlessInput(t *testing.T) {
	if got := Questions(""); len(got) != 0 {
		t.Errorf("expected empty result for empty input, got %+v", got)
	}
	prose := "This document contains plain prose without any numbering or markers at all."
	if got := Questions(prose); len(got) != 0 {
		t.Errorf("expected empty result for prose, got %+v", got)
	}
}

func TestMatchAll_ConfidenceFloor(t *testing.T) {
	candidates := matchAll(Normalize(examDoc))
	if len(candidates) == 0 {
		t.Fatal("expected candidates from exam document")
	}
	for _, c := range candidates {
		if c.Confidence <= ConfidenceThreshold {
			t.Errorf("candidate %d accepted with confidence %v, want > %v",
				c.ID, c.Confidence, ConfidenceThreshold)
		}
		if c.Confidence > 1.0 {
			t.Errorf("candidate %d confidence %v above 1.0", c.ID, c.Confidence)
		}
	}
}
