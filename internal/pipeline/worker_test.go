package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/docquest/internal/extract"
	"github.com/dgallion1/docquest/internal/store"
)

func newTestWorker(t *testing.T) (*Worker, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	log := slog.New(slog.DiscardHandler)
	return NewWorker(st, extract.NewStats(time.Hour), log, false), st
}

func newTestJob(t *testing.T, st *store.Store, docID, filename string, data []byte) *Job {
	t.Helper()
	doc := &store.Document{
		ID:       docID,
		UserID:   "u1",
		Name:     "exam",
		Filename: filename,
		FileSize: int64(len(data)),
	}
	if err := st.CreateDocument(context.Background(), doc); err != nil {
		t.Fatalf("create document: %v", err)
	}
	job := &Job{
		ID:        NewID(),
		DocID:     docID,
		UserID:    "u1",
		Status:    StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	job.SetFileData(data)
	return job
}

func TestWorker_ProcessTextDocument(t *testing.T) {
	w, st := newTestWorker(t)
	ctx := context.Background()

	data := []byte("Q.1 What is the capital of France?\n\nQ.2 Name the largest ocean on Earth?\n")
	job := newTestJob(t, st, "doc-1", "exam.txt", data)

	w.Process(ctx, job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected status %q, got %q (errors: %v)", StatusCompleted, snap.Status, snap.Progress.Errors)
	}
	if snap.Progress.QuestionsFound != 2 || snap.Progress.QuestionsStored != 2 {
		t.Errorf("expected 2 found and stored, got %d/%d", snap.Progress.QuestionsFound, snap.Progress.QuestionsStored)
	}

	doc, err := st.GetDocument(ctx, "doc-1")
	if err != nil {
		t.Fatalf("get document: %v", err)
	}
	if doc.Status != store.StatusProcessed {
		t.Errorf("expected document status %q, got %q", store.StatusProcessed, doc.Status)
	}
	if doc.ContentHash == "" {
		t.Error("expected content hash to be recorded")
	}

	qs, err := st.Questions(ctx, "doc-1")
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("expected 2 stored questions, got %d", len(qs))
	}
	if qs[0].SourceID != 1 || qs[1].SourceID != 2 {
		t.Errorf("unexpected source ids: %d, %d", qs[0].SourceID, qs[1].SourceID)
	}
	if qs[0].Text != "What is the capital of France?" {
		t.Errorf("unexpected first question: %q", qs[0].Text)
	}
}

func TestWorker_ProcessUnsupportedFormat(t *testing.T) {
	w, st := newTestWorker(t)
	ctx := context.Background()

	job := newTestJob(t, st, "doc-bad", "exam.png", []byte("not really an image"))
	w.Process(ctx, job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed {
		t.Fatalf("expected status %q, got %q", StatusFailed, snap.Status)
	}
	if len(snap.Progress.Errors) == 0 {
		t.Error("expected an error to be recorded")
	}

	doc, err := st.GetDocument(ctx, "doc-bad")
	if err != nil {
		t.Fatalf("get document: %v", err)
	}
	if doc.Status != store.StatusFailed {
		t.Errorf("expected document status %q, got %q", store.StatusFailed, doc.Status)
	}
	if doc.ProcessingError == "" {
		t.Error("expected processing error to be recorded")
	}
}

func TestWorker_DuplicateSkipped(t *testing.T) {
	w, st := newTestWorker(t)
	ctx := context.Background()

	data := []byte("1. What year did the war end?\n2. Who signed the treaty?\n")
	first := newTestJob(t, st, "doc-orig", "a.txt", data)
	w.Process(ctx, first)
	if s := first.Snapshot().Status; s != StatusCompleted {
		t.Fatalf("expected first job completed, got %q", s)
	}

	second := newTestJob(t, st, "doc-copy", "b.txt", data)
	w.Process(ctx, second)

	snap := second.Snapshot()
	if snap.Status != StatusDupSkipped {
		t.Fatalf("expected status %q, got %q", StatusDupSkipped, snap.Status)
	}
	if snap.Progress.DuplicateOf != "doc-orig" {
		t.Errorf("expected duplicate_of %q, got %q", "doc-orig", snap.Progress.DuplicateOf)
	}

	// Duplicate keeps no question rows of its own.
	qs, err := st.Questions(ctx, "doc-copy")
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(qs) != 0 {
		t.Errorf("expected no questions for skipped duplicate, got %d", len(qs))
	}
}

func TestWorker_NoQuestionsStillCompletes(t *testing.T) {
	w, st := newTestWorker(t)
	ctx := context.Background()

	job := newTestJob(t, st, "doc-prose", "notes.txt", []byte("Just prose with no markers at all."))
	w.Process(ctx, job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected status %q, got %q", StatusCompleted, snap.Status)
	}
	if snap.Progress.QuestionsFound != 0 {
		t.Errorf("expected 0 questions, got %d", snap.Progress.QuestionsFound)
	}

	doc, err := st.GetDocument(ctx, "doc-prose")
	if err != nil {
		t.Fatalf("get document: %v", err)
	}
	if doc.Status != store.StatusProcessed {
		t.Errorf("expected document status %q, got %q", store.StatusProcessed, doc.Status)
	}
}
