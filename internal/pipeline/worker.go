package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/docquest/internal/extract"
	"github.com/dgallion1/docquest/internal/parser"
	"github.com/dgallion1/docquest/internal/store"
)

// Worker processes a single document job.
type Worker struct {
	store       *store.Store
	stats       *extract.Stats
	log         *slog.Logger
	pdfFallback bool
}

func NewWorker(st *store.Store, stats *extract.Stats, log *slog.Logger, pdfFallback bool) *Worker {
	return &Worker{
		store:       st,
		stats:       stats,
		log:         log,
		pdfFallback: pdfFallback,
	}
}

// Process runs the full ingest pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "user_id", job.UserID)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		w.fail(ctx, job, "parsing", err.Error())
		return
	}
	if pp, ok := p.(*parser.PDFParser); ok {
		pp.FallbackPdftotext = w.pdfFallback
	}

	tree, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		w.fail(ctx, job, "parsing", fmt.Sprintf("parse: %s", err))
		return
	}
	if job.Title != "" {
		tree.Title = job.Title
	}

	// Compute content hash from the parsed text.
	parsedText := tree.Flatten()
	job.ContentHash = ContentHashHex([]byte(parsedText))
	if err := w.store.SetContentHash(ctx, job.DocID, job.ContentHash); err != nil {
		log.Warn("content hash write failed", "error", err)
	}

	// Phase 1.5: Dedup check
	existingDocID, err := w.store.FindByHash(ctx, job.UserID, job.ContentHash, job.DocID)
	if err != nil {
		log.Warn("dedup check failed, proceeding", "error", err)
	} else if existingDocID != "" {
		log.Info("duplicate document, skipping", "existing_doc_id", existingDocID)
		job.SetDuplicateOf(existingDocID)
		job.SetStatus(StatusDupSkipped, "dedup")
		if err := w.store.SetStatus(ctx, job.DocID, store.StatusProcessed, ""); err != nil {
			log.Warn("status update failed", "error", err)
		}
		return
	}

	// Phase 2: Extract questions from the flattened text.
	job.SetStatus(StatusExtracting, "extracting")
	start := time.Now()
	questions := extract.Questions(parsedText)
	w.stats.Record(time.Since(start))
	job.SetQuestions(len(questions), 0)
	log.Info("extraction complete", "questions", len(questions))

	// Phase 3: Store questions.
	job.SetStatus(StatusStoring, "storing")
	if err := w.store.ReplaceQuestions(ctx, job.DocID, questions); err != nil {
		log.Error("store failed", "error", err)
		w.fail(ctx, job, "storing", fmt.Sprintf("store: %s", err))
		return
	}
	job.SetQuestions(len(questions), len(questions))

	if err := w.store.SetStatus(ctx, job.DocID, store.StatusProcessed, ""); err != nil {
		log.Error("status update failed", "error", err)
		w.fail(ctx, job, "storing", fmt.Sprintf("status: %s", err))
		return
	}

	log.Info("ingest complete", "questions_stored", len(questions))
	job.SetStatus(StatusCompleted, "done")
}

// fail marks both the job and the stored document as failed.
func (w *Worker) fail(ctx context.Context, job *Job, phase, msg string) {
	job.AddError(msg)
	job.SetStatus(StatusFailed, phase)
	if err := w.store.SetStatus(ctx, job.DocID, store.StatusFailed, msg); err != nil {
		w.log.Warn("failed-status update failed", "doc_id", job.DocID, "error", err)
	}
}
