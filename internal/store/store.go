package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dgallion1/docquest/internal/extract"
)

// Document status values.
const (
	StatusPending   = "pending"
	StatusProcessed = "processed"
	StatusFailed    = "failed"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("store: not found")

// Document is a stored upload and its processing state.
type Document struct {
	ID              string    `json:"doc_id"`
	UserID          string    `json:"user_id"`
	Name            string    `json:"name"`
	Filename        string    `json:"filename"`
	ContentHash     string    `json:"content_hash"`
	Status          string    `json:"status"`
	ProcessingError string    `json:"processing_error,omitempty"`
	FileSize        int64     `json:"file_size"`
	QuestionCount   int       `json:"question_count"`
	UploadedAt      time.Time `json:"uploaded_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Question is a stored question row. Seq is the storage sequence assigned per
// document on insert; SourceID keeps whatever numbering the source document
// used, gaps included.
type Question struct {
	Seq      int    `json:"seq"`
	SourceID int    `json:"question_id"`
	Text     string `json:"text"`
}

// Answer is a stored answer keyed by the question's storage sequence.
type Answer struct {
	Seq       int       `json:"seq"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Store wraps the sqlite database holding documents, questions and answers.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and runs migrations.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS documents (
	id               TEXT PRIMARY KEY,
	user_id          TEXT NOT NULL,
	name             TEXT NOT NULL,
	filename         TEXT NOT NULL,
	content_hash     TEXT NOT NULL DEFAULT '',
	status           TEXT NOT NULL DEFAULT 'pending',
	processing_error TEXT NOT NULL DEFAULT '',
	file_size        INTEGER NOT NULL DEFAULT 0,
	uploaded_at      TIMESTAMP NOT NULL,
	updated_at       TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_user ON documents(user_id, uploaded_at DESC);
CREATE INDEX IF NOT EXISTS idx_documents_hash ON documents(user_id, content_hash);

CREATE TABLE IF NOT EXISTS questions (
	document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	seq         INTEGER NOT NULL,
	source_id   INTEGER NOT NULL,
	text        TEXT NOT NULL,
	PRIMARY KEY (document_id, seq)
);

CREATE TABLE IF NOT EXISTS answers (
	document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	seq         INTEGER NOT NULL,
	text        TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL,
	PRIMARY KEY (document_id, seq)
);
`)
	return err
}

// CreateDocument inserts a new pending document.
func (s *Store) CreateDocument(ctx context.Context, doc *Document) error {
	now := time.Now().UTC()
	doc.Status = StatusPending
	doc.UploadedAt = now
	doc.UpdatedAt = now
	_, err := s.db.ExecContext(ctx, `
INSERT INTO documents (id, user_id, name, filename, content_hash, status, file_size, uploaded_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.UserID, doc.Name, doc.Filename, doc.ContentHash, doc.Status, doc.FileSize, doc.UploadedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// GetDocument returns one document by id.
func (s *Store) GetDocument(ctx context.Context, id string) (*Document, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT d.id, d.user_id, d.name, d.filename, d.content_hash, d.status, d.processing_error, d.file_size,
       (SELECT COUNT(*) FROM questions q WHERE q.document_id = d.id),
       d.uploaded_at, d.updated_at
FROM documents d WHERE d.id = ?`, id)
	return scanDocument(row)
}

// ListDocuments returns a user's documents, newest first.
func (s *Store) ListDocuments(ctx context.Context, userID string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT d.id, d.user_id, d.name, d.filename, d.content_hash, d.status, d.processing_error, d.file_size,
       (SELECT COUNT(*) FROM questions q WHERE q.document_id = d.id),
       d.uploaded_at, d.updated_at
FROM documents d WHERE d.user_id = ? ORDER BY d.uploaded_at DESC, d.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*Document, error) {
	var doc Document
	err := row.Scan(&doc.ID, &doc.UserID, &doc.Name, &doc.Filename, &doc.ContentHash,
		&doc.Status, &doc.ProcessingError, &doc.FileSize, &doc.QuestionCount,
		&doc.UploadedAt, &doc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan document: %w", err)
	}
	return &doc, nil
}

// SetStatus updates a document's processing state. procErr is cleared when
// empty.
func (s *Store) SetStatus(ctx context.Context, id, status, procErr string) error {
	res, err := s.db.ExecContext(ctx, `
UPDATE documents SET status = ?, processing_error = ?, updated_at = ? WHERE id = ?`,
		status, procErr, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetContentHash records the parsed-text hash used for duplicate detection.
func (s *Store) SetContentHash(ctx context.Context, id, hash string) error {
	_, err := s.db.ExecContext(ctx, `
UPDATE documents SET content_hash = ?, updated_at = ? WHERE id = ?`,
		hash, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update content hash: %w", err)
	}
	return nil
}

// FindByHash returns the id of another processed document owned by the same
// user with the same content hash, or "" if none exists.
func (s *Store) FindByHash(ctx context.Context, userID, hash, excludeID string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
SELECT id FROM documents
WHERE user_id = ? AND content_hash = ? AND id != ? AND status = ?
ORDER BY uploaded_at LIMIT 1`, userID, hash, excludeID, StatusProcessed).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("find by hash: %w", err)
	}
	return id, nil
}

// ReplaceQuestions swaps a document's stored questions for the given set.
// Storage sequence numbers are assigned 1..n in slice order, so they follow
// the extractor's ascending source-id ordering.
func (s *Store) ReplaceQuestions(ctx context.Context, docID string, questions []extract.Question) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE document_id = ?`, docID); err != nil {
		return fmt.Errorf("clear questions: %w", err)
	}
	for i, q := range questions {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO questions (document_id, seq, source_id, text) VALUES (?, ?, ?, ?)`,
			docID, i+1, q.ID, q.Text); err != nil {
			return fmt.Errorf("insert question %d: %w", q.ID, err)
		}
	}
	return tx.Commit()
}

// Questions returns a document's questions in storage order.
func (s *Store) Questions(ctx context.Context, docID string) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT seq, source_id, text FROM questions WHERE document_id = ? ORDER BY seq`, docID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	qs := []Question{}
	for rows.Next() {
		var q Question
		if err := rows.Scan(&q.Seq, &q.SourceID, &q.Text); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		qs = append(qs, q)
	}
	return qs, rows.Err()
}

// SaveAnswers upserts answers keyed by question sequence.
func (s *Store) SaveAnswers(ctx context.Context, docID string, answers []Answer) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, a := range answers {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO answers (document_id, seq, text, created_at) VALUES (?, ?, ?, ?)
ON CONFLICT (document_id, seq) DO UPDATE SET text = excluded.text, created_at = excluded.created_at`,
			docID, a.Seq, a.Text, now); err != nil {
			return fmt.Errorf("upsert answer %d: %w", a.Seq, err)
		}
	}
	return tx.Commit()
}

// Answers returns a document's stored answers in sequence order.
func (s *Store) Answers(ctx context.Context, docID string) ([]Answer, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT seq, text, created_at FROM answers WHERE document_id = ? ORDER BY seq`, docID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	answers := []Answer{}
	for rows.Next() {
		var a Answer
		if err := rows.Scan(&a.Seq, &a.Text, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// ClearAnswers removes all answers for a document.
func (s *Store) ClearAnswers(ctx context.Context, docID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM answers WHERE document_id = ?`, docID)
	if err != nil {
		return fmt.Errorf("clear answers: %w", err)
	}
	return nil
}

// DeleteDocument removes a document; questions and answers cascade.
func (s *Store) DeleteDocument(ctx context.Context, docID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, docID)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
