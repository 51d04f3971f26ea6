package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/docquest/internal/store"
	"github.com/go-chi/chi/v5"
)

// handleListDocuments lists all documents for a user, newest first.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		jsonError(w, "user_id query parameter is required", http.StatusBadRequest)
		return
	}

	docs, err := s.orchestrator.Store().ListDocuments(r.Context(), userID)
	if err != nil {
		jsonError(w, "failed to list documents: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"documents": docs})
}

// handleGetDocument returns a single document with its processing state.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	doc, err := s.orchestrator.Store().GetDocument(r.Context(), docID)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to load document: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}

// handleQuestions returns the extracted questions for a document.
func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	st := s.orchestrator.Store()

	doc, err := st.GetDocument(r.Context(), docID)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to load document: "+err.Error(), http.StatusInternalServerError)
		return
	}

	questions, err := st.Questions(r.Context(), docID)
	if err != nil {
		jsonError(w, "failed to list questions: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"doc_id":    doc.ID,
		"status":    doc.Status,
		"questions": questions,
	})
}

// handleDeleteDocument deletes a document with its questions and answers.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	err := s.orchestrator.Store().DeleteDocument(r.Context(), docID)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to delete document: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"deleted": docID})
}

// handleSaveAnswers upserts answers for a document's questions.
func (s *Server) handleSaveAnswers(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")

	var body struct {
		Answers []store.Answer `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(body.Answers) == 0 {
		jsonError(w, "answers is required", http.StatusBadRequest)
		return
	}
	for _, a := range body.Answers {
		if a.Seq <= 0 {
			jsonError(w, "answer seq must be positive", http.StatusBadRequest)
			return
		}
	}

	st := s.orchestrator.Store()
	if _, err := st.GetDocument(r.Context(), docID); errors.Is(err, store.ErrNotFound) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	} else if err != nil {
		jsonError(w, "failed to load document: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := st.SaveAnswers(r.Context(), docID, body.Answers); err != nil {
		jsonError(w, "failed to save answers: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"saved": len(body.Answers)})
}

// handleGetAnswers returns a document's stored answers.
func (s *Server) handleGetAnswers(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	answers, err := s.orchestrator.Store().Answers(r.Context(), docID)
	if err != nil {
		jsonError(w, "failed to list answers: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"answers": answers})
}

// handleClearAnswers removes all answers for a document.
func (s *Server) handleClearAnswers(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if err := s.orchestrator.Store().ClearAnswers(r.Context(), docID); err != nil {
		jsonError(w, "failed to clear answers: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"cleared": docID})
}
