package http

import (
	"net/http"
	"strconv"

	"eduquiz-service/internal/domain"
)

type questionRequest struct {
	SubjectID   int64               `json:"subjectId"`
	Type        domain.QuestionType `json:"questionType"`
	Text        string              `json:"questionText"`
	Options     []string            `json:"options"`
	Key         domain.Answer       `json:"correctAnswer"`
	Explanation string              `json:"explanation"`
	Points      int                 `json:"points"`
}

func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request) {
	var subjectID int64
	if raw := r.URL.Query().Get("subject_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid subject_id"})
			return
		}
		subjectID = id
	}
	questions, err := h.catalog.Questions(r.Context(), subjectID)
	if err != nil {
		writeError(w, err)
		return
	}
	if questions == nil {
		questions = []domain.Question{}
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *Handler) getQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "questionID")
	if !ok {
		return
	}
	question, err := h.catalog.Question(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, question)
}

func (h *Handler) createQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if !decode(w, r, &req) {
		return
	}
	question, err := h.catalog.CreateQuestion(r.Context(), domain.Question{
		SubjectID:   req.SubjectID,
		Type:        req.Type,
		Text:        req.Text,
		Options:     req.Options,
		Key:         req.Key,
		Explanation: req.Explanation,
		Points:      req.Points,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, question)
}

func (h *Handler) updateQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "questionID")
	if !ok {
		return
	}
	var req questionRequest
	if !decode(w, r, &req) {
		return
	}
	question, err := h.catalog.UpdateQuestion(r.Context(), domain.Question{
		ID:          id,
		SubjectID:   req.SubjectID,
		Type:        req.Type,
		Text:        req.Text,
		Options:     req.Options,
		Key:         req.Key,
		Explanation: req.Explanation,
		Points:      req.Points,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, question)
}

func (h *Handler) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "questionID")
	if !ok {
		return
	}
	if err := h.catalog.DeleteQuestion(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
