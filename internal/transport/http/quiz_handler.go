package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"eduquiz-service/internal/auth"
	"eduquiz-service/internal/domain"
)

type submitRequest struct {
	QuestionID int64         `json:"questionId"`
	Answer     domain.Answer `json:"answer"`
}

func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	var req submitRequest
	if !decode(w, r, &req) {
		return
	}
	result, err := h.progression.SubmitAnswer(r.Context(), claims.UserID, req.QuestionID, req.Answer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) listMySubmissions(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	submissions, err := h.progression.Submissions(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if submissions == nil {
		submissions = []domain.Submission{}
	}
	writeJSON(w, http.StatusOK, submissions)
}

func (h *Handler) latestSubmission(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	questionID, ok := pathID(w, r, "questionID")
	if !ok {
		return
	}
	submission, err := h.progression.LatestSubmission(r.Context(), claims.UserID, questionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submission)
}

func (h *Handler) listSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.catalog.Subjects(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subjects)
}

func (h *Handler) listSubjectQuestions(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := pathID(w, r, "subjectID")
	if !ok {
		return
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

func pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid " + param})
		return 0, false
	}
	return id, true
}
