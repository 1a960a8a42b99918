package http

import (
	"net/http"

	"eduquiz-service/internal/auth"
	"eduquiz-service/internal/domain"
)

type subjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type feedbackRequest struct {
	StudentID int64  `json:"studentId"`
	Message   string `json:"message"`
}

type achievementRequest struct {
	Name             string                 `json:"name"`
	Description      string                 `json:"description"`
	Icon             string                 `json:"icon"`
	RequirementType  domain.RequirementType `json:"requirementType"`
	RequirementValue int                    `json:"requirementValue"`
}

func (h *Handler) listStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.users.Students(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if students == nil {
		students = []domain.User{}
	}
	writeJSON(w, http.StatusOK, students)
}

func (h *Handler) scoreboard(w http.ResponseWriter, r *http.Request) {
	scores, err := h.progress.Scoreboard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scores)
}

func (h *Handler) getSubject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "subjectID")
	if !ok {
		return
	}
	subject, err := h.catalog.Subject(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subject)
}

func (h *Handler) createSubject(w http.ResponseWriter, r *http.Request) {
	var req subjectRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "name is required"})
		return
	}
	subject, err := h.catalog.CreateSubject(r.Context(), domain.Subject{Name: req.Name, Description: req.Description})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, subject)
}

func (h *Handler) updateSubject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "subjectID")
	if !ok {
		return
	}
	var req subjectRequest
	if !decode(w, r, &req) {
		return
	}
	subject, err := h.catalog.UpdateSubject(r.Context(), domain.Subject{ID: id, Name: req.Name, Description: req.Description})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subject)
}

func (h *Handler) deleteSubject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "subjectID")
	if !ok {
		return
	}
	if err := h.catalog.DeleteSubject(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) sendFeedback(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	var req feedbackRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "message is required"})
		return
	}
	feedback, err := h.users.SendFeedback(r.Context(), claims.UserID, req.StudentID, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, feedback)
}

func (h *Handler) studentFeedback(w http.ResponseWriter, r *http.Request) {
	studentID, ok := pathID(w, r, "studentID")
	if !ok {
		return
	}
	feedback, err := h.users.FeedbackFor(r.Context(), studentID)
	if err != nil {
		writeError(w, err)
		return
	}
	if feedback == nil {
		feedback = []domain.Feedback{}
	}
	writeJSON(w, http.StatusOK, feedback)
}

func (h *Handler) listAchievements(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.catalog.Achievements(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if catalog == nil {
		catalog = []domain.Achievement{}
	}
	writeJSON(w, http.StatusOK, catalog)
}

func (h *Handler) createAchievement(w http.ResponseWriter, r *http.Request) {
	var req achievementRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Name == "" || req.RequirementValue <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "name and a positive requirementValue are required"})
		return
	}
	achievement, err := h.catalog.CreateAchievement(r.Context(), domain.Achievement{
		Name:             req.Name,
		Description:      req.Description,
		Icon:             req.Icon,
		RequirementType:  req.RequirementType,
		RequirementValue: req.RequirementValue,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, achievement)
}
