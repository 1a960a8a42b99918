package http

import (
	"net/http"

	"eduquiz-service/internal/auth"
	"eduquiz-service/internal/domain"
)

func (h *Handler) myProgress(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	summary, err := h.progress.Summary(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) myLevel(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	view, err := h.progression.Level(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) myAchievements(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	unlocked, err := h.progression.Unlocked(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if unlocked == nil {
		unlocked = []domain.UnlockedAchievement{}
	}
	writeJSON(w, http.StatusOK, unlocked)
}

func (h *Handler) availableAchievements(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.progression.AvailableAchievements(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if catalog == nil {
		catalog = []domain.Achievement{}
	}
	writeJSON(w, http.StatusOK, catalog)
}

func (h *Handler) myFeedback(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	feedback, err := h.users.FeedbackFor(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if feedback == nil {
		feedback = []domain.Feedback{}
	}
	writeJSON(w, http.StatusOK, feedback)
}
