package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	"eduquiz-service/internal/app"
	"eduquiz-service/internal/auth"
)

// Handler wires the application services into the REST and websocket surface.
type Handler struct {
	auth        *auth.Service
	users       *app.UserService
	progression *app.ProgressionService
	progress    *app.ProgressService
	catalog     *app.CatalogService
	feed        *app.Feed
	upgrader    websocket.Upgrader
}

func NewHandler(authSvc *auth.Service, users *app.UserService, progression *app.ProgressionService, progress *app.ProgressService, catalog *app.CatalogService, feed *app.Feed) *Handler {
	return &Handler{
		auth:        authSvc,
		users:       users,
		progression: progression,
		progress:    progress,
		catalog:     catalog,
		feed:        feed,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Routes assembles the chi router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.register)
			r.Post("/login", h.login)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(h.auth))

			r.Route("/quizzes", func(r chi.Router) {
				r.Get("/subjects", h.listSubjects)
				r.Get("/subjects/{subjectID}/questions", h.listSubjectQuestions)
				r.Post("/submit", h.submitAnswer)
				r.Get("/submissions", h.listMySubmissions)
				r.Get("/submissions/{questionID}", h.latestSubmission)
			})

			r.Route("/questions", func(r chi.Router) {
				r.Get("/", h.listQuestions)
				r.Get("/{questionID}", h.getQuestion)
				r.Group(func(r chi.Router) {
					r.Use(auth.RequireAdmin)
					r.Post("/", h.createQuestion)
					r.Put("/{questionID}", h.updateQuestion)
					r.Delete("/{questionID}", h.deleteQuestion)
				})
			})

			r.Route("/students", func(r chi.Router) {
				r.Get("/progress", h.myProgress)
				r.Get("/level", h.myLevel)
				r.Get("/achievements", h.myAchievements)
				r.Get("/achievements/available", h.availableAchievements)
				r.Get("/feedback", h.myFeedback)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(auth.RequireAdmin)
				r.Get("/students", h.listStudents)
				r.Get("/scores", h.scoreboard)
				r.Get("/subjects", h.listSubjects)
				r.Get("/subjects/{subjectID}", h.getSubject)
				r.Post("/subjects", h.createSubject)
				r.Put("/subjects/{subjectID}", h.updateSubject)
				r.Delete("/subjects/{subjectID}", h.deleteSubject)
				r.Post("/feedback", h.sendFeedback)
				r.Get("/feedback/{studentID}", h.studentFeedback)
				r.Get("/achievements", h.listAchievements)
				r.Post("/achievements", h.createAchievement)
			})
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(h.auth))
		r.Use(auth.RequireAdmin)
		r.Get("/ws/feed", h.serveFeed)
	})

	return r
}
