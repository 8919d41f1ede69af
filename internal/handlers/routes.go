package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"

	http2 "zetaexams/internal/utility/http"
)

const Version = "1.0.0"

// Routes builds the API router. A zero timeout disables the per-request deadline.
func (h *Handler) Routes(allowedOrigins []string, timeout time.Duration) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if timeout > 0 {
		r.Use(middleware.Timeout(timeout))
	}

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http2.RespondStatus(w, http.StatusOK, "Zeta Exams API", map[string]string{"version": Version})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.AdminLogin)
			r.Post("/setup", h.CreateAdmin)
			r.With(h.AdminAuthenticationMiddleware).Get("/verify", h.VerifyAdminToken)
		})

		// Question routes
		r.Route("/questions", func(r chi.Router) {
			r.Get("/", h.GetQuestions)
			r.Get("/subjects", h.GetQuestionSubjects)
			r.Get("/chapters", h.GetQuestionChapters)
			r.Get("/search", h.SearchQuestion)

			r.Group(func(r chi.Router) {
				r.Use(h.AdminAuthenticationMiddleware)
				r.Post("/bulk", h.BulkUploadQuestions)
				r.Put("/{id}", h.EditQuestion)
				r.Delete("/{id}", h.DeleteQuestion)
			})
		})

		r.Route("/formulas", func(r chi.Router) {
			r.Get("/", h.GetFormula)
			r.Get("/all", h.GetAllFormulas)
			r.Get("/subjects", h.GetFormulaSubjects)
			r.Get("/chapters", h.GetFormulaChapters)

			r.Group(func(r chi.Router) {
				r.Use(h.AdminAuthenticationMiddleware)
				r.Post("/", h.CreateFormula)
				r.Put("/{id}", h.EditFormula)
				r.Delete("/{id}", h.DeleteFormula)
			})
		})

		r.Route("/mocktests", func(r chi.Router) {
			r.Get("/", h.GetMockTests)

			r.Group(func(r chi.Router) {
				r.Use(h.AdminAuthenticationMiddleware)
				r.Post("/", h.CreateMockTest)
				r.Get("/admin/all", h.GetAdminMockTests)
				r.Get("/{id}/attempts", h.GetMockTestAttempts)
				r.Delete("/{id}", h.DeleteMockTest)
			})

			r.Get("/{id}", h.GetMockTest)
			r.Get("/{id}/stats", h.GetMockTestStats)
			r.Post("/{id}/submit", h.SubmitMockTest)
			r.Post("/{id}/review", h.ReviewMockTest)
		})

		r.With(h.AdminAuthenticationMiddleware).Post("/uploads", h.UploadFile)
	})

	return r
}
