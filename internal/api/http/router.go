package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/aliskhannn/japan-trivia/internal/auth"
)

type RouterConfig struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
}

// NewRouter mounts every route. Writes to the quiz collection need a bearer token.
func NewRouter(cfg RouterConfig, h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(h.logger), middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Post("/auth/login", h.Login)

	r.Route("/api", func(api chi.Router) {
		api.Get("/quizzes", h.ListQuizzes)
		api.Get("/quizzes/{id}", h.GetQuiz)
		api.Post("/quizzes/similarity", h.CheckSimilarity)
		api.Get("/export", h.Export)

		api.Group(func(pr chi.Router) {
			pr.Use(auth.JWTMiddleware(h.auth))

			pr.Post("/quizzes", h.CreateQuiz)
			pr.Put("/quizzes/{id}", h.UpdateQuiz)
			pr.Delete("/quizzes/{id}", h.DeleteQuiz)
			pr.Post("/quizzes/{id}/review", h.ReviewQuiz)

			pr.Post("/generate", h.Generate)
			pr.Post("/generate/save", h.SaveGenerated)
		})

		api.Route("/users/{userID}", func(ur chi.Router) {
			ur.Post("/sessions", h.RecordSession)
			ur.Get("/stats", h.Statistics)
			ur.Get("/history", h.History)
			ur.Delete("/history", h.ClearHistory)
			ur.Get("/reviews", h.Reviews)
			ur.Get("/reviews/{reviewID}", h.Review)
			ur.Delete("/reviews", h.ClearReviews)
			ur.Get("/settings", h.Settings)
			ur.Put("/settings", h.SaveSettings)
		})
	})

	return r
}

// requestLogger logs every request with zap instead of the chi text logger.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Debug("http request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
