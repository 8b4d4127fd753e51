package api

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/legastream/legastream/internal/api/handlers"
	"github.com/legastream/legastream/internal/api/middleware"
	"github.com/legastream/legastream/internal/auth"
	"github.com/legastream/legastream/internal/cache"
	"github.com/legastream/legastream/internal/config"
	"github.com/legastream/legastream/internal/document"
	"github.com/legastream/legastream/internal/mailer"
	"github.com/legastream/legastream/internal/queue"
	"github.com/legastream/legastream/internal/stats"
	"github.com/legastream/legastream/internal/storage"
)

type Router struct {
	mux   *chi.Mux
	db    *sql.DB
	redis *redis.Client
	cfg   *config.Config
	queue *queue.Client
}

func NewRouter(db *sql.DB, rdb *redis.Client, qc *queue.Client, cfg *config.Config) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		db:    db,
		redis: rdb,
		cfg:   cfg,
		queue: qc,
	}
}

func (rt *Router) Setup() (http.Handler, error) {
	r := rt.mux

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	metrics, err := middleware.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	r.Use(metrics.Handler)

	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	store, err := storage.NewLocalStorage(rt.cfg.Storage.UploadsDir)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	userSvc := auth.NewUserService(rt.db)
	issuer := auth.NewTokenIssuer(rt.cfg.Auth.JWTSecret, rt.cfg.Auth.TokenTTL)
	authMW := auth.NewMiddleware(issuer, userSvc)
	mail := mailer.New(rt.cfg.Mail, slog.Default())

	docSvc := document.NewService(rt.db, store)
	statsSvc := stats.NewService(rt.db, cache.NewCache(rt.redis))

	authH := handlers.NewAuthHandler(userSvc, issuer, mail)
	docH := handlers.NewDocumentHandler(docSvc, rt.queue, statsSvc, rt.cfg.Storage.MaxUploadBytes())
	statsH := handlers.NewStatsHandler(statsSvc)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authH.Register)
			r.Post("/login", authH.Login)
			r.Post("/forgot_password", authH.ForgotPassword)
			r.Post("/reset_password", authH.ResetPassword)
			r.Get("/confirm_email", authH.ConfirmEmail)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMW.Authenticate)

			r.Route("/documents", func(r chi.Router) {
				r.Post("/", docH.Upload)
				r.Get("/", docH.List)
				r.Get("/{id}", docH.Get)
				r.Delete("/{id}", docH.Delete)
				r.Post("/{id}/analyze", docH.Analyze)
				r.Get("/{id}/entities", docH.Entities)
				r.Get("/{id}/status", docH.Status)
			})

			r.Get("/stats", statsH.Get)
		})
	})

	return r, nil
}
