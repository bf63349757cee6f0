package httpapi

import (
	"context"
	"net/http"
	"time"

	"adaptlearn-backend-go/internal/config"
	"adaptlearn-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	DB         *sqlx.DB
	Config     config.Config
	Tokens     services.TokenService
	MetricsHub *services.MetricsHub
}

func NewServer(db *sqlx.DB, cfg config.Config, hub *services.MetricsHub) *Server {
	tokens := services.TokenService{
		Secret:     []byte(cfg.JWTSecret),
		Issuer:     cfg.JWTIssuer,
		AccessTTL:  time.Duration(cfg.AccessTTLSeconds) * time.Second,
		RefreshTTL: time.Duration(cfg.RefreshTTLSeconds) * time.Second,
	}
	return &Server{
		DB:         db,
		Config:     cfg,
		Tokens:     tokens,
		MetricsHub: hub,
	}
}

func (s *Server) Router(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// The websocket route stays outside this group: the logger's recorder
	// does not implement http.Hijacker.
	r.Route("/api", func(api chi.Router) {
		api.Use(RequestLogger)
		api.Post("/auth/register", s.Register)
		api.Post("/auth/login", s.Login)
		api.Post("/auth/refresh", s.Refresh)
		api.Post("/auth/logout", s.Logout)

		api.Route("/me", func(me chi.Router) {
			me.Use(WithAuth(s.Tokens))
			me.Get("/", s.Me)
			me.Put("/password", s.ChangePassword)
			me.Delete("/", s.DeleteAccount)

			me.Route("/state", func(state chi.Router) {
				state.Get("/", s.GetState)
				state.Put("/", s.PutState)
				state.Post("/reset", s.ResetState)
				state.Post("/feedback", s.SubmitFeedback)
				state.Get("/recommendation", s.Recommendation)
				state.Get("/stats", s.ModeStats)
				state.Post("/survey", s.CompleteSurvey)
				state.Post("/session", s.StartSession)
				state.Post("/answers", s.RecordAnswer)
				state.Post("/files", s.MapFile)
				state.Get("/performance", s.Performance)
				state.Get("/performance/weak", s.WeakAreas)
				state.Get("/performance/strong", s.StrongAreas)
			})
		})

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(WithAuth(s.Tokens))
			admin.Use(RequireAdmin(s.Config))
			admin.Get("/metrics/history", s.MetricsHistory)
		})
	})

	r.Get("/ws/metrics", s.MetricsSocket)
	return r
}
