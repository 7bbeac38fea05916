package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/yashasviy/split-payments-api/middleware"
	"github.com/yashasviy/split-payments-api/session"
	"github.com/yashasviy/split-payments-api/split"
)

// AccountLoader supplies an owner's funding accounts.
type AccountLoader interface {
	LoadAccounts(ctx context.Context, ownerID string) ([]split.Account, error)
}

// Deps are the collaborators of the HTTP API. Accounts and Redis are optional:
// without Accounts sessions must carry their accounts inline, without Redis
// actions are not deduplicated by idempotency key.
type Deps struct {
	Sessions *session.Manager
	Accounts AccountLoader
	Redis    *redis.Client
	Logger   *zap.Logger
}

func NewRouter(deps Deps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimw.Recoverer)

	r.Get("/healthz", HealthHandler())

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", CreateSessionHandler(deps.Sessions, deps.Accounts, deps.Logger))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", GetSessionHandler(deps.Sessions, deps.Logger))
			r.Delete("/", AbandonSessionHandler(deps.Sessions, deps.Logger))
			r.Post("/complete", CompleteSessionHandler(deps.Sessions, deps.Logger))

			actions := r.With()
			if deps.Redis != nil {
				actions = r.With(middleware.Idempotency(deps.Redis, deps.Logger))
			}
			actions.Post("/actions", DispatchHandler(deps.Sessions, deps.Logger))
		})
	})
	return r
}

func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
