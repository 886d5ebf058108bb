package rest

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/adapter/rest/middleware"
	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/session"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewRouter mounts the listing routes. Every route under /api/v1 requires a JWT.
func NewRouter(h *ListingHandler, verifier *session.TokenVerifier, log *logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger(log.Named("HTTP")))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.JWTAuth(verifier, log))
		r.Post("/listings", h.HandleCreateListing)
	})

	return otelhttp.NewHandler(r, "house-marketplace.http")
}
