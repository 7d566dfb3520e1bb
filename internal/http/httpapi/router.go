package httpapi

import (
	"net/http"
	"time"

	"customderiv/internal/http/handlers"
	"customderiv/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
	)

	// Health
	r.Get("/v1/healthz", app.Health)

	r.Group(func(r chi.Router) {
		auth := middleware.AuthOptions{}
		rate := 0
		if app.Config != nil {
			auth.Secret = app.Config.JWTSecret
			auth.LocalAdmin = app.Config.LocalAdmin()
			rate = app.Config.RateLimitPerMin
		}
		r.Use(middleware.RateLimit(rate, time.Minute))

		// gallery web-service entry point; it reports bad tokens in its envelope
		wsAuth := auth
		wsAuth.DeferRejection = true
		r.With(middleware.Authenticate(wsAuth)).Get("/ws.php", app.WebService)
		r.With(middleware.Authenticate(wsAuth)).Post("/ws.php", app.WebService)

		r.Route("/v1/derivatives", func(r chi.Router) {
			r.Use(middleware.Authenticate(auth))
			r.Get("/types", app.ListTypes)
			r.With(middleware.RequireAdmin).Get("/missing", app.ListMissing)
		})
	})

	return r
}
