package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the cart routes behind bearer-token auth. The
// route shapes mirror the storefront client's expectations.
func NewRouter(handler *CartHandler, jwtSecret []byte, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/carts", func(r chi.Router) {
		r.Use(AuthMiddleware(jwtSecret))
		r.Get("/me/current", handler.GetCurrent)
		r.Post("/add-item", handler.AddItem)
		r.Post("/remove-item", handler.RemoveItem)
		r.Post("/update-item", handler.UpdateItem)
	})

	return r
}
