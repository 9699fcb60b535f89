package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/pastel/internal/http/dashboard"
	"github.com/MrJamesThe3rd/pastel/internal/http/export"
	"github.com/MrJamesThe3rd/pastel/internal/http/statement"
	"github.com/MrJamesThe3rd/pastel/internal/http/transaction"
)

func New(
	corsOrigins []string,
	transactionsV1 *transaction.Handler,
	dashboardV1 *dashboard.Handler,
	importV1 *statement.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.Routes(r)
		})

		r.Route("/dashboard", dashboardV1.Routes)

		r.Route("/import", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json", "multipart/form-data"))
			importV1.Routes(r)
		})

		r.Route("/export", exportV1.Routes)
	})

	return router
}
