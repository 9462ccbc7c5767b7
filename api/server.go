/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client address from X-Forwarded-For / X-Real-IP
  3. AccessLog:  One structured zap line per request
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. CORS:       Cross-origin requests for a frontend
  6. RateLimit:  Per-client token bucket on /api (optional)

ROUTE GROUPS:
  /api/inputs/*         Raw material stock
  /api/products/*       Finished goods stock
  /api/recipes/*        Recipes, cost and availability
  /api/batches/*        Batch lifecycle and settlement
  /api/transactions     Stock ledger
  /api/dashboard        Summary counts
  /api/alerts           Low-stock list
  /api/reports/*        Period aggregates and XLSX export
  /api/admin/*          Seed and reset

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - middleware.go: AccessLog and RateLimiter
  - cmd/artisan/commands/serve.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RouterOptions tunes the middleware stack. The zero value is usable.
type RouterOptions struct {
	Log            *zap.Logger
	Limiter        *RateLimiter
	AllowedOrigins []string
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:8080"}
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(AccessLog(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", h.Health)

	// API routes
	r.Route("/api", func(r chi.Router) {
		if opts.Limiter != nil {
			r.Use(opts.Limiter.Middleware)
		}

		r.Route("/inputs", func(r chi.Router) {
			r.Get("/", h.ListInputs)
			r.Post("/", h.CreateInput)
			r.Get("/{id}", h.GetInput)
			r.Patch("/{id}", h.UpdateInput)
			r.Delete("/{id}", h.DeleteInput)
			r.Post("/{id}/adjust", h.AdjustInput)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Post("/", h.CreateProduct)
			r.Get("/{id}", h.GetProduct)
			r.Patch("/{id}", h.UpdateProduct)
			r.Delete("/{id}", h.DeleteProduct)
			r.Post("/{id}/adjust", h.AdjustProduct)
		})

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", h.ListRecipes)
			r.Post("/", h.CreateRecipe)
			r.Get("/{id}", h.GetRecipe)
			r.Patch("/{id}", h.UpdateRecipe)
			r.Delete("/{id}", h.DeleteRecipe)
			r.Get("/{id}/cost", h.GetRecipeCost)
			r.Get("/{id}/availability", h.GetRecipeAvailability)
		})

		r.Route("/batches", func(r chi.Router) {
			r.Get("/", h.ListBatches)
			r.Post("/", h.CreateBatch)
			r.Get("/{id}", h.GetBatch)
			r.Patch("/{id}", h.UpdateBatch)
			r.Post("/{id}/start", h.StartBatch)
			r.Post("/{id}/complete", h.CompleteBatch)
			r.Post("/{id}/cancel", h.CancelBatch)
		})

		r.Get("/transactions", h.ListTransactions)
		r.Get("/dashboard", h.GetDashboard)
		r.Get("/alerts", h.GetAlerts)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/", h.GetReport)
			r.Get("/export", h.ExportReport)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/seed", h.Seed)
			r.Post("/reset", h.Reset)
		})
	})

	return r
}
