// Cinescope - Movie and Show Catalog API
// Copyright 2026 Cinescope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cinescope/cinescope/internal/config"
	"github.com/cinescope/cinescope/internal/middleware"
	"github.com/cinescope/cinescope/internal/pipeline"
)

// Router assembles the HTTP surface: pipeline-composed endpoints, route
// groups, and the shared middleware stack.
type Router struct {
	handler  *Handler
	pipeline *pipeline.Pipeline
	cfg      *config.Config
	limiter  *middleware.RateLimiter
}

// NewRouter creates the router. Call Setup to build the http.Handler.
func NewRouter(handler *Handler, p *pipeline.Pipeline, cfg *config.Config) *Router {
	var limiter *middleware.RateLimiter
	if !cfg.Security.RateLimitDisabled {
		limiter = middleware.NewRateLimiter(cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow)
	}
	return &Router{
		handler:  handler,
		pipeline: p,
		cfg:      cfg,
		limiter:  limiter,
	}
}

// Close releases router resources (the rate limiter cleanup goroutine).
func (router *Router) Close() {
	if router.limiter != nil {
		router.limiter.Stop()
	}
}

// Setup builds the complete route table. Every group's registry is
// checked at startup: an empty group means the route table is
// misconfigured, and the server refuses to start rather than serving a
// silent 404 surface.
func (router *Router) Setup() (http.Handler, error) {
	h := router.handler
	p := router.pipeline

	// Endpoint groups, composed once.
	authGroup := p.Group("auth")
	authGroup.Handle("register", h.Register,
		pipeline.ValidateBody(func() interface{} { return &RegisterRequest{} }))
	authGroup.Handle("login", h.Login,
		pipeline.ValidateBody(func() interface{} { return &LoginRequest{} }))
	authGroup.Handle("logout", h.Logout, pipeline.RequireAuth())

	usersGroup := p.Group("users")
	usersGroup.Handle("me", h.Me, pipeline.RequireAuth())

	moviesGroup := p.Group("movies")
	moviesGroup.Handle("list", h.ListMovies,
		pipeline.ValidateQuery(func() interface{} { return &ListCatalogQuery{} }))
	moviesGroup.Handle("get", h.GetMovie)
	moviesGroup.Handle("create", h.CreateMovie,
		pipeline.RequireAuth(),
		pipeline.ValidateBody(func() interface{} { return &MovieUpsertRequest{} }))
	moviesGroup.Handle("update", h.UpdateMovie,
		pipeline.RequireAuth(),
		pipeline.ValidateBody(func() interface{} { return &MovieUpsertRequest{} }))
	moviesGroup.Handle("delete", h.DeleteMovie, pipeline.RequireAuth())

	showsGroup := p.Group("shows")
	showsGroup.Handle("list", h.ListShows,
		pipeline.ValidateQuery(func() interface{} { return &ListCatalogQuery{} }))
	showsGroup.Handle("get", h.GetShow)
	showsGroup.Handle("create", h.CreateShow,
		pipeline.RequireAuth(),
		pipeline.ValidateBody(func() interface{} { return &ShowUpsertRequest{} }))
	showsGroup.Handle("update", h.UpdateShow,
		pipeline.RequireAuth(),
		pipeline.ValidateBody(func() interface{} { return &ShowUpsertRequest{} }))
	showsGroup.Handle("delete", h.DeleteShow, pipeline.RequireAuth())

	celebsGroup := p.Group("celebrities")
	celebsGroup.Handle("list", h.ListCelebrities,
		pipeline.ValidateQuery(func() interface{} { return &ListPageQuery{} }))
	celebsGroup.Handle("get", h.GetCelebrity)
	celebsGroup.Handle("create", h.CreateCelebrity,
		pipeline.RequireAuth(),
		pipeline.ValidateBody(func() interface{} { return &CelebrityUpsertRequest{} }))
	celebsGroup.Handle("update", h.UpdateCelebrity,
		pipeline.RequireAuth(),
		pipeline.ValidateBody(func() interface{} { return &CelebrityUpsertRequest{} }))
	celebsGroup.Handle("delete", h.DeleteCelebrity, pipeline.RequireAuth())
	celebsGroup.Handle("credit", h.CreateCredit,
		pipeline.RequireAuth(),
		pipeline.ValidateBody(func() interface{} { return &CreditCreateRequest{} }))

	ratingsGroup := p.Group("ratings")
	ratingsGroup.Handle("create", h.CreateRating,
		pipeline.RequireAuth(),
		pipeline.ValidateBody(func() interface{} { return &RatingCreateRequest{} }))
	ratingsGroup.Handle("mine", h.MyRatings, pipeline.RequireAuth())
	ratingsGroup.Handle("delete", h.DeleteRating, pipeline.RequireAuth())

	discoveryGroup := p.Group("discovery")
	discoveryGroup.Handle("search", h.Search,
		pipeline.ValidateQuery(func() interface{} { return &SearchQuery{} }))
	discoveryGroup.Handle("recommendations", h.Recommendations,
		pipeline.RequireAuth(),
		pipeline.ValidateQuery(func() interface{} { return &RecommendQuery{} }))

	for _, group := range []*pipeline.Registry{
		authGroup, usersGroup, moviesGroup, showsGroup, celebsGroup, ratingsGroup, discoveryGroup,
	} {
		if _, err := group.Handlers(); err != nil {
			return nil, err
		}
	}

	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   router.cfg.Security.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Client-Session"},
		ExposedHeaders:   []string{"X-Request-ID", "X-Session-Invalidate"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Auth endpoints: strict brute-force limits via httprate, the login
	// route stricter still.
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(httprate.LimitByIP(10, router.cfg.Security.RateLimitWindow))
		r.Use(middleware.PrometheusMetrics)

		r.Post("/register", authGroup.Get("register"))
		r.With(httprate.LimitByIP(
			router.cfg.Security.LoginRateLimit,
			router.cfg.Security.LoginRateWindow,
		)).Post("/login", authGroup.Get("login"))
		r.Post("/logout", authGroup.Get("logout"))
	})

	// Catalog API: shared per-IP token bucket plus metrics.
	r.Route("/api/v1", func(r chi.Router) {
		if router.limiter != nil {
			r.Use(router.limiter.Middleware)
		}
		r.Use(middleware.PrometheusMetrics)

		r.Get("/users/me", usersGroup.Get("me"))

		r.Route("/movies", func(r chi.Router) {
			r.Get("/", moviesGroup.Get("list"))
			r.Post("/", moviesGroup.Get("create"))
			r.Get("/{id}", moviesGroup.Get("get"))
			r.Put("/{id}", moviesGroup.Get("update"))
			r.Delete("/{id}", moviesGroup.Get("delete"))
		})

		r.Route("/shows", func(r chi.Router) {
			r.Get("/", showsGroup.Get("list"))
			r.Post("/", showsGroup.Get("create"))
			r.Get("/{id}", showsGroup.Get("get"))
			r.Put("/{id}", showsGroup.Get("update"))
			r.Delete("/{id}", showsGroup.Get("delete"))
		})

		r.Route("/celebrities", func(r chi.Router) {
			r.Get("/", celebsGroup.Get("list"))
			r.Post("/", celebsGroup.Get("create"))
			r.Get("/{id}", celebsGroup.Get("get"))
			r.Put("/{id}", celebsGroup.Get("update"))
			r.Delete("/{id}", celebsGroup.Get("delete"))
			r.Post("/credits", celebsGroup.Get("credit"))
		})

		r.Route("/ratings", func(r chi.Router) {
			r.Post("/", ratingsGroup.Get("create"))
			r.Get("/mine", ratingsGroup.Get("mine"))
			r.Delete("/{id}", ratingsGroup.Get("delete"))
		})

		r.Get("/search", discoveryGroup.Get("search"))
		r.Get("/recommendations", discoveryGroup.Get("recommendations"))
	})

	// Health and observability live outside the rate-limited API group.
	r.Get("/api/v1/health", router.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r, nil
}

// handleHealth reports liveness and database reachability.
func (router *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := router.handler.db.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"degraded"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
