// Package api exposes the posts to the site's pages as JSON.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/swezzy/sheetcms"
	"github.com/swezzy/sheetcms/config"
	"github.com/swezzy/sheetcms/log"
)

// PostProvider is satisfied by *sheetcms.Pipeline.
type PostProvider interface {
	Posts(ctx context.Context) sheetcms.Result
	Refresh(ctx context.Context) sheetcms.Result
}

const (
	defaultTrendingLimit = 3
	requestTimeout       = 30 * time.Second
)

func Mux(provider PostProvider, cfg config.Server, log log.Log) http.Handler {
	routes := chi.NewRouter()

	routes.Use(middleware.Recoverer)
	routes.Use(middleware.Timeout(requestTimeout))
	routes.Use(cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}).Handler)

	routes.Get("/healthz", healthz())

	routes.Route("/api", func(r chi.Router) {
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", listPosts(provider, log))
			r.Get("/featured", getFeatured(provider, log))
			r.Get("/trending", listTrending(provider, log))
			r.Get("/hero", getHero(provider, log))

			r.With(postContext(provider, log)).Get("/{postID}", getPost())
		})

		r.Post("/refresh", refresh(provider, log))
	})

	return routes
}

func healthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		args{"status": "ok"}.WriteJSON(w)
	}
}
