package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/swezzy/sheetcms"
	"github.com/swezzy/sheetcms/content"
	"github.com/swezzy/sheetcms/log"
)

var now = time.Now

func posts(provider PostProvider, r *http.Request, log log.Log) (sheetcms.Result, content.Posts) {
	res := provider.Posts(r.Context())
	if res.Err != nil {
		log.Debugf("Serving %s posts to %s: %v", res.Origin, r.URL.Path, res.Err)
	}

	return res, res.Posts
}

func listPosts(provider PostProvider, log log.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, stop := intParam(w, r, "limit", 0)
		if stop {
			return
		}

		days, stop := intParam(w, r, "days", 0)
		if stop {
			return
		}

		res, list := posts(provider, r, log)

		query := r.URL.Query()
		if category := query.Get("category"); category != "" {
			list = list.ByCategory(category)
		}

		if q := query.Get("q"); q != "" {
			list = list.Search(q)
		}

		if days > 0 {
			list = list.Recent(now(), days)
		}

		if limit > 0 && len(list) > limit {
			list = list[:limit]
		}

		args{"posts": nonNil(list)}.withResult(res).WriteJSON(w)
	}
}

func getFeatured(provider PostProvider, log log.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, list := posts(provider, r, log)

		post, ok := list.Featured()
		if !ok {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}

		args{"post": post}.withResult(res).WriteJSON(w)
	}
}

func listTrending(provider PostProvider, log log.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, stop := intParam(w, r, "limit", defaultTrendingLimit)
		if stop {
			return
		}

		res, list := posts(provider, r, log)

		args{"posts": list.Trending(limit)}.withResult(res).WriteJSON(w)
	}
}

func getHero(provider PostProvider, log log.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, list := posts(provider, r, log)

		resp := args{}
		if hero, rest, ok := content.SplitHero(list); ok {
			resp["hero"] = hero
			resp["posts"] = nonNil(rest)
		} else {
			resp["hero"] = nil
			resp["posts"] = nonNil(list)
		}

		resp.withResult(res).WriteJSON(w)
	}
}

func postContext(provider PostProvider, log log.Log) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, list := posts(provider, r, log)

			post, ok := list.Find(chi.URLParam(r, "postID"))
			if !ok {
				http.Error(w, "Not found", http.StatusNotFound)
				return
			}

			ctx := context.WithValue(r.Context(), postKey, post)
			ctx = context.WithValue(ctx, resultKey, res)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func getPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, ok := r.Context().Value(postKey).(content.Post)
		if !ok {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		res, _ := r.Context().Value(resultKey).(sheetcms.Result)

		args{"post": post}.withResult(res).WriteJSON(w)
	}
}

// refresh forces a download of the sheet. The posts served in its place are
// still returned when it fails, with a 502 status.
func refresh(provider PostProvider, log log.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := provider.Refresh(r.Context())

		resp := args{"posts": nonNil(res.Posts)}.withResult(res)
		if res.Err != nil {
			log.Printf("Error refreshing posts: %v", res.Err)

			resp["error"] = res.Err.Error()
			resp.writeJSON(w, http.StatusBadGateway)
			return
		}

		log.Infof("Refreshed %d posts on request", len(res.Posts))
		resp.WriteJSON(w)
	}
}

func nonNil(list content.Posts) content.Posts {
	if list == nil {
		return content.Posts{}
	}
	return list
}
