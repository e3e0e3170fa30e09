package http

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"feedviewer/internal/domain"
	"feedviewer/internal/models"
	"feedviewer/internal/pagination"

	httputils "github.com/Fau1con/renderresponse"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates/*.html
var templateFS embed.FS

type FeedService interface {
	ListFeeds(ctx context.Context) ([]*domain.Feed, error)
	GetFeed(ctx context.Context, id string) (*domain.Feed, error)
	LookupFeed(id string) (*domain.Feed, error)
}

type PostService interface {
	GetOrExtract(feed *domain.Feed, postID string) (*domain.Post, error)
}

type counter interface {
	Len() int
}

type Api struct {
	mux       *http.ServeMux
	feeds     FeedService
	posts     PostService
	feedCount counter
	postCount counter
	tmpl      *template.Template
	root      string
	log       *slog.Logger
}

func NewApi(feeds FeedService, posts PostService, feedCount, postCount counter, root string, log *slog.Logger) (*Api, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"pathescape": url.PathEscape,
		"date":       formatDate,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	api := Api{
		mux:       http.NewServeMux(),
		feeds:     feeds,
		posts:     posts,
		feedCount: feedCount,
		postCount: postCount,
		tmpl:      tmpl,
		root:      root,
		log:       log,
	}
	api.endpoints()
	return &api, nil
}

func (api *Api) Router() http.Handler {
	return api.mux
}

func (api *Api) endpoints() {
	api.mux.HandleFunc("/{$}", api.IndexHandler)
	api.mux.HandleFunc("/feed/{id}", api.FeedHandler)
	api.mux.HandleFunc("/feed/{id}/{postid}", api.PostHandler)
	api.mux.HandleFunc("/healthz", api.HealthHandler)
	api.mux.Handle("/metrics", promhttp.Handler())
}

func (api *Api) IndexHandler(w http.ResponseWriter, r *http.Request) {
	if !httputils.ValidateMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}

	feeds, err := api.feeds.ListFeeds(r.Context())
	if err != nil {
		api.renderFetchError(w, err)
		return
	}

	api.render(w, "index.html", models.IndexPage{
		Root:  api.root,
		Feeds: feeds,
	})
}

func (api *Api) FeedHandler(w http.ResponseWriter, r *http.Request) {
	if !httputils.ValidateMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}

	id := r.PathValue("id")
	pag := pagination.New(r.URL.Query().Get("p"))

	feed, err := api.feeds.GetFeed(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrFeedNotFound) {
			renderText(w, fmt.Sprintf("could not find feed %s", id))
			return
		}
		api.renderFetchError(w, err)
		return
	}

	api.render(w, "feed.html", models.FeedPage{
		Root: api.root,
		Page: pag.CurrentPage,
		Feed: feed,
	})
}

func (api *Api) PostHandler(w http.ResponseWriter, r *http.Request) {
	if !httputils.ValidateMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}

	id := r.PathValue("id")
	postID := r.PathValue("postid")
	pag := pagination.New(r.URL.Query().Get("p"))

	feed, err := api.feeds.LookupFeed(id)
	if err != nil {
		renderText(w, fmt.Sprintf("could not find feed %s", id))
		return
	}

	post, err := api.posts.GetOrExtract(feed, postID)
	if err != nil {
		renderText(w, fmt.Sprintf("could not find post %s", postID))
		return
	}

	api.render(w, "post.html", models.PostPage{
		Root:   api.root,
		Page:   pag.CurrentPage,
		FeedID: id,
		Feed:   feed,
		Post:   post,
		Text:   template.HTML(post.Extraction.LeadHTML),
		Images: post.Extraction.Images,
	})
}

func (api *Api) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !httputils.ValidateMethod(w, r, http.MethodGet) {
		return
	}

	httputils.RenderJSON(w, map[string]any{
		"status":       "ok",
		"feeds":        api.feedCount.Len(),
		"posts_cached": api.postCount.Len(),
	}, http.StatusOK)
}

func (api *Api) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := api.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		api.log.Error("Failed to render template",
			slog.String("template", name),
			slog.Any("error", err),
		)
		httputils.RenderError(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (api *Api) renderFetchError(w http.ResponseWriter, err error) {
	api.log.Error("Failed to refresh feed", slog.Any("error", err))
	httputils.RenderError(w, "Failed to refresh feed", http.StatusInternalServerError)
}

// renderText answers with a plain 200 body; missing feeds and posts are not
// reported through the status code.
func renderText(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(msg))
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
