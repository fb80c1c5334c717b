// Package dashboard serves the stored extraction results over HTTP. Every
// request re-reads the store; there is no background refresh and no state
// beyond the database itself.
package dashboard

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/commentwatch/youtube-comment-scraper/storage"
)

// Server exposes the store read-only.
type Server struct {
	store *storage.Store
	index *template.Template
	mux   *chi.Mux
}

// New builds the dashboard over an open store.
func New(store *storage.Store) *Server {
	s := &Server{
		store: store,
		index: template.Must(template.New("index").Parse(indexTemplate)),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Route("/api", func(r chi.Router) {
		r.Get("/videos", s.handleListVideos)
		r.Get("/videos/{videoID}", s.handleGetVideo)
		r.Get("/videos/{videoID}/comments", s.handleGetComments)
		r.Get("/videos/{videoID}/stats", s.handleGetStats)
	})

	s.mux = r
	return s
}

// Handler returns the HTTP handler for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe blocks serving the dashboard on addr.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	log.Info().Str("addr", addr).Msg("Dashboard listening")
	return srv.ListenAndServe()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	videos, err := s.store.ListVideos()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.index.Execute(w, videos); err != nil {
		log.Error().Err(err).Msg("Failed to render index")
	}
}

func (s *Server) handleListVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := s.store.ListVideos()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, videos)
}

func (s *Server) handleGetVideo(w http.ResponseWriter, r *http.Request) {
	video, err := s.store.GetVideo(chi.URLParam(r, "videoID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, video)
}

func (s *Server) handleGetComments(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "videoID")
	if _, err := s.store.GetVideo(videoID); err != nil {
		writeError(w, err)
		return
	}
	comments, err := s.store.GetComments(videoID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, comments)
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "videoID")
	if _, err := s.store.GetVideo(videoID); err != nil {
		writeError(w, err)
		return
	}
	stats, err := s.store.GetCommentStats(videoID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, stats)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrVideoNotFound) {
		http.Error(w, `{"error":"video not found"}`, http.StatusNotFound)
		return
	}
	log.Error().Err(err).Msg("Dashboard query failed")
	http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
}

const indexTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>YouTube Comment Scraper</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; padding: 0.4rem 0.8rem; border-bottom: 1px solid #ddd; }
</style>
</head>
<body>
<h1>Extracted videos</h1>
{{if .}}
<table>
<tr><th>Video</th><th>Channel</th><th>Views</th><th>Comments</th><th>Extracted</th><th></th></tr>
{{range .}}
<tr>
<td>{{.Title}}</td>
<td>{{.ChannelTitle}}</td>
<td>{{.ViewCount}}</td>
<td>{{.CommentCount}}</td>
<td>{{.ExtractedAt.Format "2006-01-02 15:04"}}</td>
<td><a href="/api/videos/{{.VideoID}}/stats">stats</a></td>
</tr>
{{end}}
</table>
{{else}}
<p>No videos extracted yet. Run the scraper first.</p>
{{end}}
</body>
</html>
`
