package dashboard

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commentwatch/youtube-comment-scraper/model"
	"github.com/commentwatch/youtube-comment-scraper/storage"
)

func seededServer(t *testing.T) *Server {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	video := &model.Video{
		VideoID:      "dQw4w9WgXcQ",
		Title:        "Seeded Video",
		ChannelTitle: "Seeded Channel",
		ViewCount:    1000,
		CommentCount: 2,
		ExtractedAt:  time.Date(2024, 5, 30, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.SaveVideo(video))
	require.NoError(t, store.SaveComments(video.VideoID, []*model.Comment{
		{
			CommentID:   "c1",
			VideoID:     video.VideoID,
			Text:        "Great video",
			AuthorName:  "viewer",
			LikeCount:   5,
			PublishedAt: time.Date(2024, 5, 29, 10, 0, 0, 0, time.UTC),
			Sentiment: &model.SentimentScore{
				Polarity: 0.5, Compound: 0.6,
				Label: model.SentimentPositive, Strength: model.StrengthModerate,
			},
		},
		{
			CommentID:   "c2",
			VideoID:     video.VideoID,
			Text:        "Nice",
			AuthorName:  "other viewer",
			PublishedAt: time.Date(2024, 5, 29, 11, 0, 0, 0, time.UTC),
		},
	}))

	return New(store)
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestIndexPage(t *testing.T) {
	srv := seededServer(t)

	rec := get(t, srv, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "Seeded Video")
	assert.Contains(t, string(body), "Seeded Channel")
}

func TestIndexPageEmptyStore(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	rec := get(t, New(store), "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No videos extracted yet")
}

func TestListVideos(t *testing.T) {
	srv := seededServer(t)

	rec := get(t, srv, "/api/videos")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var videos []*model.Video
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&videos))
	require.Len(t, videos, 1)
	assert.Equal(t, "dQw4w9WgXcQ", videos[0].VideoID)
}

func TestGetVideo(t *testing.T) {
	srv := seededServer(t)

	rec := get(t, srv, "/api/videos/dQw4w9WgXcQ")
	require.Equal(t, http.StatusOK, rec.Code)

	var video model.Video
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&video))
	assert.Equal(t, "Seeded Video", video.Title)
}

func TestGetVideoNotFound(t *testing.T) {
	srv := seededServer(t)

	rec := get(t, srv, "/api/videos/unknownVid01")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "video not found")
}

func TestGetComments(t *testing.T) {
	srv := seededServer(t)

	rec := get(t, srv, "/api/videos/dQw4w9WgXcQ/comments")
	require.Equal(t, http.StatusOK, rec.Code)

	var comments []*model.Comment
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&comments))
	require.Len(t, comments, 2)
	assert.Equal(t, "c1", comments[0].CommentID)
	require.NotNil(t, comments[0].Sentiment)
	assert.Equal(t, model.SentimentPositive, comments[0].Sentiment.Label)
	assert.Nil(t, comments[1].Sentiment)
}

func TestGetCommentsUnknownVideo(t *testing.T) {
	srv := seededServer(t)

	rec := get(t, srv, "/api/videos/unknownVid01/comments")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetStats(t *testing.T) {
	srv := seededServer(t)

	rec := get(t, srv, "/api/videos/dQw4w9WgXcQ/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats storage.CommentStats
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stats))
	assert.Equal(t, 2, stats.CommentCount)
	assert.Equal(t, 1, stats.ScoredCount)
	assert.Equal(t, 1, stats.UnscoredCount)
	assert.Equal(t, 1, stats.LabelCounts[model.SentimentPositive])
	assert.Equal(t, int64(5), stats.TotalLikes)
}

func TestUnknownRouteIs404(t *testing.T) {
	srv := seededServer(t)

	rec := get(t, srv, "/api/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, strings.Contains(rec.Body.String(), "Seeded Video"))
}
