// Package client wraps the YouTube Data API v3 behind a small interface,
// enforcing the request rate and daily quota budget and translating
// transport failures into typed errors.
package client

import (
	"context"

	"github.com/commentwatch/youtube-comment-scraper/model"
)

// Comment ordering accepted by the API.
const (
	OrderRelevance = "relevance"
	OrderTime      = "time"
)

// CommentPage is one page of comments in API-delivered order, plus the
// cursor for the next page. An empty NextPageToken means the last page.
type CommentPage struct {
	Comments      []*model.Comment
	NextPageToken string
}

// YouTubeClient is the surface the extractor drives. Implementations must
// block on their internal rate gate before every call and consume quota
// budget as a side effect.
type YouTubeClient interface {
	// Connect establishes the API service. Must be called before any fetch.
	Connect(ctx context.Context) error

	// GetVideo fetches the metadata snapshot for one video.
	GetVideo(ctx context.Context, videoID string) (*model.Video, error)

	// GetCommentPage fetches one page of comment threads. Replies are
	// flattened into the page directly after their parent comment.
	GetCommentPage(ctx context.Context, videoID, pageToken string, pageSize int64, order string) (*CommentPage, error)
}
