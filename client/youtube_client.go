package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"github.com/commentwatch/youtube-comment-scraper/common"
	"github.com/commentwatch/youtube-comment-scraper/model"
)

// Quota unit costs of the endpoints we call.
const (
	costVideosList         = 1
	costCommentThreadsList = 1
)

const maxRetries = 3

// YouTubeDataClient implements YouTubeClient over the YouTube Data API v3.
type YouTubeDataClient struct {
	service *ytapi.Service
	apiKey  string
	gate    *apiGate
}

// NewYouTubeDataClient creates a client from the scraper configuration.
// Connect must be called before any fetch.
func NewYouTubeDataClient(cfg common.Config) (*YouTubeDataClient, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	return &YouTubeDataClient{
		apiKey: cfg.APIKey,
		gate:   newAPIGate(cfg.RequestsPerSecond, cfg.QuotaLimitPerDay),
	}, nil
}

// Connect establishes the YouTube API service.
func (c *YouTubeDataClient) Connect(ctx context.Context) error {
	log.Info().Msg("Connecting to YouTube API")

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	service, err := ytapi.NewService(ctx, option.WithAPIKey(c.apiKey), option.WithHTTPClient(httpClient))
	if err != nil {
		log.Error().Err(err).Msg("Failed to create YouTube service")
		return fmt.Errorf("failed to create YouTube service: %w", err)
	}

	c.service = service
	log.Info().Msg("Connected to YouTube API successfully")
	return nil
}

// QuotaUsed returns the quota units consumed today.
func (c *YouTubeDataClient) QuotaUsed() int {
	return c.gate.used()
}

// GetVideo fetches the metadata snapshot for one video.
func (c *YouTubeDataClient) GetVideo(ctx context.Context, videoID string) (*model.Video, error) {
	if c.service == nil {
		return nil, fmt.Errorf("YouTube client not connected")
	}

	log.Info().Str("video_id", videoID).Msg("Fetching video metadata")

	var response *ytapi.VideoListResponse
	err := c.withRetry(ctx, "videos.list", costVideosList, func() error {
		var err error
		response, err = c.service.Videos.
			List([]string{"snippet", "statistics", "contentDetails"}).
			Id(videoID).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(response.Items) == 0 {
		log.Warn().Str("video_id", videoID).Msg("Video not found")
		return nil, &Error{Kind: KindNotFound, Op: "videos.list",
			Err: fmt.Errorf("video not found: %s", videoID)}
	}

	item := response.Items[0]
	publishedAt, _ := time.Parse(time.RFC3339, item.Snippet.PublishedAt)

	thumbnailURL := ""
	if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.High != nil {
		thumbnailURL = item.Snippet.Thumbnails.High.Url
	}

	video := &model.Video{
		VideoID:              videoID,
		Title:                item.Snippet.Title,
		Description:          item.Snippet.Description,
		ChannelID:            item.Snippet.ChannelId,
		ChannelTitle:         item.Snippet.ChannelTitle,
		PublishedAt:          publishedAt,
		Duration:             item.ContentDetails.Duration,
		ViewCount:            int64(item.Statistics.ViewCount),
		LikeCount:            int64(item.Statistics.LikeCount),
		CommentCount:         int64(item.Statistics.CommentCount),
		ThumbnailURL:         thumbnailURL,
		Tags:                 item.Snippet.Tags,
		CategoryID:           item.Snippet.CategoryId,
		DefaultLanguage:      item.Snippet.DefaultLanguage,
		DefaultAudioLanguage: item.Snippet.DefaultAudioLanguage,
		ExtractedAt:          time.Now().UTC(),
	}

	log.Info().
		Str("video_id", video.VideoID).
		Str("title", video.Title).
		Int64("view_count", video.ViewCount).
		Int64("comment_count", video.CommentCount).
		Msg("Video metadata retrieved")

	return video, nil
}

// GetCommentPage fetches one page of comment threads. Replies carried on a
// thread are flattened into the page directly after their parent.
func (c *YouTubeDataClient) GetCommentPage(ctx context.Context, videoID, pageToken string, pageSize int64, order string) (*CommentPage, error) {
	if c.service == nil {
		return nil, fmt.Errorf("YouTube client not connected")
	}
	if order != OrderRelevance && order != OrderTime {
		return nil, fmt.Errorf("order must be %q or %q, got %q", OrderRelevance, OrderTime, order)
	}

	log.Debug().
		Str("video_id", videoID).
		Str("page_token", pageToken).
		Int64("page_size", pageSize).
		Msg("Fetching comment page")

	var response *ytapi.CommentThreadListResponse
	err := c.withRetry(ctx, "commentThreads.list", costCommentThreadsList, func() error {
		call := c.service.CommentThreads.
			List([]string{"snippet", "replies"}).
			VideoId(videoID).
			MaxResults(pageSize).
			Order(order).
			TextFormat("plainText").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		var err error
		response, err = call.Do()
		return err
	})
	if err != nil {
		return nil, err
	}

	page := &CommentPage{NextPageToken: response.NextPageToken}
	now := time.Now().UTC()
	for _, item := range response.Items {
		if item.Snippet == nil || item.Snippet.TopLevelComment == nil {
			continue
		}
		top := convertComment(item.Snippet.TopLevelComment, videoID, now)
		top.ReplyCount = item.Snippet.TotalReplyCount
		page.Comments = append(page.Comments, top)

		if item.Replies != nil {
			for _, reply := range item.Replies.Comments {
				r := convertComment(reply, videoID, now)
				r.IsReply = true
				r.ParentID = top.CommentID
				page.Comments = append(page.Comments, r)
			}
		}
	}

	log.Debug().
		Str("video_id", videoID).
		Int("comments", len(page.Comments)).
		Bool("has_next_page", page.NextPageToken != "").
		Msg("Comment page retrieved")

	return page, nil
}

// withRetry runs one API call through the rate/quota gate with bounded
// exponential backoff on transient failures. Non-transient failures stop
// the retry loop immediately.
func (c *YouTubeDataClient) withRetry(ctx context.Context, op string, units int, call func() error) error {
	operation := func() error {
		if err := c.gate.acquire(ctx, op, units); err != nil {
			return backoff.Permanent(err)
		}
		if err := call(); err != nil {
			classified := classifyError(op, err)
			if classified.Kind == KindTransient {
				log.Warn().Err(err).Str("op", op).Msg("Transient API error, will retry")
				return classified
			}
			return backoff.Permanent(classified)
		}
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
	if err := backoff.Retry(operation, b); err != nil {
		// Exhausted retries escalate to fatal.
		if kindOf(err) == KindTransient {
			return &Error{Kind: KindFatal, Op: op, Err: err}
		}
		return err
	}
	return nil
}

func convertComment(comment *ytapi.Comment, videoID string, extractedAt time.Time) *model.Comment {
	s := comment.Snippet
	publishedAt, _ := time.Parse(time.RFC3339, s.PublishedAt)
	updatedAt, _ := time.Parse(time.RFC3339, s.UpdatedAt)

	authorChannelID := ""
	if s.AuthorChannelId != nil {
		authorChannelID = s.AuthorChannelId.Value
	}

	return &model.Comment{
		CommentID:        comment.Id,
		VideoID:          videoID,
		Text:             s.TextDisplay,
		TextOriginal:     s.TextOriginal,
		AuthorName:       s.AuthorDisplayName,
		AuthorChannelID:  authorChannelID,
		AuthorChannelURL: s.AuthorChannelUrl,
		AuthorImageURL:   s.AuthorProfileImageUrl,
		LikeCount:        s.LikeCount,
		PublishedAt:      publishedAt,
		UpdatedAt:        updatedAt,
		ExtractedAt:      extractedAt,
	}
}
