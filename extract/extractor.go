// Package extract drives the comment extraction pipeline: resolve the
// video reference, fetch metadata, paginate through comment pages,
// validate and deduplicate, then score and persist the accepted set.
package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/commentwatch/youtube-comment-scraper/client"
	"github.com/commentwatch/youtube-comment-scraper/common"
	"github.com/commentwatch/youtube-comment-scraper/model"
	"github.com/commentwatch/youtube-comment-scraper/sentiment"
	"github.com/commentwatch/youtube-comment-scraper/storage"
	"github.com/commentwatch/youtube-comment-scraper/validator"
)

// Options control one extraction run.
type Options struct {
	// MaxComments caps the number of accepted comments; 0 falls back to
	// the configured max_total_comments.
	MaxComments int
	// Order is client.OrderRelevance or client.OrderTime; empty means
	// relevance.
	Order string
	// Save mirrors the accepted set into the persistent store.
	Save bool
	// ScoreSentiment runs the sentiment scorer over the accepted set.
	ScoreSentiment bool
}

// Extractor orchestrates one synchronous extraction run at a time.
type Extractor struct {
	cfg       common.Config
	client    client.YouTubeClient
	validator *validator.Validator
	scorer    *sentiment.Scorer
	store     *storage.Store
}

// New wires an Extractor. store may be nil when persistence is disabled;
// scorer may be nil when sentiment scoring is disabled.
func New(cfg common.Config, yc client.YouTubeClient, val *validator.Validator, scorer *sentiment.Scorer, store *storage.Store) *Extractor {
	return &Extractor{
		cfg:       cfg,
		client:    yc,
		validator: val,
		scorer:    scorer,
		store:     store,
	}
}

// Extract runs the pipeline for one video reference. On a terminal error
// mid-pagination the partial result collected so far is returned alongside
// the error rather than discarded.
func (e *Extractor) Extract(ctx context.Context, videoRef string, opts Options) (*model.ExtractionResult, error) {
	videoID, err := common.ExtractVideoID(videoRef)
	if err != nil {
		return nil, err
	}

	maxComments := opts.MaxComments
	if maxComments <= 0 {
		maxComments = e.cfg.MaxTotalComments
	}
	order := opts.Order
	if order == "" {
		order = client.OrderRelevance
	}

	result := &model.ExtractionResult{
		RunID:     common.GenerateRunID(),
		Stats:     model.NewStatistics(maxComments),
		StartedAt: time.Now().UTC(),
	}

	log.Info().
		Str("run_id", result.RunID).
		Str("video_id", videoID).
		Int("max_comments", maxComments).
		Str("order", order).
		Msg("Starting extraction")

	// Fail fast when the video itself is missing.
	video, err := e.client.GetVideo(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video metadata: %w", err)
	}
	result.Video = video

	pageErr := e.collectComments(ctx, videoID, maxComments, order, result)
	result.FinishedAt = time.Now().UTC()

	log.Info().
		Str("run_id", result.RunID).
		Int("returned", result.Stats.Returned).
		Int("accepted", result.Stats.Accepted).
		Int("rejected", result.Stats.Rejected).
		Int("duplicates", result.Stats.Duplicates).
		Msg("Extraction finished")

	if opts.ScoreSentiment && e.scorer != nil {
		e.scorer.ScoreAll(result.Comments)
	}

	if opts.Save && e.store != nil {
		if err := e.persist(result); err != nil {
			// The in-memory result survives a storage failure.
			return result, err
		}
	}

	// A terminal pagination error propagates after the partial result has
	// been scored and persisted.
	return result, pageErr
}

// collectComments loops over comment pages until the accepted cap, the end
// of pagination, or a terminal API error. Errors after the first page leave
// the already-collected comments in result.
func (e *Extractor) collectComments(ctx context.Context, videoID string, maxComments int, order string, result *model.ExtractionResult) error {
	seen := make(map[string]bool)
	pageToken := ""

	for result.Stats.Accepted < maxComments {
		page, err := e.client.GetCommentPage(ctx, videoID, pageToken, int64(e.cfg.MaxResultsPerRequest), order)
		if err != nil {
			if len(result.Comments) > 0 {
				log.Warn().Err(err).
					Int("accepted_so_far", result.Stats.Accepted).
					Msg("Pagination aborted, returning partial result")
			}
			return err
		}

		for _, comment := range page.Comments {
			if result.Stats.Accepted >= maxComments {
				// Cap reached mid-page; the remainder is discarded.
				break
			}
			result.Stats.Returned++

			// First occurrence wins.
			if seen[comment.CommentID] {
				result.Stats.Duplicates++
				continue
			}
			seen[comment.CommentID] = true

			outcome := e.validator.Validate(comment)
			if !outcome.Accepted {
				result.Stats.Rejected++
				result.Stats.RejectedByRule[outcome.Reason]++
				continue
			}

			result.Comments = append(result.Comments, comment)
			result.Stats.Accepted++
		}

		if result.Stats.Accepted >= maxComments || page.NextPageToken == "" {
			return nil
		}
		pageToken = page.NextPageToken
	}
	return nil
}

// persist mirrors the result into the store: the video row first, then the
// comments that reference it.
func (e *Extractor) persist(result *model.ExtractionResult) error {
	if err := e.store.SaveVideo(result.Video); err != nil {
		return err
	}
	if err := e.store.SaveComments(result.Video.VideoID, result.Comments); err != nil {
		return err
	}
	log.Info().
		Str("video_id", result.Video.VideoID).
		Int("comments", len(result.Comments)).
		Msg("Extraction result persisted")
	return nil
}
