// Package storage persists video and comment snapshots in a local SQLite
// database. All writes are idempotent upserts keyed by identifier.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/commentwatch/youtube-comment-scraper/model"
)

// ErrVideoNotFound is returned by the read side for an unknown video ID.
var ErrVideoNotFound = errors.New("video not found in store")

// StorageError wraps an I/O or constraint failure from the store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Store wraps the SQLite connection.
type Store struct {
	conn *sql.DB
	path string
}

// Open creates or opens the database at the given path and runs the schema
// migration.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &StorageError{Op: "open", Err: fmt.Errorf("creating data directory: %w", err)}
	}

	// Pragmas go in the DSN so every pooled connection gets them, not just
	// the one that ran an Exec.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}

	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, &StorageError{Op: "migrate", Err: err}
	}

	log.Debug().Str("path", dbPath).Msg("Database opened")
	return &Store{conn: conn, path: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func migrate(conn *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS videos (
			video_id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			channel_id TEXT,
			channel_title TEXT,
			published_at TEXT,
			duration TEXT,
			view_count INTEGER,
			like_count INTEGER,
			comment_count INTEGER,
			thumbnail_url TEXT,
			tags TEXT,
			category_id TEXT,
			default_language TEXT,
			default_audio_language TEXT,
			extracted_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS comments (
			comment_id TEXT PRIMARY KEY,
			video_id TEXT NOT NULL REFERENCES videos(video_id),
			text TEXT,
			text_original TEXT,
			author_display_name TEXT,
			author_channel_id TEXT,
			author_channel_url TEXT,
			author_profile_image_url TEXT,
			like_count INTEGER,
			reply_count INTEGER,
			published_at TEXT,
			updated_at TEXT,
			is_reply INTEGER NOT NULL DEFAULT 0,
			parent_id TEXT,
			extracted_at TEXT,
			sentiment_polarity REAL,
			sentiment_subjectivity REAL,
			vader_compound REAL,
			vader_positive REAL,
			vader_negative REAL,
			vader_neutral REAL,
			sentiment_label TEXT,
			emotion_strength TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_video_id ON comments(video_id)`,
	}
	for _, stmt := range schema {
		if _, err := conn.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveVideo upserts a video snapshot. Re-saving the same identifier
// replaces prior field values rather than duplicating the row.
func (s *Store) SaveVideo(video *model.Video) error {
	tags, err := json.Marshal(video.Tags)
	if err != nil {
		return &StorageError{Op: "save_video", Err: err}
	}

	_, err = s.conn.Exec(
		`INSERT INTO videos (
			video_id, title, description, channel_id, channel_title,
			published_at, duration, view_count, like_count, comment_count,
			thumbnail_url, tags, category_id, default_language,
			default_audio_language, extracted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(video_id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			channel_id = excluded.channel_id,
			channel_title = excluded.channel_title,
			published_at = excluded.published_at,
			duration = excluded.duration,
			view_count = excluded.view_count,
			like_count = excluded.like_count,
			comment_count = excluded.comment_count,
			thumbnail_url = excluded.thumbnail_url,
			tags = excluded.tags,
			category_id = excluded.category_id,
			default_language = excluded.default_language,
			default_audio_language = excluded.default_audio_language,
			extracted_at = excluded.extracted_at`,
		video.VideoID, video.Title, video.Description, video.ChannelID,
		video.ChannelTitle, formatTime(video.PublishedAt), video.Duration,
		video.ViewCount, video.LikeCount, video.CommentCount,
		video.ThumbnailURL, string(tags), video.CategoryID,
		video.DefaultLanguage, video.DefaultAudioLanguage,
		formatTime(video.ExtractedAt),
	)
	if err != nil {
		return &StorageError{Op: "save_video", Err: err}
	}

	log.Debug().Str("video_id", video.VideoID).Msg("Video saved")
	return nil
}

// SaveComments upserts a batch of comments in one transaction. The video
// row must exist first; a comment referencing an unknown video fails the
// foreign key constraint.
func (s *Store) SaveComments(videoID string, comments []*model.Comment) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return &StorageError{Op: "save_comments", Err: err}
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO comments (
			comment_id, video_id, text, text_original, author_display_name,
			author_channel_id, author_channel_url, author_profile_image_url,
			like_count, reply_count, published_at, updated_at, is_reply,
			parent_id, extracted_at,
			sentiment_polarity, sentiment_subjectivity, vader_compound,
			vader_positive, vader_negative, vader_neutral,
			sentiment_label, emotion_strength
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(comment_id) DO UPDATE SET
			text = excluded.text,
			text_original = excluded.text_original,
			author_display_name = excluded.author_display_name,
			author_channel_id = excluded.author_channel_id,
			author_channel_url = excluded.author_channel_url,
			author_profile_image_url = excluded.author_profile_image_url,
			like_count = excluded.like_count,
			reply_count = excluded.reply_count,
			published_at = excluded.published_at,
			updated_at = excluded.updated_at,
			is_reply = excluded.is_reply,
			parent_id = excluded.parent_id,
			extracted_at = excluded.extracted_at,
			sentiment_polarity = excluded.sentiment_polarity,
			sentiment_subjectivity = excluded.sentiment_subjectivity,
			vader_compound = excluded.vader_compound,
			vader_positive = excluded.vader_positive,
			vader_negative = excluded.vader_negative,
			vader_neutral = excluded.vader_neutral,
			sentiment_label = excluded.sentiment_label,
			emotion_strength = excluded.emotion_strength`)
	if err != nil {
		return &StorageError{Op: "save_comments", Err: err}
	}
	defer stmt.Close()

	for _, c := range comments {
		var polarity, subjectivity, compound, pos, neg, neu sql.NullFloat64
		var label, strength sql.NullString
		if c.Sentiment != nil {
			polarity = sql.NullFloat64{Float64: c.Sentiment.Polarity, Valid: true}
			subjectivity = sql.NullFloat64{Float64: c.Sentiment.Subjectivity, Valid: true}
			compound = sql.NullFloat64{Float64: c.Sentiment.Compound, Valid: true}
			pos = sql.NullFloat64{Float64: c.Sentiment.Positive, Valid: true}
			neg = sql.NullFloat64{Float64: c.Sentiment.Negative, Valid: true}
			neu = sql.NullFloat64{Float64: c.Sentiment.Neutral, Valid: true}
			label = sql.NullString{String: c.Sentiment.Label, Valid: true}
			strength = sql.NullString{String: c.Sentiment.Strength, Valid: true}
		}

		if _, err := stmt.Exec(
			c.CommentID, videoID, c.Text, c.TextOriginal, c.AuthorName,
			c.AuthorChannelID, c.AuthorChannelURL, c.AuthorImageURL,
			c.LikeCount, c.ReplyCount, formatTime(c.PublishedAt),
			formatTime(c.UpdatedAt), c.IsReply, c.ParentID,
			formatTime(c.ExtractedAt),
			polarity, subjectivity, compound, pos, neg, neu, label, strength,
		); err != nil {
			return &StorageError{Op: "save_comments", Err: fmt.Errorf("comment %s: %w", c.CommentID, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return &StorageError{Op: "save_comments", Err: err}
	}

	log.Debug().Str("video_id", videoID).Int("comments", len(comments)).Msg("Comments saved")
	return nil
}

// GetVideo returns the stored snapshot for one video.
func (s *Store) GetVideo(videoID string) (*model.Video, error) {
	row := s.conn.QueryRow(
		`SELECT video_id, title, description, channel_id, channel_title,
			published_at, duration, view_count, like_count, comment_count,
			thumbnail_url, tags, category_id, default_language,
			default_audio_language, extracted_at
		FROM videos WHERE video_id = ?`, videoID)

	video, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVideoNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: "get_video", Err: err}
	}
	return video, nil
}

// ListVideos returns every stored video, most recently extracted first.
func (s *Store) ListVideos() ([]*model.Video, error) {
	rows, err := s.conn.Query(
		`SELECT video_id, title, description, channel_id, channel_title,
			published_at, duration, view_count, like_count, comment_count,
			thumbnail_url, tags, category_id, default_language,
			default_audio_language, extracted_at
		FROM videos ORDER BY extracted_at DESC`)
	if err != nil {
		return nil, &StorageError{Op: "list_videos", Err: err}
	}
	defer rows.Close()

	var videos []*model.Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, &StorageError{Op: "list_videos", Err: err}
		}
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list_videos", Err: err}
	}
	return videos, nil
}

// GetComments returns the stored comments for one video in published order.
func (s *Store) GetComments(videoID string) ([]*model.Comment, error) {
	rows, err := s.conn.Query(
		`SELECT comment_id, video_id, text, text_original,
			author_display_name, author_channel_id, author_channel_url,
			author_profile_image_url, like_count, reply_count, published_at,
			updated_at, is_reply, parent_id, extracted_at,
			sentiment_polarity, sentiment_subjectivity, vader_compound,
			vader_positive, vader_negative, vader_neutral,
			sentiment_label, emotion_strength
		FROM comments WHERE video_id = ? ORDER BY published_at`, videoID)
	if err != nil {
		return nil, &StorageError{Op: "get_comments", Err: err}
	}
	defer rows.Close()

	var comments []*model.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, &StorageError{Op: "get_comments", Err: err}
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "get_comments", Err: err}
	}
	return comments, nil
}

// CommentStats summarizes the stored comments for one video.
type CommentStats struct {
	VideoID       string         `json:"video_id"`
	CommentCount  int            `json:"comment_count"`
	ReplyCount    int            `json:"reply_count"`
	MeanPolarity  float64        `json:"mean_polarity"`
	MeanCompound  float64        `json:"mean_compound"`
	LabelCounts   map[string]int `json:"label_counts"`
	TotalLikes    int64          `json:"total_likes"`
	ScoredCount   int            `json:"scored_count"`
	UnscoredCount int            `json:"unscored_count"`
}

// GetCommentStats computes the summary for one video's stored comments.
func (s *Store) GetCommentStats(videoID string) (*CommentStats, error) {
	comments, err := s.GetComments(videoID)
	if err != nil {
		return nil, err
	}

	stats := &CommentStats{
		VideoID:     videoID,
		LabelCounts: make(map[string]int),
	}
	var polaritySum, compoundSum float64
	for _, c := range comments {
		stats.CommentCount++
		if c.IsReply {
			stats.ReplyCount++
		}
		stats.TotalLikes += c.LikeCount
		if c.Sentiment != nil {
			stats.ScoredCount++
			polaritySum += c.Sentiment.Polarity
			compoundSum += c.Sentiment.Compound
			stats.LabelCounts[c.Sentiment.Label]++
		} else {
			stats.UnscoredCount++
		}
	}
	if stats.ScoredCount > 0 {
		stats.MeanPolarity = polaritySum / float64(stats.ScoredCount)
		stats.MeanCompound = compoundSum / float64(stats.ScoredCount)
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVideo(row rowScanner) (*model.Video, error) {
	var v model.Video
	var publishedAt, extractedAt, tags string
	var description, channelID, channelTitle, duration sql.NullString
	var thumbnailURL, categoryID, defaultLang, defaultAudioLang sql.NullString

	err := row.Scan(&v.VideoID, &v.Title, &description, &channelID,
		&channelTitle, &publishedAt, &duration, &v.ViewCount, &v.LikeCount,
		&v.CommentCount, &thumbnailURL, &tags, &categoryID, &defaultLang,
		&defaultAudioLang, &extractedAt)
	if err != nil {
		return nil, err
	}

	v.Description = description.String
	v.ChannelID = channelID.String
	v.ChannelTitle = channelTitle.String
	v.Duration = duration.String
	v.ThumbnailURL = thumbnailURL.String
	v.CategoryID = categoryID.String
	v.DefaultLanguage = defaultLang.String
	v.DefaultAudioLanguage = defaultAudioLang.String
	v.PublishedAt = parseTime(publishedAt)
	v.ExtractedAt = parseTime(extractedAt)
	if tags != "" {
		if err := json.Unmarshal([]byte(tags), &v.Tags); err != nil {
			return nil, fmt.Errorf("decoding tags for %s: %w", v.VideoID, err)
		}
	}
	return &v, nil
}

func scanComment(row rowScanner) (*model.Comment, error) {
	var c model.Comment
	var publishedAt, updatedAt, extractedAt string
	var textOriginal, authorChannelID, authorChannelURL, authorImageURL, parentID sql.NullString
	var polarity, subjectivity, compound, pos, neg, neu sql.NullFloat64
	var label, strength sql.NullString

	err := row.Scan(&c.CommentID, &c.VideoID, &c.Text, &textOriginal,
		&c.AuthorName, &authorChannelID, &authorChannelURL, &authorImageURL,
		&c.LikeCount, &c.ReplyCount, &publishedAt, &updatedAt, &c.IsReply,
		&parentID, &extractedAt,
		&polarity, &subjectivity, &compound, &pos, &neg, &neu, &label, &strength)
	if err != nil {
		return nil, err
	}

	c.TextOriginal = textOriginal.String
	c.AuthorChannelID = authorChannelID.String
	c.AuthorChannelURL = authorChannelURL.String
	c.AuthorImageURL = authorImageURL.String
	c.ParentID = parentID.String
	c.PublishedAt = parseTime(publishedAt)
	c.UpdatedAt = parseTime(updatedAt)
	c.ExtractedAt = parseTime(extractedAt)

	if label.Valid {
		c.Sentiment = &model.SentimentScore{
			Polarity:     polarity.Float64,
			Subjectivity: subjectivity.Float64,
			Compound:     compound.Float64,
			Positive:     pos.Float64,
			Negative:     neg.Float64,
			Neutral:      neu.Float64,
			Label:        label.String,
			Strength:     strength.String,
		}
	}
	return &c, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
