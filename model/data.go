// Package model defines the data types shared across the scraper pipeline.
package model

import "time"

// Video is a snapshot of a YouTube video's metadata as reported by the API
// at extraction time. A later extraction of the same video replaces the
// stored row wholesale.
type Video struct {
	VideoID              string    `json:"video_id"`
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	ChannelID            string    `json:"channel_id"`
	ChannelTitle         string    `json:"channel_title"`
	PublishedAt          time.Time `json:"published_at"`
	Duration             string    `json:"duration"`
	ViewCount            int64     `json:"view_count"`
	LikeCount            int64     `json:"like_count"`
	CommentCount         int64     `json:"comment_count"`
	ThumbnailURL         string    `json:"thumbnail_url"`
	Tags                 []string  `json:"tags,omitempty"`
	CategoryID           string    `json:"category_id,omitempty"`
	DefaultLanguage      string    `json:"default_language,omitempty"`
	DefaultAudioLanguage string    `json:"default_audio_language,omitempty"`
	ExtractedAt          time.Time `json:"extracted_at"`
}

// Comment is a single comment or reply. CommentID is unique across the
// whole store; ParentID is set only for replies.
type Comment struct {
	CommentID        string    `json:"comment_id"`
	VideoID          string    `json:"video_id"`
	Text             string    `json:"text"`
	TextOriginal     string    `json:"text_original,omitempty"`
	AuthorName       string    `json:"author_display_name"`
	AuthorChannelID  string    `json:"author_channel_id,omitempty"`
	AuthorChannelURL string    `json:"author_channel_url,omitempty"`
	AuthorImageURL   string    `json:"author_profile_image_url,omitempty"`
	LikeCount        int64     `json:"like_count"`
	ReplyCount       int64     `json:"reply_count"`
	PublishedAt      time.Time `json:"published_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	IsReply          bool      `json:"is_reply"`
	ParentID         string    `json:"parent_id,omitempty"`
	ExtractedAt      time.Time `json:"extracted_at"`

	// Sentiment is attached after scoring; nil until then.
	Sentiment *SentimentScore `json:"sentiment,omitempty"`
}

// Rejection reason codes produced by the validator.
const (
	ReasonTooShort = "too_short"
	ReasonTooLong  = "too_long"
	ReasonSpam     = "spam"
	ReasonLanguage = "language"
)

// ValidationOutcome is the verdict for one raw comment. It is never
// persisted; rejected comments only contribute to the statistics.
type ValidationOutcome struct {
	Accepted bool
	Reason   string
}

// Statistics aggregates the counts for a single extraction run.
type Statistics struct {
	Requested      int            `json:"requested"`
	Returned       int            `json:"returned"`
	Accepted       int            `json:"accepted"`
	Rejected       int            `json:"rejected"`
	Duplicates     int            `json:"duplicates"`
	RejectedByRule map[string]int `json:"rejected_by_rule"`
}

// NewStatistics returns an empty Statistics with the histogram allocated.
func NewStatistics(requested int) Statistics {
	return Statistics{
		Requested:      requested,
		RejectedByRule: make(map[string]int),
	}
}

// ExtractionResult is the in-memory outcome of one extraction run: the
// video snapshot, the accepted comments in delivered order, and the
// aggregate statistics.
type ExtractionResult struct {
	RunID      string     `json:"run_id"`
	Video      *Video     `json:"video"`
	Comments   []*Comment `json:"comments"`
	Stats      Statistics `json:"statistics"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
}

// Sentiment labels derived from the blended polarity/compound signal.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Emotion strength buckets.
const (
	StrengthWeak     = "weak"
	StrengthModerate = "moderate"
	StrengthStrong   = "strong"
)

// SentimentScore combines the two sub-scorers: a polarity/subjectivity
// pair and the VADER compound/pos/neg/neu tuple.
type SentimentScore struct {
	Polarity     float64 `json:"polarity"`     // [-1, 1]
	Subjectivity float64 `json:"subjectivity"` // [0, 1]

	Compound float64 `json:"compound"` // [-1, 1]
	Positive float64 `json:"positive"` // [0, 1]
	Negative float64 `json:"negative"` // [0, 1]
	Neutral  float64 `json:"neutral"`  // [0, 1]

	Label    string `json:"label"`
	Strength string `json:"strength"`
}
