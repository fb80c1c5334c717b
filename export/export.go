// Package export serializes extraction results to CSV and JSON files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/commentwatch/youtube-comment-scraper/common"
	"github.com/commentwatch/youtube-comment-scraper/model"
)

// ExportError wraps a serialization or filesystem failure. It never
// invalidates the in-memory result being exported.
type ExportError struct {
	Format string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Format, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// csvHeader is the stable column order: every Comment field followed by
// the sentiment fields.
var csvHeader = []string{
	"comment_id", "video_id", "text", "text_original",
	"author_display_name", "author_channel_id", "author_channel_url",
	"like_count", "reply_count", "published_at", "updated_at",
	"is_reply", "parent_id",
	"sentiment_polarity", "sentiment_subjectivity",
	"vader_compound", "vader_positive", "vader_negative", "vader_neutral",
	"sentiment_label", "emotion_strength",
}

// Exporter writes result files under a fixed directory.
type Exporter struct {
	dir string
}

// New creates an Exporter rooted at dir, creating it if needed.
func New(dir string) (*Exporter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &ExportError{Format: "init", Err: err}
	}
	return &Exporter{dir: dir}, nil
}

// ExportCSV writes one row per comment with sentiment columns attached and
// returns the file path.
func (e *Exporter) ExportCSV(result *model.ExtractionResult) (string, error) {
	path := e.filename(result, "csv")

	f, err := os.Create(path)
	if err != nil {
		return "", &ExportError{Format: "csv", Err: err}
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return "", &ExportError{Format: "csv", Err: err}
	}
	for _, c := range result.Comments {
		if err := w.Write(commentRow(c)); err != nil {
			return "", &ExportError{Format: "csv", Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", &ExportError{Format: "csv", Err: err}
	}

	log.Info().Str("path", path).Int("comments", len(result.Comments)).Msg("CSV export written")
	return path, nil
}

// ExportJSON writes the full result (video snapshot, statistics, ordered
// comments with inlined sentiment) and returns the file path.
func (e *Exporter) ExportJSON(result *model.ExtractionResult) (string, error) {
	path := e.filename(result, "json")

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", &ExportError{Format: "json", Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", &ExportError{Format: "json", Err: err}
	}

	log.Info().Str("path", path).Msg("JSON export written")
	return path, nil
}

// filename derives a deterministic name from the video identifier and
// title, with filesystem-unsafe characters replaced.
func (e *Exporter) filename(result *model.ExtractionResult, ext string) string {
	title := "video"
	videoID := "unknown"
	if result.Video != nil {
		videoID = result.Video.VideoID
		if t := common.SanitizeFilename(result.Video.Title); t != "" {
			title = t
		}
	}
	if len(title) > 60 {
		title = title[:60]
	}
	stamp := result.StartedAt
	if stamp.IsZero() {
		stamp = time.Now().UTC()
	}
	name := fmt.Sprintf("%s_%s_%s.%s", videoID, title, stamp.Format("20060102_150405"), ext)
	return filepath.Join(e.dir, name)
}

func commentRow(c *model.Comment) []string {
	row := []string{
		c.CommentID, c.VideoID, c.Text, c.TextOriginal,
		c.AuthorName, c.AuthorChannelID, c.AuthorChannelURL,
		strconv.FormatInt(c.LikeCount, 10),
		strconv.FormatInt(c.ReplyCount, 10),
		formatTime(c.PublishedAt), formatTime(c.UpdatedAt),
		strconv.FormatBool(c.IsReply), c.ParentID,
	}
	if c.Sentiment != nil {
		row = append(row,
			formatFloat(c.Sentiment.Polarity),
			formatFloat(c.Sentiment.Subjectivity),
			formatFloat(c.Sentiment.Compound),
			formatFloat(c.Sentiment.Positive),
			formatFloat(c.Sentiment.Negative),
			formatFloat(c.Sentiment.Neutral),
			c.Sentiment.Label, c.Sentiment.Strength,
		)
	} else {
		row = append(row, "", "", "", "", "", "", "", "")
	}
	return row
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
