package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commentwatch/youtube-comment-scraper/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleVideo() *model.Video {
	return &model.Video{
		VideoID:      "dQw4w9WgXcQ",
		Title:        "Sample Video",
		Description:  "A sample description",
		ChannelID:    "UC123",
		ChannelTitle: "Sample Channel",
		PublishedAt:  time.Date(2023, 1, 15, 12, 0, 0, 0, time.UTC),
		Duration:     "PT3M32S",
		ViewCount:    12345,
		LikeCount:    678,
		CommentCount: 90,
		Tags:         []string{"music", "pop"},
		ExtractedAt:  time.Date(2024, 5, 30, 8, 0, 0, 0, time.UTC),
	}
}

func sampleComment(id string) *model.Comment {
	return &model.Comment{
		CommentID:   id,
		VideoID:     "dQw4w9WgXcQ",
		Text:        "Great video",
		AuthorName:  "viewer",
		LikeCount:   3,
		PublishedAt: time.Date(2024, 5, 29, 10, 0, 0, 0, time.UTC),
		ExtractedAt: time.Date(2024, 5, 30, 8, 0, 0, 0, time.UTC),
	}
}

func TestSaveAndGetVideo(t *testing.T) {
	store := openTestStore(t)
	video := sampleVideo()

	require.NoError(t, store.SaveVideo(video))

	got, err := store.GetVideo(video.VideoID)
	require.NoError(t, err)
	assert.Equal(t, video.Title, got.Title)
	assert.Equal(t, video.ViewCount, got.ViewCount)
	assert.Equal(t, video.Tags, got.Tags)
	assert.True(t, video.PublishedAt.Equal(got.PublishedAt))
	assert.True(t, video.ExtractedAt.Equal(got.ExtractedAt))
}

func TestSaveVideoUpsert(t *testing.T) {
	store := openTestStore(t)
	video := sampleVideo()
	require.NoError(t, store.SaveVideo(video))

	video.ViewCount = 99999
	video.Title = "Updated Title"
	require.NoError(t, store.SaveVideo(video))

	videos, err := store.ListVideos()
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, int64(99999), videos[0].ViewCount)
	assert.Equal(t, "Updated Title", videos[0].Title)
}

func TestGetVideoNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetVideo("nonexistent1")
	assert.ErrorIs(t, err, ErrVideoNotFound)
}

func TestSaveCommentsRequiresVideo(t *testing.T) {
	store := openTestStore(t)

	err := store.SaveComments("dQw4w9WgXcQ", []*model.Comment{sampleComment("c1")})
	require.Error(t, err)
	var storageErr *StorageError
	assert.ErrorAs(t, err, &storageErr)
}

func TestSaveAndGetComments(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.SaveVideo(sampleVideo()))

	c1 := sampleComment("c1")
	c2 := sampleComment("c2")
	c2.PublishedAt = c1.PublishedAt.Add(time.Hour)
	c2.IsReply = true
	c2.ParentID = "c1"
	require.NoError(t, store.SaveComments("dQw4w9WgXcQ", []*model.Comment{c2, c1}))

	got, err := store.GetComments("dQw4w9WgXcQ")
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Published order, not insertion order.
	assert.Equal(t, "c1", got[0].CommentID)
	assert.Equal(t, "c2", got[1].CommentID)
	assert.True(t, got[1].IsReply)
	assert.Equal(t, "c1", got[1].ParentID)
	assert.Nil(t, got[0].Sentiment)
}

func TestSaveCommentsUpsert(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.SaveVideo(sampleVideo()))

	c := sampleComment("c1")
	require.NoError(t, store.SaveComments("dQw4w9WgXcQ", []*model.Comment{c}))

	c.Text = "Edited comment"
	c.LikeCount = 42
	require.NoError(t, store.SaveComments("dQw4w9WgXcQ", []*model.Comment{c}))

	got, err := store.GetComments("dQw4w9WgXcQ")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Edited comment", got[0].Text)
	assert.Equal(t, int64(42), got[0].LikeCount)
}

func TestSentimentRoundTrip(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.SaveVideo(sampleVideo()))

	c := sampleComment("c1")
	c.Sentiment = &model.SentimentScore{
		Polarity:     0.5,
		Subjectivity: 0.6,
		Compound:     0.7,
		Positive:     0.8,
		Negative:     0.05,
		Neutral:      0.15,
		Label:        model.SentimentPositive,
		Strength:     model.StrengthStrong,
	}
	require.NoError(t, store.SaveComments("dQw4w9WgXcQ", []*model.Comment{c}))

	got, err := store.GetComments("dQw4w9WgXcQ")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Sentiment)
	assert.Equal(t, *c.Sentiment, *got[0].Sentiment)
}

func TestGetCommentStats(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.SaveVideo(sampleVideo()))

	c1 := sampleComment("c1")
	c1.LikeCount = 10
	c1.Sentiment = &model.SentimentScore{Polarity: 0.4, Compound: 0.6, Label: model.SentimentPositive, Strength: model.StrengthModerate}
	c2 := sampleComment("c2")
	c2.LikeCount = 2
	c2.IsReply = true
	c2.ParentID = "c1"
	c2.Sentiment = &model.SentimentScore{Polarity: -0.2, Compound: -0.4, Label: model.SentimentNegative, Strength: model.StrengthWeak}
	c3 := sampleComment("c3")
	require.NoError(t, store.SaveComments("dQw4w9WgXcQ", []*model.Comment{c1, c2, c3}))

	stats, err := store.GetCommentStats("dQw4w9WgXcQ")
	require.NoError(t, err)

	assert.Equal(t, 3, stats.CommentCount)
	assert.Equal(t, 1, stats.ReplyCount)
	assert.Equal(t, int64(15), stats.TotalLikes)
	assert.Equal(t, 2, stats.ScoredCount)
	assert.Equal(t, 1, stats.UnscoredCount)
	assert.InDelta(t, 0.1, stats.MeanPolarity, 1e-9)
	assert.InDelta(t, 0.1, stats.MeanCompound, 1e-9)
	assert.Equal(t, 1, stats.LabelCounts[model.SentimentPositive])
	assert.Equal(t, 1, stats.LabelCounts[model.SentimentNegative])
}

func TestListVideosEmpty(t *testing.T) {
	store := openTestStore(t)

	videos, err := store.ListVideos()
	require.NoError(t, err)
	assert.Empty(t, videos)
}

func TestTimeRoundTrip(t *testing.T) {
	assert.Equal(t, "", formatTime(time.Time{}))
	assert.True(t, parseTime("").IsZero())

	now := time.Date(2024, 5, 30, 8, 15, 30, 123456789, time.UTC)
	assert.True(t, now.Equal(parseTime(formatTime(now))))
}
