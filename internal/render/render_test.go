package render

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"newsdesk/internal/asset"
	"newsdesk/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSigner struct{}

func (failingSigner) SignVideoURL(context.Context, string, string) (string, error) {
	return "", errors.New("signing endpoint down")
}

func newRenderer(signer asset.Signer) *Renderer {
	return New(asset.NewResolver(signer, nil), "APM News")
}

func TestArticleRendersOneNodePerBlockInOrder(t *testing.T) {
	a := model.Article{
		Title:  "All four",
		Author: "Johnny",
		Content: []model.Block{
			{ID: "t1", Type: model.BlockText, Text: "first paragraph\nsecond paragraph"},
			{ID: "i1", Type: model.BlockImage, Image: model.ImageContent{URL: "https://cdn.example.com/a.jpg", Caption: "cap"}},
			{ID: "v1", Type: model.BlockVideo, Video: model.VideoContent{URL: "https://cdn.example.com/a.mp4", Title: "Clip"}},
			{ID: "w1", Type: model.BlockTweet, TweetID: "1234567890"},
		},
	}
	html, err := newRenderer(nil).Article(context.Background(), a, ModePublished)
	require.NoError(t, err)

	textAt := strings.Index(html, "text-block")
	imageAt := strings.Index(html, "image-block")
	videoAt := strings.Index(html, "video-block")
	tweetAt := strings.Index(html, "tweet-block")
	for name, at := range map[string]int{"text": textAt, "image": imageAt, "video": videoAt, "tweet": tweetAt} {
		require.GreaterOrEqual(t, at, 0, "missing %s block", name)
	}
	assert.Less(t, textAt, imageAt)
	assert.Less(t, imageAt, videoAt)
	assert.Less(t, videoAt, tweetAt)

	assert.Equal(t, 2, strings.Count(html, "<p>"), "text splits on paragraph breaks")
	assert.Contains(t, html, "https://twitter.com/i/status/1234567890")
	assert.Contains(t, html, "platform.twitter.com/widgets.js")
}

func TestUnknownBlockTypeIsSkipped(t *testing.T) {
	a := model.Article{
		Title: "Forward compat",
		Content: []model.Block{
			{ID: "t1", Type: model.BlockText, Text: "still here"},
			{ID: "x1", Type: model.BlockType("poll")},
		},
	}
	for _, mode := range []Mode{ModeEditor, ModePublished} {
		html, err := newRenderer(nil).Article(context.Background(), a, mode)
		require.NoError(t, err)
		assert.Contains(t, html, "still here")
		assert.NotContains(t, html, "poll")
	}
}

func TestVideoSigningFailureIsIsolated(t *testing.T) {
	a := model.Article{
		Title: "Partial failure",
		Content: []model.Block{
			{ID: "v1", Type: model.BlockVideo, Video: model.VideoContent{Bucket: "b", Key: "k"}},
			{ID: "t1", Type: model.BlockText, Text: "sibling text"},
		},
	}
	html, err := newRenderer(failingSigner{}).Article(context.Background(), a, ModePublished)
	require.NoError(t, err)
	assert.Contains(t, html, "Error loading video")
	assert.Contains(t, html, "sibling text")
}

func TestPendingSourcesRenderPlaceholders(t *testing.T) {
	a := model.Article{
		Content: []model.Block{
			{ID: "i1", Type: model.BlockImage},
			{ID: "v1", Type: model.BlockVideo},
		},
	}
	html, err := newRenderer(nil).Article(context.Background(), a, ModeEditor)
	require.NoError(t, err)
	assert.Contains(t, html, "Waiting for image source...")
	assert.Contains(t, html, "Waiting for video source...")
}

func TestInvalidTweetIDByContext(t *testing.T) {
	a := model.Article{
		Content: []model.Block{{ID: "w1", Type: model.BlockTweet, TweetID: "not a tweet"}},
	}

	editor, err := newRenderer(nil).Article(context.Background(), a, ModeEditor)
	require.NoError(t, err)
	assert.Contains(t, editor, "Tweet ID is missing or invalid")

	published, err := newRenderer(nil).Article(context.Background(), a, ModePublished)
	require.NoError(t, err)
	assert.NotContains(t, published, "twitter-tweet")
	assert.NotContains(t, published, "Tweet ID")
}

func TestEmptyTextBlockRendersFallback(t *testing.T) {
	a := model.Article{
		Content: []model.Block{{ID: "t1", Type: model.BlockText}},
	}
	html, err := newRenderer(nil).Article(context.Background(), a, ModePublished)
	require.NoError(t, err)
	assert.Contains(t, html, "No content available")
}

func TestHomePicksMainFeaturedHero(t *testing.T) {
	articles := []model.Article{
		{ID: "1", Title: "Newest", Date: "2024-10-06", Status: model.StatusPublished},
		{ID: "2", Title: "Featured", Tagline: "Why it matters", Date: "2024-10-03", Status: model.StatusPublished, IsMainFeatured: true},
		{ID: "3", Title: "Third", Date: "2024-10-02", Status: model.StatusPublished},
		{ID: "4", Title: "Hidden draft", Date: "2024-10-07", Status: model.StatusDraft},
	}
	html, err := newRenderer(nil).Home(articles, HomeAssets{
		CarouselURLs:       []string{"https://cdn.example.com/c1.jpg"},
		FeaturedVideoURL:   "https://cdn.example.com/mantra.mp4",
		FeaturedVideoTitle: "Mantra Of The Week",
	})
	require.NoError(t, err)

	heroAt := strings.Index(html, `class="hero"`)
	featuredAt := strings.Index(html, "Featured")
	require.GreaterOrEqual(t, heroAt, 0)
	require.Greater(t, featuredAt, heroAt)
	assert.Less(t, featuredAt-heroAt, 400, "featured article should be the hero")
	assert.Contains(t, html, "Why it matters", "hero renders its tagline")
	assert.NotContains(t, html, "Hidden draft", "drafts never reach the home page")
	assert.Contains(t, html, "Mantra Of The Week")
	assert.Contains(t, html, "c1.jpg")
}

func TestTeaserTruncatesOnRuneBoundary(t *testing.T) {
	// 199 ASCII bytes followed by a three-byte rune straddling the cutoff.
	long := strings.Repeat("a", 199) + "日本語"
	a := model.Article{Tagline: long}

	got := teaser(a)
	assert.LessOrEqual(t, len(got), 200)
	assert.True(t, utf8.ValidString(got), "truncation must not split a rune")
	assert.Equal(t, strings.Repeat("a", 199), got)
}

func TestListSortsNewestFirst(t *testing.T) {
	articles := []model.Article{
		{ID: "old", Title: "Old Story", Date: "2024-01-01"},
		{ID: "new", Title: "New Story", Date: "2024-10-06"},
	}
	html, err := newRenderer(nil).List(articles)
	require.NoError(t, err)
	assert.Less(t, strings.Index(html, "New Story"), strings.Index(html, "Old Story"))
}
