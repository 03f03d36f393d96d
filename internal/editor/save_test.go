package editor

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"newsdesk/internal/asset"
	"newsdesk/internal/model"
	"newsdesk/internal/newsapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu             sync.Mutex
	articleHits    atomic.Int64
	lastArticle    []byte
	failUploadsFor string // substring of uploaded filename that should 500
	uploads        atomic.Int64
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestServer(t *testing.T, fb *fakeBackend) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/uploadvideo", func(w http.ResponseWriter, r *http.Request) {
		fb.uploads.Add(1)
		_, hdr, err := r.FormFile("video")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if fb.failUploadsFor != "" && strings.Contains(hdr.Filename, fb.failUploadsFor) {
			http.Error(w, "upload rejected", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"videoBucket": "news-videos",
			"videoKey":    "clips/" + hdr.Filename,
		})
	})
	mux.HandleFunc("/articles", func(w http.ResponseWriter, r *http.Request) {
		fb.articleHits.Add(1)
		body, _ := io.ReadAll(r.Body)
		fb.mu.Lock()
		fb.lastArticle = body
		fb.mu.Unlock()
		var a map[string]any
		_ = json.Unmarshal(body, &a)
		a["_id"] = "article-1"
		_ = json.NewEncoder(w).Encode(a)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestSession(t *testing.T, srv *httptest.Server, a model.Article) *Session {
	t.Helper()
	api := newsapi.New(srv.URL, "", 5*time.Second)
	return NewSession(a, asset.NewResolver(api, nil), api)
}

func TestSaveAbortsWhenAnyUploadFails(t *testing.T) {
	fb := &fakeBackend{failUploadsFor: "bad"}
	srv := newTestServer(t, fb)

	good := writeTempFile(t, "good.mp4", "video-bytes")
	bad := writeTempFile(t, "bad.mp4", "video-bytes")

	s := newTestSession(t, srv, model.Article{Title: "Two clips"})
	b1, err := s.AddBlock(model.BlockVideo, "")
	require.NoError(t, err)
	b2, err := s.AddBlock(model.BlockVideo, "")
	require.NoError(t, err)
	_, err = s.Attach(context.Background(), b1.ID, good)
	require.NoError(t, err)
	_, err = s.Attach(context.Background(), b2.ID, bad)
	require.NoError(t, err)

	_, err = s.Save(context.Background(), model.StatusDraft)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save aborted")
	assert.EqualValues(t, 0, fb.articleHits.Load(), "no article request after a failed upload")

	// The draft keeps its local handles for retry.
	for _, b := range s.Blocks() {
		assert.NotEmpty(t, b.Video.File)
	}
}

func TestSaveUploadsRewriteAndPersist(t *testing.T) {
	fb := &fakeBackend{}
	srv := newTestServer(t, fb)

	clip := writeTempFile(t, "clip.mp4", "video-bytes")
	s := newTestSession(t, srv, model.Article{Title: "One clip", Author: "Johnny"})
	vb, err := s.AddBlock(model.BlockVideo, "")
	require.NoError(t, err)
	_, err = s.Attach(context.Background(), vb.ID, clip)
	require.NoError(t, err)
	_, err = s.AddBlock(model.BlockText, "hello\nworld")
	require.NoError(t, err)

	saved, err := s.Save(context.Background(), model.StatusPublished)
	require.NoError(t, err)

	assert.Equal(t, "article-1", saved.ID)
	assert.Equal(t, model.StatusPublished, saved.Status)
	assert.NotEmpty(t, saved.Date, "publish assigns a date when absent")
	assert.EqualValues(t, 1, fb.articleHits.Load())

	fb.mu.Lock()
	wire := string(fb.lastArticle)
	fb.mu.Unlock()
	assert.Contains(t, wire, `"videoBucket":"news-videos"`)
	assert.Contains(t, wire, `"videoKey":"clips/clip.mp4"`)
	assert.NotContains(t, wire, clip, "local paths must not cross the wire")

	// The session adopted the durable block; the preview is gone.
	b, found := blockByID(s.Blocks(), vb.ID)
	require.True(t, found)
	assert.Empty(t, b.Video.File)
	assert.Equal(t, "news-videos", b.Video.Bucket)
	assert.False(t, s.Resolver().Previews().Owned(vb.ID))
}

func TestSaveInlinesImagesAsDataURLs(t *testing.T) {
	fb := &fakeBackend{}
	srv := newTestServer(t, fb)

	pic := writeTempFile(t, "pic.png", "\x89PNG\r\n\x1a\nfake")
	s := newTestSession(t, srv, model.Article{Title: "Pic"})
	ib, err := s.AddBlock(model.BlockImage, "")
	require.NoError(t, err)
	res, err := s.Attach(context.Background(), ib.ID, pic)
	require.NoError(t, err)
	assert.Equal(t, asset.StateLocal, res.State)

	saved, err := s.Save(context.Background(), model.StatusDraft)
	require.NoError(t, err)

	b, found := blockByID(saved.Content, ib.ID)
	require.True(t, found)
	assert.True(t, strings.HasPrefix(b.Image.URL, "data:image/png;base64,"))
	assert.Empty(t, b.Image.File)
}

func TestAddTweetBlockNormalizesAtInput(t *testing.T) {
	s := NewSession(model.Article{}, asset.NewResolver(nil, nil), nil)

	b, err := s.AddBlock(model.BlockTweet, "https://x.com/user/status/1234567890")
	require.NoError(t, err)
	assert.Equal(t, "1234567890", b.TweetID)

	require.NoError(t, s.SetTweet(b.ID, "not a tweet"))
	got, found := blockByID(s.Blocks(), b.ID)
	require.True(t, found)
	assert.Equal(t, "not a tweet", got.TweetID, "fallback keeps raw input")
}

func blockByID(blocks []model.Block, id string) (model.Block, bool) {
	for _, b := range blocks {
		if b.ID == id {
			return b, true
		}
	}
	return model.Block{}, false
}
