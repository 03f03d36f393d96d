package asset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"newsdesk/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSigner struct {
	calls atomic.Int64
	err   error
}

func (f *fakeSigner) SignVideoURL(_ context.Context, bucket, key string) (string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return "", f.err
	}
	return "https://" + bucket + ".s3.amazonaws.com/" + key + "?signed=1", nil
}

func TestResolveDirectURLIsSynchronous(t *testing.T) {
	r := NewResolver(nil, nil)
	b := model.Block{ID: "v", Type: model.BlockVideo, Video: model.VideoContent{URL: "https://cdn.example.com/a.mp4"}}

	res := r.Resolve(context.Background(), b)
	assert.Equal(t, StateDurable, res.State)
	assert.Equal(t, "https://cdn.example.com/a.mp4", res.URL)
}

func TestResolveSignsAndMemoizes(t *testing.T) {
	signer := &fakeSigner{}
	r := NewResolver(signer, nil)
	b := model.Block{ID: "v", Type: model.BlockVideo, Video: model.VideoContent{Bucket: "news-videos", Key: "clips/a.mp4"}}

	first := r.Resolve(context.Background(), b)
	require.Equal(t, StateDurable, first.State)
	assert.Contains(t, first.URL, "news-videos")

	second := r.Resolve(context.Background(), b)
	assert.Equal(t, first.URL, second.URL)
	assert.EqualValues(t, 1, signer.calls.Load(), "unchanged inputs must not re-request")
}

func TestConcurrentDuplicateReferencesSignOnce(t *testing.T) {
	signer := &fakeSigner{}
	r := NewResolver(signer, nil)
	ref := model.VideoContent{Bucket: "news-videos", Key: "clips/shared.mp4"}
	blocks := []model.Block{
		{ID: "v1", Type: model.BlockVideo, Video: ref},
		{ID: "v2", Type: model.BlockVideo, Video: ref},
		{ID: "v3", Type: model.BlockVideo, Video: ref},
	}

	results := r.ResolveAll(context.Background(), blocks)
	require.Len(t, results, 3)
	for _, id := range []string{"v1", "v2", "v3"} {
		assert.Equal(t, StateDurable, results[id].State)
		assert.Contains(t, results[id].URL, "clips/shared.mp4")
	}
	assert.EqualValues(t, 1, signer.calls.Load(), "one signing request per {bucket, key}")
}

func TestResolveSignFailureIsBlockLocal(t *testing.T) {
	signer := &fakeSigner{err: errors.New("boom")}
	r := NewResolver(signer, nil)

	bad := model.Block{ID: "v1", Type: model.BlockVideo, Video: model.VideoContent{Bucket: "b", Key: "k"}}
	good := model.Block{ID: "v2", Type: model.BlockVideo, Video: model.VideoContent{URL: "https://cdn.example.com/ok.mp4"}}

	results := r.ResolveAll(context.Background(), []model.Block{bad, good})
	assert.Equal(t, StateError, results["v1"].State)
	assert.Error(t, results["v1"].Err)
	assert.Equal(t, StateDurable, results["v2"].State)
}

func TestResolveLocalVideoFileGetsPreview(t *testing.T) {
	r := NewResolver(nil, nil)
	b := model.Block{ID: "v", Type: model.BlockVideo, Video: model.VideoContent{File: "/tmp/clip.mp4"}}

	res := r.Resolve(context.Background(), b)
	require.Equal(t, StateLocal, res.State)
	assert.True(t, strings.HasPrefix(res.URL, PreviewScheme))

	path, ok := r.Previews().Lookup(res.URL)
	require.True(t, ok)
	assert.Equal(t, "/tmp/clip.mp4", path)

	// Same block+file: cached preview, no new URL.
	again := r.Resolve(context.Background(), b)
	assert.Equal(t, res.URL, again.URL)

	r.Release("v")
	_, ok = r.Previews().Lookup(res.URL)
	assert.False(t, ok, "released preview must be revoked")
}

func TestResolveLocalImageFileInlinesDataURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pic.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\nfake"), 0o644))

	r := NewResolver(nil, nil)
	b := model.Block{ID: "i", Type: model.BlockImage, Image: model.ImageContent{File: path}}

	res := r.Resolve(context.Background(), b)
	require.Equal(t, StateLocal, res.State)
	assert.True(t, strings.HasPrefix(res.URL, "data:image/png;base64,"))
}

func TestResolveEmptySourceIsPending(t *testing.T) {
	r := NewResolver(nil, nil)
	for _, b := range []model.Block{
		{ID: "i", Type: model.BlockImage},
		{ID: "v", Type: model.BlockVideo},
		{ID: "t", Type: model.BlockText, Text: "hi"},
	} {
		res := r.Resolve(context.Background(), b)
		assert.Equal(t, StatePending, res.State, "block %s", b.ID)
	}
}

func TestReplacingSourceReplacesPreview(t *testing.T) {
	store := NewPreviewStore()
	first := store.AcquireVideo("v", "/tmp/a.mp4")
	second := store.AcquireVideo("v", "/tmp/b.mp4")

	assert.NotEqual(t, first, second)
	_, ok := store.Lookup(first)
	assert.False(t, ok, "old preview must be released on replacement")
	path, ok := store.Lookup(second)
	require.True(t, ok)
	assert.Equal(t, "/tmp/b.mp4", path)
}
