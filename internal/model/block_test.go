package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBlockIDsDoNotCollide(t *testing.T) {
	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		b := NewBlock(BlockText)
		require.NotEmpty(t, b.ID)
		require.False(t, seen[b.ID], "duplicate id %q", b.ID)
		seen[b.ID] = true
	}
}

func TestBlockWireShape(t *testing.T) {
	b := Block{
		ID:    "123-ab",
		Type:  BlockImage,
		Image: ImageContent{URL: "https://cdn.example.com/a.jpg", File: "/tmp/a.jpg", Caption: "cap", Alt: "alt"},
	}
	data, err := json.Marshal(b)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "123-ab", m["id"])
	assert.Equal(t, "image", m["type"])
	assert.Equal(t, "https://cdn.example.com/a.jpg", m["content"])
	assert.Equal(t, "cap", m["caption"])
	assert.NotContains(t, m, "file", "local file handles must not cross the wire")
}

func TestBlockVideoRoundTrip(t *testing.T) {
	in := Block{
		ID:    "v1",
		Type:  BlockVideo,
		Video: VideoContent{Bucket: "news-videos", Key: "clips/a.mp4", Title: "Clip"},
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Block
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, "news-videos", out.Video.Bucket)
	assert.Equal(t, "clips/a.mp4", out.Video.Key)
	assert.Equal(t, "Clip", out.Video.Title)
}

func TestUnknownBlockTypeRoundTrips(t *testing.T) {
	raw := []byte(`{"id":"x1","type":"poll","question":"?","options":["a","b"]}`)
	var b Block
	require.NoError(t, json.Unmarshal(raw, &b))
	assert.False(t, b.Known())

	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(data))
}
