package model

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"time"
)

// BlockType discriminates the content block variants.
type BlockType string

const (
	BlockText  BlockType = "text"
	BlockImage BlockType = "image"
	BlockVideo BlockType = "video"
	BlockTweet BlockType = "tweet"
)

// ImageContent holds an image block's source and captions. URL is either a
// remote http(s) URL or a data URL; File is a not-yet-uploaded local path.
type ImageContent struct {
	URL     string
	File    string
	Caption string
	Alt     string
}

// VideoContent holds a video block's source. Exactly one of URL, Bucket/Key,
// or File is expected to be set at any point in the block's lifecycle.
type VideoContent struct {
	URL    string
	Bucket string
	Key    string
	File   string
	Title  string
}

// Block is one unit of article content. ID is generated locally and stays
// stable for the block's lifetime; every edit, reorder and delete is keyed
// on it, never on position. Each variant has its own content field; only
// the fields matching Type are meaningful.
type Block struct {
	ID      string
	Type    BlockType
	Text    string
	Image   ImageContent
	Video   VideoContent
	TweetID string

	// raw carries unknown-type blocks through unchanged so articles written
	// by a newer editor survive a round trip.
	raw json.RawMessage
}

// NewBlock creates an empty block of the given type with a fresh id.
// The id combines a millisecond timestamp with a random suffix so two
// blocks created in the same instant do not collide.
func NewBlock(t BlockType) Block {
	return Block{ID: newBlockID(), Type: t}
}

func newBlockID() string {
	var suffix [4]byte
	_, _ = rand.Read(suffix[:])
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + hex.EncodeToString(suffix[:])
}

// Known reports whether the block's type is one the editor understands.
func (b Block) Known() bool {
	switch b.Type {
	case BlockText, BlockImage, BlockVideo, BlockTweet:
		return true
	}
	return false
}

// PendingFile returns the local file handle awaiting upload, if any.
func (b Block) PendingFile() string {
	switch b.Type {
	case BlockImage:
		return b.Image.File
	case BlockVideo:
		return b.Video.File
	}
	return ""
}

// blockWire is the flat JSON shape the remote store expects. Local file
// handles never cross the wire.
type blockWire struct {
	ID          string    `json:"id"`
	Type        BlockType `json:"type"`
	Content     string    `json:"content,omitempty"`
	Caption     string    `json:"caption,omitempty"`
	Alt         string    `json:"alt,omitempty"`
	Title       string    `json:"title,omitempty"`
	VideoBucket string    `json:"videoBucket,omitempty"`
	VideoKey    string    `json:"videoKey,omitempty"`
}

// MarshalJSON serializes the block in the remote store's flat shape.
func (b Block) MarshalJSON() ([]byte, error) {
	if !b.Known() && b.raw != nil {
		return b.raw, nil
	}
	w := blockWire{ID: b.ID, Type: b.Type}
	switch b.Type {
	case BlockText:
		w.Content = b.Text
	case BlockImage:
		w.Content = b.Image.URL
		w.Caption = b.Image.Caption
		w.Alt = b.Image.Alt
	case BlockVideo:
		w.Content = b.Video.URL
		w.Title = b.Video.Title
		w.VideoBucket = b.Video.Bucket
		w.VideoKey = b.Video.Key
	case BlockTweet:
		w.Content = b.TweetID
	}
	return json.Marshal(w)
}

// UnmarshalJSON parses the flat wire shape back into the tagged union.
// Unrecognized types keep their raw bytes and round-trip untouched.
func (b *Block) UnmarshalJSON(data []byte) error {
	var w blockWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*b = Block{ID: w.ID, Type: w.Type}
	switch w.Type {
	case BlockText:
		b.Text = w.Content
	case BlockImage:
		b.Image = ImageContent{URL: w.Content, Caption: w.Caption, Alt: w.Alt}
	case BlockVideo:
		b.Video = VideoContent{URL: w.Content, Title: w.Title, Bucket: w.VideoBucket, Key: w.VideoKey}
	case BlockTweet:
		b.TweetID = w.Content
	default:
		b.raw = append(json.RawMessage(nil), data...)
	}
	return nil
}
