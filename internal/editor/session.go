// Package editor is the authoring surface: one session owns one article
// draft, mutates its block sequence by id, and drives the save/publish
// pipeline against the remote store.
package editor

import (
	"context"
	"fmt"

	"newsdesk/internal/asset"
	"newsdesk/internal/content"
	"newsdesk/internal/media"
	"newsdesk/internal/model"
	"newsdesk/internal/newsapi"
	"newsdesk/internal/tweet"
)

// Session is an exclusive editing session over one article. The underlying
// sequence is never shared with concurrent writers.
type Session struct {
	article  model.Article
	seq      *content.Sequence
	resolver *asset.Resolver
	api      *newsapi.Client
}

// NewSession opens a session over the given article. api is only needed for
// Save; resolver must not be nil.
func NewSession(a model.Article, resolver *asset.Resolver, api *newsapi.Client) *Session {
	return &Session{
		article:  a,
		seq:      content.NewSequence(a.Content, resolver),
		resolver: resolver,
		api:      api,
	}
}

// Article returns the current draft state including block order.
func (s *Session) Article() model.Article {
	a := s.article
	a.Content = s.seq.Blocks()
	return a
}

// Blocks returns the current block sequence.
func (s *Session) Blocks() []model.Block {
	return s.seq.Blocks()
}

// Resolver exposes the session's asset resolver for preview rendering.
func (s *Session) Resolver() *asset.Resolver {
	return s.resolver
}

// SetTitle, SetTagline, SetAuthor and SetMainFeatured edit article fields.
func (s *Session) SetTitle(v string)      { s.article.Title = v }
func (s *Session) SetTagline(v string)    { s.article.Tagline = v }
func (s *Session) SetAuthor(v string)     { s.article.Author = v }
func (s *Session) SetMainFeatured(v bool) { s.article.IsMainFeatured = v }

// SetMainImage attaches a local image as the article's hero image,
// inlined immediately as a data URL.
func (s *Session) SetMainImage(path string) error {
	url, err := media.DataURL(path)
	if err != nil {
		return err
	}
	s.article.MainImage = url
	return nil
}

// AddBlock appends a fresh block of the given type. For tweet blocks the
// raw input (URL or bare id) is normalized to a numeric id right here, so
// the preview always matches what will be persisted. A non-matching input
// is kept as-is; the renderer degrades gracefully.
func (s *Session) AddBlock(t model.BlockType, input string) (model.Block, error) {
	b := model.NewBlock(t)
	switch t {
	case model.BlockText:
		b.Text = input
	case model.BlockTweet:
		b.TweetID = tweet.Extract(input)
	case model.BlockImage, model.BlockVideo:
		// starts empty; content arrives via Attach
	default:
		return model.Block{}, fmt.Errorf("unknown block type %q", t)
	}
	s.seq.Append(b)
	return b, nil
}

// SetText replaces a text block's content.
func (s *Session) SetText(id, text string) error {
	return s.updateTyped(id, model.BlockText, func(b model.Block) model.Block {
		b.Text = text
		return b
	})
}

// SetCaption sets an image block's caption.
func (s *Session) SetCaption(id, caption string) error {
	return s.updateTyped(id, model.BlockImage, func(b model.Block) model.Block {
		b.Image.Caption = caption
		return b
	})
}

// SetAlt sets an image block's alt text.
func (s *Session) SetAlt(id, alt string) error {
	return s.updateTyped(id, model.BlockImage, func(b model.Block) model.Block {
		b.Image.Alt = alt
		return b
	})
}

// SetVideoTitle sets a video block's overlay title.
func (s *Session) SetVideoTitle(id, title string) error {
	return s.updateTyped(id, model.BlockVideo, func(b model.Block) model.Block {
		b.Video.Title = title
		return b
	})
}

// SetTweet replaces a tweet block's reference, normalizing at input time.
func (s *Session) SetTweet(id, input string) error {
	return s.updateTyped(id, model.BlockTweet, func(b model.Block) model.Block {
		b.TweetID = tweet.Extract(input)
		return b
	})
}

// Attach points an image or video block at a local file. The old preview
// (if any) is released, a new local preview is synthesized immediately, and
// the raw handle stays on the block for upload at save time. No network.
func (s *Session) Attach(ctx context.Context, id, path string) (asset.Resolution, error) {
	b, err := s.seq.ByID(id)
	if err != nil {
		return asset.Resolution{}, err
	}
	switch b.Type {
	case model.BlockImage:
		err = s.seq.UpdateByID(id, func(b model.Block) model.Block {
			b.Image.URL = ""
			b.Image.File = path
			return b
		})
	case model.BlockVideo:
		err = s.seq.UpdateByID(id, func(b model.Block) model.Block {
			b.Video = model.VideoContent{File: path, Title: b.Video.Title}
			return b
		})
	default:
		return asset.Resolution{}, fmt.Errorf("block %s is %s; only image and video blocks take files", id, b.Type)
	}
	if err != nil {
		return asset.Resolution{}, err
	}
	s.resolver.Release(id)
	b, _ = s.seq.ByID(id)
	return s.resolver.Resolve(ctx, b), nil
}

// Remove deletes a block; its local preview is released by the sequence.
func (s *Session) Remove(id string) error {
	return s.seq.RemoveByID(id)
}

// Move reorders a block from one position to another.
func (s *Session) Move(from, to int) error {
	return s.seq.Reorder(from, to)
}

func (s *Session) updateTyped(id string, want model.BlockType, apply func(model.Block) model.Block) error {
	b, err := s.seq.ByID(id)
	if err != nil {
		return err
	}
	if b.Type != want {
		return fmt.Errorf("block %s is %s, not %s", id, b.Type, want)
	}
	return s.seq.UpdateByID(id, apply)
}
