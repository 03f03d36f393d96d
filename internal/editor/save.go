package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"newsdesk/internal/media"
	"newsdesk/internal/model"
)

// Save uploads every pending local file and then sends the article to the
// remote store with the given status. The pending uploads run concurrently
// and Save joins all of them: if any one fails, the whole save aborts
// before any article request is made, and the draft keeps its local
// handles so the author can retry.
func (s *Session) Save(ctx context.Context, status string) (model.Article, error) {
	if s.api == nil {
		return model.Article{}, errors.New("no api client configured")
	}
	a := s.Article()
	a.Status = status
	if status == model.StatusPublished && a.Date == "" {
		a.Date = time.Now().UTC().Format(time.RFC3339)
	}

	blocks, uploaded, err := s.makeDurable(ctx, a.Content)
	if err != nil {
		return model.Article{}, err
	}
	a.Content = blocks

	if a.Saved() {
		if err := s.api.UpdateArticle(ctx, a.ID, a); err != nil {
			return model.Article{}, err
		}
	} else {
		stored, err := s.api.CreateArticle(ctx, a)
		if err != nil {
			return model.Article{}, err
		}
		if stored.ID != "" {
			a.ID = stored.ID
		}
	}

	// Persisted: adopt the durable blocks and drop previews they owned.
	for _, id := range uploaded {
		s.resolver.Release(id)
	}
	s.article = a
	for _, b := range blocks {
		nb := b
		_ = s.seq.UpdateByID(b.ID, func(model.Block) model.Block { return nb })
	}
	slog.Info("article saved", "id", a.ID, "status", a.Status, "blocks", len(blocks), "uploads", len(uploaded))
	return a, nil
}

// makeDurable rewrites every block with a pending local file to its durable
// form, uploading video files concurrently. It operates on a copy; callers
// only see the result when every upload succeeded.
func (s *Session) makeDurable(ctx context.Context, in []model.Block) ([]model.Block, []string, error) {
	blocks := append([]model.Block(nil), in...)

	// Image blocks inline synchronously; the durable form is a data URL.
	for i, b := range blocks {
		if b.Type == model.BlockImage && b.Image.File != "" {
			url, err := media.DataURL(b.Image.File)
			if err != nil {
				return nil, nil, fmt.Errorf("inline image for block %s: %w", b.ID, err)
			}
			blocks[i].Image.URL = url
			blocks[i].Image.File = ""
		}
	}

	type pending struct {
		idx  int
		path string
	}
	var todo []pending
	for i, b := range blocks {
		if b.Type == model.BlockVideo && b.Video.File != "" {
			todo = append(todo, pending{idx: i, path: b.Video.File})
		}
	}
	if len(todo) == 0 {
		return blocks, uploadedIDs(blocks, in), nil
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(todo))
	for _, p := range todo {
		wg.Add(1)
		go func(p pending) {
			defer wg.Done()
			ref, err := s.api.UploadVideo(ctx, p.path)
			if err != nil {
				errs <- fmt.Errorf("upload video for block %s: %w", blocks[p.idx].ID, err)
				return
			}
			b := &blocks[p.idx]
			b.Video.URL = ref.URL
			b.Video.Bucket = ref.Bucket
			b.Video.Key = ref.Key
			b.Video.File = ""
		}(p)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			return nil, nil, fmt.Errorf("save aborted: %w", err)
		}
	}
	return blocks, uploadedIDs(blocks, in), nil
}

// uploadedIDs lists blocks whose local handle was consumed by this save.
func uploadedIDs(durable, original []model.Block) []string {
	had := make(map[string]bool, len(original))
	for _, b := range original {
		if b.PendingFile() != "" {
			had[b.ID] = true
		}
	}
	var out []string
	for _, b := range durable {
		if had[b.ID] && b.PendingFile() == "" {
			out = append(out, b.ID)
		}
	}
	return out
}
