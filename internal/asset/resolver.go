// Package asset turns a block's raw source descriptor into a displayable
// URL. Every render path consumes the same Resolution result instead of
// re-deriving loading/error flags inline.
package asset

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"newsdesk/internal/model"
)

// State classifies a block's source at resolution time.
type State int

const (
	// StatePending means the block has no usable source yet.
	StatePending State = iota
	// StateLocal means the URL previews a not-yet-durable local file.
	StateLocal
	// StateDurable means the URL is safe to persist and display.
	StateDurable
	// StateError means resolution failed for this block only.
	StateError
)

// Resolution is the single async-state result consumed by editor and
// renderer alike.
type Resolution struct {
	State State
	URL   string
	Err   error
}

// Signer exchanges a {bucket, key} storage reference for a time-limited
// playback URL. Implemented by the newsapi client.
type Signer interface {
	SignVideoURL(ctx context.Context, bucket, key string) (string, error)
}

// Resolver resolves block sources with per-block independence: one block's
// slow or failing asset never delays or fails a sibling. Signed URLs are
// memoized per {bucket, key} so unchanged inputs cause no repeat request.
type Resolver struct {
	signer   Signer
	previews *PreviewStore

	mu     sync.Mutex
	signed map[string]string
	flight singleflight.Group
}

// NewResolver builds a resolver. signer may be nil when no remote signing
// endpoint is configured; bucket/key blocks then resolve to an error.
func NewResolver(signer Signer, previews *PreviewStore) *Resolver {
	if previews == nil {
		previews = NewPreviewStore()
	}
	return &Resolver{
		signer:   signer,
		previews: previews,
		signed:   make(map[string]string),
	}
}

// Previews exposes the preview store so sequence removal can release
// block-owned previews.
func (r *Resolver) Previews() *PreviewStore {
	return r.previews
}

// Release discards previews owned by the block and makes the resolver drop
// any in-flight result for it.
func (r *Resolver) Release(blockID string) {
	r.previews.Release(blockID)
}

func usableURL(s string) bool {
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "data:") ||
		strings.HasPrefix(s, PreviewScheme)
}

func urlState(s string) State {
	if strings.HasPrefix(s, PreviewScheme) {
		return StateLocal
	}
	return StateDurable
}

// Resolve produces a displayable URL for one block. Precedence, first match
// wins: already-usable URL; {bucket, key} via the signing endpoint; local
// file handle via an immediate preview; otherwise pending.
func (r *Resolver) Resolve(ctx context.Context, b model.Block) Resolution {
	switch b.Type {
	case model.BlockImage:
		if usableURL(b.Image.URL) {
			return Resolution{State: urlState(b.Image.URL), URL: b.Image.URL}
		}
		if b.Image.File != "" {
			url, err := r.previews.AcquireImage(b.ID, b.Image.File)
			if err != nil {
				return Resolution{State: StateError, Err: err}
			}
			return Resolution{State: StateLocal, URL: url}
		}
	case model.BlockVideo:
		if usableURL(b.Video.URL) {
			return Resolution{State: urlState(b.Video.URL), URL: b.Video.URL}
		}
		if b.Video.Bucket != "" && b.Video.Key != "" {
			return r.sign(ctx, b.ID, b.Video.Bucket, b.Video.Key)
		}
		if b.Video.File != "" {
			return Resolution{State: StateLocal, URL: r.previews.AcquireVideo(b.ID, b.Video.File)}
		}
	}
	return Resolution{State: StatePending}
}

func (r *Resolver) sign(ctx context.Context, blockID, bucket, key string) Resolution {
	memoKey := bucket + "/" + key
	if r.signer == nil {
		return Resolution{State: StateError, Err: errors.New("no signing endpoint configured")}
	}

	// Concurrent resolutions of the same reference (ResolveAll fans out one
	// goroutine per block) share a single signing request.
	v, err, _ := r.flight.Do(memoKey, func() (any, error) {
		r.mu.Lock()
		if url, ok := r.signed[memoKey]; ok {
			r.mu.Unlock()
			return url, nil
		}
		r.mu.Unlock()

		url, err := r.signer.SignVideoURL(ctx, bucket, key)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.signed[memoKey] = url
		r.mu.Unlock()
		return url, nil
	})
	if err != nil {
		slog.Warn("video url signing failed", "bucket", bucket, "key", key, "err", err)
		return Resolution{State: StateError, Err: err}
	}
	return Resolution{State: StateDurable, URL: v.(string)}
}

// ResolveAll resolves every block concurrently and returns results keyed by
// block id. Blocks complete in any order; a failure stays local to its own
// entry. Results for blocks released mid-flight are dropped rather than
// handed back (stale-result guard).
func (r *Resolver) ResolveAll(ctx context.Context, blocks []model.Block) map[string]Resolution {
	type keyed struct {
		id  string
		res Resolution
	}
	out := make(chan keyed, len(blocks))
	var wg sync.WaitGroup
	for _, b := range blocks {
		wg.Add(1)
		go func(b model.Block) {
			defer wg.Done()
			out <- keyed{id: b.ID, res: r.Resolve(ctx, b)}
		}(b)
	}
	wg.Wait()
	close(out)

	live := make(map[string]bool, len(blocks))
	for _, b := range blocks {
		live[b.ID] = true
	}
	results := make(map[string]Resolution, len(blocks))
	for k := range out {
		if stale := k.res.State == StateLocal && !r.previews.Owned(k.id); stale {
			continue
		}
		if live[k.id] {
			results[k.id] = k.res
		}
	}
	return results
}
