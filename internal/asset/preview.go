package asset

import (
	"sync"

	"github.com/google/uuid"

	"newsdesk/internal/media"
)

// PreviewScheme prefixes in-process preview URLs handed out for local
// video files, the object-URL analog. Images preview as data URLs instead
// and need no lookup table.
const PreviewScheme = "preview://"

// PreviewStore tracks local preview URLs per block id. Previews are the one
// leakable shared resource in the system: each one is created alongside a
// specific block and must be released exactly when that block is removed or
// its source replaced.
type PreviewStore struct {
	mu      sync.Mutex
	byBlock map[string]string // block id -> preview URL
	paths   map[string]string // preview URL -> local file path
}

func NewPreviewStore() *PreviewStore {
	return &PreviewStore{
		byBlock: make(map[string]string),
		paths:   make(map[string]string),
	}
}

// AcquireVideo returns a preview URL for the block's local video file,
// replacing (and releasing) any preview the block already owns. The same
// block+path pair returns the cached URL without minting a new one.
func (p *PreviewStore) AcquireVideo(blockID, path string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if url, ok := p.byBlock[blockID]; ok {
		if p.paths[url] == path {
			return url
		}
		delete(p.paths, url)
	}
	url := PreviewScheme + uuid.NewString()
	p.byBlock[blockID] = url
	p.paths[url] = path
	return url
}

// AcquireImage returns an inline data URL for the block's local image file.
// Data URLs are self-contained, but ownership is still recorded so Release
// and the stale-result guard treat images and videos uniformly.
func (p *PreviewStore) AcquireImage(blockID, path string) (string, error) {
	url, err := media.DataURL(path)
	if err != nil {
		return "", err
	}
	p.mu.Lock()
	p.byBlock[blockID] = url
	p.mu.Unlock()
	return url, nil
}

// Lookup resolves a preview URL back to the local file path it wraps.
func (p *PreviewStore) Lookup(url string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	path, ok := p.paths[url]
	return path, ok
}

// Release frees whatever preview the block owns. Safe to call for blocks
// that own nothing.
func (p *PreviewStore) Release(blockID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if url, ok := p.byBlock[blockID]; ok {
		delete(p.paths, url)
		delete(p.byBlock, blockID)
	}
}

// Owned reports whether the block currently owns a preview.
func (p *PreviewStore) Owned(blockID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.byBlock[blockID]
	return ok
}
