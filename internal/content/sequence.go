// Package content owns the ordered block sequence for one article and the
// operations that preserve block identity across mutation.
package content

import (
	"errors"
	"fmt"

	"newsdesk/internal/model"
)

// ErrBlockNotFound is returned when an operation names an id not present
// in the sequence.
var ErrBlockNotFound = errors.New("block not found")

// Releaser frees per-block resources (local previews) when a block is
// removed or its source replaced.
type Releaser interface {
	Release(blockID string)
}

type noopReleaser struct{}

func (noopReleaser) Release(string) {}

// Sequence is the ordered collection of blocks for one article. Position is
// implicit in index; identity lives only in each block's id. All mutation
// goes through the methods below so removals release owned assets.
type Sequence struct {
	blocks   []model.Block
	releaser Releaser
}

// NewSequence builds a sequence over the given blocks. releaser may be nil.
func NewSequence(blocks []model.Block, releaser Releaser) *Sequence {
	if releaser == nil {
		releaser = noopReleaser{}
	}
	return &Sequence{blocks: append([]model.Block(nil), blocks...), releaser: releaser}
}

// Blocks returns a copy of the current sequence in render order.
func (s *Sequence) Blocks() []model.Block {
	return append([]model.Block(nil), s.blocks...)
}

// Len returns the number of blocks.
func (s *Sequence) Len() int {
	return len(s.blocks)
}

// ByID returns the block with the given id.
func (s *Sequence) ByID(id string) (model.Block, error) {
	for _, b := range s.blocks {
		if b.ID == id {
			return b, nil
		}
	}
	return model.Block{}, fmt.Errorf("%w: %s", ErrBlockNotFound, id)
}

// Append adds a block to the end of the sequence.
func (s *Sequence) Append(b model.Block) {
	s.blocks = append(s.blocks, b)
}

// UpdateByID replaces the named block with apply's result. The id is forced
// back onto the result so no update can regenerate identity.
func (s *Sequence) UpdateByID(id string, apply func(model.Block) model.Block) error {
	for i, b := range s.blocks {
		if b.ID == id {
			nb := apply(b)
			nb.ID = id
			s.blocks[i] = nb
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrBlockNotFound, id)
}

// RemoveByID deletes the named block and releases any local preview it owns.
func (s *Sequence) RemoveByID(id string) error {
	for i, b := range s.blocks {
		if b.ID == id {
			s.blocks = append(s.blocks[:i], s.blocks[i+1:]...)
			s.releaser.Release(id)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrBlockNotFound, id)
}

// Reorder moves the block at from to position to, shifting the others.
// Both endpoints are positions at call time; ids and content are untouched.
func (s *Sequence) Reorder(from, to int) error {
	n := len(s.blocks)
	if from < 0 || from >= n {
		return fmt.Errorf("reorder: from index %d out of range [0,%d)", from, n)
	}
	if to < 0 || to >= n {
		return fmt.Errorf("reorder: to index %d out of range [0,%d)", to, n)
	}
	if from == to {
		return nil
	}
	moved := s.blocks[from]
	rest := append(s.blocks[:from:from], s.blocks[from+1:]...)
	s.blocks = append(rest[:to:to], append([]model.Block{moved}, rest[to:]...)...)
	return nil
}
