package content

import (
	"testing"

	"newsdesk/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingReleaser struct {
	released []string
}

func (r *recordingReleaser) Release(blockID string) {
	r.released = append(r.released, blockID)
}

func textBlock(id, text string) model.Block {
	return model.Block{ID: id, Type: model.BlockText, Text: text}
}

func ids(blocks []model.Block) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.ID
	}
	return out
}

func TestReorderMovesWithoutTouchingIdentity(t *testing.T) {
	s := NewSequence([]model.Block{
		textBlock("A", "a"), textBlock("B", "b"), textBlock("C", "c"),
	}, nil)

	require.NoError(t, s.Reorder(0, 2))

	got := s.Blocks()
	assert.Equal(t, []string{"B", "C", "A"}, ids(got))
	for _, b := range got {
		switch b.ID {
		case "A":
			assert.Equal(t, "a", b.Text)
		case "B":
			assert.Equal(t, "b", b.Text)
		case "C":
			assert.Equal(t, "c", b.Text)
		}
	}
}

func TestReorderBounds(t *testing.T) {
	s := NewSequence([]model.Block{textBlock("A", "a")}, nil)
	assert.Error(t, s.Reorder(0, 1))
	assert.Error(t, s.Reorder(-1, 0))
	assert.NoError(t, s.Reorder(0, 0))
}

func TestUpdateByIDKeepsIDStable(t *testing.T) {
	s := NewSequence([]model.Block{textBlock("A", "a")}, nil)

	err := s.UpdateByID("A", func(b model.Block) model.Block {
		b.ID = "hijacked"
		b.Text = "edited"
		return b
	})
	require.NoError(t, err)

	b, err := s.ByID("A")
	require.NoError(t, err)
	assert.Equal(t, "edited", b.Text)

	assert.ErrorIs(t, s.UpdateByID("missing", func(b model.Block) model.Block { return b }), ErrBlockNotFound)
}

func TestRemoveByIDReleasesAssets(t *testing.T) {
	rel := &recordingReleaser{}
	s := NewSequence([]model.Block{textBlock("A", "a"), textBlock("B", "b")}, rel)

	require.NoError(t, s.RemoveByID("A"))
	assert.Equal(t, []string{"B"}, ids(s.Blocks()))
	assert.Equal(t, []string{"A"}, rel.released)

	assert.ErrorIs(t, s.RemoveByID("A"), ErrBlockNotFound)
}

// Randomized-ish soak: after any mix of append/remove/reorder every id
// present beforehand is still present with unchanged content, unless it was
// the one removed, and no id is duplicated.
func TestOperationsPreserveIdentity(t *testing.T) {
	s := NewSequence(nil, nil)
	for _, id := range []string{"A", "B", "C", "D", "E"} {
		s.Append(textBlock(id, "content-"+id))
	}

	require.NoError(t, s.Reorder(4, 0))
	require.NoError(t, s.Reorder(1, 3))
	require.NoError(t, s.RemoveByID("C"))
	s.Append(textBlock("F", "content-F"))
	require.NoError(t, s.Reorder(0, s.Len()-1))

	seen := map[string]bool{}
	for _, b := range s.Blocks() {
		require.False(t, seen[b.ID], "duplicate id %s", b.ID)
		seen[b.ID] = true
		assert.Equal(t, "content-"+b.ID, b.Text)
	}
	assert.Len(t, seen, 5)
	assert.False(t, seen["C"])
}
