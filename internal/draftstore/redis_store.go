// Package draftstore persists in-progress article drafts between CLI
// invocations. Drafts are editor session state only; published articles
// live in the remote store.
package draftstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"newsdesk/internal/model"

	"github.com/redis/go-redis/v9"
)

// ErrDraftNotFound is returned when the named draft does not exist.
var ErrDraftNotFound = errors.New("draft not found")

// draftTTL caps how long an abandoned draft lingers.
const draftTTL = 30 * 24 * time.Hour

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func draftKey(id string) string {
	return fmt.Sprintf("news:draft:%s", id)
}

const draftIndexKey = "news:drafts"

// Draft wraps an article with its local identity and bookkeeping.
type Draft struct {
	ID        string
	Article   model.Article
	UpdatedAt time.Time
}

// storedDraft is the persistence shape. Blocks serialize through the wire
// codec, which drops not-yet-uploaded local file handles; those must
// survive between CLI invocations until save consumes them, so they ride
// alongside keyed by block id.
type storedDraft struct {
	ID        string            `json:"id"`
	Article   model.Article     `json:"article"`
	Files     map[string]string `json:"files,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func encodeDraft(d Draft) ([]byte, error) {
	sd := storedDraft{ID: d.ID, Article: d.Article, UpdatedAt: d.UpdatedAt}
	for _, b := range d.Article.Content {
		if f := b.PendingFile(); f != "" {
			if sd.Files == nil {
				sd.Files = make(map[string]string)
			}
			sd.Files[b.ID] = f
		}
	}
	return json.Marshal(sd)
}

func decodeDraft(data []byte) (Draft, error) {
	var sd storedDraft
	if err := json.Unmarshal(data, &sd); err != nil {
		return Draft{}, err
	}
	for i := range sd.Article.Content {
		b := &sd.Article.Content[i]
		f, ok := sd.Files[b.ID]
		if !ok {
			continue
		}
		switch b.Type {
		case model.BlockImage:
			b.Image.File = f
		case model.BlockVideo:
			b.Video.File = f
		}
	}
	return Draft{ID: sd.ID, Article: sd.Article, UpdatedAt: sd.UpdatedAt}, nil
}

// Save stores/updates a draft and refreshes its position in the
// recency index.
func (s *RedisStore) Save(ctx context.Context, d Draft) error {
	d.UpdatedAt = time.Now().UTC()
	b, err := encodeDraft(d)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, draftKey(d.ID), b, draftTTL).Err(); err != nil {
		return err
	}
	z := &redis.Z{Score: float64(d.UpdatedAt.Unix()), Member: d.ID}
	return s.rdb.ZAdd(ctx, draftIndexKey, *z).Err()
}

// Get loads one draft by id.
func (s *RedisStore) Get(ctx context.Context, id string) (Draft, error) {
	b, err := s.rdb.Get(ctx, draftKey(id)).Bytes()
	if err == redis.Nil {
		return Draft{}, fmt.Errorf("%w: %s", ErrDraftNotFound, id)
	}
	if err != nil {
		return Draft{}, err
	}
	return decodeDraft(b)
}

// List returns drafts newest-first. Index entries whose blob has expired
// are pruned along the way.
func (s *RedisStore) List(ctx context.Context) ([]Draft, error) {
	ids, err := s.rdb.ZRevRange(ctx, draftIndexKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Draft, 0, len(ids))
	for _, id := range ids {
		d, err := s.Get(ctx, id)
		if errors.Is(err, ErrDraftNotFound) {
			_ = s.rdb.ZRem(ctx, draftIndexKey, id).Err()
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Delete removes a draft and its index entry.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, draftKey(id)).Err(); err != nil {
		return err
	}
	return s.rdb.ZRem(ctx, draftIndexKey, id).Err()
}
