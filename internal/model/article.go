package model

// Article status values understood by the remote store.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Article is one story: headline fields plus an ordered sequence of content
// blocks. Content order is the single source of truth for render order; no
// block carries a position of its own.
type Article struct {
	ID             string  `json:"_id,omitempty"`
	Title          string  `json:"title"`
	Tagline        string  `json:"tagline"`
	Author         string  `json:"author"`
	MainImage      string  `json:"mainImage,omitempty"`
	IsMainFeatured bool    `json:"isMainFeatured"`
	Status         string  `json:"status,omitempty"`
	Date           string  `json:"date,omitempty"`
	Content        []Block `json:"content"`
}

// Saved reports whether the article exists in the remote store.
func (a Article) Saved() bool {
	return a.ID != ""
}
