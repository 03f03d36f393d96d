// Package render maps block sequences to HTML, identically for the live
// editor preview and the published read view; only the failure affordances
// differ between the two contexts.
package render

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"newsdesk/internal/asset"
	"newsdesk/internal/model"
	"newsdesk/internal/tweet"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var compiled = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Mode selects the rendering context.
type Mode int

const (
	// ModeEditor is the live preview while editing: problems are surfaced
	// in place so the author sees them.
	ModeEditor Mode = iota
	// ModePublished is the read view: broken blocks degrade silently
	// rather than showing readers an error marker.
	ModePublished
)

// Renderer turns articles into HTML pages. Asset resolution state feeds in
// per block; a block that is still resolving or broken never affects its
// siblings.
type Renderer struct {
	resolver  *asset.Resolver
	siteTitle string
}

func New(resolver *asset.Resolver, siteTitle string) *Renderer {
	return &Renderer{resolver: resolver, siteTitle: siteTitle}
}

type textData struct {
	Paragraphs []string
}

type imageData struct {
	Src     template.URL
	Alt     string
	Caption string
}

type videoData struct {
	Src   template.URL
	Title string
}

type tweetData struct {
	ID string
}

type placeholderData struct {
	Kind string
}

type errorData struct {
	Message string
}

// displayURL maps in-process preview URLs to file URLs so locally generated
// preview pages stay viewable. Durable and data URLs pass through.
func (r *Renderer) displayURL(url string) template.URL {
	if strings.HasPrefix(url, asset.PreviewScheme) {
		if path, ok := r.resolver.Previews().Lookup(url); ok {
			return template.URL("file://" + path)
		}
	}
	return template.URL(url)
}

func (r *Renderer) exec(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := compiled.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// BlockHTML renders a single block given its resolution. The second return
// is false when the block produces no output (unknown type, or a silent
// skip in the published context). Rendering never fails the caller: a
// template error comes back as an inline error marker.
func (r *Renderer) BlockHTML(b model.Block, res asset.Resolution, mode Mode) (template.HTML, bool) {
	html, ok, err := r.blockHTML(b, res, mode)
	if err != nil {
		slog.Warn("block render failed", "block", b.ID, "type", b.Type, "err", err)
		if mode == ModePublished {
			return "", false
		}
		marker, _ := r.exec("error", errorData{Message: "Error rendering " + string(b.Type) + " block"})
		return marker, true
	}
	return html, ok
}

func (r *Renderer) blockHTML(b model.Block, res asset.Resolution, mode Mode) (template.HTML, bool, error) {
	switch b.Type {
	case model.BlockText:
		if b.Text == "" {
			html, err := r.exec("text", textData{Paragraphs: []string{"No content available"}})
			return html, true, err
		}
		html, err := r.exec("text", textData{Paragraphs: strings.Split(b.Text, "\n")})
		return html, true, err

	case model.BlockImage:
		switch res.State {
		case asset.StateDurable, asset.StateLocal:
			html, err := r.exec("image", imageData{
				Src:     r.displayURL(res.URL),
				Alt:     b.Image.Alt,
				Caption: b.Image.Caption,
			})
			return html, true, err
		case asset.StateError:
			html, err := r.exec("error", errorData{Message: "Error loading image. Please check the image source."})
			return html, true, err
		default:
			html, err := r.exec("placeholder", placeholderData{Kind: "image"})
			return html, true, err
		}

	case model.BlockVideo:
		switch res.State {
		case asset.StateDurable, asset.StateLocal:
			html, err := r.exec("video", videoData{
				Src:   r.displayURL(res.URL),
				Title: b.Video.Title,
			})
			return html, true, err
		case asset.StateError:
			html, err := r.exec("error", errorData{Message: "Error loading video. Please check the video source."})
			return html, true, err
		default:
			html, err := r.exec("placeholder", placeholderData{Kind: "video"})
			return html, true, err
		}

	case model.BlockTweet:
		if !tweet.Valid(b.TweetID) {
			if mode == ModePublished {
				return "", false, nil
			}
			html, err := r.exec("error", errorData{Message: "Error: Tweet ID is missing or invalid"})
			return html, true, err
		}
		html, err := r.exec("tweet", tweetData{ID: b.TweetID})
		return html, true, err

	default:
		// Unknown block type: skip silently so articles written by a newer
		// editor still render.
		return "", false, nil
	}
}

type articlePage struct {
	SiteTitle string
	Title     string
	Tagline   string
	Author    string
	Date      string
	MainImage template.URL
	Blocks    []template.HTML
	HasTweets bool
}

// Article renders a full article page. Every block resolves independently
// and renders into its own buffer; one block's failure never suppresses a
// sibling.
func (r *Renderer) Article(ctx context.Context, a model.Article, mode Mode) (string, error) {
	results := r.resolver.ResolveAll(ctx, a.Content)

	page := articlePage{
		SiteTitle: r.siteTitle,
		Title:     a.Title,
		Tagline:   a.Tagline,
		Author:    a.Author,
		Date:      displayDate(a.Date),
		MainImage: r.displayURL(a.MainImage),
	}
	for _, b := range a.Content {
		html, ok := r.BlockHTML(b, results[b.ID], mode)
		if !ok {
			continue
		}
		page.Blocks = append(page.Blocks, html)
		if b.Type == model.BlockTweet && tweet.Valid(b.TweetID) {
			page.HasTweets = true
		}
	}

	var buf bytes.Buffer
	if err := compiled.ExecuteTemplate(&buf, "article.tmpl", page); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type listEntry struct {
	ID        string
	Title     string
	Tagline   string
	Author    string
	Date      string
	Teaser    string
	MainImage template.URL
}

type listPage struct {
	SiteTitle string
	Articles  []listEntry
}

// List renders the article index page, newest first by date.
func (r *Renderer) List(articles []model.Article) (string, error) {
	sorted := sortByDateDesc(articles)
	page := listPage{SiteTitle: r.siteTitle}
	for _, a := range sorted {
		page.Articles = append(page.Articles, r.listEntry(a))
	}
	var buf bytes.Buffer
	if err := compiled.ExecuteTemplate(&buf, "list.tmpl", page); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type homePage struct {
	SiteTitle          string
	Hero               *listEntry
	Stacked            []listEntry
	More               []listEntry
	Carousel           []template.URL
	FeaturedVideo      template.URL
	FeaturedVideoTitle string
}

// HomeAssets carries the homepage media fetched from the store.
type HomeAssets struct {
	CarouselURLs       []string
	FeaturedVideoURL   string
	FeaturedVideoTitle string
}

// Home renders the front page: the featured hero, three stacked articles,
// the media section, and the remaining grid. The hero is the first article
// flagged as main-featured, falling back to the newest one.
func (r *Renderer) Home(articles []model.Article, assets HomeAssets) (string, error) {
	sorted := sortByDateDesc(published(articles))

	page := homePage{
		SiteTitle:          r.siteTitle,
		FeaturedVideo:      template.URL(assets.FeaturedVideoURL),
		FeaturedVideoTitle: assets.FeaturedVideoTitle,
	}
	for _, u := range assets.CarouselURLs {
		page.Carousel = append(page.Carousel, template.URL(u))
	}

	heroIdx := 0
	for i, a := range sorted {
		if a.IsMainFeatured {
			heroIdx = i
			break
		}
	}
	rest := make([]model.Article, 0, len(sorted))
	for i, a := range sorted {
		if i == heroIdx {
			e := r.listEntry(a)
			page.Hero = &e
			continue
		}
		rest = append(rest, a)
	}
	for i, a := range rest {
		if i < 3 {
			page.Stacked = append(page.Stacked, r.listEntry(a))
		} else {
			page.More = append(page.More, r.listEntry(a))
		}
	}

	var buf bytes.Buffer
	if err := compiled.ExecuteTemplate(&buf, "home.tmpl", page); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Renderer) listEntry(a model.Article) listEntry {
	return listEntry{
		ID:        a.ID,
		Title:     a.Title,
		Tagline:   a.Tagline,
		Author:    a.Author,
		Date:      displayDate(a.Date),
		Teaser:    teaser(a),
		MainImage: r.displayURL(a.MainImage),
	}
}

// teaser prefers the tagline and falls back to the first text block,
// truncated.
func teaser(a model.Article) string {
	s := a.Tagline
	if s == "" {
		for _, b := range a.Content {
			if b.Type == model.BlockText && b.Text != "" {
				s = b.Text
				break
			}
		}
	}
	const max = 200
	if len(s) > max {
		cut := max
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return s
}

func published(articles []model.Article) []model.Article {
	out := make([]model.Article, 0, len(articles))
	for _, a := range articles {
		if a.Status == "" || a.Status == model.StatusPublished {
			out = append(out, a)
		}
	}
	return out
}

func sortByDateDesc(articles []model.Article) []model.Article {
	out := append([]model.Article(nil), articles...)
	sort.SliceStable(out, func(i, j int) bool {
		return parseDate(out[i].Date).After(parseDate(out[j].Date))
	})
	return out
}

func parseDate(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func displayDate(s string) string {
	if t := parseDate(s); !t.IsZero() {
		return t.Format("January 2, 2006")
	}
	return s
}
