package editor

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"newsdesk/internal/media"
	"newsdesk/internal/model"
	"newsdesk/internal/tweet"
)

// DraftFile is the YAML shape for composing an article offline and
// importing it in one step.
type DraftFile struct {
	Title        string           `yaml:"title"`
	Tagline      string           `yaml:"tagline"`
	Author       string           `yaml:"author"`
	MainImage    string           `yaml:"mainImage"`
	MainFeatured bool             `yaml:"mainFeatured"`
	Blocks       []DraftFileBlock `yaml:"blocks"`
}

// DraftFileBlock is one block entry in a draft file. Exactly the fields
// matching the type are read.
type DraftFileBlock struct {
	Type    string `yaml:"type"`
	Text    string `yaml:"text,omitempty"`
	File    string `yaml:"file,omitempty"`
	URL     string `yaml:"url,omitempty"`
	Caption string `yaml:"caption,omitempty"`
	Alt     string `yaml:"alt,omitempty"`
	Title   string `yaml:"title,omitempty"`
	Bucket  string `yaml:"bucket,omitempty"`
	Key     string `yaml:"key,omitempty"`
	Tweet   string `yaml:"tweet,omitempty"`
}

// ParseDraftFile reads a YAML draft file into an article with freshly
// generated block ids. Tweet references are normalized here, at input time.
// A local mainImage path is inlined as a data URL; file handles on blocks
// stay local until save uploads them.
func ParseDraftFile(path string) (model.Article, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.Article{}, fmt.Errorf("read draft file: %w", err)
	}
	var df DraftFile
	if err := yaml.Unmarshal(raw, &df); err != nil {
		return model.Article{}, fmt.Errorf("parse draft file: %w", err)
	}

	a := model.Article{
		Title:          df.Title,
		Tagline:        df.Tagline,
		Author:         df.Author,
		IsMainFeatured: df.MainFeatured,
	}
	if df.MainImage != "" {
		if strings.HasPrefix(df.MainImage, "http://") || strings.HasPrefix(df.MainImage, "https://") || strings.HasPrefix(df.MainImage, "data:") {
			a.MainImage = df.MainImage
		} else {
			url, err := media.DataURL(df.MainImage)
			if err != nil {
				return model.Article{}, fmt.Errorf("main image: %w", err)
			}
			a.MainImage = url
		}
	}

	for i, fb := range df.Blocks {
		b := model.NewBlock(model.BlockType(fb.Type))
		switch b.Type {
		case model.BlockText:
			b.Text = fb.Text
		case model.BlockImage:
			b.Image = model.ImageContent{URL: fb.URL, File: fb.File, Caption: fb.Caption, Alt: fb.Alt}
		case model.BlockVideo:
			b.Video = model.VideoContent{URL: fb.URL, File: fb.File, Title: fb.Title, Bucket: fb.Bucket, Key: fb.Key}
		case model.BlockTweet:
			b.TweetID = tweet.Extract(fb.Tweet)
		default:
			return model.Article{}, fmt.Errorf("draft file block %d: unknown type %q", i+1, fb.Type)
		}
		a.Content = append(a.Content, b)
	}
	return a, nil
}

// WriteDraftFile exports an article back to the YAML draft shape, useful as
// a template for further offline editing. Unknown-type blocks are dropped.
func WriteDraftFile(path string, a model.Article) error {
	df := DraftFile{
		Title:        a.Title,
		Tagline:      a.Tagline,
		Author:       a.Author,
		MainImage:    a.MainImage,
		MainFeatured: a.IsMainFeatured,
	}
	for _, b := range a.Content {
		switch b.Type {
		case model.BlockText:
			df.Blocks = append(df.Blocks, DraftFileBlock{Type: string(b.Type), Text: b.Text})
		case model.BlockImage:
			df.Blocks = append(df.Blocks, DraftFileBlock{
				Type: string(b.Type), URL: b.Image.URL, File: b.Image.File,
				Caption: b.Image.Caption, Alt: b.Image.Alt,
			})
		case model.BlockVideo:
			df.Blocks = append(df.Blocks, DraftFileBlock{
				Type: string(b.Type), URL: b.Video.URL, File: b.Video.File,
				Title: b.Video.Title, Bucket: b.Video.Bucket, Key: b.Video.Key,
			})
		case model.BlockTweet:
			df.Blocks = append(df.Blocks, DraftFileBlock{Type: string(b.Type), Tweet: b.TweetID})
		}
	}
	raw, err := yaml.Marshal(df)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
