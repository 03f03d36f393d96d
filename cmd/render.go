package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"newsdesk/internal/editor"
	"newsdesk/internal/render"

	"github.com/spf13/cobra"
)

// writePage writes a rendered page under the configured output directory.
func writePage(name, html string) (string, error) {
	dir := GetConfig().Render.OutputDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render pages to static HTML",
}

var renderArticleCmd = &cobra.Command{
	Use:   "article <article_id>",
	Short: "Render one remote article as a published page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := apiClient()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		a, err := api.GetArticle(ctx, args[0])
		if err != nil {
			return err
		}
		r := render.New(newResolver(api), GetConfig().Render.SiteTitle)
		html, err := r.Article(ctx, a, render.ModePublished)
		if err != nil {
			return err
		}
		path, err := writePage("article-"+a.ID+".html", html)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var renderPreviewCmd = &cobra.Command{
	Use:   "preview <draft_id>",
	Short: "Render a local draft as an editor preview",
	Long: "Render a draft without saving anything. Local files show as inline\n" +
		"previews; blocks without a source yet show a placeholder.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Signing is best-effort here; previews work without the API.
		api, err := apiClient()
		if err != nil {
			slog.Debug("rendering preview without api client", "err", err)
			api = nil
		}

		store, rdb := openDraftStore()
		defer rdb.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		d, err := store.Get(ctx, args[0])
		if err != nil {
			return err
		}
		s := editor.NewSession(d.Article, newResolver(apiSigner(api)), nil)
		r := render.New(s.Resolver(), GetConfig().Render.SiteTitle)
		html, err := r.Article(ctx, s.Article(), render.ModeEditor)
		if err != nil {
			return err
		}
		path, err := writePage("preview-"+d.ID+".html", html)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var renderListCmd = &cobra.Command{
	Use:   "list",
	Short: "Render the article index page",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := apiClient()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		articles, err := api.ListArticles(ctx)
		if err != nil {
			return err
		}
		r := render.New(newResolver(api), GetConfig().Render.SiteTitle)
		html, err := r.List(articles)
		if err != nil {
			return err
		}
		path, err := writePage("index.html", html)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var (
	renderHomeVideoURL   string
	renderHomeVideoTitle string
)

var renderHomeCmd = &cobra.Command{
	Use:   "home",
	Short: "Render the front page with carousel and featured sections",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := apiClient()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		articles, err := api.ListArticles(ctx)
		if err != nil {
			return err
		}
		assets := render.HomeAssets{
			FeaturedVideoURL:   renderHomeVideoURL,
			FeaturedVideoTitle: renderHomeVideoTitle,
		}
		images, err := api.CarouselImages(ctx)
		if err != nil {
			// The front page still renders without its carousel.
			slog.Warn("carousel fetch failed", "err", err)
		}
		for _, img := range images {
			if img.URL != "" {
				assets.CarouselURLs = append(assets.CarouselURLs, img.URL)
			}
		}

		r := render.New(newResolver(api), GetConfig().Render.SiteTitle)
		html, err := r.Home(articles, assets)
		if err != nil {
			return err
		}
		path, err := writePage("home.html", html)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	renderHomeCmd.Flags().StringVar(&renderHomeVideoURL, "featured-video", "", "URL of the featured homepage video")
	renderHomeCmd.Flags().StringVar(&renderHomeVideoTitle, "featured-video-title", "", "title overlay for the featured video")

	renderCmd.AddCommand(renderArticleCmd, renderPreviewCmd, renderListCmd, renderHomeCmd)
	rootCmd.AddCommand(renderCmd)
}
