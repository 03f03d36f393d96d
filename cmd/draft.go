package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"newsdesk/internal/draftstore"
	"newsdesk/internal/editor"
	"newsdesk/internal/model"
	"newsdesk/internal/redisclient"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// openDraftStore connects to Redis and returns the draft store. Callers
// must Close the returned client.
func openDraftStore() (*draftstore.RedisStore, *redis.Client) {
	rdb := redisclient.New(GetConfig().Redis)
	return draftstore.NewRedisStore(rdb), rdb
}

func draftCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// draftCmd groups local draft commands.
var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Manage local article drafts",
}

var draftNewCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Start a new empty draft",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, rdb := openDraftStore()
		defer rdb.Close()
		ctx, cancel := draftCtx()
		defer cancel()

		d := draftstore.Draft{ID: uuid.NewString()[:8], Article: model.Article{Status: model.StatusDraft}}
		if len(args) > 0 {
			d.Article.Title = args[0]
		}
		if err := store.Save(ctx, d); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created draft %s\n", d.ID)
		return nil
	},
}

var draftListCmd = &cobra.Command{
	Use:   "list",
	Short: "List local drafts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, rdb := openDraftStore()
		defer rdb.Close()
		ctx, cancel := draftCtx()
		defer cancel()

		drafts, err := store.List(ctx)
		if err != nil {
			return err
		}
		for _, d := range drafts {
			title := d.Article.Title
			if title == "" {
				title = "(untitled)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d blocks\t%s\n",
				d.ID, d.UpdatedAt.Format("2006-01-02 15:04"), len(d.Article.Content), title)
		}
		if len(drafts) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no drafts")
		}
		return nil
	},
}

var draftShowCmd = &cobra.Command{
	Use:   "show <draft_id>",
	Short: "Print a draft as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, rdb := openDraftStore()
		defer rdb.Close()
		ctx, cancel := draftCtx()
		defer cancel()

		d, err := store.Get(ctx, args[0])
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(d.Article, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var draftDeleteCmd = &cobra.Command{
	Use:   "delete <draft_id>",
	Short: "Delete a local draft",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, rdb := openDraftStore()
		defer rdb.Close()
		ctx, cancel := draftCtx()
		defer cancel()

		if err := store.Delete(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted draft %s\n", args[0])
		return nil
	},
}

var draftImportCmd = &cobra.Command{
	Use:   "import <draft_file.yaml>",
	Short: "Import a YAML draft file as a new draft",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := editor.ParseDraftFile(args[0])
		if err != nil {
			return err
		}
		a.Status = model.StatusDraft

		store, rdb := openDraftStore()
		defer rdb.Close()
		ctx, cancel := draftCtx()
		defer cancel()

		d := draftstore.Draft{ID: uuid.NewString()[:8], Article: a}
		if err := store.Save(ctx, d); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %s as draft %s (%d blocks)\n", args[0], d.ID, len(a.Content))
		return nil
	},
}

var draftExportCmd = &cobra.Command{
	Use:   "export <draft_id> <out_file.yaml>",
	Short: "Export a draft back to a YAML draft file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, rdb := openDraftStore()
		defer rdb.Close()
		ctx, cancel := draftCtx()
		defer cancel()

		d, err := store.Get(ctx, args[0])
		if err != nil {
			return err
		}
		if err := editor.WriteDraftFile(args[1], d.Article); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported draft %s to %s\n", d.ID, args[1])
		return nil
	},
}

var (
	draftEditTitle     string
	draftEditTagline   string
	draftEditAuthor    string
	draftEditMainImage string
	draftEditFeatured  bool
)

var draftEditCmd = &cobra.Command{
	Use:   "edit <draft_id>",
	Short: "Edit a draft's article fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, rdb := openDraftStore()
		defer rdb.Close()
		ctx, cancel := draftCtx()
		defer cancel()

		d, err := store.Get(ctx, args[0])
		if err != nil {
			return err
		}
		s := editor.NewSession(d.Article, newResolver(nil), nil)
		if cmd.Flags().Changed("title") {
			s.SetTitle(draftEditTitle)
		}
		if cmd.Flags().Changed("tagline") {
			s.SetTagline(draftEditTagline)
		}
		if cmd.Flags().Changed("author") {
			s.SetAuthor(draftEditAuthor)
		}
		if cmd.Flags().Changed("featured") {
			s.SetMainFeatured(draftEditFeatured)
		}
		if cmd.Flags().Changed("main-image") {
			if err := s.SetMainImage(draftEditMainImage); err != nil {
				return err
			}
		}
		d.Article = s.Article()
		if err := store.Save(ctx, d); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated draft %s\n", d.ID)
		return nil
	},
}

func init() {
	draftEditCmd.Flags().StringVar(&draftEditTitle, "title", "", "article title")
	draftEditCmd.Flags().StringVar(&draftEditTagline, "tagline", "", "article tagline")
	draftEditCmd.Flags().StringVar(&draftEditAuthor, "author", "", "article author")
	draftEditCmd.Flags().StringVar(&draftEditMainImage, "main-image", "", "local image file for the article hero")
	draftEditCmd.Flags().BoolVar(&draftEditFeatured, "featured", false, "set as the main featured article")

	draftCmd.AddCommand(draftNewCmd, draftListCmd, draftShowCmd, draftDeleteCmd,
		draftImportCmd, draftExportCmd, draftEditCmd)
	rootCmd.AddCommand(draftCmd)
}
