package cmd

import (
	"context"
	"fmt"
	"time"

	"newsdesk/internal/editor"
	"newsdesk/internal/model"

	"github.com/spf13/cobra"
)

// saveDraft runs the upload-then-save pipeline for one draft with the
// requested target status.
func saveDraft(cmd *cobra.Command, draftID, status string) error {
	api, err := apiClient()
	if err != nil {
		return err
	}

	store, rdb := openDraftStore()
	defer rdb.Close()

	// Uploads can be slow; give the whole pipeline a generous deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	d, err := store.Get(ctx, draftID)
	if err != nil {
		return err
	}
	s := editor.NewSession(d.Article, newResolver(api), api)
	a, err := s.Save(ctx, status)
	if err != nil {
		return err
	}
	d.Article = a
	if err := store.Save(ctx, d); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved article %s as %s (%d blocks)\n", a.ID, a.Status, len(a.Content))
	return nil
}

var saveCmd = &cobra.Command{
	Use:   "save <draft_id>",
	Short: "Upload pending media and save the draft to the remote store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return saveDraft(cmd, args[0], model.StatusDraft)
	},
}

var publishCmd = &cobra.Command{
	Use:   "publish <draft_id>",
	Short: "Upload pending media and publish the draft",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return saveDraft(cmd, args[0], model.StatusPublished)
	},
}

func init() {
	rootCmd.AddCommand(saveCmd, publishCmd)
}
