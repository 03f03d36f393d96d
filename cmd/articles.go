package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// articlesCmd groups remote-store article commands.
var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "Browse and manage articles in the remote store",
}

var articlesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := apiClient()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		articles, err := cli.ListArticles(ctx)
		if err != nil {
			return err
		}
		for _, a := range articles {
			status := a.Status
			if status == "" {
				status = "published"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%-10s\t%s\t%s\n", a.ID, status, a.Title, a.Author)
		}
		if len(articles) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no articles")
		}
		return nil
	},
}

var articlesGetCmd = &cobra.Command{
	Use:   "get <article_id>",
	Short: "Fetch one article as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := apiClient()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		a, err := cli.GetArticle(ctx, args[0])
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(a, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var articlesDeleteCmd = &cobra.Command{
	Use:   "delete <article_id>",
	Short: "Delete an article from the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := apiClient()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := cli.DeleteArticle(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted article %s\n", args[0])
		return nil
	},
}

func init() {
	articlesCmd.AddCommand(articlesListCmd, articlesGetCmd, articlesDeleteCmd)
	rootCmd.AddCommand(articlesCmd)
}
