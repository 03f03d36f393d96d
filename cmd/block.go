package cmd

import (
	"context"
	"fmt"
	"strconv"

	"newsdesk/internal/editor"
	"newsdesk/internal/model"

	"github.com/spf13/cobra"
)

// withDraftSession loads a draft, runs fn over an editing session and
// persists the result when fn succeeds.
func withDraftSession(draftID string, fn func(ctx context.Context, s *editor.Session) error) error {
	store, rdb := openDraftStore()
	defer rdb.Close()
	ctx, cancel := draftCtx()
	defer cancel()

	d, err := store.Get(ctx, draftID)
	if err != nil {
		return err
	}
	s := editor.NewSession(d.Article, newResolver(nil), nil)
	if err := fn(ctx, s); err != nil {
		return err
	}
	d.Article = s.Article()
	return store.Save(ctx, d)
}

// blockCmd groups per-block draft editing commands.
var blockCmd = &cobra.Command{
	Use:   "block",
	Short: "Edit the blocks of a draft",
}

var blockListCmd = &cobra.Command{
	Use:   "list <draft_id>",
	Short: "List a draft's blocks in order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDraftSession(args[0], func(ctx context.Context, s *editor.Session) error {
			for i, b := range s.Blocks() {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\n", i, b.ID, b.Type, blockSummary(b))
			}
			return nil
		})
	},
}

func blockSummary(b model.Block) string {
	switch b.Type {
	case model.BlockText:
		if len(b.Text) > 60 {
			return b.Text[:57] + "..."
		}
		return b.Text
	case model.BlockImage:
		if b.Image.File != "" {
			return "file:" + b.Image.File
		}
		return b.Image.URL
	case model.BlockVideo:
		switch {
		case b.Video.File != "":
			return "file:" + b.Video.File
		case b.Video.Bucket != "":
			return b.Video.Bucket + "/" + b.Video.Key
		default:
			return b.Video.URL
		}
	case model.BlockTweet:
		return "tweet:" + b.TweetID
	}
	return "(unknown)"
}

var blockAddCmd = &cobra.Command{
	Use:   "add <draft_id> <text|image|video|tweet> [content]",
	Short: "Append a block to a draft",
	Long: "Append a block. For text blocks the content argument is the text;\n" +
		"for tweet blocks it is a tweet URL or bare numeric id. Image and video\n" +
		"blocks start empty; attach a file with 'block attach'.",
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := ""
		if len(args) == 3 {
			input = args[2]
		}
		return withDraftSession(args[0], func(ctx context.Context, s *editor.Session) error {
			b, err := s.AddBlock(model.BlockType(args[1]), input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s block %s\n", b.Type, b.ID)
			return nil
		})
	},
}

var blockTextCmd = &cobra.Command{
	Use:   "text <draft_id> <block_id> <text>",
	Short: "Replace a text block's content",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDraftSession(args[0], func(ctx context.Context, s *editor.Session) error {
			return s.SetText(args[1], args[2])
		})
	},
}

var blockCaptionCmd = &cobra.Command{
	Use:   "caption <draft_id> <block_id> <caption>",
	Short: "Set an image block's caption",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDraftSession(args[0], func(ctx context.Context, s *editor.Session) error {
			return s.SetCaption(args[1], args[2])
		})
	},
}

var blockAltCmd = &cobra.Command{
	Use:   "alt <draft_id> <block_id> <alt_text>",
	Short: "Set an image block's alt text",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDraftSession(args[0], func(ctx context.Context, s *editor.Session) error {
			return s.SetAlt(args[1], args[2])
		})
	},
}

var blockTitleCmd = &cobra.Command{
	Use:   "title <draft_id> <block_id> <title>",
	Short: "Set a video block's overlay title",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDraftSession(args[0], func(ctx context.Context, s *editor.Session) error {
			return s.SetVideoTitle(args[1], args[2])
		})
	},
}

var blockTweetCmd = &cobra.Command{
	Use:   "tweet <draft_id> <block_id> <url_or_id>",
	Short: "Point a tweet block at a different tweet",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDraftSession(args[0], func(ctx context.Context, s *editor.Session) error {
			return s.SetTweet(args[1], args[2])
		})
	},
}

var blockAttachCmd = &cobra.Command{
	Use:   "attach <draft_id> <block_id> <file>",
	Short: "Attach a local media file to an image or video block",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDraftSession(args[0], func(ctx context.Context, s *editor.Session) error {
			res, err := s.Attach(ctx, args[1], args[2])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Attached %s (preview %s)\n", args[2], res.URL)
			return nil
		})
	},
}

var blockRemoveCmd = &cobra.Command{
	Use:   "remove <draft_id> <block_id>",
	Short: "Remove a block from a draft",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDraftSession(args[0], func(ctx context.Context, s *editor.Session) error {
			return s.Remove(args[1])
		})
	},
}

var blockMoveCmd = &cobra.Command{
	Use:   "move <draft_id> <from> <to>",
	Short: "Move a block from one position to another",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid from position %q", args[1])
		}
		to, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid to position %q", args[2])
		}
		return withDraftSession(args[0], func(ctx context.Context, s *editor.Session) error {
			return s.Move(from, to)
		})
	},
}

func init() {
	blockCmd.AddCommand(blockListCmd, blockAddCmd, blockTextCmd, blockCaptionCmd,
		blockAltCmd, blockTitleCmd, blockTweetCmd, blockAttachCmd, blockRemoveCmd, blockMoveCmd)
	rootCmd.AddCommand(blockCmd)
}
