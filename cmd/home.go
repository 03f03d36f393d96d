package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"newsdesk/internal/media"

	"github.com/spf13/cobra"
)

// homeCmd groups homepage media management commands.
var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Manage homepage carousel images and the featured video",
}

var carouselCmd = &cobra.Command{
	Use:   "carousel",
	Short: "Manage the homepage carousel",
}

var carouselListCmd = &cobra.Command{
	Use:   "list",
	Short: "List carousel images",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := apiClient()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		images, err := api.CarouselImages(ctx)
		if err != nil {
			return err
		}
		for _, img := range images {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", img.ID, img.ContentType, img.URL)
		}
		if len(images) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no carousel images")
		}
		return nil
	},
}

var carouselUploadWebP bool

var carouselUploadCmd = &cobra.Command{
	Use:   "upload <image_file>",
	Short: "Upload an image to the carousel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := apiClient()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		path := args[0]
		if carouselUploadWebP && !strings.EqualFold(filepath.Ext(path), ".webp") {
			encoded, err := media.EncodeWebP(path, GetConfig().Uploads.WebPQuality)
			if err != nil {
				return err
			}
			tmp := filepath.Join(os.TempDir(),
				strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))+".webp")
			if err := os.WriteFile(tmp, encoded, 0o644); err != nil {
				return err
			}
			defer os.Remove(tmp)
			path = tmp
		}
		if err := api.UploadCarouselImage(ctx, path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s\n", path)
		return nil
	},
}

var carouselDeleteCmd = &cobra.Command{
	Use:   "delete <image_id>",
	Short: "Delete one carousel image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := apiClient()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := api.DeleteCarouselImage(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

var carouselClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all carousel images",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := apiClient()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := api.DeleteAllCarouselImages(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Carousel cleared")
		return nil
	},
}

var homeVideoTimestamp bool

var homeVideoCmd = &cobra.Command{
	Use:   "video <video_file>",
	Short: "Replace the featured homepage video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !media.IsVideoFile(args[0]) {
			return fmt.Errorf("%s does not look like a video file", args[0])
		}
		api, err := apiClient()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		if err := api.UploadHomepageVideo(ctx, args[0], homeVideoTimestamp); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s\n", args[0])
		return nil
	},
}

func init() {
	carouselUploadCmd.Flags().BoolVar(&carouselUploadWebP, "webp", false, "re-encode the image as WebP before uploading")
	homeVideoCmd.Flags().BoolVar(&homeVideoTimestamp, "timestamp", false, "version the stored object name")

	carouselCmd.AddCommand(carouselListCmd, carouselUploadCmd, carouselDeleteCmd, carouselClearCmd)
	homeCmd.AddCommand(carouselCmd, homeVideoCmd)
	rootCmd.AddCommand(homeCmd)
}
