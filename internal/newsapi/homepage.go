package newsapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// CarouselImage is one homepage carousel entry as the store returns it.
type CarouselImage struct {
	ID          string `json:"_id"`
	URL         string `json:"url,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

// CarouselImages lists the homepage carousel images.
func (c *Client) CarouselImages(ctx context.Context) ([]CarouselImage, error) {
	var out []CarouselImage
	if err := c.doJSON(ctx, http.MethodGet, "/homepage/carousel-images", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadCarouselImage adds one image to the homepage carousel.
func (c *Client) UploadCarouselImage(ctx context.Context, filePath string) error {
	if strings.TrimSpace(filePath) == "" {
		return errors.New("empty file path")
	}
	return c.uploadMultipart(ctx, "/homepage/carousel-images", "image", filePath, nil, nil)
}

// DeleteCarouselImage removes one carousel image by id.
func (c *Client) DeleteCarouselImage(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("empty image id")
	}
	return c.doJSON(ctx, http.MethodDelete, "/homepage/carousel-images/"+id, nil, nil)
}

// DeleteAllCarouselImages clears the carousel.
func (c *Client) DeleteAllCarouselImages(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/homepage/carousel-images", nil, nil)
}

// UploadHomepageVideo replaces the featured homepage video. useTimestamp
// asks the store to version the stored object name.
func (c *Client) UploadHomepageVideo(ctx context.Context, filePath string, useTimestamp bool) error {
	if strings.TrimSpace(filePath) == "" {
		return errors.New("empty file path")
	}
	extra := map[string]string{"useTimestamp": strconv.FormatBool(useTimestamp)}
	return c.uploadMultipart(ctx, "/homepage/homepagevideo", "video", filePath, extra, nil)
}
