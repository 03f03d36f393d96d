package newsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// VideoRef is a durable reference to an uploaded video: either a direct URL
// or a {bucket, key} pair that the signing endpoint can turn into one.
type VideoRef struct {
	URL    string `json:"videoUrl"`
	Bucket string `json:"videoBucket"`
	Key    string `json:"videoKey"`
}

func (v VideoRef) empty() bool {
	return v.URL == "" && (v.Bucket == "" || v.Key == "")
}

func (c *Client) uploadMultipart(ctx context.Context, path, field, filePath string, extra map[string]string, out any) error {
	if c == nil {
		return errors.New("nil newsapi client")
	}
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, filepath.Base(filePath))
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("write form file: %w", err)
	}
	for k, v := range extra {
		if err := writer.WriteField(k, v); err != nil {
			return fmt.Errorf("write form field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upload %s failed: status=%d body=%s", path, resp.StatusCode, string(b))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// UploadVideo uploads a local video file and returns its durable reference.
func (c *Client) UploadVideo(ctx context.Context, filePath string) (VideoRef, error) {
	if strings.TrimSpace(filePath) == "" {
		return VideoRef{}, errors.New("empty file path")
	}
	var ref VideoRef
	if err := c.uploadMultipart(ctx, "/uploadvideo", "video", filePath, nil, &ref); err != nil {
		return VideoRef{}, err
	}
	if ref.empty() {
		return VideoRef{}, errors.New("upload response missing videoUrl and videoBucket/videoKey")
	}
	return ref, nil
}

type signRequest struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

type signResponse struct {
	URL string `json:"url"`
}

// SignVideoURL exchanges a {bucket, key} reference for a time-limited
// playback URL. Satisfies asset.Signer.
func (c *Client) SignVideoURL(ctx context.Context, bucket, key string) (string, error) {
	if strings.TrimSpace(bucket) == "" || strings.TrimSpace(key) == "" {
		return "", errors.New("empty bucket or key")
	}
	var out signResponse
	if err := c.doJSON(ctx, http.MethodPost, "/getVideoUrl", signRequest{Bucket: bucket, Key: key}, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.URL) == "" {
		return "", errors.New("sign response missing url")
	}
	return out.URL, nil
}
