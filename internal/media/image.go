// Package media converts local image files into the forms the publishing
// pipeline ships: inline data URLs for article content and WebP re-encodes
// for bandwidth-sensitive uploads.
package media

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
)

// DataURL reads the file and returns a base64 data URL with the sniffed
// MIME type. This is the immediately-displayable local form for images;
// it is also the durable form the store accepts for image content.
func DataURL(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	mt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mt == "" {
		mt = http.DetectContentType(raw)
	}
	return "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}

// EncodeWebP decodes a JPEG/PNG file and re-encodes it as WebP at the given
// quality, returning the encoded bytes. Quality out of (0,100] falls back
// to 85.
func EncodeWebP(path string, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

// IsVideoFile reports whether the file looks like a video by extension.
// Attachment routing only; the remote store validates the real content.
func IsVideoFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".mov", ".webm", ".m4v", ".avi", ".mkv":
		return true
	}
	return false
}
