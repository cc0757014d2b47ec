// Package storage provides the binary asset store used for post media.
package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// AssetStore persists raw media payloads and returns durable references.
// Implementations stand in for an external CDN/object store; their failures
// surface to callers as external-service errors.
type AssetStore interface {
	// Store writes the payload and returns a durable reference (URL path).
	Store(ctx context.Context, data []byte) (string, error)
	// Remove deletes the asset behind a previously returned reference.
	// Removing an already-absent asset is not an error.
	Remove(ctx context.Context, ref string) error
}

// DecodeDataURI parses a "data:<mediatype>;base64,<payload>" string as sent
// by clients uploading inline media. A bare base64 string is accepted too.
func DecodeDataURI(s string) ([]byte, error) {
	payload := s
	if strings.HasPrefix(s, "data:") {
		idx := strings.Index(s, ",")
		if idx < 0 {
			return nil, fmt.Errorf("malformed data URI")
		}
		payload = s[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode media payload: %w", err)
	}
	return data, nil
}

// SniffExtension maps the payload's detected content type to a file extension.
func SniffExtension(data []byte) (string, error) {
	contentType := http.DetectContentType(data)
	switch contentType {
	case "image/jpeg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	default:
		return "", fmt.Errorf("unsupported media content-type %s", contentType)
	}
}
