package storage

import (
	"fmt"
	"strings"
)

const maxFileKeyLength = 512

// AllowedContentTypes defines the MIME types accepted for company logos.
var AllowedContentTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
}

// ValidateContentType checks if the content type is allowed.
func (s *MinIOService) ValidateContentType(contentType string) error {
	// Normalize content type (remove parameters like charset)
	normalized := strings.Split(contentType, ";")[0]
	normalized = strings.TrimSpace(strings.ToLower(normalized))

	if !AllowedContentTypes[normalized] {
		return fmt.Errorf("content type %q is not allowed", contentType)
	}
	return nil
}

// ValidateFileSize checks if the file size is within limits.
func (s *MinIOService) ValidateFileSize(sizeBytes int64) error {
	if sizeBytes <= 0 {
		return fmt.Errorf("file size must be greater than 0")
	}
	if s.maxFileSize > 0 && sizeBytes > s.maxFileSize {
		return fmt.Errorf("file size %d bytes exceeds maximum allowed size of %d bytes", sizeBytes, s.maxFileSize)
	}
	return nil
}

// ValidateFileKey rejects keys that are empty, absolute or escape their folder.
func ValidateFileKey(fileKey string) error {
	if fileKey == "" {
		return fmt.Errorf("file key is required")
	}
	if len(fileKey) > maxFileKeyLength {
		return fmt.Errorf("file key exceeds %d characters", maxFileKeyLength)
	}
	if strings.HasPrefix(fileKey, "/") || strings.Contains(fileKey, "\\") {
		return fmt.Errorf("file key %q must be a relative path", fileKey)
	}
	for _, segment := range strings.Split(fileKey, "/") {
		if segment == ".." {
			return fmt.Errorf("file key %q must not contain parent segments", fileKey)
		}
	}
	return nil
}

// ContentTypeForExtension maps a logo file extension to its MIME type.
func ContentTypeForExtension(ext string) (string, bool) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "jpg", "jpeg":
		return "image/jpeg", true
	case "png":
		return "image/png", true
	case "gif":
		return "image/gif", true
	case "webp":
		return "image/webp", true
	case "svg":
		return "image/svg+xml", true
	default:
		return "", false
	}
}
