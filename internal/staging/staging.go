// Package staging temporarily holds uploaded notes files on local disk
// long enough to hand them to the model provider.
package staging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// extensionByContentType maps submission content types to file extensions
var extensionByContentType = map[string]string{
	"application/pdf": ".pdf",
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"image/webp":      ".webp",
	"text/plain":      ".txt",
}

// localStager stages artifacts in a local directory
type localStager struct {
	baseDir string
}

// NewLocalStager creates a new localStager instance
func NewLocalStager(baseDir string) *localStager {
	return &localStager{
		baseDir: baseDir,
	}
}

// Stage writes data to a uniquely named file and returns its path.
// The caller owns the file exclusively and must Remove it when done.
func (s *localStager) Stage(data []byte, contentType string) (string, error) {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}

	name := fmt.Sprintf("notes-%s%s", uuid.New().String(), ExtensionForContentType(contentType))
	path := filepath.Join(s.baseDir, name)

	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write staged file: %w", err)
	}

	return path, nil
}

// Remove deletes a staged file
func (s *localStager) Remove(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove staged file: %w", err)
	}
	return nil
}

// ExtensionForContentType infers a file extension from a content type.
// Unknown types fall back to the content-type subtype, then to ".bin".
func ExtensionForContentType(contentType string) string {
	if ext, ok := extensionByContentType[contentType]; ok {
		return ext
	}

	if idx := strings.LastIndex(contentType, "/"); idx >= 0 && idx < len(contentType)-1 {
		return "." + contentType[idx+1:]
	}

	return ".bin"
}
