// Package fsstore saves rendered card images onto the local disk, laid
// out for static file serving.
package fsstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// ArtStore writes card images under dir and returns paths below
// servePrefix, the URL prefix the static file server exposes dir at.
type ArtStore struct {
	dir         string
	servePrefix string
}

// New creates the art directory if needed.
func New(dir, servePrefix string) (*ArtStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create art dir: %w", err)
	}
	return &ArtStore{dir: dir, servePrefix: strings.TrimRight(servePrefix, "/")}, nil
}

// SaveCardArt writes the image as <name>-<id>.png with the card name
// sanitized for filesystem use, and returns the serving path.
func (s *ArtStore) SaveCardArt(name, id string, png []byte) (string, error) {
	filename := sanitizeName(name) + "-" + id + ".png"
	if err := os.WriteFile(filepath.Join(s.dir, filename), png, 0o644); err != nil {
		return "", fmt.Errorf("failed to write card art: %w", err)
	}
	return s.servePrefix + "/" + filename, nil
}

// sanitizeName keeps letters, digits, spaces and hyphens, replaces the
// rest with underscores and turns spaces into hyphens. Letters and
// digits are Unicode classes, so accented card names keep their
// existing filenames.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
