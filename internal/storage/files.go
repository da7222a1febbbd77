// Package storage stores uploaded evidence files on local disk behind a
// capability contract: callers hand over a blob and get back an opaque
// reference, or a ValidationError for a disallowed extension.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"securesphere/internal/apperr"
)

// AllowedExtensions is the evidence upload allow-list.
var AllowedExtensions = map[string]bool{
	"csv": true, "txt": true, "pdf": true,
	"jpg": true, "jpeg": true, "png": true,
	"doc": true, "docx": true, "xlsx": true, "zip": true,
}

// FileStore persists evidence blobs and resolves their references.
type FileStore interface {
	Store(data []byte, filename string) (string, error)
	Open(reference string) (*os.File, error)
}

type diskStore struct {
	dir string
}

// NewDiskStore creates a disk-backed file store rooted at dir, creating the
// directory if needed.
func NewDiskStore(dir string) (FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &diskStore{dir: dir}, nil
}

// Store writes the blob under a unique name and returns its reference.
// A filename without an allow-listed extension yields a ValidationError.
func (s *diskStore) Store(data []byte, filename string) (string, error) {
	ext := extensionOf(filename)
	if !AllowedExtensions[ext] {
		return "", apperr.Validation("evidence", fmt.Sprintf("file extension %q is not allowed", ext))
	}

	name := uuid.New().String()[:8] + "_" + sanitize(filename)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write evidence file: %w", err)
	}
	return name, nil
}

func (s *diskStore) Open(reference string) (*os.File, error) {
	// Reject traversal in stored references.
	if reference != filepath.Base(reference) {
		return nil, apperr.Validation("reference", "invalid file reference")
	}
	f, err := os.Open(filepath.Join(s.dir, reference))
	if os.IsNotExist(err) {
		return nil, apperr.NotFound("evidence file", reference)
	}
	return f, err
}

func extensionOf(filename string) string {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 || i == len(filename)-1 {
		return ""
	}
	return strings.ToLower(filename[i+1:])
}

// sanitize strips path separators and whitespace from an uploaded name.
func sanitize(filename string) string {
	name := filepath.Base(filename)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
}
