package voc

import (
	"fmt"
	"os"
	"strings"
)

// Save encodes doc and writes it to path. An empty path writes to
// doc.Filename + FileExt. The resolved path is returned.
//
// The document is fully encoded before the file is created, so a document
// that fails to encode never truncates an existing file.
func Save(doc *Document, path string) (string, error) {
	data, err := Encode(doc)
	if err != nil {
		return "", err
	}
	if path == "" {
		path = doc.Filename + FileExt
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create annotation file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write annotation file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close annotation file: %w", err)
	}
	return path, nil
}

// Load reads and decodes the annotation file at path.
//
// The path must end in FileExt; other paths fail with ErrNotAnnotationFile
// before the file is opened.
func Load(path string) (*Document, error) {
	if !IsAnnotationFile(path) {
		return nil, fmt.Errorf("%w: %s", ErrNotAnnotationFile, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open annotation file: %w", err)
	}
	defer f.Close()

	return DecodeReader(f)
}

// IsAnnotationFile reports whether path carries the annotation file suffix.
func IsAnnotationFile(path string) bool {
	return strings.HasSuffix(path, FileExt)
}
