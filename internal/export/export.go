// Package export writes the stored catalog to JSON and to markdown notes
// with YAML frontmatter.
package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lepinkainen/gutenshelf/internal/catalog"
)

// Snapshot is the JSON export document.
type Snapshot struct {
	Books      []catalog.Book     `json:"books"`
	Authors    []catalog.Author   `json:"authors"`
	Statistics catalog.Statistics `json:"statistics"`
}

// NewSnapshot builds an export document from the stored books and authors.
func NewSnapshot(books []catalog.Book, authors []catalog.Author) Snapshot {
	if books == nil {
		books = []catalog.Book{}
	}
	if authors == nil {
		authors = []catalog.Author{}
	}
	return Snapshot{
		Books:      books,
		Authors:    authors,
		Statistics: catalog.ComputeStatistics(books),
	}
}

// FileExists checks if a regular file exists at the given path
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// WriteJSON writes the snapshot as indented JSON, respecting the overwrite flag.
// Returns true if the file was written, false if it was skipped
func WriteJSON(snap Snapshot, filePath string, overwrite bool) (bool, error) {
	if FileExists(filePath) && !overwrite {
		slog.Info("JSON file already exists, skipping", "filename", filePath)
		return false, nil
	}

	jsonData, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return false, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	slog.Info("Writing JSON file", "filename", filePath, "books", len(snap.Books), "authors", len(snap.Authors))
	return writeFile(filePath, jsonData, overwrite)
}

// writeFile creates parent directories and writes data unless the file
// exists and overwrite is false.
func writeFile(filePath string, data []byte, overwrite bool) (bool, error) {
	if FileExists(filePath) && !overwrite {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return false, fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", filePath, err)
	}

	return true, nil
}
