package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// supportedExtensions are the document types the archive ingests
var supportedExtensions = map[string]bool{
	".html": true,
	".md":   true,
	".txt":  true,
}

// SupportedExtensions returns the ingestible file extensions, sorted
func SupportedExtensions() []string {
	exts := make([]string, 0, len(supportedExtensions))
	for ext := range supportedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// IsSupported reports whether the filename has an ingestible extension
func IsSupported(filename string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// ScanDir returns the paths of supported documents directly under dir,
// sorted by filename. Subdirectories are not descended into.
func ScanDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !IsSupported(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}

	sort.Strings(paths)
	return paths, nil
}

// LoadDocuments reads every supported document under dir into memory
func LoadDocuments(dir string) ([]Document, error) {
	paths, err := ScanDir(dir)
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read document %s: %w", path, err)
		}
		docs = append(docs, Document{
			Filename: filepath.Base(path),
			Content:  string(content),
		})
	}

	return docs, nil
}
