package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// imageExtensions is the set of image inputs the image-to-PDF pipeline
// accepts. Matches are case-insensitive.
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".tif", ".tiff"}

// pdfExtensions is the set of inputs the PDF-to-image pipeline accepts.
var pdfExtensions = []string{".pdf"}

// discoverFiles lists the files in dirPath whose extension matches one of
// the accepted extensions. The search is case-insensitive, does not recurse
// into subdirectories, and the result is sorted by name so batch order is
// deterministic. An empty directory yields an empty slice, not an error.
func discoverFiles(dirPath string, extensions []string) ([]string, error) {
	dirEntries, readErr := os.ReadDir(dirPath)
	if readErr != nil {
		return nil, fmt.Errorf("could not read directory %s: %w", dirPath, readErr)
	}

	var paths []string

	for _, entry := range dirEntries {
		if entry.IsDir() {
			continue
		}

		if hasAnyExtension(entry.Name(), extensions) {
			paths = append(paths, filepath.Join(dirPath, entry.Name()))
		}
	}

	sort.Strings(paths)

	return paths, nil
}

// hasAnyExtension reports whether name carries one of the given extensions,
// ignoring case. The extension must follow a non-empty stem, so a dotfile
// named ".png" is not an image.
func hasAnyExtension(name string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" || ext == strings.ToLower(name) {
		return false
	}

	for _, accepted := range extensions {
		if ext == accepted {
			return true
		}
	}

	return false
}
