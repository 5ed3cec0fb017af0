package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/bridgeai/internal/errors"
)

// pageExtensions are the accepted page snapshot extensions.
var pageExtensions = map[string]bool{".html": true, ".htm": true}

// ValidatePagePath checks a page snapshot path before it is read:
// no traversal, an .html or .htm extension, the file exists and is not a symlink.
func ValidatePagePath(path string) error {
	if path == "" {
		return errors.NewInvalidRequest("file is required")
	}
	if containsTraversal(path) {
		return errors.NewInvalidRequest("file must not contain directory traversal (..)")
	}

	cleaned := filepath.Clean(path)
	if !pageExtensions[strings.ToLower(filepath.Ext(cleaned))] {
		return errors.NewInvalidRequest("file must have .html or .htm extension")
	}

	absPath, err := filepath.Abs(cleaned)
	if err != nil {
		return errors.NewInvalidRequest(fmt.Sprintf("invalid file: %v", err))
	}

	info, err := os.Lstat(absPath)
	if os.IsNotExist(err) {
		return newFileNotFound(path)
	}
	if err != nil {
		return errors.NewInvalidRequest(fmt.Sprintf("invalid file: %v", err))
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInvalidRequest("file must not be a symlink")
	}
	if info.IsDir() {
		return errors.NewInvalidRequest("file must not be a directory")
	}
	return nil
}

func newFileNotFound(path string) error {
	return errors.NewInvalidRequest(fmt.Sprintf("file not found: %s", path))
}

// containsTraversal checks if path contains ".." directory traversal.
func containsTraversal(path string) bool {
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if part == ".." {
			return true
		}
	}
	// User input may use forward slashes on any platform.
	if filepath.Separator != '/' {
		for _, part := range strings.Split(path, "/") {
			if part == ".." {
				return true
			}
		}
	}
	return false
}
