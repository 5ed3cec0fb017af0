//go:build windows

package ops

import (
	"os"
)

// openPageFile opens a page snapshot. O_NOFOLLOW is not available on Windows;
// ValidatePagePath has already refused symlinks.
func openPageFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, newFileNotFound(path)
		}
		return nil, err
	}
	return f, nil
}
