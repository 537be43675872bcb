package platform

import (
	"errors"
	"os"
	"path/filepath"
)

// Board root markers.
const (
	DataDirName    = ".memowall"
	ConfigFileName = "memowall.yaml"
)

// ErrNoRoot is returned when no ancestor directory holds a board.
var ErrNoRoot = errors.New("no memowall board found")

var rootMarkers = []string{DataDirName, ConfigFileName}

// FindRoot returns the nearest directory, starting at startDir and moving
// towards the filesystem root, that holds a .memowall data directory or a
// memowall.yaml file.
func FindRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		if isBoardRoot(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoRoot
		}
		dir = parent
	}
}

func isBoardRoot(dir string) bool {
	for _, marker := range rootMarkers {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}
