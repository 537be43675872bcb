package fs

import (
	"fmt"
	"os"
	"path/filepath"
)

// TempFilePrefix marks half-written snapshots. The store and its watcher
// never treat these files as keys.
const TempFilePrefix = "memowall-tmp-"

// replaceSnapshot swaps the file at filename for data in one rename, so a
// concurrent reader or a crash observes the old board or the new one.
func replaceSnapshot(filename string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(filename)

	tmp, err := os.CreateTemp(dir, TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to stage snapshot: %w", err)
	}
	staged := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(staged)
		}
	}()

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write staged snapshot: %w", err)
	}

	if err = os.Chmod(staged, perm); err != nil {
		return fmt.Errorf("failed to chmod staged snapshot: %w", err)
	}
	if err = os.Rename(staged, filename); err != nil {
		return fmt.Errorf("failed to publish snapshot %s: %w", filename, err)
	}

	syncDir(dir)
	return nil
}

// syncDir flushes the rename to disk. Windows cannot sync directories, so
// failures are ignored.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	d.Close()
}
