package core

import "os"

// pathExists reports whether anything, including a dangling link, is at path.
func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// cleanupEmptyDir removes a directory if it is empty. A symlinked directory
// is left alone.
func cleanupEmptyDir(dir string) {
	if info, err := os.Lstat(dir); err != nil || !info.IsDir() {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	if len(entries) == 0 {
		_ = os.Remove(dir)
	}
}
