package core

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// maxArchiveSize bounds the total uncompressed size of a skill archive.
const maxArchiveSize = 64 << 20

var (
	ErrUnsafeArchivePath = errors.New("archive entry escapes destination")
	ErrArchiveTooLarge   = errors.New("archive exceeds size limit")
)

// extractSkillZip unpacks a skill archive into dest, which must not exist.
// When every entry sits under one top-level directory and SKILL.md is not at
// the archive root, that directory is stripped. Symlink entries are skipped.
func extractSkillZip(data []byte, dest string) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}

	prefix := commonRoot(zr.File)
	var written int64
	for _, f := range zr.File {
		name := strings.TrimPrefix(f.Name, prefix)
		if name == "" {
			continue
		}
		if !filepath.IsLocal(filepath.FromSlash(name)) {
			return fmt.Errorf("%w: %s", ErrUnsafeArchivePath, f.Name)
		}
		target := filepath.Join(dest, filepath.FromSlash(name))

		mode := f.FileInfo().Mode()
		switch {
		case mode.IsDir():
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		case mode&os.ModeSymlink != 0:
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		n, err := writeZipFile(f, target, maxArchiveSize-written)
		if err != nil {
			return err
		}
		written += n
	}
	return nil
}

func writeZipFile(f *zip.File, target string, budget int64) (int64, error) {
	rc, err := f.Open()
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, err
	}
	defer func() { _ = out.Close() }()

	n, err := io.Copy(out, io.LimitReader(rc, budget+1))
	if err != nil {
		return n, fmt.Errorf("extracting %s: %w", f.Name, err)
	}
	if n > budget {
		return n, ErrArchiveTooLarge
	}
	return n, out.Close()
}

// commonRoot returns "dir/" when all entries live under a single top-level
// directory and there is no root-level SKILL.md, otherwise "".
func commonRoot(files []*zip.File) string {
	root := ""
	for _, f := range files {
		if f.Name == skillFileName {
			return ""
		}
		first, _, found := strings.Cut(f.Name, "/")
		if !found {
			return ""
		}
		if root == "" {
			root = first
		} else if first != root {
			return ""
		}
	}
	if root == "" || root == ".." || root == "." {
		return ""
	}
	return path.Clean(root) + "/"
}
