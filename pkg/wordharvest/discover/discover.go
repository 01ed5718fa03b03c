// Package discover finds the files a harvest reads.
package discover

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMaxExtLen bounds stored extensions; longer ones are truncated.
const DefaultMaxExtLen = 4

// DefaultExtensions are searched when none are given.
var DefaultExtensions = []string{"txt", "text"}

// ParseExtensions splits a colon-separated list such as "txt:md:text".
// Empty segments are dropped, each extension is cut to maxLen bytes and
// repeats are removed, keeping the first occurrence.
func ParseExtensions(list string, maxLen int) []string {
	var exts []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(list, ":") {
		if part == "" {
			continue
		}
		if maxLen > 0 && len(part) > maxLen {
			part = part[:maxLen]
		}
		if _, ok := seen[part]; ok {
			continue
		}
		seen[part] = struct{}{}
		exts = append(exts, part)
	}
	return exts
}

// Walker enumerates regular files under Root whose names end in ".<ext>".
//
// Extensions are searched one after the other, so every file of the first
// extension is yielded before any file of the second. Within a pass the
// tree is walked in lexical order. Symlinks are not followed and directories
// that cannot be read are skipped.
type Walker struct {
	Root       string
	Extensions []string
}

// Walk calls yield for each matching path. An error from yield stops the walk
// and is returned unchanged.
func (w *Walker) Walk(ctx context.Context, yield func(path string) error) error {
	for _, ext := range w.Extensions {
		if err := w.walkOne(ctx, "."+ext, yield); err != nil {
			return err
		}
	}
	return nil
}

// Paths collects every path Walk would yield.
func (w *Walker) Paths(ctx context.Context) ([]string, error) {
	var paths []string
	err := w.Walk(ctx, func(path string) error {
		paths = append(paths, path)
		return nil
	})
	return paths, err
}

func (w *Walker) walkOne(ctx context.Context, suffix string, yield func(string) error) error {
	errStop := errors.New("stop")
	var yieldErr error

	err := filepath.WalkDir(w.Root, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			// Unreadable entries are silently ignored, like find 2>/dev/null.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !strings.HasSuffix(d.Name(), suffix) {
			return nil
		}
		if err := yield(path); err != nil {
			yieldErr = err
			return errStop
		}
		return nil
	})
	switch {
	case yieldErr != nil:
		return yieldErr
	case errors.Is(err, os.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return nil
	}
	return err
}
