// Package filex writes downloaded documents to disk without clobbering
// files that are already there.
package filex

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// maxSuffix bounds the "name (n).ext" probing in Save.
const maxSuffix = 1000

// EnsureDir creates dir (and parents) if needed and returns its absolute path.
// Relative paths are resolved against the working directory.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}

	return abs, nil
}

// Save copies r into dir under name. When name is taken, "name (1).ext",
// "name (2).ext", ... are tried. Only the base of name is used, so a
// server-supplied name cannot escape dir. Returns the written path and size.
func Save(dir, name string, r io.Reader) (string, int64, error) {
	name = filepath.Base(filepath.Clean("/" + name))
	if name == "/" || name == "." {
		return "", 0, errors.New("empty file name")
	}

	dir, err := EnsureDir(dir)
	if err != nil {
		return "", 0, err
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	for i := 0; i < maxSuffix; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", stem, i, ext)
		}
		p := filepath.Join(dir, candidate)

		f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", 0, fmt.Errorf("create %s: %w", p, err)
		}

		n, err := io.Copy(f, r)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(p)
			return "", 0, fmt.Errorf("write %s: %w", p, err)
		}
		return p, n, nil
	}

	return "", 0, fmt.Errorf("no free file name for %s in %s", name, dir)
}
