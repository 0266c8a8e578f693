// Package keyfile decides where recovered keys are saved and writes them.
package keyfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/wethinkt/go-adeptkey/internal/adept"
)

// Target is one key and the file it goes to.
type Target struct {
	Path string    `json:"path"`
	Key  adept.Key `json:"key"`

	mkdir bool // the parent directory is created by Write
}

// exists is replaced in tests.
var exists = func(path string) bool {
	_, err := os.Lstat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

// FileName is the name of the n-th key file in a directory.
func FileName(n int, name string) string {
	return fmt.Sprintf("adobekey%d_uuid_%s.der", n, Sanitize(name))
}

// Sanitize replaces characters that are not allowed in file names on
// Windows or macOS.
func Sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, strings.ContainsRune(`/\:*?"<>|`, r):
			return '_'
		}
		return r
	}, name)
}

// Plan maps keys to output files. When outpath is a directory every key gets
// its own numbered file, skipping numbers already taken; otherwise only the
// first key is written, to outpath itself. A missing outpath that ends in a
// path separator names a directory that Write creates.
func Plan(outpath string, keys []adept.Key) ([]Target, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	create := false
	info, err := os.Stat(outpath)
	switch {
	case err == nil && info.IsDir():
	case errors.Is(err, fs.ErrNotExist) && hasTrailingSeparator(outpath):
		create = true
	case err == nil || errors.Is(err, fs.ErrNotExist):
		return []Target{{Path: outpath, Key: keys[0]}}, nil
	default:
		return nil, err
	}

	targets := make([]Target, 0, len(keys))
	n := 0
	for _, k := range keys {
		var path string
		for {
			n++
			path = filepath.Join(outpath, FileName(n, k.Name))
			if !exists(path) {
				break
			}
		}
		targets = append(targets, Target{Path: path, Key: k, mkdir: create})
	}
	return targets, nil
}

func hasTrailingSeparator(path string) bool {
	return path != "" && (os.IsPathSeparator(path[len(path)-1]) || path[len(path)-1] == '/')
}

// Write saves each target. Key files are readable by the owner only.
func Write(targets []Target) error {
	for _, t := range targets {
		if t.mkdir {
			if err := os.MkdirAll(filepath.Dir(t.Path), 0700); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
		}
		if err := os.WriteFile(t.Path, t.Key.Bytes, 0600); err != nil {
			return fmt.Errorf("write key %s: %w", t.Path, err)
		}
	}
	return nil
}
