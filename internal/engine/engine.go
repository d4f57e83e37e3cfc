// file: internal/engine/engine.go
// version: 1.0.0
// guid: 3b4c5d6e-7f8a-9b0c-1d2e-3f4a5b6c7d8e

// Package engine abstracts the external music fetcher. Given a URL and
// resolved quality/codec it populates a directory with audio files or fails
// descriptively.
package engine

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
)

// Request describes one fetch.
type Request struct {
	URL        string
	Quality    int // -1 means unset, engine default applies
	Codec      string
	Directory  string
	NoDatabase bool // skip the engine's persistent download history
}

// Fetcher is the fetch-engine capability.
type Fetcher interface {
	// Fetch downloads into req.Directory. Cancelling ctx must abort the
	// underlying work, killing any subprocess.
	Fetch(ctx context.Context, req Request) error
	// Name identifies the engine for logs and status output.
	Name() string
}

// AudioExtensions are the file types the delivery path recognizes.
var AudioExtensions = []string{".flac", ".mp3", ".m4a", ".ogg", ".opus"}

// IsAudioFile reports whether a path has a recognized audio extension.
func IsAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range AudioExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// AudioFiles walks dir and returns every audio file, sorted by path.
func AudioFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsAudioFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
