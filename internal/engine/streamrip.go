// file: internal/engine/streamrip.go
// version: 1.0.0
// guid: 6e7f8a9b-0c1d-2e3f-4a5b-6c7d8e9f0a1b

package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Streamrip drives the external `rip` binary. The process runs under the
// request context, so cancelling a task terminates it rather than waiting
// for a cooperative checkpoint.
type Streamrip struct {
	Binary string
}

// NewStreamrip returns an engine using `rip` from PATH.
func NewStreamrip() *Streamrip {
	return &Streamrip{Binary: "rip"}
}

// Name identifies the engine.
func (s *Streamrip) Name() string {
	return "Streamrip"
}

// Args builds the command line for a request. Plain URLs go through
// `rip url`; compact source:type:id references (search results) go through
// `rip id`.
func (s *Streamrip) Args(req Request) []string {
	args := []string{"url", req.URL}
	if !strings.HasPrefix(req.URL, "http") {
		if parts := strings.SplitN(req.URL, ":", 3); len(parts) == 3 {
			args = []string{"id", parts[0], parts[1], parts[2]}
		}
	}
	if req.Quality >= 0 {
		args = append(args, "--quality", strconv.Itoa(req.Quality))
	}
	if req.Codec != "" {
		args = append(args, "--codec", req.Codec)
	}
	args = append(args, "--directory", req.Directory)
	if req.NoDatabase {
		args = append(args, "--no-db")
	}
	return args
}

// Fetch runs the download and verifies audio files were produced.
func (s *Streamrip) Fetch(ctx context.Context, req Request) error {
	if err := os.MkdirAll(req.Directory, 0o755); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}

	args := s.Args(req)
	log.Printf("Starting streamrip download: %s %s", s.Binary, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, s.Binary, args...)
	cmd.Dir = req.Directory
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("download cancelled: %w", ctx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("streamrip download failed: %s", msg)
	}

	files, err := AudioFiles(req.Directory)
	if err != nil {
		return fmt.Errorf("failed to scan download directory: %w", err)
	}
	if len(files) == 0 {
		return errors.New("no audio files were downloaded")
	}
	log.Printf("Successfully downloaded %d files to %s", len(files), req.Directory)
	return nil
}
