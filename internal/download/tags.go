// file: internal/download/tags.go
// version: 1.0.0
// guid: 2a3b4c5d-6e7f-8a9b-0c1d-2e3f4a5b6c7d

package download

import (
	"os"

	"github.com/dhowden/tag"
)

// readTags pulls title and artist from an audio file's metadata. Missing or
// unreadable tags come back empty and the caller falls back to the filename.
func readTags(path string) (title, artist string) {
	f, err := os.Open(path)
	if err != nil {
		return "", ""
	}
	defer f.Close()

	md, err := tag.ReadFrom(f)
	if err != nil {
		return "", ""
	}
	return md.Title(), md.Artist()
}
