// file: internal/urlparse/urlparse.go
// version: 1.0.0
// guid: 8f9a0b1c-2d3e-4f5a-6b7c-8d9e0f1a2b3c

// Package urlparse classifies streaming-platform URLs into
// (platform, media type, id). Deliberately thin glue; anything it cannot
// classify is treated as a search query by the command layer.
package urlparse

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/jdfalk/streamrip-bot/internal/config"
)

// Parsed is the classifier output.
type Parsed struct {
	Platform  config.Platform
	MediaType string // track, album, artist, playlist
	ID        string
}

var mediaTypes = map[string]bool{
	"track":    true,
	"album":    true,
	"artist":   true,
	"playlist": true,
}

// internal search results use a compact platform:type:id form
var compactRe = regexp.MustCompile(`^(qobuz|tidal|deezer|soundcloud):(track|album|artist|playlist):(.+)$`)

// Classify parses a raw URL (or compact search-result reference) into its
// platform, media type and id. ok=false means "not a platform URL".
func Classify(raw string) (Parsed, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Parsed{}, false
	}

	if m := compactRe.FindStringSubmatch(raw); m != nil {
		return Parsed{Platform: config.Platform(m[1]), MediaType: m[2], ID: m[3]}, true
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return Parsed{}, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Parsed{}, false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	segs := pathSegments(u.Path)

	switch {
	case host == "qobuz.com" || strings.HasSuffix(host, ".qobuz.com"):
		return classifyTyped(config.Qobuz, segs)
	case host == "tidal.com" || strings.HasSuffix(host, ".tidal.com"):
		// tidal.com/browse/album/123 and listen.tidal.com/album/123
		if len(segs) > 0 && segs[0] == "browse" {
			segs = segs[1:]
		}
		return classifyTyped(config.Tidal, segs)
	case host == "deezer.com" || strings.HasSuffix(host, ".deezer.com"):
		return classifyTyped(config.Deezer, segs)
	case host == "soundcloud.com" || strings.HasSuffix(host, ".soundcloud.com"):
		return classifySoundcloud(segs)
	default:
		return Parsed{}, false
	}
}

// IsPlatformURL reports whether raw classifies to any supported platform.
func IsPlatformURL(raw string) bool {
	_, ok := Classify(raw)
	return ok
}

// IsLastfm recognizes last.fm playlist links, converted upstream by the
// fetch engine.
func IsLastfm(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	return host == "last.fm" || strings.HasSuffix(host, ".last.fm")
}

// IsFileInput reports whether text looks like a pasted batch of URLs
// rather than a single link or query.
func IsFileInput(text string) bool {
	return strings.ContainsAny(text, "\n") && len(ParseFileContent(text)) > 1
}

// ParseFileContent extracts platform URLs from newline-separated text,
// skipping blanks, comments and anything unclassifiable.
func ParseFileContent(text string) []string {
	var urls []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if IsPlatformURL(line) || IsLastfm(line) {
			urls = append(urls, line)
		}
	}
	return urls
}

func pathSegments(p string) []string {
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// classifyTyped handles /album/<id> shapes, tolerating locale prefixes like
// /us-en/album/<slug>/<id>.
func classifyTyped(platform config.Platform, segs []string) (Parsed, bool) {
	for i, seg := range segs {
		if mediaTypes[seg] && i+1 < len(segs) {
			// last segment is the id, slugs in between are ignored
			return Parsed{Platform: platform, MediaType: seg, ID: segs[len(segs)-1]}, true
		}
	}
	return Parsed{}, false
}

// classifySoundcloud: /<artist>/<track> is a track, /<artist>/sets/<set> is
// a playlist; the permalink path itself is the id.
func classifySoundcloud(segs []string) (Parsed, bool) {
	switch {
	case len(segs) >= 3 && segs[1] == "sets":
		return Parsed{Platform: config.Soundcloud, MediaType: "playlist", ID: strings.Join(segs, "/")}, true
	case len(segs) == 2:
		return Parsed{Platform: config.Soundcloud, MediaType: "track", ID: strings.Join(segs, "/")}, true
	case len(segs) == 1:
		return Parsed{Platform: config.Soundcloud, MediaType: "artist", ID: segs[0]}, true
	default:
		return Parsed{}, false
	}
}
