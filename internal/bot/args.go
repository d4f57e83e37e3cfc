// file: internal/bot/args.go
// version: 1.0.0
// guid: 6b7c8d9e-0f1a-2b3c-4d5e-6f7a8b9c0d1e

package bot

import (
	"strconv"
	"strings"
)

// Args is the parsed form of a download command's argument text.
// Grammar: -q <int> -c <codec> -f -n <name> <url-or-query>.
type Args struct {
	Quality int // -1 when unset
	Codec   string
	Force   bool
	Name    string
	Link    string // remaining text: URL, pasted batch, or search query
}

// parseArgs splits flag tokens off the first line of the argument text.
// Lines after the first are kept verbatim so pasted URL batches survive.
func parseArgs(text string) Args {
	args := Args{Quality: -1}

	lines := strings.SplitN(text, "\n", 2)
	var rest []string

	tokens := strings.Fields(lines[0])
	for i := 0; i < len(tokens); i++ {
		switch tokens[i] {
		case "-q", "-quality":
			if i+1 < len(tokens) {
				if n, err := strconv.Atoi(tokens[i+1]); err == nil {
					args.Quality = n
				}
				i++
			}
		case "-c", "-codec":
			if i+1 < len(tokens) {
				args.Codec = strings.ToLower(tokens[i+1])
				i++
			}
		case "-f", "-fd":
			args.Force = true
		case "-n":
			if i+1 < len(tokens) {
				args.Name = tokens[i+1]
				i++
			}
		default:
			rest = append(rest, tokens[i])
		}
	}

	link := strings.Join(rest, " ")
	if len(lines) == 2 {
		link = strings.TrimSpace(link + "\n" + lines[1])
	}
	args.Link = strings.TrimSpace(link)
	return args
}
