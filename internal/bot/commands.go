// file: internal/bot/commands.go
// version: 1.0.0
// guid: 1e2f3a4b-5c6d-7e8f-9a0b-1c2d3e4f5a6b

package bot

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jdfalk/streamrip-bot/internal/config"
	"github.com/jdfalk/streamrip-bot/internal/download"
	"github.com/jdfalk/streamrip-bot/internal/engine"
	"github.com/jdfalk/streamrip-bot/internal/gateway"
	"github.com/jdfalk/streamrip-bot/internal/settings"
	"github.com/jdfalk/streamrip-bot/internal/urlparse"
)

// handleDownload processes a mirror or leech command: URL, pasted batch, or
// search query fallback.
func (b *Bot) handleDownload(ctx context.Context, ev gateway.CommandEvent, leech bool) {
	cfg := b.cfg.Snapshot()
	if !cfg.Enabled {
		b.replyTransient(ev.ChatID, "❌ Streamrip downloads are disabled!")
		return
	}

	args := parseArgs(ev.Args)
	if args.Link == "" {
		b.replyTransient(ev.ChatID, usageText(cfg.CmdSuffix))
		return
	}

	base := download.Request{
		UserID:  ev.UserID,
		ChatID:  ev.ChatID,
		Tag:     ev.Tag(),
		Quality: args.Quality,
		Codec:   args.Codec,
		Force:   args.Force,
		Leech:   leech,
		Name:    args.Name,
	}

	// pasted list of URLs
	if urlparse.IsFileInput(args.Link) {
		urls := urlparse.ParseFileContent(args.Link)
		if len(urls) == 0 {
			b.replyTransient(ev.ChatID, "❌ No valid URLs found!")
			return
		}
		b.gw.Send(ev.ChatID, fmt.Sprintf("📋 Processing %d URLs…", len(urls)), nil)
		b.orch.AddBatch(ctx, base, urls)
		return
	}

	if parsed, ok := urlparse.Classify(args.Link); ok {
		base.URL = args.Link
		base.Parsed = parsed
		if err := b.orch.Add(ctx, base); err != nil {
			log.Printf("Download failed for %s: %v", args.Link, err)
		}
		return
	}

	if urlparse.IsLastfm(args.Link) {
		// streamrip converts last.fm playlists itself
		base.URL = args.Link
		base.Parsed = urlparse.Parsed{Platform: config.Qobuz, MediaType: "playlist"}
		if err := b.orch.Add(ctx, base); err != nil {
			log.Printf("Download failed for %s: %v", args.Link, err)
		}
		return
	}

	// no URL: treat the text as a search query and download the best hit
	result, platform, err := b.searchFirst(ctx, cfg, args.Link)
	if err != nil {
		b.replyTransient(ev.ChatID, "❌ Search failed: "+err.Error())
		return
	}
	if result == nil {
		b.replyTransient(ev.ChatID, fmt.Sprintf("❌ No results for <b>%s</b>.", args.Link))
		return
	}

	base.URL = fmt.Sprintf("%s:track:%s", platform, result.ID)
	base.Parsed = urlparse.Parsed{Platform: platform, MediaType: "track", ID: result.ID}
	if base.Name == "" {
		base.Name = result.Title
	}
	if err := b.orch.Add(ctx, base); err != nil {
		log.Printf("Download failed for search result %s: %v", base.URL, err)
	}
}

// handleSearch reports the best hit without downloading it.
func (b *Bot) handleSearch(ctx context.Context, ev gateway.CommandEvent) {
	cfg := b.cfg.Snapshot()
	query := strings.TrimSpace(ev.Args)
	if query == "" {
		b.replyTransient(ev.ChatID, searchUsageText(cfg.CmdSuffix))
		return
	}

	b.gw.Send(ev.ChatID, fmt.Sprintf("🔍 Searching for <b>%s</b>…", query), nil)
	result, platform, err := b.searchFirst(ctx, cfg, query)
	if err != nil {
		b.replyTransient(ev.ChatID, "❌ Search failed: "+err.Error())
		return
	}
	if result == nil {
		b.replyTransient(ev.ChatID, fmt.Sprintf("❌ No results for <b>%s</b>.", query))
		return
	}

	b.gw.Send(ev.ChatID, fmt.Sprintf(
		"🎵 <b>Search completed!</b>\n"+
			"📊 <b>Found:</b> %s\n"+
			"🎤 <b>Artist:</b> %s\n"+
			"🎯 <b>Platform:</b> %s\n\n"+
			"📥 Download with:\n<code>/sr%s %s:track:%s</code>",
		orUnknown(result.Title), orUnknown(result.Artist), displayName(platform),
		cfg.CmdSuffix, platform, result.ID), nil)
}

// searchFirst queries configured platforms in priority order and returns
// the first hit.
func (b *Bot) searchFirst(ctx context.Context, cfg config.Settings, query string) (*engine.SearchResult, config.Platform, error) {
	var lastErr error
	for _, p := range config.Platforms {
		if !cfg.PlatformConfigured(p) {
			continue
		}
		results, err := b.searcher.Search(ctx, string(p), "track", query, cfg.MaxSearchResults)
		if err != nil {
			lastErr = err
			continue
		}
		if len(results) > 0 {
			r := results[0]
			return &r, p, nil
		}
	}
	return nil, "", lastErr
}

// handleStatus lists the caller's active downloads; the owner sees all.
func (b *Bot) handleStatus(ev gateway.CommandEvent) {
	cfg := b.cfg.Snapshot()
	tasks := b.tasks.ListForUser(ev.UserID)
	if ev.UserID == cfg.OwnerID {
		tasks = b.tasks.All()
	}
	if len(tasks) == 0 {
		b.replyTransient(ev.ChatID, "📭 No active downloads.")
		return
	}

	var parts []string
	for _, t := range tasks {
		parts = append(parts, t.StatusText())
	}
	b.gw.Send(ev.ChatID, strings.Join(parts, "\n\n"), nil)
}

// handleSettings opens a settings session; only the owner and sudo users
// reach this point.
func (b *Bot) handleSettings(ctx context.Context, ev gateway.CommandEvent) {
	if err := settings.Run(ctx, b.gw, b.settings, b.cfg, ev.ChatID, ev.UserID, ev.Tag()); err != nil {
		log.Printf("Settings session failed: %v", err)
	}
}

// handleCancel cancels one task by gid, or every task the caller owns.
func (b *Bot) handleCancel(ev gateway.CommandEvent, all bool) {
	gid := strings.TrimSpace(ev.Args)
	if !all && gid != "" {
		t, ok := b.tasks.Get(gid)
		if !ok {
			b.replyTransient(ev.ChatID, fmt.Sprintf("❌ No task with GID <code>%s</code>.", gid))
			return
		}
		cfg := b.cfg.Snapshot()
		if t.UserID != ev.UserID && ev.UserID != cfg.OwnerID {
			b.replyTransient(ev.ChatID, "❌ That download belongs to someone else.")
			return
		}
		t.Cancel()
		b.tasks.Remove(t.GID)
		b.gw.Send(ev.ChatID, fmt.Sprintf("🛑 Cancelled <b>%s</b>.", t.Name()), nil)
		return
	}

	n := b.tasks.CancelAllForUser(ev.UserID)
	if n == 0 {
		b.replyTransient(ev.ChatID, "📭 Nothing to cancel.")
		return
	}
	b.gw.Send(ev.ChatID, fmt.Sprintf("🛑 Cancelled %d download(s).", n), nil)
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func displayName(p config.Platform) string {
	switch p {
	case config.Qobuz:
		return "Qobuz"
	case config.Tidal:
		return "Tidal"
	case config.Deezer:
		return "Deezer"
	case config.Soundcloud:
		return "SoundCloud"
	default:
		return string(p)
	}
}
