// file: internal/download/download.go
// version: 1.0.0
// guid: 9e0f1a2b-3c4d-5e6f-7a8b-9c0d1e2f3a4b

// Package download orchestrates one download from accepted command to
// delivered files: credential gate, quality resolution, task registration,
// engine fetch, leech/mirror delivery, cleanup.
package download

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"github.com/jdfalk/streamrip-bot/internal/config"
	"github.com/jdfalk/streamrip-bot/internal/engine"
	"github.com/jdfalk/streamrip-bot/internal/gateway"
	"github.com/jdfalk/streamrip-bot/internal/metrics"
	"github.com/jdfalk/streamrip-bot/internal/selector"
	"github.com/jdfalk/streamrip-bot/internal/session"
	"github.com/jdfalk/streamrip-bot/internal/store"
	"github.com/jdfalk/streamrip-bot/internal/task"
	"github.com/jdfalk/streamrip-bot/internal/urlparse"
)

// batchInterval paces consecutive downloads from one batch file.
const batchInterval = 3 * time.Second

// HistoryStore records completed downloads. Implemented by the pebble
// store; nil disables history.
type HistoryStore interface {
	RecordDownload(rec store.DownloadRecord) error
}

// Request is one accepted download command.
type Request struct {
	UserID  int64
	ChatID  int64
	Tag     string          // HTML mention of the requester
	URL     string
	Parsed  urlparse.Parsed
	Quality int             // -1 means unset, resolve via selector
	Codec   string          // empty means unset, resolve via selector
	Force   bool            // bypass the engine's download database
	Leech   bool
	Name    string          // optional display name from -n
}

// Orchestrator wires the download pipeline together. All collaborators are
// injected.
type Orchestrator struct {
	gw        gateway.Gateway
	cfg       *config.Manager
	fetcher   engine.Fetcher
	tasks     *task.Registry
	selectors *session.Registry
	history   HistoryStore

	batchEvery time.Duration
}

// New builds an orchestrator. history may be nil.
func New(gw gateway.Gateway, cfg *config.Manager, fetcher engine.Fetcher, tasks *task.Registry, selectors *session.Registry, history HistoryStore) *Orchestrator {
	return &Orchestrator{
		gw:         gw,
		cfg:        cfg,
		fetcher:    fetcher,
		tasks:      tasks,
		selectors:  selectors,
		history:    history,
		batchEvery: batchInterval,
	}
}

// contextWork adapts a context cancel func to the task's Cancellable hook.
type contextWork struct {
	cancel context.CancelFunc
}

func (w contextWork) Cancel() { w.cancel() }

// Add runs one download to a terminal state. Every failure is reported to
// the chat; the returned error is for logging only.
func (o *Orchestrator) Add(ctx context.Context, req Request) error {
	cfg := o.cfg.Snapshot()
	platform := req.Parsed.Platform

	if !cfg.Enabled {
		o.gw.Send(req.ChatID, "❌ Downloads are currently disabled. Check /settings.", nil)
		return nil
	}
	if !cfg.PlatformConfigured(platform) {
		o.gw.Send(req.ChatID, notConfiguredText(platform, cfg), nil)
		return nil
	}

	quality, codec := req.Quality, req.Codec
	if quality < 0 || codec == "" {
		selCfg := cfg
		if codec != "" {
			selCfg.DefaultCodec = codec
		}
		sel, ok, err := selector.Run(ctx, o.gw, o.selectors, req.ChatID, req.UserID, req.Tag, platform, req.Parsed.MediaType, selCfg)
		if err != nil {
			return fmt.Errorf("quality selector: %w", err)
		}
		metrics.IncSessionOutcome("selector", outcomeLabel(ok))
		if !ok {
			// user cancelled or timed out, selector already said so
			return nil
		}
		quality, codec = sel.Quality, sel.Codec
	}
	if codec == "" {
		codec = cfg.DefaultCodec
	}

	t := task.New(req.UserID, req.ChatID, req.Leech)
	t.Tag = req.Tag
	t.Platform = string(platform)
	t.MediaType = req.Parsed.MediaType
	t.Quality = quality
	t.Codec = codec
	t.Dir = filepath.Join(cfg.DownloadDir, "streamrip_"+t.GID)
	if req.Name != "" {
		t.SetName(req.Name)
	} else {
		t.SetName(req.URL)
	}

	if err := o.tasks.Register(t); err != nil {
		o.gw.Send(req.ChatID, "❌ Could not start download: "+err.Error(), nil)
		return err
	}
	metrics.IncDownloadStarted(t.Platform)
	metrics.SetActiveTasks(o.tasks.Len())

	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	t.Bind(contextWork{cancel: cancel})

	defer func() {
		o.tasks.Remove(t.GID)
		metrics.SetActiveTasks(o.tasks.Len())
		if err := os.RemoveAll(t.Dir); err != nil {
			log.Printf("Failed to remove %s: %v", t.Dir, err)
		}
	}()

	progress, _ := o.gw.Send(req.ChatID, fmt.Sprintf("⬇️ Downloading <b>%s</b>…\n<b>🆔 GID:</b> <code>%s</code>", t.Name(), t.GID), nil)
	defer o.gw.Delete(progress)

	err := o.fetcher.Fetch(fetchCtx, engine.Request{
		URL:        req.URL,
		Quality:    quality,
		Codec:      codec,
		Directory:  t.Dir,
		NoDatabase: !cfg.EnableDatabase || req.Force,
	})
	if err != nil {
		if t.Cancelled() {
			metrics.IncDownloadCanceled(t.Platform)
			o.gw.Send(req.ChatID, fmt.Sprintf("🛑 Download cancelled: <b>%s</b>", t.Name()), nil)
			return nil
		}
		metrics.IncDownloadFailed(t.Platform)
		o.gw.Send(req.ChatID, "❌ Download failed: "+err.Error(), nil)
		return err
	}
	if t.Cancelled() {
		// cancel raced the fetch finishing; never deliver a cancelled task
		metrics.IncDownloadCanceled(t.Platform)
		o.gw.Send(req.ChatID, fmt.Sprintf("🛑 Download cancelled: <b>%s</b>", t.Name()), nil)
		return nil
	}

	files, err := engine.AudioFiles(t.Dir)
	if err != nil {
		metrics.IncDownloadFailed(t.Platform)
		o.gw.Send(req.ChatID, "❌ Download failed: "+err.Error(), nil)
		return err
	}

	if req.Leech {
		o.deliverLeech(req, t, files)
	} else {
		o.deliverMirror(req, t, files)
	}

	metrics.IncDownloadCompleted(t.Platform)
	metrics.ObserveDownloadDuration(t.Platform, t.Elapsed())
	o.recordHistory(cfg, t, req, len(files))
	return nil
}

// AddBatch runs a batch of URLs from a pasted file, pacing consecutive
// downloads and carrying on past per-URL failures.
func (o *Orchestrator) AddBatch(ctx context.Context, base Request, urls []string) {
	limiter := rate.NewLimiter(rate.Every(o.batchEvery), 1)
	for i, raw := range urls {
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		parsed, ok := urlparse.Classify(raw)
		if !ok {
			if !urlparse.IsLastfm(raw) {
				o.gw.Send(base.ChatID, fmt.Sprintf("⚠️ Skipping unrecognized URL (%d/%d): %s", i+1, len(urls), raw), nil)
				continue
			}
			parsed = urlparse.Parsed{Platform: config.Qobuz, MediaType: "playlist"}
		}
		req := base
		req.URL = raw
		req.Parsed = parsed
		req.Name = ""
		if err := o.Add(ctx, req); err != nil {
			log.Printf("Batch download %d/%d failed: %v", i+1, len(urls), err)
		}
	}
}

// deliverLeech uploads each audio file into the chat with tag-derived
// captions, then posts a summary.
func (o *Orchestrator) deliverLeech(req Request, t *task.Task, files []string) {
	sent := 0
	for _, path := range files {
		title, artist := readTags(path)
		caption := filepath.Base(path)
		if title != "" {
			caption = title
			if artist != "" {
				caption = artist + " — " + title
			}
		}
		if err := o.gw.SendAudio(req.ChatID, path, caption, title, artist, 0); err != nil {
			log.Printf("Failed to upload %s: %v", path, err)
			continue
		}
		sent++
	}
	metrics.IncFilesDelivered(sent)
	o.gw.Send(req.ChatID, fmt.Sprintf(
		"✅ <b>%s</b>\nDelivered %d of %d files in %s\nRequested by %s",
		t.Name(), sent, len(files), readable(t.Elapsed()), req.Tag), nil)
}

// deliverMirror is the mirror-delivery stub: it reports what was downloaded.
// The working directory is still removed by Add's cleanup.
func (o *Orchestrator) deliverMirror(req Request, t *task.Task, files []string) {
	o.gw.Send(req.ChatID, fmt.Sprintf(
		"✅ <b>%s</b>\nDownloaded %d files to <code>%s</code> in %s\n⚠️ Mirror upload is not implemented yet; use leech to receive files in chat.",
		t.Name(), len(files), t.Dir, readable(t.Elapsed())), nil)
}

func (o *Orchestrator) recordHistory(cfg config.Settings, t *task.Task, req Request, files int) {
	if o.history == nil || !cfg.EnableDatabase {
		return
	}
	rec := store.DownloadRecord{
		GID:         t.GID,
		UserID:      t.UserID,
		URL:         req.URL,
		Platform:    t.Platform,
		MediaType:   t.MediaType,
		Quality:     t.Quality,
		Codec:       t.Codec,
		Files:       files,
		Leech:       t.Leech,
		CompletedAt: time.Now(),
	}
	if err := o.history.RecordDownload(rec); err != nil {
		log.Printf("Failed to record download %s: %v", t.GID, err)
	}
}

func notConfiguredText(p config.Platform, cfg config.Settings) string {
	if !cfg.PlatformEnabled(p) {
		return fmt.Sprintf("❌ %s downloads are disabled. Enable the platform in /settings.", displayName(p))
	}
	switch p {
	case config.Qobuz:
		return "❌ Qobuz is not configured. Add your email and password to the config file."
	case config.Tidal:
		return "❌ Tidal is not configured. Add your access token to the config file."
	case config.Deezer:
		return "❌ Deezer is not configured. Add your ARL cookie to the config file."
	default:
		return fmt.Sprintf("❌ %s is not configured.", displayName(p))
	}
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

func outcomeLabel(resolved bool) string {
	if resolved {
		return "resolved"
	}
	return "unresolved"
}

func readable(d time.Duration) string {
	secs := int(d.Seconds())
	if secs >= 60 {
		return fmt.Sprintf("%dm %ds", secs/60, secs%60)
	}
	return fmt.Sprintf("%ds", secs)
}
