package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joeblew999/plat-fonts/internal/errorx"
	"github.com/joeblew999/plat-fonts/pkg/log"
)

// DefaultDebounce is used when the configured debounce cannot be parsed.
const DefaultDebounce = 500 * time.Millisecond

// Watch builds target once, then rebuilds it whenever the font root or one of
// its family folders changes. Bursts of events within the debounce window
// trigger a single full rebuild. Build failures are logged and watching
// continues. When a metrics address is configured build metrics are served
// there. Watch returns when ctx is done.
func (b *Builder) Watch(ctx context.Context, target string) error {
	if addr := b.c.Metrics.Addr; addr != "" {
		if _, err := StartMetrics(ctx, addr); err != nil {
			return err
		}
	}

	if _, err := b.Run(ctx, target); err != nil {
		if errors.Is(err, errorx.ErrUnknownTarget) {
			return err
		}
		log.Error("Initial build failed", "target", target, "err", err.Error())
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := b.watchRoot(watcher); err != nil {
		return err
	}

	debounce := b.debounce()
	ticker := time.NewTicker(max(debounce/5, 10*time.Millisecond))
	defer ticker.Stop()

	log.Info("Watching for changes", "root", b.c.Fonts.Root, "target", target, "debounce", debounce.String())

	var pending time.Time
	for {
		select {
		case <-ctx.Done():
			log.Info("Watch stopped", "target", target)
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			log.Debug("Change detected", "path", event.Name, "op", event.Op.String())
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						log.Warn("Cannot watch folder", "dir", event.Name, "err", err.Error())
					}
				}
			}
			pending = time.Now()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("Watcher error", "err", err.Error())

		case <-ticker.C:
			if pending.IsZero() || time.Since(pending) < debounce {
				continue
			}
			pending = time.Time{}
			if _, err := b.Run(ctx, target); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				log.Error("Rebuild failed", "target", target, "err", err.Error())
			}
		}
	}
}

// watchRoot adds the font root and each of its family folders.
func (b *Builder) watchRoot(watcher *fsnotify.Watcher) error {
	root := b.c.Fonts.Root
	if err := watcher.Add(root); err != nil {
		return errorx.Wrap(errorx.ErrFontRootMissing, "%s: %v", root, err)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	for _, e := range entries {
		dir := filepath.Join(root, e.Name())
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			log.Warn("Cannot watch folder", "dir", dir, "err", err.Error())
		}
	}
	return nil
}

func (b *Builder) debounce() time.Duration {
	d, err := time.ParseDuration(b.c.Build.Debounce)
	if err != nil || d <= 0 {
		return DefaultDebounce
	}
	return d
}
