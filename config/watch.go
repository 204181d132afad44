package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dixieflatline76/Recrop/util/log"
	"github.com/fsnotify/fsnotify"
)

// reloadDelay coalesces the burst of events an editor save produces.
const reloadDelay = 100 * time.Millisecond

// Watch reloads filename whenever it is written and passes the result to onChange.
// Files that fail to load are logged and skipped. It returns once the watcher is
// running; watching stops when ctx is done.
func Watch(ctx context.Context, filename string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	// Watch the directory so editors that replace the file are seen
	if err := watcher.Add(filepath.Dir(filename)); err != nil {
		watcher.Close()
		return fmt.Errorf("watching config directory: %w", err)
	}

	go func() {
		defer watcher.Close()
		var debounce *time.Timer
		defer func() {
			if debounce != nil {
				debounce.Stop()
			}
		}()
		target := filepath.Clean(filename)

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(reloadDelay, func() {
					c, err := Load(filename)
					if err != nil {
						log.Printf("Ignoring config change: %v", err)
						return
					}
					log.Printf("Reloaded %s", filename)
					onChange(c)
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("Config watcher error: %v", err)
			}
		}
	}()
	return nil
}
