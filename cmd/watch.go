package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// debounce is how long the watcher waits for changes to settle before
// rebuilding.
const debounce = 100 * time.Millisecond

// watch runs rebuild once, then again whenever a .hb file in the input's
// directory is written, created or renamed, until ctx is cancelled. Build
// failures are logged and watching continues.
func watch(ctx context.Context, log logrus.FieldLogger, input string, rebuild func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(input)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	log.WithField("dir", dir).Info("watching for changes")

	run := func() {
		if err := rebuild(); err != nil {
			log.WithError(err).Error("build failed")
		}
	}
	run()

	timer := time.NewTimer(debounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".hb") {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			log.WithField("file", event.Name).Debug("change detected")
			timer.Reset(debounce)

		case <-timer.C:
			run()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("watcher error")
		}
	}
}
