package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// watchAssemblies calls compile with the changed path, spelled as it was
// given in paths, every time that file is written or re-created, until ctx
// is done. The parent directories are
// watched so editors that replace files on save are still seen.
func watchAssemblies(ctx context.Context, paths []string, compile func([]string) error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Close()

	watched := make(map[string]string, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		watched[abs] = p
		dirs[filepath.Dir(abs)] = true
	}
	for d := range dirs {
		if err := w.Add(d); err != nil {
			return fmt.Errorf("watching %s: %w", d, err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			p, ok := watched[abs]
			if !ok {
				continue
			}
			logrus.Infof("%s changed, recompiling", p)
			if err := compile([]string{p}); err != nil {
				logrus.Errorf("%v", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logrus.Warnf("watcher: %v", err)
		}
	}
}
