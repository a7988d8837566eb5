package ui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/leapstack-labs/leaptable/internal/engine"
)

// dropSettle is how long a dropped file must stay quiet before it is picked
// up; copies into the watch directory arrive as a create plus a burst of
// writes.
const dropSettle = time.Second

// watchDrops watches the configured drop directory and uploads new files into
// the active table, same flow as a bulk upload through the API.
func (s *Server) watchDrops(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(s.watchDir); err != nil {
		s.logger.Error("failed to watch drop directory", "dir", s.watchDir, "error", err)
		return nil
	}
	s.logger.Info("watching drop directory", "dir", s.watchDir)

	var mu sync.Mutex
	pending := make(map[string]struct{})
	var settle *time.Timer

	flush := func() {
		mu.Lock()
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
		}
		pending = make(map[string]struct{})
		mu.Unlock()
		if len(paths) > 0 {
			s.ingestDrops(ctx, paths)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event := <-watcher.Events:
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if strings.HasPrefix(filepath.Base(event.Name), ".") {
				continue
			}
			mu.Lock()
			pending[event.Name] = struct{}{}
			if settle != nil {
				settle.Stop()
			}
			settle = time.AfterFunc(dropSettle, flush)
			mu.Unlock()

		case err := <-watcher.Errors:
			s.logger.Error("watcher error", "error", err)
		}
	}
}

func (s *Server) ingestDrops(ctx context.Context, paths []string) {
	var files []engine.File
	var handles []*os.File
	defer func() {
		for _, f := range handles {
			_ = f.Close()
		}
	}()
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		f, err := os.Open(path)
		if err != nil {
			s.logger.Error("cannot open dropped file", "file", path, "error", err)
			continue
		}
		handles = append(handles, f)
		files = append(files, engine.File{Name: filepath.Base(path), Reader: f})
	}
	if len(files) == 0 {
		return
	}
	s.logger.Info("ingesting dropped files", "count", len(files))
	if err := s.engine.FillRows(ctx, files); err != nil {
		s.logger.Error("drop ingest failed", "error", err)
	}
}
