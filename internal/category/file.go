package category

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileSource reads categories from the first existing file among a list of
// candidate paths. The parsed list is cached until the file's modification
// time changes or Invalidate is called.
type FileSource struct {
	candidates []string
	logger     *slog.Logger

	mu         sync.Mutex
	cached     []Category
	cachedPath string
	cachedMod  time.Time
	valid      bool
	// warned is the last problem reported; cleared by a successful load.
	warned     string
}

// NewFileSource returns a source that checks candidates in order.
func NewFileSource(candidates []string, logger *slog.Logger) *FileSource {
	paths := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c != "" {
			paths = append(paths, filepath.Clean(c))
		}
	}
	return &FileSource{candidates: paths, logger: logger}
}

// Categories implements Source. A missing or unreadable file yields an empty
// list; each distinct problem is logged once until a load succeeds.
func (f *FileSource) Categories(context.Context) []Category {
	f.mu.Lock()
	defer f.mu.Unlock()

	path, info := f.resolve()
	if path == "" {
		f.warn("missing", "no category file found", "candidates", f.candidates)
		return []Category{}
	}

	if f.valid && f.cachedPath == path && f.cachedMod.Equal(info.ModTime()) {
		return clone(f.cached)
	}

	categories, err := readCategories(path)
	if err != nil {
		f.valid = false
		f.warn(path+"@"+info.ModTime().String(), "failed to load categories", "path", path, "error", err)
		return []Category{}
	}

	f.cached = Dedupe(categories)
	f.cachedPath = path
	f.cachedMod = info.ModTime()
	f.valid = true
	f.warned = ""

	f.logger.Debug("categories loaded", "path", path, "count", len(f.cached))
	return clone(f.cached)
}

// warn logs msg unless key matches the previous warning. Callers hold f.mu.
func (f *FileSource) warn(key, msg string, args ...any) {
	if f.warned == key {
		return
	}
	f.warned = key
	f.logger.Warn(msg, args...)
}

// Invalidate drops the cached list so the next call re-reads the file.
func (f *FileSource) Invalidate() {
	f.mu.Lock()
	f.valid = false
	f.mu.Unlock()
}

func (f *FileSource) resolve() (string, os.FileInfo) {
	for _, p := range f.candidates {
		info, err := os.Stat(p)
		if err == nil && info.Mode().IsRegular() {
			return p, info
		}
	}
	return "", nil
}

// Watch invalidates the cache whenever a candidate file is written, created,
// renamed or removed. Directories are watched so editors that replace the
// file are seen too. It returns once the watcher is running; watching stops
// when ctx is done.
func (f *FileSource) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	targets := make(map[string]struct{}, len(f.candidates))
	dirs := make(map[string]struct{})
	for _, p := range f.candidates {
		targets[p] = struct{}{}
		dirs[filepath.Dir(p)] = struct{}{}
	}

	watched := 0
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			f.logger.Debug("not watching category directory", "dir", dir, "error", err)
			continue
		}
		watched++
	}
	if watched == 0 {
		watcher.Close()
		return errors.New("none of the category file directories can be watched")
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if _, hit := targets[filepath.Clean(event.Name)]; hit {
					f.logger.Debug("category file changed", "path", event.Name, "op", event.Op.String())
					f.Invalidate()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				f.logger.Warn("category watcher error", "error", err)
			}
		}
	}()

	return nil
}

// readCategories accepts a bare JSON array or an object with a "categories" array.
func readCategories(path string) ([]Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var list []Category
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("parse category list: %w", err)
		}
		return list, nil
	}

	var doc struct {
		Categories []Category `json:"categories"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse category document: %w", err)
	}
	return doc.Categories, nil
}
