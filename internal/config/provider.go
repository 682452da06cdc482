package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/kingrea/report-engine/internal/content"
)

const defaultCacheSize = 16

// Provider yields configuration snapshots.
type Provider interface {
	Snapshot() (*Snapshot, error)
}

// StaticProvider always returns the same snapshot.
type StaticProvider struct {
	snap *Snapshot
}

// NewStaticProvider wraps snap; nil uses the defaults.
func NewStaticProvider(snap *Snapshot) StaticProvider {
	if snap == nil {
		snap = DefaultSnapshot()
	}
	return StaticProvider{snap: snap}
}

// Snapshot returns the wrapped snapshot.
func (p StaticProvider) Snapshot() (*Snapshot, error) {
	return p.snap, nil
}

type stamp struct {
	size    int64
	modUnix int64
}

type cachedMeta struct {
	stamp stamp
	meta  map[string]content.FindingMeta
}

// FileProvider loads snapshots from disk. Parsed metadata files are memoized
// by path and reused until the file's size or modification time changes.
type FileProvider struct {
	path   string
	logger *zap.Logger

	cache *lru.Cache[string, cachedMeta]

	mu   sync.Mutex
	last *Snapshot
}

// FileOption customizes a FileProvider.
type FileOption func(*FileProvider)

// WithProviderLogger overrides the default no-op logger.
func WithProviderLogger(l *zap.Logger) FileOption {
	return func(p *FileProvider) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewFileProvider prepares a provider for the engine config at path.
func NewFileProvider(path string, opts ...FileOption) (*FileProvider, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	cache, err := lru.New[string, cachedMeta](defaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("config: metadata cache: %w", err)
	}
	p := &FileProvider{path: abs, logger: zap.NewNop(), cache: cache}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Path returns the engine config path.
func (p *FileProvider) Path() string {
	return p.path
}

// Snapshot loads the engine config and its metadata file.
func (p *FileProvider) Snapshot() (*Snapshot, error) {
	cfg, err := Load(p.path)
	if err != nil {
		return nil, err
	}
	meta, err := p.metadata(cfg.MetadataPath)
	if err != nil {
		return nil, err
	}
	snap := NewSnapshot(cfg, meta)
	p.mu.Lock()
	p.last = snap
	p.mu.Unlock()
	return snap, nil
}

// Last returns the most recently loaded snapshot, or nil.
func (p *FileProvider) Last() *Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

func (p *FileProvider) metadata(path string) (map[string]content.FindingMeta, error) {
	if path == "" {
		return BuiltinMeta(), nil
	}
	current, ok := statFile(path)
	if ok {
		if hit, found := p.cache.Get(path); found && hit.stamp == current {
			return hit.meta, nil
		}
	}
	meta, err := LoadMetadata(path)
	if err != nil {
		return nil, err
	}
	if ok {
		p.cache.Add(path, cachedMeta{stamp: current, meta: meta})
	}
	return meta, nil
}

// Invalidate drops any memoized metadata.
func (p *FileProvider) Invalidate() {
	p.cache.Purge()
}

// Watch reloads the snapshot whenever the engine config or its metadata file
// changes, calling onChange with each successful reload. Reload failures are
// logged and the previous snapshot stays current. Watch blocks until ctx is
// done.
func (p *FileProvider) Watch(ctx context.Context, onChange func(*Snapshot)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: watcher: %w", err)
	}
	defer watcher.Close()

	snap, err := p.Snapshot()
	if err != nil {
		return err
	}
	dirs := map[string]bool{filepath.Dir(p.path): true}
	if snap.Engine.MetadataPath != "" {
		dirs[filepath.Dir(snap.Engine.MetadataPath)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("config: watch %s: %w", dir, err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !p.relevant(event, snap) {
				continue
			}
			p.Invalidate()
			next, err := p.Snapshot()
			if err != nil {
				p.logger.Warn("config reload failed", zap.String("path", event.Name), zap.Error(err))
				continue
			}
			snap = next
			p.logger.Info("config reloaded", zap.String("path", event.Name))
			if onChange != nil {
				onChange(next)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			p.logger.Warn("config watcher error", zap.Error(err))
		}
	}
}

func (p *FileProvider) relevant(event fsnotify.Event, snap *Snapshot) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	name := filepath.Clean(event.Name)
	return name == p.path || (snap != nil && name == snap.Engine.MetadataPath)
}

func statFile(path string) (stamp, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return stamp{}, false
	}
	return stamp{size: info.Size(), modUnix: info.ModTime().UnixNano()}, true
}
