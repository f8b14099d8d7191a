package configuration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/AlexZinkM/zec-wallet/internal/stream"
)

const reloadDelay = 100 * time.Millisecond

// FileProvider serves configuration from a flat YAML document and reloads it
// when the file changes on disk. Scalars of any type are kept as their
// string form; nested values are ignored.
type FileProvider struct {
	path  string
	state *stream.State[Configuration]

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	doneCh  chan struct{}
}

var _ Provider = (*FileProvider)(nil)

// NewFileProvider loads path once. A missing file is an empty configuration;
// a malformed one is an error.
func NewFileProvider(path string) (*FileProvider, error) {
	c, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	return &FileProvider{
		path:  path,
		state: stream.NewState(c, sameValues),
	}, nil
}

func loadFile(path string) (Configuration, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Empty, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse configuration %s: %w", path, err)
	}

	mapping := make(map[string]string, len(doc))
	for name, node := range doc {
		if node.Kind != yaml.ScalarNode {
			log.Warn("Ignoring non-scalar configuration value", zap.String("key", name))
			continue
		}
		mapping[name] = node.Value
	}
	return NewStringConfiguration(mapping, time.Now()), nil
}

func (p *FileProvider) Observe(ctx context.Context) <-chan Configuration {
	return p.state.Subscribe(ctx)
}

// Current returns the last loaded configuration.
func (p *FileProvider) Current() Configuration {
	return p.state.Get()
}

// HintToRefresh rereads the file. A file that no longer parses keeps the
// previous configuration.
func (p *FileProvider) HintToRefresh(context.Context) {
	p.reload()
}

func (p *FileProvider) reload() {
	c, err := loadFile(p.path)
	if err != nil {
		log.Error("Keeping previous configuration", zap.Error(err))
		return
	}
	if p.state.Set(c) {
		log.Info("Configuration reloaded", zap.String("path", p.path))
	}
}

// Start watches the file's directory so that editors replacing the file are
// noticed too. It does not block.
func (p *FileProvider) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.watcher != nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", p.path, err)
	}

	p.watcher = watcher
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	go p.run(ctx, watcher, p.stopCh, p.doneCh)
	return nil
}

// Stop ends the watch and waits for the event loop to exit.
func (p *FileProvider) Stop() {
	p.mu.Lock()
	watcher, stopCh, doneCh := p.watcher, p.stopCh, p.doneCh
	p.watcher = nil
	p.mu.Unlock()

	if watcher == nil {
		return
	}
	close(stopCh)
	<-doneCh
	if err := watcher.Close(); err != nil {
		log.Error("Failed to close configuration watcher", zap.Error(err))
	}
}

func (p *FileProvider) run(ctx context.Context, watcher *fsnotify.Watcher, stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	// Saves often arrive as several events; reload once they settle.
	timer := time.NewTimer(reloadDelay)
	timer.Stop()
	defer timer.Stop()

	name := filepath.Clean(p.path)
	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(reloadDelay)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Error("Configuration watcher error", zap.Error(err))

		case <-timer.C:
			p.reload()
		}
	}
}
