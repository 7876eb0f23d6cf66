// Package fixture serves CMS documents from a local YAML file, for
// development and offline storyboards.
package fixture

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/louisbranch/showcase/internal/content"
	apperrors "github.com/louisbranch/showcase/internal/platform/errors"
)

type document struct {
	Results []content.Record `yaml:"results"`
}

// Provider implements content.Provider over a YAML file.
type Provider struct {
	path   string
	logger *log.Logger

	mu       sync.RWMutex
	records  []content.Record
	reloaded chan struct{}
}

// Load reads path and returns a provider holding its documents.
func Load(path string, logger *log.Logger) (*Provider, error) {
	if logger == nil {
		logger = log.Default()
	}
	p := &Provider{path: path, logger: logger, reloaded: make(chan struct{}, 1)}
	if _, err := p.reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse decodes a YAML fixture document.
func Parse(data []byte) ([]content.Record, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeContentMalformed, "decode fixture", err)
	}
	return doc.Results, nil
}

// Query returns the documents for lang. Documents without a lang match every
// locale.
func (p *Provider) Query(ctx context.Context, lang string) (*content.Results, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	records := make([]content.Record, 0, len(p.records))
	for _, rec := range p.records {
		if lang == "" || rec.Lang == "" || rec.Lang == lang {
			records = append(records, rec)
		}
	}
	return content.NewResults(records), nil
}

// Reloaded receives after every successful reload triggered by Watch.
func (p *Provider) Reloaded() <-chan struct{} {
	return p.reloaded
}

// Watch reloads the file whenever it changes until ctx is done. A reload
// that fails to parse keeps the previous documents.
func (p *Provider) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	// Watch the directory so atomic saves (write temp + rename) are seen.
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		return fmt.Errorf("watch %s: %w", p.path, err)
	}
	target := filepath.Clean(p.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			changed, err := p.reload()
			if err != nil {
				p.logger.Printf("fixture: reload %s: %v", p.path, err)
				continue
			}
			if !changed {
				continue
			}
			p.logger.Printf("fixture: reloaded %s", p.path)
			select {
			case p.reloaded <- struct{}{}:
			default:
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			p.logger.Printf("fixture: watch %s: %v", p.path, err)
		}
	}
}

// reload swaps in the file's documents. An empty file is a save in
// progress and is skipped.
func (p *Provider) reload() (bool, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return false, fmt.Errorf("read fixture: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return false, nil
	}
	records, err := Parse(data)
	if err != nil {
		return false, err
	}
	p.mu.Lock()
	p.records = records
	p.mu.Unlock()
	return true, nil
}
