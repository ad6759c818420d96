// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package sites

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"dario.cat/mergo"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/canonical/lms-bridge/internal/logging"
)

var _ SettingsProviderInterface = (*Provider)(nil)

// Provider serves site settings read from a YAML file, reloaded when the
// file changes.
type Provider struct {
	path string

	mu    sync.RWMutex
	file  *File
	cache map[string]*Settings

	logger logging.LoggerInterface
}

func (p *Provider) Settings(site string) *Settings {
	p.mu.RLock()
	if s, ok := p.cache[site]; ok {
		p.mu.RUnlock()
		return s.clone()
	}
	file := p.file
	p.mu.RUnlock()

	s := resolve(file, site, p.logger)

	p.mu.Lock()
	if p.file == file {
		p.cache[site] = s
	}
	p.mu.Unlock()

	return s.clone()
}

func resolve(file *File, site string, logger logging.LoggerInterface) *Settings {
	s := file.Sites[site].clone()

	if err := mergo.Merge(s, file.Default.clone()); err != nil {
		logger.Errorf("failed to merge settings of site %s: %v", site, err)
		s = file.Default.clone()
	}

	if s.SafeFields == nil {
		s.SafeFields = append([]string(nil), DefaultSafeFields...)
	}
	if s.RegistrationExtraFields == nil {
		s.RegistrationExtraFields = map[string]string{}
	}

	return s
}

// Load reads the settings file, an empty path yields the built-in defaults.
func (p *Provider) Load() error {
	file := new(File)

	if p.path != "" {
		data, err := os.ReadFile(p.path)
		if err != nil {
			return fmt.Errorf("failed to read site settings: %v", err)
		}
		if err := yaml.Unmarshal(data, file); err != nil {
			return fmt.Errorf("failed to parse site settings: %v", err)
		}
	}

	if err := file.Default.clone().validate(); err != nil {
		return err
	}
	for site, s := range file.Sites {
		if err := s.clone().validate(); err != nil {
			return fmt.Errorf("site %s: %v", site, err)
		}
	}

	p.mu.Lock()
	p.file = file
	p.cache = make(map[string]*Settings)
	p.mu.Unlock()

	return nil
}

// Watch reloads the settings whenever the file is written or replaced,
// until ctx is done. A broken file keeps the previous settings.
func (p *Provider) Watch(ctx context.Context) error {
	if p.path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create settings watcher: %v", err)
	}

	// watch the directory, config maps replace the file through a rename
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch site settings: %v", err)
	}

	go func() {
		defer watcher.Close()

		target := filepath.Clean(p.path)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				if err := p.Load(); err != nil {
					p.logger.Errorf("failed to reload site settings: %v", err)
					continue
				}
				p.logger.Infof("Reloaded site settings from %s", p.path)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				p.logger.Errorf("site settings watcher error: %v", err)
			}
		}
	}()

	return nil
}

func NewProvider(path string, logger logging.LoggerInterface) (*Provider, error) {
	p := new(Provider)

	p.path = path
	p.logger = logger

	if err := p.Load(); err != nil {
		return nil, err
	}

	return p, nil
}
