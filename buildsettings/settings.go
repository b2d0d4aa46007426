// Package buildsettings keeps the per-project deployment settings: the
// current target platform and the Android and Web export options. The store
// is a TOML file next to the project config; changing the platform notifies
// subscribers.
package buildsettings

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/teranos/jsbind/errors"
	"github.com/teranos/jsbind/logger"
)

// FileName is the settings file kept in the project root
const FileName = "jsbind.build.toml"

// Settings is the persisted record
type Settings struct {
	CurrentPlatform Platform        `toml:"current_platform" json:"current_platform" yaml:"current_platform"`
	AppName         string          `toml:"app_name" json:"app_name" yaml:"app_name"`
	PackageName     string          `toml:"package_name" json:"package_name" yaml:"package_name"`
	Android         AndroidSettings `toml:"android" json:"android" yaml:"android"`
	Web             WebSettings     `toml:"web" json:"web" yaml:"web"`
}

// AndroidSettings configures Android exports
type AndroidSettings struct {
	SDKPath  string `toml:"sdk_path" json:"sdk_path" yaml:"sdk_path"`
	APILevel int    `toml:"api_level" json:"api_level" yaml:"api_level"`
}

// WebSettings configures HTML5 exports
type WebSettings struct {
	OutputDir string `toml:"output_dir" json:"output_dir" yaml:"output_dir"`
}

// PlatformChangeCallback receives the previous and the new platform
type PlatformChangeCallback func(from, to Platform)

// Store owns one settings file.
type Store struct {
	path string

	mu        sync.Mutex // guards settings and callbacks
	settings  Settings
	callbacks []PlatformChangeCallback

	logger *zap.SugaredLogger
}

// Open loads the settings at path. A missing file yields empty settings and
// is created on the first change.
func Open(path string) (*Store, error) {
	s := &Store{
		path:   path,
		logger: logger.ComponentLogger("buildsettings"),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read build settings %s", path)
	}
	if err := toml.Unmarshal(data, &s.settings); err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(err, "failed to parse build settings %s", path),
			"restore the file from its .back1 backup or delete it")
	}
	return s, nil
}

// Path returns the settings file path
func (s *Store) Path() string {
	return s.path
}

// Settings returns a copy of the current record
func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// CurrentPlatform returns the selected platform
func (s *Store) CurrentPlatform() Platform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.CurrentPlatform
}

// OnPlatformChange registers a callback for platform changes
func (s *Store) OnPlatformChange(callback PlatformChangeCallback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callbacks = append(s.callbacks, callback)
}

// SetCurrentPlatform selects p, or the host platform when p is Undefined.
// Subscribers are notified after the file is saved, and only when the
// platform actually changed.
func (s *Store) SetCurrentPlatform(p Platform) (Platform, error) {
	if p == Undefined {
		p = Host()
	}

	s.mu.Lock()
	old := s.settings.CurrentPlatform
	if old == p {
		s.mu.Unlock()
		return p, nil
	}
	next := s.settings
	next.CurrentPlatform = p
	if err := s.save(next); err != nil {
		s.mu.Unlock()
		return old, err
	}
	s.settings = next
	callbacks := make([]PlatformChangeCallback, len(s.callbacks))
	copy(callbacks, s.callbacks)
	s.mu.Unlock()

	s.logger.Infow("Platform changed", "from", old.String(), "to", p.String())
	for _, callback := range callbacks {
		callback(old, p)
	}
	return p, nil
}

// Update applies fn to a copy of the settings and saves the result. The
// current platform cannot be changed here; use SetCurrentPlatform.
func (s *Store) Update(fn func(*Settings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings
	fn(&next)
	next.CurrentPlatform = s.settings.CurrentPlatform
	if err := s.save(next); err != nil {
		return err
	}
	s.settings = next
	return nil
}

// save writes settings with a rotating backup. Callers hold mu.
func (s *Store) save(settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrap(err, "failed to create settings directory")
	}
	if err := createBackup(s.path); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}

	data, err := toml.Marshal(settings)
	if err != nil {
		return errors.Wrap(err, "failed to marshal build settings")
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return errors.Mark(errors.Wrapf(err, "failed to write %s", s.path), errors.ErrWriteFailed)
	}
	s.logger.Debugw("Saved build settings", logger.FieldFile, s.path)
	return nil
}
