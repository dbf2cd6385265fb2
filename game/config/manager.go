package config

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/wricardo/evolution-merge-game/game/engine"
)

var (
	ErrLevelNotFound  = errors.New("level not found")
	ErrInvalidCatalog = errors.New("invalid catalog")
)

const (
	LevelsFile = "levels.json"
	ChainsFile = "chains.json"
)

//go:embed defaults/*.json
var defaultsFS embed.FS

// Manager handles catalog loading and caching
type Manager struct {
	configDir string
	catalog   *engine.Catalog
	mu        sync.RWMutex
}

// NewManager creates a catalog manager. Files missing from configDir, or an
// empty configDir, fall back to the embedded defaults.
func NewManager(configDir string) (*Manager, error) {
	if configDir != "" {
		info, err := os.Stat(configDir)
		if err != nil {
			return nil, fmt.Errorf("config directory does not exist: %s", configDir)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("config path is not a directory: %s", configDir)
		}
	}

	m := &Manager{configDir: configDir}
	if err := m.Reload(); err != nil {
		return nil, err
	}
	return m, nil
}

// DefaultCatalog returns a fresh copy of the embedded catalog
func DefaultCatalog() (*engine.Catalog, error) {
	return loadCatalog(defaultsFS, "defaults")
}

// Catalog returns the loaded catalog
func (m *Manager) Catalog() *engine.Catalog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.catalog
}

// Level returns the level configured for a difficulty
func (m *Manager) Level(d engine.Difficulty) (engine.Level, error) {
	if !d.Valid() {
		return engine.Level{}, fmt.Errorf("%w: %q", engine.ErrUnknownDifficulty, d)
	}
	level, ok := m.Catalog().Level(d)
	if !ok {
		return engine.Level{}, fmt.Errorf("%w: %s", ErrLevelNotFound, d)
	}
	return level, nil
}

// ListLevels returns every configured level in difficulty order
func (m *Manager) ListLevels() []engine.Level {
	catalog := m.Catalog()
	var levels []engine.Level
	for _, d := range engine.Difficulties {
		if level, ok := catalog.Level(d); ok {
			levels = append(levels, level)
		}
	}
	return levels
}

// Reload re-reads the catalog from disk
func (m *Manager) Reload() error {
	var catalog *engine.Catalog
	var err error
	if m.configDir == "" {
		catalog, err = DefaultCatalog()
	} else {
		catalog, err = loadCatalog(overlayFS{dir: os.DirFS(m.configDir)}, ".")
	}
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalog = catalog
	return nil
}

// SaveCatalog writes a catalog as levels.json and chains.json in dir
func SaveCatalog(dir string, catalog *engine.Catalog) error {
	// Validate catalog before saving
	if err := engine.ValidateCatalog(catalog); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	files := map[string]any{
		LevelsFile: catalog.Levels,
		ChainsFile: catalog.Chains,
	}
	for name, value := range files {
		data, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}

func loadCatalog(fsys fs.FS, root string) (*engine.Catalog, error) {
	var catalog engine.Catalog
	if err := readJSON(fsys, root, LevelsFile, &catalog.Levels); err != nil {
		return nil, err
	}
	if err := readJSON(fsys, root, ChainsFile, &catalog.Chains); err != nil {
		return nil, err
	}

	if err := engine.ValidateCatalog(&catalog); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return &catalog, nil
}

func readJSON(fsys fs.FS, root, name string, target any) error {
	data, err := fs.ReadFile(fsys, filepath.ToSlash(filepath.Join(root, name)))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidCatalog, name, err)
	}
	return nil
}

// overlayFS serves files from dir and falls back to the embedded defaults
// for any file dir does not have
type overlayFS struct {
	dir fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	f, err := o.dir.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return defaultsFS.Open("defaults/" + name)
	}
	return f, err
}
