package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/codequest-labs/gridquest/game/engine"
	"github.com/codequest-labs/gridquest/game/service"
)

var (
	ErrStageNotFound = errors.New("stage not found")
	ErrInvalidStage  = errors.New("invalid stage")
)

// stageExtensions lists the recognized stage file extensions in preference
// order when resolving a bare stage name.
var stageExtensions = []string{".json", ".yaml", ".yml"}

// Manager handles stage definition loading and caching
type Manager struct {
	stageDir     string
	defaultStage *engine.Stage
	stages       map[string]*engine.Stage
	mu           sync.RWMutex
}

// NewManager creates a new stage manager
func NewManager(stageDir string) (*Manager, error) {
	if _, err := os.Stat(stageDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("stage directory does not exist: %s", stageDir)
	}

	m := &Manager{
		stageDir: stageDir,
		stages:   make(map[string]*engine.Stage),
	}

	if err := m.loadDefaultStage(); err != nil {
		return nil, fmt.Errorf("failed to load default stage: %w", err)
	}

	return m, nil
}

// LoadStage loads a stage by name. Bare names are resolved against the
// recognized extensions; explicit filenames load directly.
func (m *Manager) LoadStage(name string) (*engine.Stage, error) {
	m.mu.RLock()
	if stage, exists := m.stages[name]; exists {
		m.mu.RUnlock()
		return stage, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if stage, exists := m.stages[name]; exists {
		return stage, nil
	}

	path, err := m.resolvePath(name)
	if err != nil {
		return nil, err
	}

	stage, err := loadStageFile(path)
	if err != nil {
		return nil, err
	}

	m.stages[name] = stage
	return stage, nil
}

// ListStages returns information about all available stage definitions
func (m *Manager) ListStages() ([]*service.StageInfo, error) {
	entries, err := os.ReadDir(m.stageDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read stage directory: %w", err)
	}

	var stages []*service.StageInfo

	for _, entry := range entries {
		if entry.IsDir() || !isStageFile(entry.Name()) {
			continue
		}

		name := trimStageExtension(entry.Name())

		stage, err := m.LoadStage(name)
		if err != nil {
			// Skip invalid stages
			continue
		}

		stages = append(stages, &service.StageInfo{
			Filename:    entry.Name(),
			StageID:     name, // This is the identifier to use for session creation
			Name:        stage.Name,
			Description: stage.Description,
			BoardWidth:  stage.Board.Width,
			BoardHeight: stage.Board.Height,
			MaxTurns:    stage.MaxTurns,
			Enemies:     len(stage.Enemies),
			Items:       len(stage.Items),
		})
	}

	return stages, nil
}

// GetDefault returns the default stage
func (m *Manager) GetDefault() *engine.Stage {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultStage
}

// SetDefault sets the default stage by name
func (m *Manager) SetDefault(name string) error {
	stage, err := m.LoadStage(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultStage = stage
	return nil
}

// RefreshCache reloads all cached stages from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.stages = make(map[string]*engine.Stage)
	m.mu.Unlock()

	return m.loadDefaultStage()
}

// SaveStage saves a stage definition to disk. YAML filenames get YAML
// output; everything else is written as indented JSON.
func (m *Manager) SaveStage(name string, stage *engine.Stage) error {
	if err := engine.ValidateStage(stage); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidStage, err)
	}

	filename := name
	if !isStageFile(filename) {
		filename = name + ".json"
	}
	path := filepath.Join(m.stageDir, filename)

	var data []byte
	var err error
	if strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml") {
		data, err = yaml.Marshal(stage)
	} else {
		data, err = json.MarshalIndent(stage, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal stage: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write stage file: %w", err)
	}

	m.mu.Lock()
	m.stages[trimStageExtension(filename)] = stage
	m.mu.Unlock()

	return nil
}

// loadDefaultStage loads the default stage: "tutorial" if present,
// otherwise the first valid stage on disk, otherwise a built-in minimal one.
// Must be called without the mutex held.
func (m *Manager) loadDefaultStage() error {
	stage, err := m.LoadStage("tutorial")
	if err != nil {
		stages, listErr := m.ListStages()
		if listErr != nil || len(stages) == 0 {
			m.storeDefault(createMinimalStage())
			return nil
		}

		stage, err = m.LoadStage(stages[0].StageID)
		if err != nil {
			m.storeDefault(createMinimalStage())
			return nil
		}
	}

	m.storeDefault(stage)
	return nil
}

func (m *Manager) storeDefault(stage *engine.Stage) {
	m.mu.Lock()
	m.defaultStage = stage
	m.mu.Unlock()
}

// resolvePath maps a stage name to an existing file path
func (m *Manager) resolvePath(name string) (string, error) {
	if isStageFile(name) {
		path := filepath.Join(m.stageDir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		return "", ErrStageNotFound
	}

	for _, ext := range stageExtensions {
		path := filepath.Join(m.stageDir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", ErrStageNotFound
}

// loadStageFile reads, decodes, and validates one stage file
func loadStageFile(path string) (*engine.Stage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrStageNotFound
		}
		return nil, fmt.Errorf("failed to read stage file: %w", err)
	}

	var stage engine.Stage
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		err = yaml.Unmarshal(data, &stage)
	} else {
		err = json.Unmarshal(data, &stage)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse stage: %w", err)
	}

	if err := engine.ValidateStage(&stage); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStage, err)
	}

	return &stage, nil
}

func isStageFile(name string) bool {
	for _, ext := range stageExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func trimStageExtension(name string) string {
	for _, ext := range stageExtensions {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}

// createMinimalStage creates a minimal valid stage used when the stage
// directory holds nothing loadable.
func createMinimalStage() *engine.Stage {
	goal := engine.Position{X: 4, Y: 4}
	return &engine.Stage{
		ID:          "default",
		Name:        "Default",
		Description: "Minimal open board",
		Board: engine.BoardSpec{
			Width:  5,
			Height: 5,
		},
		Player: engine.PlayerSpec{
			Position: engine.Position{X: 0, Y: 0},
			Facing:   engine.East,
		},
		Goal:     &goal,
		MaxTurns: 100,
	}
}
