package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// ComponentType groups components for registry stats and defaults.
type ComponentType string

const (
	ComponentTypeService    ComponentType = "service"
	ComponentTypeRepository ComponentType = "repository"
	ComponentTypeClient     ComponentType = "client"
	ComponentTypeUtility    ComponentType = "utility"
	ComponentTypeAI         ComponentType = "ai"
	ComponentTypeParser     ComponentType = "parser"
	ComponentTypeDatabase   ComponentType = "database"
	ComponentTypeChat       ComponentType = "chat"
	ComponentTypeMemory     ComponentType = "memory"
)

// ComponentInfo holds the registration record for one component.
type ComponentInfo struct {
	ID      string
	Type    ComponentType
	Level   log.Level
	Enabled bool
}

// ComponentRegistry tracks per-component log levels. Levels can be overridden at
// startup with YUI_LOG_LEVEL_<COMPONENT_ID> environment variables.
type ComponentRegistry struct {
	mu         sync.RWMutex
	components map[string]*ComponentInfo
}

func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		components: make(map[string]*ComponentInfo),
	}
}

// RegisterComponent records a component. Registering an existing id is a no-op.
func (r *ComponentRegistry) RegisterComponent(id string, componentType ComponentType) error {
	if id == "" {
		return fmt.Errorf("component id must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.components[id]; ok {
		return nil
	}

	info := &ComponentInfo{
		ID:      id,
		Type:    componentType,
		Level:   log.InfoLevel,
		Enabled: true,
	}

	if raw := os.Getenv(envKeyForComponent(id)); raw != "" {
		if level, err := log.ParseLevel(raw); err == nil {
			info.Level = level
		}
	}

	r.components[id] = info
	return nil
}

// GetLoggerForComponent returns a child logger carrying the component field and
// the component's configured level.
func (r *ComponentRegistry) GetLoggerForComponent(base *log.Logger, id string) *log.Logger {
	r.mu.RLock()
	info, ok := r.components[id]
	r.mu.RUnlock()

	logger := base.With("component", id)
	if ok {
		logger.SetLevel(info.Level)
	}
	return logger
}

// SetComponentLogLevel overrides the level for a registered component.
func (r *ComponentRegistry) SetComponentLogLevel(id string, level log.Level) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, ok := r.components[id]
	if !ok {
		return fmt.Errorf("component %q is not registered", id)
	}
	info.Level = level
	return nil
}

func (r *ComponentRegistry) GetComponentLogLevel(id string) log.Level {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if info, ok := r.components[id]; ok {
		return info.Level
	}
	return log.InfoLevel
}

func envKeyForComponent(id string) string {
	normalized := strings.ToUpper(strings.ReplaceAll(id, "-", "_"))
	return "YUI_LOG_LEVEL_" + normalized
}
