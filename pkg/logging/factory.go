package logging

import (
	"github.com/charmbracelet/log"
)

// Factory provides component-aware loggers with consistent field naming.
type Factory struct {
	baseLogger        *log.Logger
	componentRegistry *ComponentRegistry
}

// NewFactory creates a new logger factory.
func NewFactory(baseLogger *log.Logger) *Factory {
	return &Factory{
		baseLogger:        baseLogger,
		componentRegistry: NewComponentRegistry(),
	}
}

// ForComponent creates a logger for a specific component.
func (lf *Factory) ForComponent(id string) *log.Logger {
	_ = lf.componentRegistry.RegisterComponent(id, ComponentTypeUtility)
	return lf.componentRegistry.GetLoggerForComponent(lf.baseLogger, id)
}

// ForService creates a logger for service components.
func (lf *Factory) ForService(id string) *log.Logger {
	_ = lf.componentRegistry.RegisterComponent(id, ComponentTypeService)
	return lf.componentRegistry.GetLoggerForComponent(lf.baseLogger, id)
}

func (lf *Factory) ForAI(id string) *log.Logger {
	_ = lf.componentRegistry.RegisterComponent(id, ComponentTypeAI)
	return lf.componentRegistry.GetLoggerForComponent(lf.baseLogger, id)
}

func (lf *Factory) ForParser(id string) *log.Logger {
	_ = lf.componentRegistry.RegisterComponent(id, ComponentTypeParser)
	return lf.componentRegistry.GetLoggerForComponent(lf.baseLogger, id)
}

func (lf *Factory) ForDatabase(id string) *log.Logger {
	_ = lf.componentRegistry.RegisterComponent(id, ComponentTypeDatabase)
	return lf.componentRegistry.GetLoggerForComponent(lf.baseLogger, id)
}

func (lf *Factory) ForChat(id string) *log.Logger {
	_ = lf.componentRegistry.RegisterComponent(id, ComponentTypeChat)
	return lf.componentRegistry.GetLoggerForComponent(lf.baseLogger, id)
}

func (lf *Factory) ForMemory(id string) *log.Logger {
	_ = lf.componentRegistry.RegisterComponent(id, ComponentTypeMemory)
	return lf.componentRegistry.GetLoggerForComponent(lf.baseLogger, id)
}

// WithContext adds additional context to a logger.
func (lf *Factory) WithContext(logger *log.Logger, key string, value interface{}) *log.Logger {
	return logger.With(key, value)
}

// WithError adds error context to a logger.
func (lf *Factory) WithError(logger *log.Logger, err error) *log.Logger {
	if err != nil {
		return logger.With("error", err.Error())
	}
	return logger
}

// WithOperation adds operation context to a logger.
func (lf *Factory) WithOperation(logger *log.Logger, operation string) *log.Logger {
	return logger.With("operation", operation)
}

// GetComponentRegistry returns the component registry for configuration.
func (lf *Factory) GetComponentRegistry() *ComponentRegistry {
	return lf.componentRegistry
}
