package logging

import (
	"sort"
	"sync"
)

// LoggerManager управляет логгерами разных компонентов
type LoggerManager struct {
	mu      sync.RWMutex
	loggers map[string]*Logger
}

var (
	globalManager *LoggerManager
	managerOnce   sync.Once
)

// GetLoggerManager возвращает глобальный менеджер логгеров
func GetLoggerManager() *LoggerManager {
	managerOnce.Do(func() {
		globalManager = &LoggerManager{
			loggers: make(map[string]*Logger),
		}
	})
	return globalManager
}

// GetLogger возвращает логгер для компонента, создавая его при необходимости
func (lm *LoggerManager) GetLogger(component string) *Logger {
	lm.mu.RLock()
	if logger, exists := lm.loggers[component]; exists {
		lm.mu.RUnlock()
		return logger
	}
	lm.mu.RUnlock()

	lm.mu.Lock()
	defer lm.mu.Unlock()

	// Проверяем еще раз на случай гонки
	if logger, exists := lm.loggers[component]; exists {
		return logger
	}
	logger := NewLogger(component)
	lm.loggers[component] = logger
	return logger
}

// ListComponents возвращает отсортированный список компонентов
func (lm *LoggerManager) ListComponents() []string {
	lm.mu.RLock()
	defer lm.mu.RUnlock()

	components := make([]string, 0, len(lm.loggers))
	for component := range lm.loggers {
		components = append(components, component)
	}
	sort.Strings(components)
	return components
}

// Удобные функции для получения логгеров
func GetComponentLogger(component string) *Logger {
	return GetLoggerManager().GetLogger(component)
}

func GetGameLogger() *Logger {
	return GetComponentLogger("game")
}

func GetWorldLogger() *Logger {
	return GetComponentLogger("world")
}

func GetAPILogger() *Logger {
	return GetComponentLogger("api")
}

func GetEventBusLogger() *Logger {
	return GetComponentLogger("eventbus")
}
