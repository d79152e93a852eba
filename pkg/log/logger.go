package log

import (
	"sync"

	aqmlErrors "github.com/MerveCeylanX/Aqua-ML-App/pkg/errors"
)

var (
	providerMu      sync.RWMutex
	defaultProvider LoggerProvider = NewZerologProvider(LevelInfo)
)

// SetLoggerProvider replaces the process-wide provider.
func SetLoggerProvider(p LoggerProvider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	defaultProvider = p
}

// GetLogger returns the default logger from the current provider.
func GetLogger() Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return defaultProvider.GetLogger()
}

// GetLoggerWithName returns a component-tagged logger from the current
// provider.
func GetLoggerWithName(name string) Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return defaultProvider.GetLoggerWithName(name)
}

// RouteWarnings wires the pkg/errors warning channel into the structured
// logger so library warnings come out as WARN records instead of stdlib log
// lines. Call once at startup.
func RouteWarnings() {
	logger := GetLoggerWithName("warnings")
	aqmlErrors.SetZerologWarnFunc(func(warning error) {
		logger.Warn(warning.Error(), ErrAttrKey, warning)
	})
}
