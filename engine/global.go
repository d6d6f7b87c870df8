package engine

// Package-global engine instance, set once at bootstrap and read by the
// HTTP handlers.
var defaultEngine *Engine

func Init(e *Engine) {
	defaultEngine = e
}

func Get() *Engine {
	return defaultEngine
}
