package logging

// NewTestLogger creates a logger suitable for unit tests.
func NewTestLogger() *Logger {
	return NewLoggerFromConfig(NewDefaultConfig())
}
