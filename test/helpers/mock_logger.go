package helpers

import "sync"

// LogEntry is one message captured by MockLogger
type LogEntry struct {
	Level    string
	Message  string
	Metadata map[string]interface{}
}

// MockLogger records every message written to it
type MockLogger struct {
	mu      sync.Mutex
	Entries []LogEntry
}

// NewMockLogger creates a new mock logger
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

// Log records the message
func (l *MockLogger) Log(level, message string, metadata map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, LogEntry{Level: level, Message: message, Metadata: metadata})
}

// AtLevel returns the messages logged at level
func (l *MockLogger) AtLevel(level string) []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []LogEntry
	for _, e := range l.Entries {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}
