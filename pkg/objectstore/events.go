package objectstore

import (
	"log/slog"
)

// EventSink receives notifications about registry changes. Implementations
// are called synchronously and must not call back into the Lock Gate.
type EventSink interface {
	// ObjectStored is fired after an entity is inserted or updated
	ObjectStored(obj StoredObject)

	// ObjectDeleted is fired after an entity is removed from the registry
	ObjectDeleted(obj StoredObject)

	// RepositoryCleared is fired after Clear reset the repository
	RepositoryCleared(repositoryID string)
}

// NoopEventSink implements EventSink with no-op methods
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-op event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

func (n *NoopEventSink) ObjectStored(obj StoredObject)         {}
func (n *NoopEventSink) ObjectDeleted(obj StoredObject)        {}
func (n *NoopEventSink) RepositoryCleared(repositoryID string) {}

// LogEventSink writes every event to a structured logger at debug level
type LogEventSink struct {
	logger *slog.Logger
}

// NewLogEventSink creates an event sink that logs to logger, or to the
// default logger when logger is nil
func NewLogEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogEventSink{logger: logger}
}

func (l *LogEventSink) ObjectStored(obj StoredObject) {
	b := obj.Base()
	l.logger.Debug("Object stored", "object_id", b.ID, "name", b.Name, "base_type", obj.BaseTypeID())
}

func (l *LogEventSink) ObjectDeleted(obj StoredObject) {
	b := obj.Base()
	l.logger.Debug("Object deleted", "object_id", b.ID, "name", b.Name, "base_type", obj.BaseTypeID())
}

func (l *LogEventSink) RepositoryCleared(repositoryID string) {
	l.logger.Info("Repository cleared", "repository_id", repositoryID)
}
