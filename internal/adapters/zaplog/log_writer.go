// Package zaplog contains audit adapters that write through zap.
package zaplog

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/example/parkwise/internal/ctxutil"
	"github.com/example/parkwise/internal/ports/secondary"
)

const auditMessage = "audit"

// LogWriter implements secondary.LogWriter by emitting one structured
// "audit" entry per change.
type LogWriter struct {
	logger *zap.Logger
}

// NewLogWriter creates a new LogWriter.
func NewLogWriter(logger *zap.Logger) *LogWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogWriter{logger: logger.Named("audit")}
}

// LogCreate logs a create operation for an entity.
func (w *LogWriter) LogCreate(ctx context.Context, entityType, entityID string) error {
	return w.write(ctx, entityType, entityID, "create")
}

// LogUpdate logs an update operation for an entity field.
func (w *LogWriter) LogUpdate(ctx context.Context, entityType, entityID, fieldName, oldValue, newValue string) error {
	return w.write(ctx, entityType, entityID, "update",
		zap.String("field", fieldName),
		zap.String("old_value", oldValue),
		zap.String("new_value", newValue),
	)
}

// LogDelete logs a delete operation for an entity.
func (w *LogWriter) LogDelete(ctx context.Context, entityType, entityID string) error {
	return w.write(ctx, entityType, entityID, "delete")
}

func (w *LogWriter) write(ctx context.Context, entityType, entityID, action string, extra ...zap.Field) error {
	if entityType == "" || entityID == "" {
		return errors.New("audit entry requires entity type and id")
	}

	operator := ctxutil.OperatorFromContext(ctx)
	if operator == "" {
		operator = "unknown"
	}

	fields := append([]zap.Field{
		zap.String("operator", operator),
		zap.String("entity_type", entityType),
		zap.String("entity_id", entityID),
		zap.String("action", action),
	}, extra...)

	w.logger.Info(auditMessage, fields...)
	return nil
}

// Ensure LogWriter implements the interface
var _ secondary.LogWriter = (*LogWriter)(nil)
