package logging

import (
	"context"

	"go.uber.org/zap"
)

// Audit results.
const (
	AuditSuccess = "success"
	AuditFailure = "failure"
)

// LogAuditEvent records a change to persisted user data.
//
// Args:
//   - action: what happened ("save", "clear", "update", "import", "heal")
//   - resource: the kind of record touched (e.g. "profile")
//   - key: storage key of the record
//   - result: AuditSuccess or AuditFailure
//   - details: optional extra fields; never include raw body metrics here
func LogAuditEvent(ctx context.Context, action, resource, key, result string, details map[string]any) {
	LoggerFromContext(ctx).Info("Audit event",
		zap.String("audit.action", action),
		zap.String("audit.resource_type", resource),
		zap.String("audit.resource_key", key),
		zap.String("audit.result", result),
		zap.Any("audit.details", details),
	)
}
