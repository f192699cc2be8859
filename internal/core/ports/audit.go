package ports

import (
	"context"

	"github.com/marketsquare/account-system/internal/core/domain"
)

// AuditRepository persists the authentication audit trail.
type AuditRepository interface {
	Record(ctx context.Context, event domain.AuthEvent) error
}

// AuditSink accepts audit events for asynchronous processing. Handlers
// enqueue and move on; persistence happens on the dispatcher's workers.
type AuditSink interface {
	Enqueue(event domain.AuthEvent)
}
