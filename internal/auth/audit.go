package auth

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const auditAppendTimeout = 5 * time.Second

// AuditRecorder appends activity log entries as a fire-and-forget side
// effect. Append failures are logged and swallowed: the audit trail must
// never affect the outcome of the operation it describes.
type AuditRecorder struct {
	store  Store
	logger zerolog.Logger
	wg     sync.WaitGroup
}

// NewAuditRecorder constructs a recorder writing through the store.
func NewAuditRecorder(store Store, logger zerolog.Logger) *AuditRecorder {
	return &AuditRecorder{store: store, logger: logger}
}

// Record appends an entry asynchronously. The append is detached from the
// request context so a caller disconnect cannot cancel it.
func (r *AuditRecorder) Record(ctx context.Context, actorID, action, entityType, entityID string, details map[string]any) {
	if r == nil || r.store == nil {
		return
	}
	entry := &AuditEntry{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		OccurredAt: time.Now().UTC(),
	}
	detached := context.WithoutCancel(ctx)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		appendCtx, cancel := context.WithTimeout(detached, auditAppendTimeout)
		defer cancel()
		if err := r.store.Audit(appendCtx).Append(appendCtx, entry); err != nil {
			r.logger.Warn().Err(err).Str("action", action).Msg("audit append failed")
		}
	}()
}

// Wait blocks until in-flight appends settle. Used by graceful shutdown and
// tests.
func (r *AuditRecorder) Wait() {
	if r == nil {
		return
	}
	r.wg.Wait()
}
