package sessiongate

import "context"

const (
	auditEventLoginSuccess   = "login_success"
	auditEventLoginFailure   = "login_failure"
	auditEventRegister       = "register"
	auditEventSessionIssued  = "session_issued"
	auditEventSessionRenewed = "session_renewed"
	auditEventSessionRevoked = "session_revoked"
	auditEventSessionExpired = "session_expired"
	auditEventLogout         = "logout"
	auditEventRehashUpgraded = "rehash_upgraded"
	auditEventRehashFailed   = "rehash_failed"
)

func (e *Engine) emitAudit(ctx context.Context, eventType, username string, success bool, cause error, metadata map[string]string) {
	if e.audit == nil {
		return
	}
	event := AuditEvent{
		Timestamp: e.now().UTC(),
		EventType: eventType,
		Username:  username,
		Success:   success,
		Metadata:  metadata,
	}
	if cause != nil {
		event.Error = cause.Error()
	}
	e.audit.Emit(ctx, event)
}
