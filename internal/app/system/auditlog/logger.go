// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/orgdesk/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for authentication events (login, logout).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Admin controls logging for assignment lifecycle and invite events.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Admin string
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// NewNopLogger returns a Logger that discards everything. Test helper.
func NewNopLogger() *Logger {
	return &Logger{
		zapLog: zap.NewNop(),
		config: Config{Auth: "off", Admin: "off"},
	}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.ClientID != nil {
		fields = append(fields, zap.String("client_id", event.ClientID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.OrganizationID != nil {
		fields = append(fields, zap.String("organization_id", event.OrganizationID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = "all"
	}

	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}

	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func hexID(s string) *primitive.ObjectID {
	if oid, err := primitive.ObjectIDFromHex(s); err == nil {
		return &oid
	}
	return nil
}

// assignmentEvent builds the shared shape of lifecycle audit events.
// String IDs come straight from SessionUser and lifecycle results.
func (l *Logger) assignmentEvent(ctx context.Context, r *http.Request, eventType, actorID, orgID, assignmentID string, success bool, failureReason string) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAdmin,
		EventType:      eventType,
		ActorID:        hexID(actorID),
		OrganizationID: hexID(orgID),
		IP:             getClientIP(r),
		UserAgent:      r.UserAgent(),
		Success:        success,
		FailureReason:  failureReason,
		Details: map[string]string{
			"assignment_id": assignmentID,
		},
	})
}

// AssignmentApproved logs an approve settle.
func (l *Logger) AssignmentApproved(ctx context.Context, r *http.Request, actorID, orgID, assignmentID string, success bool, failureReason string) {
	l.assignmentEvent(ctx, r, audit.EventAssignmentApproved, actorID, orgID, assignmentID, success, failureReason)
}

// AssignmentDeclined logs a decline settle.
func (l *Logger) AssignmentDeclined(ctx context.Context, r *http.Request, actorID, assignmentID string, success bool, failureReason string) {
	l.assignmentEvent(ctx, r, audit.EventAssignmentDeclined, actorID, "", assignmentID, success, failureReason)
}

// AssignmentDeleted logs a delete settle.
func (l *Logger) AssignmentDeleted(ctx context.Context, r *http.Request, actorID, orgID, assignmentID string, success bool, failureReason string) {
	l.assignmentEvent(ctx, r, audit.EventAssignmentDeleted, actorID, orgID, assignmentID, success, failureReason)
}

// AssignmentReInvited logs a re-invite settle.
func (l *Logger) AssignmentReInvited(ctx context.Context, r *http.Request, actorID, orgID, assignmentID string, success bool, failureReason string) {
	l.assignmentEvent(ctx, r, audit.EventAssignmentReInvited, actorID, orgID, assignmentID, success, failureReason)
}

// AssignmentRoleChanged logs an assignment role edit.
func (l *Logger) AssignmentRoleChanged(ctx context.Context, r *http.Request, actorID, orgID, assignmentID string) {
	l.assignmentEvent(ctx, r, audit.EventAssignmentRoleChanged, actorID, orgID, assignmentID, true, "")
}

// UserInvited logs a new invite being created.
func (l *Logger) UserInvited(ctx context.Context, r *http.Request, actorID, orgID, invitedEmail string) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAdmin,
		EventType:      audit.EventUserInvited,
		ActorID:        hexID(actorID),
		OrganizationID: hexID(orgID),
		IP:             getClientIP(r),
		UserAgent:      r.UserAgent(),
		Success:        true,
		Details: map[string]string{
			"invited_email": invitedEmail,
		},
	})
}

// LoginSuccess logs a successful sign-in.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, clientID, orgID, email string) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAuth,
		EventType:      audit.EventLoginSuccess,
		ClientID:       hexID(clientID),
		OrganizationID: hexID(orgID),
		IP:             getClientIP(r),
		UserAgent:      r.UserAgent(),
		Success:        true,
		Details: map[string]string{
			"email": email,
		},
	})
}

// LoginFailed logs a failed sign-in attempt.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, attemptedEmail, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailed,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: reason,
		Details: map[string]string{
			"attempted_email": attemptedEmail,
		},
	})
}

// Logout logs a sign-out.
func (l *Logger) Logout(ctx context.Context, r *http.Request, clientID, orgID string) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAuth,
		EventType:      audit.EventLogout,
		ClientID:       hexID(clientID),
		OrganizationID: hexID(orgID),
		IP:             getClientIP(r),
		UserAgent:      r.UserAgent(),
		Success:        true,
	})
}
