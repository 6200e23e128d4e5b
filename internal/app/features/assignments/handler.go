// internal/app/features/assignments/handler.go
package assignments

import (
	"net/http"
	"time"

	uierrors "github.com/dalemusser/orgdesk/internal/app/features/errors"
	"github.com/dalemusser/orgdesk/internal/app/lifecycle"
	assignmentstore "github.com/dalemusser/orgdesk/internal/app/store/assignments"
	clientstore "github.com/dalemusser/orgdesk/internal/app/store/clients"
	invitestore "github.com/dalemusser/orgdesk/internal/app/store/invites"
	organizationstore "github.com/dalemusser/orgdesk/internal/app/store/organizations"
	rolestore "github.com/dalemusser/orgdesk/internal/app/store/roles"
	"github.com/dalemusser/orgdesk/internal/app/system/auditlog"
	"github.com/dalemusser/orgdesk/internal/app/system/flash"
	"github.com/dalemusser/orgdesk/internal/app/system/mailer"
	"github.com/dalemusser/orgdesk/internal/app/system/orgcache"
	"github.com/dalemusser/orgdesk/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level handler for organization assignments.
// It holds the DB handle, stores, and hooks provided by WAFFLE DBDeps / Startup.
type Handler struct {
	DB          *mongo.Database
	Log         *zap.Logger
	AuditLog    *auditlog.Logger
	Flash       *flash.Queue
	Cache       *orgcache.Cache
	Mail        *mailer.Sender
	BaseURL     string
	Assignments *assignmentstore.Store
	Clients     *clientstore.Store
	Orgs        *organizationstore.Store
	Roles       *rolestore.Store
	Invites     *invitestore.Store
	Redeem      *ratelimit.RedeemLimiter
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, fl *flash.Queue, cache *orgcache.Cache, mail *mailer.Sender, baseURL string, inviteExpiry time.Duration, logger *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Log:         logger,
		AuditLog:    audit,
		Flash:       fl,
		Cache:       cache,
		Mail:        mail,
		BaseURL:     baseURL,
		Assignments: assignmentstore.New(db),
		Clients:     clientstore.New(db),
		Orgs:        organizationstore.New(db),
		Roles:       rolestore.New(db),
		Invites:     invitestore.New(db, inviteExpiry),
		Redeem:      ratelimit.NewRedeemLimiter(),
	}
}

// orchestrator builds a request-scoped lifecycle orchestrator: the notifier
// and toast sink both write to this request's session.
func (h *Handler) orchestrator(w http.ResponseWriter, r *http.Request) *lifecycle.Orchestrator {
	return lifecycle.New(
		&assignmentMutator{store: h.Assignments},
		&clientDirectory{store: h.Clients},
		h.Cache,
		&sessionNotifier{w: w, r: r, log: h.Log},
		flash.Sink{Queue: h.Flash, W: w, R: r},
		h.Log,
	)
}

// renderUnauthorized and renderForbidden keep the feature's error pages
// consistent with the rest of the app.
func renderUnauthorized(w http.ResponseWriter, r *http.Request) {
	uierrors.RenderUnauthorized(w, r, "/login")
}

func renderForbidden(w http.ResponseWriter, r *http.Request, msg string) {
	uierrors.RenderForbidden(w, r, msg, "/organization")
}
