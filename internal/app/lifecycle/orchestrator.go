// internal/app/lifecycle/orchestrator.go

// Package lifecycle sequences the multi-step store mutations behind the
// organization assignment actions: approve, decline, delete, and re-invite.
//
// Each operation issues its remote calls strictly in order (step N starts only
// after step N-1 settled), enforces its guard preconditions before touching
// the store, and reports a tagged Result so callers branch explicitly. An
// assignment record and a client record must never disagree about which
// organization a person belongs to; the multi-step chains here exist to keep
// that pairing in step, with compensations unwinding completed steps when a
// later one fails.
//
// Operations are not idempotent under retry: re-running one after a partial
// failure can apply a mutation twice. That is accepted behavior, not hidden.
package lifecycle

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dalemusser/orgdesk/internal/domain/models"
)

// ClientRecord is the orchestrator's flat view of a client account.
type ClientRecord struct {
	ID             string
	Email          string
	OrganizationID string
	IsOrgAdmin     bool
}

// AssignmentMutator is the slice of the assignment store the orchestrator
// needs: status writes, deletion, and re-insertion (the delete compensation).
type AssignmentMutator interface {
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	Restore(ctx context.Context, a Assignment) error
}

// ClientDirectory is the slice of the client store the orchestrator needs.
// FindByEmailFresh must bypass any read cache: another flow may have changed
// the client's organization since the roster was loaded.
type ClientDirectory interface {
	FindByEmail(ctx context.Context, email string) (ClientRecord, bool, error)
	FindByEmailFresh(ctx context.Context, email string) (ClientRecord, bool, error)
	SetOrganization(ctx context.Context, clientID, orgID string) error
	ClearOrganization(ctx context.Context, clientID string) error
}

// CacheReconciler is the cache-reconciliation hook invoked after a mutation
// changes which organization a client belongs to. An empty org id is a no-op.
type CacheReconciler interface {
	Reconcile(ctx context.Context, orgID string)
}

// Notifier receives the parent notification after approve/decline settle.
// An empty organization id means "no organization changed".
type Notifier interface {
	InfoUpdated(ctx context.Context, orgID string)
}

// Toast kinds, so sinks style the message without inspecting its text.
const (
	ToastSuccess = "success"
	ToastError   = "error"
)

// Toast is a fire-and-forget display message.
type Toast struct {
	Kind     string
	Message  string
	Duration time.Duration
	Position string
}

// ToastSink presents toasts. No acknowledgement is required.
type ToastSink interface {
	ShowToast(t Toast)
}

// Display texts surfaced by the orchestrator. The HTTP layer prefixes
// store errors onto the *Failed messages before flashing them.
const (
	MsgApproveFailed    = "Unable to approve the join request."
	MsgDeclineFailed    = "Unable to decline the join request."
	MsgDeleteFailed     = "Unable to remove the user."
	MsgReInviteFailed   = "Unable to re-invite the user."
	MsgReInviteSent     = "Re-invitation sent."
	MsgAlreadyMember    = "You already belong to an organization. Leave it before approving another join request."
	MsgBelongsElsewhere = "This user already belongs to another organization."
	MsgClientNotFound   = "No account was found for this user's email."

	ToastDuration = 5 * time.Second
	ToastPosition = "right"
)

// Orchestrator coordinates assignment lifecycle operations. It holds no
// assignment state of its own: every operation works on the roster the caller
// hands it.
type Orchestrator struct {
	assignments AssignmentMutator
	clients     ClientDirectory
	cache       CacheReconciler
	notify      Notifier
	toasts      ToastSink
	log         *zap.Logger
}

// New wires an Orchestrator. cache, notify, and toasts may be nil; the
// corresponding hooks become no-ops.
func New(assignments AssignmentMutator, clients ClientDirectory, cache CacheReconciler, notify Notifier, toasts ToastSink, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		assignments: assignments,
		clients:     clients,
		cache:       cache,
		notify:      notify,
		toasts:      toasts,
		log:         log,
	}
}

func (o *Orchestrator) reconcile(ctx context.Context, orgID string) {
	if o.cache != nil {
		o.cache.Reconcile(ctx, orgID)
	}
}

func (o *Orchestrator) infoUpdated(ctx context.Context, orgID string) {
	if o.notify != nil {
		o.notify.InfoUpdated(ctx, orgID)
	}
}

func (o *Orchestrator) toast(kind, message string) {
	if o.toasts != nil {
		o.toasts.ShowToast(Toast{Kind: kind, Message: message, Duration: ToastDuration, Position: ToastPosition})
	}
}

// ApproveRequest carries everything Approve needs. Roster is the pre-mutation
// assignment list; DefaultAssignment is the current user's own already-approved
// assignment (zero when they belong to no organization); ClientID identifies
// the client record whose organization is being set.
type ApproveRequest struct {
	AssignmentID      string
	Roster            Roster
	DefaultAssignment Assignment
	ClientID          string
}

// Approve moves a join request to APPROVED and points the client record at
// the request's organization.
//
// If the user already has a default assignment the operation refuses with
// OutcomeWarning and issues zero mutations: approving a second membership
// through this path is not allowed.
//
// The organization id is resolved from the pre-mutation roster snapshot, not
// re-fetched; a roster miss degrades to the empty string and the client update
// is still issued with it.
func (o *Orchestrator) Approve(ctx context.Context, req ApproveRequest) Result {
	if !req.DefaultAssignment.IsZero() {
		return warning(MsgAlreadyMember)
	}

	orgID := req.Roster.OrganizationIDOf(req.AssignmentID)
	prevStatus := models.AssignmentPending
	if a, found := req.Roster.ByID(req.AssignmentID); found {
		prevStatus = a.Status
	}

	steps := []step{
		{
			name: "assignment status approved",
			run: func(ctx context.Context) error {
				return o.assignments.UpdateStatus(ctx, req.AssignmentID, models.AssignmentApproved)
			},
			compensate: func(ctx context.Context) error {
				return o.assignments.UpdateStatus(ctx, req.AssignmentID, prevStatus)
			},
		},
		{
			name: "client organization set",
			run: func(ctx context.Context) error {
				return o.clients.SetOrganization(ctx, req.ClientID, orgID)
			},
		},
	}

	if err := o.runSteps(ctx, "approve", steps); err != nil {
		return failure(MsgApproveFailed + " " + err.Error())
	}

	o.reconcile(ctx, orgID)
	o.infoUpdated(ctx, orgID)
	return ok(orgID)
}

// Decline moves a join request to DECLINED. Exactly one mutation; on success
// the parent is notified with an empty organization id, the explicit signal
// that no organization changed. The caller clears its selection whether or not
// the call succeeded.
func (o *Orchestrator) Decline(ctx context.Context, a Assignment) Result {
	if err := o.assignments.UpdateStatus(ctx, a.ID, models.AssignmentDeclined); err != nil {
		o.log.Warn("decline failed", zap.String("assignment_id", a.ID), zap.Error(err))
		return failure(MsgDeclineFailed + " " + err.Error())
	}
	o.infoUpdated(ctx, "")
	return ok("")
}

// Delete removes an assignment. For an APPROVED assignment it also detaches
// the client: delete the assignment, look the client up by email, then clear
// organizationId and isOrgAdmin, three sequential remote calls. For any other
// status the assignment record alone is deleted.
//
// A zero-match client lookup skips the clear and counts as success; a
// multi-match lookup uses the first record, as the store returns them.
func (o *Orchestrator) Delete(ctx context.Context, a Assignment) Result {
	if a.Status != models.AssignmentApproved {
		if err := o.assignments.Delete(ctx, a.ID); err != nil {
			return failure(MsgDeleteFailed + " " + err.Error())
		}
		return ok("")
	}

	steps := []step{
		{
			name: "assignment deleted",
			run: func(ctx context.Context) error {
				return o.assignments.Delete(ctx, a.ID)
			},
			compensate: func(ctx context.Context) error {
				return o.assignments.Restore(ctx, a)
			},
		},
		{
			name: "client organization cleared",
			run: func(ctx context.Context) error {
				cl, found, err := o.clients.FindByEmail(ctx, a.Email)
				if err != nil {
					return err
				}
				if !found {
					o.log.Info("delete: no client record for assignment email",
						zap.String("assignment_id", a.ID),
						zap.String("email", a.Email))
					return nil
				}
				return o.clients.ClearOrganization(ctx, cl.ID)
			},
		},
	}

	if err := o.runSteps(ctx, "delete", steps); err != nil {
		return failure(MsgDeleteFailed + " " + err.Error())
	}

	o.reconcile(ctx, a.OrganizationID)
	return ok("")
}

// ReInviteRequest carries what ReInvite needs: the target assignment id, the
// pre-mutation roster, and the organization the user is being re-invited to.
type ReInviteRequest struct {
	AssignmentID   string
	Roster         Roster
	OrganizationID string
}

// ReInvite re-approves a declined user: a fresh (cache-bypassing) client
// lookup, a hard-stop conflict guard, then client organization and assignment
// status writes.
//
// The orchestrator owns every toast on this path. The conflict guard shows
// exactly one toast and refuses with zero mutations; success shows exactly one
// toast; a store failure toasts only when it carries a non-empty message, so
// the guard branch is never notified twice.
func (o *Orchestrator) ReInvite(ctx context.Context, req ReInviteRequest) Result {
	a, found := req.Roster.ByID(req.AssignmentID)
	if !found {
		o.log.Warn("reinvite: assignment not in roster", zap.String("assignment_id", req.AssignmentID))
		a = Assignment{ID: req.AssignmentID}
	}

	cl, clientFound, err := o.clients.FindByEmailFresh(ctx, a.Email)
	if err != nil {
		msg := MsgReInviteFailed + " " + err.Error()
		o.toast(ToastError, msg)
		return failure(msg)
	}
	if !clientFound {
		o.toast(ToastError, MsgClientNotFound)
		return failure(MsgClientNotFound)
	}
	if cl.OrganizationID != "" {
		// Hard stop, not a warning: the account is attached elsewhere.
		o.toast(ToastError, MsgBelongsElsewhere)
		return conflict(MsgBelongsElsewhere)
	}

	steps := []step{
		{
			name: "client organization set",
			run: func(ctx context.Context) error {
				return o.clients.SetOrganization(ctx, cl.ID, req.OrganizationID)
			},
			compensate: func(ctx context.Context) error {
				// The guard saw an unattached client, so revert to empty.
				return o.clients.SetOrganization(ctx, cl.ID, "")
			},
		},
		{
			name: "assignment status approved",
			run: func(ctx context.Context) error {
				return o.assignments.UpdateStatus(ctx, req.AssignmentID, models.AssignmentApproved)
			},
		},
	}

	if err := o.runSteps(ctx, "reinvite", steps); err != nil {
		if msg := err.Error(); msg != "" {
			o.toast(ToastError, MsgReInviteFailed+" "+msg)
		}
		return failure(MsgReInviteFailed + " " + err.Error())
	}

	o.reconcile(ctx, req.OrganizationID)
	o.toast(ToastSuccess, MsgReInviteSent)
	return Result{Outcome: OutcomeOK, Message: MsgReInviteSent, OrganizationID: req.OrganizationID}
}
