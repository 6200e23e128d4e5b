// internal/app/features/assignments/adapters.go
package assignments

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/orgdesk/internal/app/lifecycle"
	assignmentstore "github.com/dalemusser/orgdesk/internal/app/store/assignments"
	clientstore "github.com/dalemusser/orgdesk/internal/app/store/clients"
	"github.com/dalemusser/orgdesk/internal/app/system/auth"
	"github.com/dalemusser/orgdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// assignmentMutator adapts the typed assignment store to the orchestrator's
// hex-string view of the world.
type assignmentMutator struct {
	store *assignmentstore.Store
}

func (m *assignmentMutator) UpdateStatus(ctx context.Context, id, status string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	return m.store.UpdateStatus(ctx, oid, status)
}

func (m *assignmentMutator) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	return m.store.Delete(ctx, oid)
}

// Restore re-inserts a deleted assignment under its original id. It is only
// called as the compensation for a failed delete sequence.
func (m *assignmentMutator) Restore(ctx context.Context, a lifecycle.Assignment) error {
	oid, err := primitive.ObjectIDFromHex(a.ID)
	if err != nil {
		return err
	}
	rec := models.OrganizationAssignment{
		ID:        oid,
		Email:     a.Email,
		Status:    a.Status,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if a.OrganizationID != "" {
		orgOID, err := primitive.ObjectIDFromHex(a.OrganizationID)
		if err != nil {
			return err
		}
		rec.BusinessOrganizationID = &orgOID
	}
	return m.store.Insert(ctx, rec)
}

// clientDirectory adapts the typed client store. Absence maps to found=false,
// never an error.
type clientDirectory struct {
	store *clientstore.Store
}

func toRecord(cl *models.Client) lifecycle.ClientRecord {
	rec := lifecycle.ClientRecord{
		ID:         cl.ID.Hex(),
		Email:      cl.Email,
		IsOrgAdmin: cl.IsOrgAdmin,
	}
	if cl.OrganizationID != nil {
		rec.OrganizationID = cl.OrganizationID.Hex()
	}
	return rec
}

func (d *clientDirectory) FindByEmail(ctx context.Context, email string) (lifecycle.ClientRecord, bool, error) {
	cl, err := d.store.GetByEmail(ctx, email)
	if err == mongo.ErrNoDocuments {
		return lifecycle.ClientRecord{}, false, nil
	}
	if err != nil {
		return lifecycle.ClientRecord{}, false, err
	}
	return toRecord(cl), true, nil
}

func (d *clientDirectory) FindByEmailFresh(ctx context.Context, email string) (lifecycle.ClientRecord, bool, error) {
	cl, err := d.store.GetByEmailFresh(ctx, email)
	if err == mongo.ErrNoDocuments {
		return lifecycle.ClientRecord{}, false, nil
	}
	if err != nil {
		return lifecycle.ClientRecord{}, false, err
	}
	return toRecord(cl), true, nil
}

func (d *clientDirectory) SetOrganization(ctx context.Context, clientID, orgID string) error {
	oid, err := primitive.ObjectIDFromHex(clientID)
	if err != nil {
		return err
	}
	if orgID == "" {
		return d.store.SetOrganization(ctx, oid, nil)
	}
	orgOID, err := primitive.ObjectIDFromHex(orgID)
	if err != nil {
		return err
	}
	return d.store.SetOrganization(ctx, oid, &orgOID)
}

func (d *clientDirectory) ClearOrganization(ctx context.Context, clientID string) error {
	oid, err := primitive.ObjectIDFromHex(clientID)
	if err != nil {
		return err
	}
	return d.store.ClearOrganization(ctx, oid)
}

// sessionNotifier implements the orchestrator's parent notification by
// refreshing the signed-in user's organization in the session.
type sessionNotifier struct {
	w   http.ResponseWriter
	r   *http.Request
	log *zap.Logger
}

func (n *sessionNotifier) InfoUpdated(ctx context.Context, orgID string) {
	// An empty org id means no organization changed; the session keeps its
	// current value. Decline notifies with "" on every success.
	if orgID == "" {
		return
	}
	if err := auth.SetOrganization(n.w, n.r, orgID); err != nil {
		n.log.Warn("session organization refresh failed",
			zap.String("org_id", orgID), zap.Error(err))
	}
}
