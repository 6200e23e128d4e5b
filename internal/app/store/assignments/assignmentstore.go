// internal/app/store/assignments/assignmentstore.go
package assignmentstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/orgdesk/internal/app/system/normalize"
	"github.com/dalemusser/orgdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("org_assignments")}
}

var (
	// ErrBadStatus is returned when a status outside the fixed set is written.
	ErrBadStatus = errors.New(`status must be "PENDING"|"APPROVED"|"DECLINED"`)
	// ErrAlreadyAssigned is returned when an email already has an assignment
	// in the organization.
	ErrAlreadyAssigned = errors.New("this email already has an assignment in the organization")
)

func validStatus(status string) bool {
	switch status {
	case models.AssignmentPending, models.AssignmentApproved, models.AssignmentDeclined:
		return true
	}
	return false
}

// viewPipeline joins the read-only projections onto assignment documents:
// the organization name via business_organization_id and the persona email via
// the clients collection. The joined fields are never written through here.
func viewPipeline(match bson.M) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "organizations"},
			{Key: "localField", Value: "business_organization_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "org_docs"},
		}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "clients"},
			{Key: "localField", Value: "email"},
			{Key: "foreignField", Value: "email"},
			{Key: "as", Value: "client_docs"},
		}}},
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "organization_name", Value: bson.D{{Key: "$ifNull", Value: bson.A{
				bson.D{{Key: "$arrayElemAt", Value: bson.A{"$org_docs.name", 0}}}, "",
			}}}},
			{Key: "persona_email", Value: bson.D{{Key: "$ifNull", Value: bson.A{
				bson.D{{Key: "$arrayElemAt", Value: bson.A{"$client_docs.email", 0}}}, "",
			}}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "org_docs", Value: 0},
			{Key: "client_docs", Value: 0},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: 1}}}},
	}
}

func (s *Store) listViews(ctx context.Context, match bson.M) ([]models.AssignmentView, error) {
	cur, err := s.c.Aggregate(ctx, viewPipeline(match))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	// Decode into a non-nil slice: an empty result set is an empty list,
	// never an error.
	views := []models.AssignmentView{}
	if err := cur.All(ctx, &views); err != nil {
		return nil, err
	}
	return views, nil
}

// ListByOrganization returns every assignment addressed to the organization,
// with the linked projections populated.
func (s *Store) ListByOrganization(ctx context.Context, orgID primitive.ObjectID) ([]models.AssignmentView, error) {
	return s.listViews(ctx, bson.M{"business_organization_id": orgID})
}

// ListPendingByEmail returns the PENDING join requests addressed to an email.
func (s *Store) ListPendingByEmail(ctx context.Context, email string) ([]models.AssignmentView, error) {
	return s.listViews(ctx, bson.M{
		"email":  normalize.Email(email),
		"status": models.AssignmentPending,
	})
}

// GetApprovedByEmail returns the email's current APPROVED assignment, the
// user's default membership. Returns mongo.ErrNoDocuments when the user
// belongs to no organization.
func (s *Store) GetApprovedByEmail(ctx context.Context, email string) (models.OrganizationAssignment, error) {
	var a models.OrganizationAssignment
	err := s.c.FindOne(ctx, bson.M{
		"email":  normalize.Email(email),
		"status": models.AssignmentApproved,
	}).Decode(&a)
	if err != nil {
		return models.OrganizationAssignment{}, err
	}
	return a, nil
}

// GetByID loads one assignment. Returns mongo.ErrNoDocuments if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.OrganizationAssignment, error) {
	var a models.OrganizationAssignment
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return models.OrganizationAssignment{}, err
	}
	return a, nil
}

// Create inserts a new PENDING assignment. It refuses an email that already
// has an assignment in the same organization.
func (s *Store) Create(ctx context.Context, a models.OrganizationAssignment) (models.OrganizationAssignment, error) {
	a.Email = normalize.Email(a.Email)
	if a.Status == "" {
		a.Status = models.AssignmentPending
	}
	if !validStatus(a.Status) {
		return models.OrganizationAssignment{}, ErrBadStatus
	}

	if a.BusinessOrganizationID != nil {
		n, err := s.c.CountDocuments(ctx, bson.M{
			"email":                    a.Email,
			"business_organization_id": *a.BusinessOrganizationID,
		})
		if err != nil {
			return models.OrganizationAssignment{}, err
		}
		if n > 0 {
			return models.OrganizationAssignment{}, ErrAlreadyAssigned
		}
	}

	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.CreatedAt = now
	a.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.OrganizationAssignment{}, err
	}
	return a, nil
}

// UpdateStatus sets the assignment's status. The write is issued even when no
// document matches; last write wins at the store layer.
func (s *Store) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	if !validStatus(status) {
		return ErrBadStatus
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// UpdateRole sets the assignment's business role.
func (s *Store) UpdateRole(ctx context.Context, id primitive.ObjectID, roleID *primitive.ObjectID) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	unset := bson.M{}
	if roleID != nil {
		set["role_id"] = *roleID
	} else {
		unset["role_id"] = ""
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// Delete removes the assignment document. Deleting an absent document is not
// an error.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// Insert writes a fully-populated assignment document back, keeping its id.
// Used to restore a deleted assignment when a later step of a compound
// deletion fails.
func (s *Store) Insert(ctx context.Context, a models.OrganizationAssignment) error {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	a.UpdatedAt = time.Now().UTC()
	_, err := s.c.InsertOne(ctx, a)
	return err
}
