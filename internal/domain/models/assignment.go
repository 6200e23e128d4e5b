// internal/domain/models/assignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Assignment status values. The set is fixed; the lifecycle orchestrator is the
// only writer of APPROVED and DECLINED.
const (
	AssignmentPending  = "PENDING"
	AssignmentApproved = "APPROVED"
	AssignmentDeclined = "DECLINED"
)

// OrganizationAssignment links a person (by email) to a business organization.
// The same email may appear in more than one assignment document over time; the
// email is not unique across organizations.
type OrganizationAssignment struct {
	ID                     primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Email                  string              `bson:"email" json:"email"`
	BusinessOrganizationID *primitive.ObjectID `bson:"business_organization_id,omitempty" json:"business_organization_id,omitempty"`
	Status                 string              `bson:"status" json:"status"` // PENDING | APPROVED | DECLINED
	RoleID                 *primitive.ObjectID `bson:"role_id,omitempty" json:"role_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// AssignmentView is an OrganizationAssignment with the read-only projections
// joined in by the store's aggregation ($lookup). The linked fields are never
// written directly.
type AssignmentView struct {
	OrganizationAssignment `bson:",inline"`

	OrganizationName string `bson:"organization_name" json:"organization_name"`
	PersonaEmail     string `bson:"persona_email" json:"persona_email"`
}
