// internal/domain/models/client.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Client is a person's storefront account record.
//
// OrganizationID is the organization the client currently belongs to, or nil.
// An APPROVED assignment for this client's email implies OrganizationID matches
// that assignment's organization; the lifecycle orchestrator keeps the two in step.
type Client struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Email          string              `bson:"email" json:"email"`
	FullName       string              `bson:"full_name,omitempty" json:"full_name,omitempty"`
	OrganizationID *primitive.ObjectID `bson:"organization_id,omitempty" json:"organization_id,omitempty"`
	IsOrgAdmin     bool                `bson:"is_org_admin" json:"is_org_admin"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
