// internal/app/store/roles/rolestore.go
package rolestore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Role is a business role an assignment can carry within an organization.
type Role struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Slug      string             `bson:"slug" json:"slug"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Store wraps the "roles" collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("roles")}
}

// EnsureDefaults upserts the built-in role set. Safe to run at every startup.
func (s *Store) EnsureDefaults(ctx context.Context) error {
	defaults := []struct{ slug, name string }{
		{"organization-admin", "Organization admin"},
		{"member", "Member"},
	}
	for _, d := range defaults {
		_, err := s.c.UpdateOne(ctx,
			bson.M{"slug": d.slug},
			bson.M{
				"$set":         bson.M{"name": d.name},
				"$setOnInsert": bson.M{"created_at": time.Now().UTC()},
			},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// List returns all roles sorted by name.
func (s *Store) List(ctx context.Context) ([]Role, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	roles := []Role{}
	if err := cur.All(ctx, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// GetByID returns one role; mongo.ErrNoDocuments when absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (Role, error) {
	var role Role
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&role)
	return role, err
}

// NameOf returns the role's display name, degrading to "" when the role is
// missing.
func (s *Store) NameOf(ctx context.Context, id *primitive.ObjectID) string {
	if id == nil {
		return ""
	}
	role, err := s.GetByID(ctx, *id)
	if err != nil {
		return ""
	}
	return role.Name
}
