// internal/app/store/clients/clientstore.go
package clientstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/orgdesk/internal/app/system/normalize"
	"github.com/dalemusser/orgdesk/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("clients")}
}

// ErrDuplicateEmail is returned when creating a client whose email exists.
var ErrDuplicateEmail = errors.New("a client with this email already exists")

// GetByID loads a client by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Client, error) {
	var cl models.Client
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&cl); err != nil {
		return nil, err
	}
	return &cl, nil
}

// GetByEmail looks up a client by case-insensitive email.
// Returns mongo.ErrNoDocuments if not found. When more than one document
// matches, the first as returned by the store wins.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	var cl models.Client
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&cl); err != nil {
		return nil, err
	}
	return &cl, nil
}

// GetByEmailFresh is GetByEmail reading from the primary, bypassing secondary
// read caching. Re-invite uses it because another flow may have attached the
// client to an organization since the screen's roster was loaded.
func (s *Store) GetByEmailFresh(ctx context.Context, email string) (*models.Client, error) {
	primary := s.c.Database().Collection(s.c.Name(), options.Collection().SetReadPreference(readpref.Primary()))
	var cl models.Client
	if err := primary.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&cl); err != nil {
		return nil, err
	}
	return &cl, nil
}

// Create inserts a new client after normalizing the email.
func (s *Store) Create(ctx context.Context, cl models.Client) (models.Client, error) {
	now := time.Now().UTC()
	cl.ID = primitive.NewObjectID()
	cl.Email = normalize.Email(cl.Email)
	cl.CreatedAt = now
	cl.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, cl); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Client{}, ErrDuplicateEmail
		}
		return models.Client{}, err
	}
	return cl, nil
}

// SetOrganization points the client at an organization. A nil orgID stores an
// explicit empty membership, the same shape ClearOrganization writes.
func (s *Store) SetOrganization(ctx context.Context, id primitive.ObjectID, orgID *primitive.ObjectID) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	unset := bson.M{}
	if orgID != nil {
		set["organization_id"] = *orgID
	} else {
		unset["organization_id"] = ""
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// ClearOrganization detaches the client from its organization and drops the
// org-admin flag. Issued as one update so the pair cannot diverge.
func (s *Store) ClearOrganization(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"is_org_admin": false,
			"updated_at":   time.Now().UTC(),
		},
		"$unset": bson.M{"organization_id": ""},
	})
	return err
}
