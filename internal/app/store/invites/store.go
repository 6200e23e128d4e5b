// internal/app/store/invites/store.go

// Package invitestore manages pending invitations: when an organization admin
// invites a user by email, the PENDING assignment is paired with a single-use
// invite carrying a short code and a magic accept link.
package invitestore

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/orgdesk/internal/app/system/normalize"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultExpiry is how long an invite stays accept-able.
	DefaultExpiry = 7 * 24 * time.Hour
	// BcryptCost for hashing invite codes.
	BcryptCost = 10
	// MaxAcceptAttempts is the maximum number of code attempts per invite.
	MaxAcceptAttempts = 5
)

var (
	// ErrNotFound is returned when an invite is not found or expired.
	ErrNotFound = errors.New("invite not found or expired")
	// ErrInvalidCode is returned when the code doesn't match.
	ErrInvalidCode = errors.New("invalid invite code")
	// ErrTooManyAttempts is returned when too many code attempts were made.
	ErrTooManyAttempts = errors.New("too many invite code attempts")
)

// Invite is one pending invitation.
type Invite struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	AssignmentID   primitive.ObjectID `bson:"assignment_id"`
	OrganizationID primitive.ObjectID `bson:"organization_id"`
	Email          string             `bson:"email"`
	CodeHash       string             `bson:"code_hash"`  // bcrypt hash of the short code
	Token          string             `bson:"token"`      // UUID for the accept link
	ExpiresAt      time.Time          `bson:"expires_at"` // TTL index field
	CreatedAt      time.Time          `bson:"created_at"`
	Attempts       int                `bson:"attempts"`
}

// Store manages invite records.
type Store struct {
	c      *mongo.Collection
	expiry time.Duration
}

// New creates a Store with the specified expiry. Non-positive expiry uses
// DefaultExpiry.
func New(db *mongo.Database, expiry time.Duration) *Store {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &Store{c: db.Collection("invites"), expiry: expiry}
}

// Expiry returns the invite lifetime.
func (s *Store) Expiry() time.Duration { return s.expiry }

// EnsureIndexes creates lookup indexes and the TTL index for auto-cleanup.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetName("idx_invites_expires_ttl").SetExpireAfterSeconds(0),
		},
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetName("idx_invites_token"),
		},
		{
			Keys:    bson.D{{Key: "assignment_id", Value: 1}},
			Options: options.Index().SetName("idx_invites_assignment"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// CreateResult carries the plain code (for the email body) and the token (for
// the accept link). Only the hash of the code is stored.
type CreateResult struct {
	Code  string
	Token string
}

// Create replaces any existing invite for the assignment with a fresh one.
func (s *Store) Create(ctx context.Context, assignmentID, organizationID primitive.ObjectID, email string) (*CreateResult, error) {
	now := time.Now()

	code := generateCode()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash invite code: %w", err)
	}
	token := uuid.NewString()

	// One live invite per assignment; re-inviting supersedes the old one.
	_, _ = s.c.DeleteMany(ctx, bson.M{"assignment_id": assignmentID})

	inv := Invite{
		ID:             primitive.NewObjectID(),
		AssignmentID:   assignmentID,
		OrganizationID: organizationID,
		Email:          normalize.Email(email),
		CodeHash:       string(hash),
		Token:          token,
		ExpiresAt:      now.Add(s.expiry),
		CreatedAt:      now,
	}
	if _, err := s.c.InsertOne(ctx, inv); err != nil {
		return nil, fmt.Errorf("insert invite: %w", err)
	}

	return &CreateResult{Code: code, Token: token}, nil
}

// AcceptToken redeems a magic-link token. The invite is deleted on success
// (single use).
func (s *Store) AcceptToken(ctx context.Context, token string) (*Invite, error) {
	var inv Invite
	err := s.c.FindOne(ctx, bson.M{
		"token":      token,
		"expires_at": bson.M{"$gt": time.Now()},
	}).Decode(&inv)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}

	_, _ = s.c.DeleteOne(ctx, bson.M{"_id": inv.ID})
	return &inv, nil
}

// AcceptCode redeems a typed short code for the given email. Attempts are
// counted whether or not the code matches; the invite is deleted on success.
func (s *Store) AcceptCode(ctx context.Context, email, code string) (*Invite, error) {
	var inv Invite
	err := s.c.FindOne(ctx, bson.M{
		"email":      normalize.Email(email),
		"expires_at": bson.M{"$gt": time.Now()},
	}).Decode(&inv)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if inv.Attempts >= MaxAcceptAttempts {
		return nil, ErrTooManyAttempts
	}
	_, _ = s.c.UpdateOne(ctx, bson.M{"_id": inv.ID}, bson.M{"$inc": bson.M{"attempts": 1}})

	if err := bcrypt.CompareHashAndPassword([]byte(inv.CodeHash), []byte(code)); err != nil {
		return nil, ErrInvalidCode
	}

	_, _ = s.c.DeleteOne(ctx, bson.M{"_id": inv.ID})
	return &inv, nil
}

// DeleteByAssignment removes any invite attached to the assignment.
func (s *Store) DeleteByAssignment(ctx context.Context, assignmentID primitive.ObjectID) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"assignment_id": assignmentID})
	return err
}

// generateCode generates a random 6-digit numeric code.
// Panics if the system's cryptographic random number generator fails.
func generateCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand.Read failed: " + err.Error())
	}
	n := int(b[0])<<24 | int(b[1])<<16 | int(b[2])<<8 | int(b[3])
	if n < 0 {
		n = -n
	}
	code := (n % 900000) + 100000
	return fmt.Sprintf("%06d", code)
}
