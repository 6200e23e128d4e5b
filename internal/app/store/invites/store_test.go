package invitestore_test

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	invitestore "github.com/dalemusser/orgdesk/internal/app/store/invites"
	"github.com/dalemusser/orgdesk/internal/testutil"
)

func TestCreate_ReturnsCodeAndToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := invitestore.New(db, 0)
	res, err := store.Create(ctx, primitive.NewObjectID(), primitive.NewObjectID(), "user@test.com")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(res.Code) != 6 {
		t.Errorf("code length: got %d, want 6", len(res.Code))
	}
	if res.Token == "" {
		t.Error("expected non-empty token")
	}
}

func TestCreate_SupersedesPreviousInvite(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := invitestore.New(db, time.Hour)
	assignmentID := primitive.NewObjectID()
	orgID := primitive.NewObjectID()

	first, err := store.Create(ctx, assignmentID, orgID, "user@test.com")
	if err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	if _, err := store.Create(ctx, assignmentID, orgID, "user@test.com"); err != nil {
		t.Fatalf("second Create failed: %v", err)
	}

	// The first token must be dead once a replacement exists.
	if _, err := store.AcceptToken(ctx, first.Token); !errors.Is(err, invitestore.ErrNotFound) {
		t.Errorf("expected ErrNotFound for superseded token, got %v", err)
	}
}

func TestAcceptToken_SingleUse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := invitestore.New(db, time.Hour)
	assignmentID := primitive.NewObjectID()
	res, err := store.Create(ctx, assignmentID, primitive.NewObjectID(), "user@test.com")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	inv, err := store.AcceptToken(ctx, res.Token)
	if err != nil {
		t.Fatalf("AcceptToken failed: %v", err)
	}
	if inv.AssignmentID != assignmentID {
		t.Error("invite points at wrong assignment")
	}

	if _, err := store.AcceptToken(ctx, res.Token); !errors.Is(err, invitestore.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second redeem, got %v", err)
	}
}

func TestAcceptCode_HappyPath(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := invitestore.New(db, time.Hour)
	res, err := store.Create(ctx, primitive.NewObjectID(), primitive.NewObjectID(), "User@Test.com")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// The stored email is normalized; lookup folds too.
	inv, err := store.AcceptCode(ctx, "user@TEST.com", res.Code)
	if err != nil {
		t.Fatalf("AcceptCode failed: %v", err)
	}
	if inv.Email != "user@test.com" {
		t.Errorf("email: got %q, want %q", inv.Email, "user@test.com")
	}

	// Single use.
	if _, err := store.AcceptCode(ctx, "user@test.com", res.Code); !errors.Is(err, invitestore.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second redeem, got %v", err)
	}
}

func TestAcceptCode_WrongCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := invitestore.New(db, time.Hour)
	res, err := store.Create(ctx, primitive.NewObjectID(), primitive.NewObjectID(), "user@test.com")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := store.AcceptCode(ctx, "user@test.com", "000000"); !errors.Is(err, invitestore.ErrInvalidCode) {
		t.Errorf("expected ErrInvalidCode, got %v", err)
	}

	// The right code still works after one failure.
	if _, err := store.AcceptCode(ctx, "user@test.com", res.Code); err != nil {
		t.Errorf("AcceptCode after one failure failed: %v", err)
	}
}

func TestAcceptCode_TooManyAttempts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := invitestore.New(db, time.Hour)
	res, err := store.Create(ctx, primitive.NewObjectID(), primitive.NewObjectID(), "user@test.com")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for i := 0; i < invitestore.MaxAcceptAttempts; i++ {
		if _, err := store.AcceptCode(ctx, "user@test.com", "000000"); !errors.Is(err, invitestore.ErrInvalidCode) {
			t.Fatalf("attempt %d: expected ErrInvalidCode, got %v", i+1, err)
		}
	}

	// Even the correct code is refused once the cap is hit.
	if _, err := store.AcceptCode(ctx, "user@test.com", res.Code); !errors.Is(err, invitestore.ErrTooManyAttempts) {
		t.Errorf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAcceptCode_NoInvite(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := invitestore.New(db, time.Hour)
	if _, err := store.AcceptCode(ctx, "nobody@test.com", "123456"); !errors.Is(err, invitestore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteByAssignment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := invitestore.New(db, time.Hour)
	assignmentID := primitive.NewObjectID()
	res, err := store.Create(ctx, assignmentID, primitive.NewObjectID(), "user@test.com")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.DeleteByAssignment(ctx, assignmentID); err != nil {
		t.Fatalf("DeleteByAssignment failed: %v", err)
	}
	if _, err := store.AcceptToken(ctx, res.Token); !errors.Is(err, invitestore.ErrNotFound) {
		t.Errorf("expected ErrNotFound after cleanup, got %v", err)
	}
}
