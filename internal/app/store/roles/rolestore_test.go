package rolestore_test

import (
	"testing"

	rolestore "github.com/dalemusser/orgdesk/internal/app/store/roles"
	"github.com/dalemusser/orgdesk/internal/testutil"
)

func TestEnsureDefaults_SeedsAndIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := rolestore.New(db)
	if err := store.EnsureDefaults(ctx); err != nil {
		t.Fatalf("EnsureDefaults failed: %v", err)
	}
	if err := store.EnsureDefaults(ctx); err != nil {
		t.Fatalf("second EnsureDefaults failed: %v", err)
	}

	roles, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(roles) != 2 {
		t.Fatalf("expected 2 default roles, got %d", len(roles))
	}

	slugs := map[string]bool{}
	for _, r := range roles {
		slugs[r.Slug] = true
	}
	if !slugs["organization-admin"] || !slugs["member"] {
		t.Errorf("missing default role slugs; got %v", slugs)
	}
}

func TestNameOf(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := rolestore.New(db)
	if err := store.EnsureDefaults(ctx); err != nil {
		t.Fatalf("EnsureDefaults failed: %v", err)
	}

	roles, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	for _, r := range roles {
		id := r.ID
		if got := store.NameOf(ctx, &id); got != r.Name {
			t.Errorf("NameOf(%s): got %q, want %q", r.Slug, got, r.Name)
		}
	}

	// Unassigned roles render as blank, not as an error.
	if got := store.NameOf(ctx, nil); got != "" {
		t.Errorf("NameOf(nil): got %q, want empty", got)
	}
}
