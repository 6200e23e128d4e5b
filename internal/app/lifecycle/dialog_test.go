package lifecycle_test

import (
	"testing"

	"github.com/dalemusser/orgdesk/internal/app/lifecycle"
)

func TestDialog_HappyPath(t *testing.T) {
	var d lifecycle.Dialog

	if d.State() != lifecycle.DialogIdle {
		t.Fatalf("initial state: got %v, want idle", d.State())
	}
	if !d.Select("a1") {
		t.Fatal("Select from Idle should succeed")
	}
	if d.State() != lifecycle.DialogConfirmPending || d.Selected() != "a1" {
		t.Fatalf("after Select: state=%v selected=%q", d.State(), d.Selected())
	}
	if !d.Confirm() {
		t.Fatal("Confirm from ConfirmPending should succeed")
	}
	if d.State() != lifecycle.DialogLoading {
		t.Fatalf("after Confirm: got %v, want loading", d.State())
	}
	if !d.Settle("") {
		t.Fatal("Settle from Loading should succeed")
	}
	if d.State() != lifecycle.DialogIdle || d.Selected() != "" {
		t.Fatalf("after ok Settle: state=%v selected=%q", d.State(), d.Selected())
	}
}

// A failed settle clears the selection; the dialog must not re-arm with the
// same assignment.
func TestDialog_SettleErrorClearsSelection(t *testing.T) {
	var d lifecycle.Dialog
	d.Select("a1")
	d.Confirm()

	if !d.Settle("transport down") {
		t.Fatal("Settle should succeed from Loading")
	}
	if d.State() != lifecycle.DialogErrored {
		t.Fatalf("state: got %v, want errored", d.State())
	}
	if d.Selected() != "" {
		t.Errorf("selection should be cleared on failure, got %q", d.Selected())
	}
	if d.Message() != "transport down" {
		t.Errorf("message: got %q", d.Message())
	}
	if !d.Close() {
		t.Fatal("Close from Errored should succeed")
	}
	if d.State() != lifecycle.DialogIdle || d.Message() != "" {
		t.Fatalf("after Close: state=%v message=%q", d.State(), d.Message())
	}
}

// Closing while Loading resets local state only; the in-flight call is not
// aborted, and its later Settle finds the machine Idle and is refused.
func TestDialog_CloseWhileLoading(t *testing.T) {
	var d lifecycle.Dialog
	d.Select("a1")
	d.Confirm()

	if !d.Close() {
		t.Fatal("Close from Loading should reset local state")
	}
	if d.State() != lifecycle.DialogIdle {
		t.Fatalf("state: got %v, want idle", d.State())
	}
	if d.Settle("late error") {
		t.Error("Settle after Close should be a no-op")
	}
	if d.State() != lifecycle.DialogIdle {
		t.Errorf("late settle must not change state, got %v", d.State())
	}
}

func TestDialog_IllegalTransitionsAreNoOps(t *testing.T) {
	var d lifecycle.Dialog

	if d.Confirm() {
		t.Error("Confirm from Idle should be refused")
	}
	if d.Settle("") {
		t.Error("Settle from Idle should be refused")
	}
	if d.Close() {
		t.Error("Close from Idle should be refused")
	}
	if d.Select("") {
		t.Error("Select with empty id should be refused")
	}

	d.Select("a1")
	if d.Select("a2") {
		t.Error("Select while ConfirmPending should be refused")
	}
	if d.Selected() != "a1" {
		t.Errorf("selection must be unchanged, got %q", d.Selected())
	}
}

func TestDialog_SnapshotRoundTrip(t *testing.T) {
	var d lifecycle.Dialog
	d.Select("a1")
	d.Confirm()

	restored := lifecycle.RestoreDialog(d.Snapshot())
	if restored.State() != lifecycle.DialogLoading {
		t.Errorf("state = %v, want Loading", restored.State())
	}
	if restored.Selected() != "a1" {
		t.Errorf("selected = %q, want a1", restored.Selected())
	}

	if !restored.Settle("boom") {
		t.Error("Settle on restored machine should be accepted")
	}
	if restored.State() != lifecycle.DialogErrored {
		t.Errorf("state = %v, want Errored", restored.State())
	}
}

func TestRestoreDialog_RejectsBadSnapshots(t *testing.T) {
	cases := []lifecycle.DialogSnapshot{
		{State: lifecycle.DialogState(99), Selected: "a1"},
		{State: lifecycle.DialogConfirmPending, Selected: ""},
		{State: lifecycle.DialogLoading, Selected: ""},
	}
	for _, c := range cases {
		d := lifecycle.RestoreDialog(c)
		if d.State() != lifecycle.DialogIdle {
			t.Errorf("snapshot %+v: state = %v, want Idle", c, d.State())
		}
	}
}
