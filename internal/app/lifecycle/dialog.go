// internal/app/lifecycle/dialog.go
package lifecycle

// DialogState is the explicit state of one confirmation dialog. A single
// machine per action replaces independent open/loading booleans, so impossible
// combinations (loading while closed, confirming with no selection) cannot be
// represented.
type DialogState int

const (
	// DialogIdle: nothing selected, nothing in flight.
	DialogIdle DialogState = iota
	// DialogConfirmPending: an assignment is selected and the confirmation
	// dialog is open.
	DialogConfirmPending
	// DialogLoading: the operation is in flight. Closing the dialog in this
	// state only resets local state; it does not abort the remote call.
	DialogLoading
	// DialogErrored: the operation failed; the error message is held for
	// display. The selection is already cleared.
	DialogErrored
)

func (s DialogState) String() string {
	switch s {
	case DialogIdle:
		return "idle"
	case DialogConfirmPending:
		return "confirm_pending"
	case DialogLoading:
		return "loading"
	case DialogErrored:
		return "errored"
	}
	return "unknown"
}

// Dialog is the confirmation dialog state machine for one action type.
// Illegal events are no-ops that return false and leave the machine unchanged.
type Dialog struct {
	state    DialogState
	selected string
	message  string
}

// State returns the current state.
func (d *Dialog) State() DialogState { return d.state }

// Selected returns the selected assignment id, empty outside ConfirmPending
// and Loading.
func (d *Dialog) Selected() string { return d.selected }

// Message returns the display message held in Errored.
func (d *Dialog) Message() string { return d.message }

// Select opens the confirmation dialog for the given assignment.
// Valid only from Idle.
func (d *Dialog) Select(assignmentID string) bool {
	if d.state != DialogIdle || assignmentID == "" {
		return false
	}
	d.state = DialogConfirmPending
	d.selected = assignmentID
	d.message = ""
	return true
}

// Confirm moves the dialog into Loading. Valid only from ConfirmPending.
func (d *Dialog) Confirm() bool {
	if d.state != DialogConfirmPending {
		return false
	}
	d.state = DialogLoading
	return true
}

// Settle ends the in-flight operation. The selection is cleared on both
// outcomes: a failure must not re-arm the dialog with the same selection.
func (d *Dialog) Settle(errMessage string) bool {
	if d.state != DialogLoading {
		return false
	}
	d.selected = ""
	if errMessage != "" {
		d.state = DialogErrored
		d.message = errMessage
		return true
	}
	d.state = DialogIdle
	d.message = ""
	return true
}

// DialogSnapshot is the serializable form of a Dialog, used to carry the
// machine across requests in a session.
type DialogSnapshot struct {
	State    DialogState
	Selected string
	Message  string
}

// Snapshot captures the current machine state.
func (d *Dialog) Snapshot() DialogSnapshot {
	return DialogSnapshot{State: d.state, Selected: d.selected, Message: d.message}
}

// RestoreDialog rebuilds a Dialog from a snapshot. An out-of-range state or a
// selection-less ConfirmPending/Loading snapshot yields an Idle machine.
func RestoreDialog(s DialogSnapshot) Dialog {
	if s.State < DialogIdle || s.State > DialogErrored {
		return Dialog{}
	}
	if (s.State == DialogConfirmPending || s.State == DialogLoading) && s.Selected == "" {
		return Dialog{}
	}
	return Dialog{state: s.State, selected: s.Selected, message: s.Message}
}

// Close dismisses the dialog, resetting to Idle. Closing while Loading only
// resets local state; the remote call keeps running and its Settle then finds
// the machine already Idle and is a no-op.
func (d *Dialog) Close() bool {
	if d.state == DialogIdle {
		return false
	}
	d.state = DialogIdle
	d.selected = ""
	d.message = ""
	return true
}
