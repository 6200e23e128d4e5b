package flash_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/orgdesk/internal/app/lifecycle"
	"github.com/dalemusser/orgdesk/internal/app/system/flash"
)

const testKey = "test-session-key-must-be-32-chars-long"

// carry copies the cookies set by one response onto a fresh request, the way
// a browser would between redirects.
func carry(t *testing.T, rec *httptest.ResponseRecorder, target string) *http.Request {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestQueue_PushThenPop(t *testing.T) {
	q := flash.NewQueue(testKey, false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/organization/assignments/a1/approve", nil)
	q.Error(rec, req, "Unable to approve the join request.")
	q.Success(rec, req, "Join request approved.")

	rec2 := httptest.NewRecorder()
	toasts := q.Pop(rec2, carry(t, rec, "/organization"))
	if len(toasts) != 2 {
		t.Fatalf("expected 2 toasts, got %d", len(toasts))
	}
	if toasts[0].Kind != "error" || toasts[1].Kind != "success" {
		t.Errorf("kinds: got %q/%q", toasts[0].Kind, toasts[1].Kind)
	}
	if toasts[0].DurationMS != lifecycle.ToastDuration.Milliseconds() {
		t.Errorf("DurationMS: got %d", toasts[0].DurationMS)
	}

	// Drained: a second pop with the refreshed cookie is empty.
	rec3 := httptest.NewRecorder()
	again := q.Pop(rec3, carry(t, rec2, "/organization"))
	if len(again) != 0 {
		t.Errorf("expected drained queue, got %d toasts", len(again))
	}
}

func TestQueue_PopEmpty(t *testing.T) {
	q := flash.NewQueue(testKey, false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/organization", nil)
	if toasts := q.Pop(rec, req); len(toasts) != 0 {
		t.Errorf("expected no toasts, got %d", len(toasts))
	}
}

func TestSink_MapsOrchestratorToasts(t *testing.T) {
	q := flash.NewQueue(testKey, false)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/organization/assignments/a1/reinvite", nil)

	sink := flash.Sink{Queue: q, W: rec, R: req}
	sink.ShowToast(lifecycle.Toast{
		Kind:     lifecycle.ToastSuccess,
		Message:  lifecycle.MsgReInviteSent,
		Duration: lifecycle.ToastDuration,
		Position: lifecycle.ToastPosition,
	})
	// No Kind set: the sink must fall back to error styling.
	sink.ShowToast(lifecycle.Toast{
		Message:  lifecycle.MsgBelongsElsewhere,
		Duration: lifecycle.ToastDuration,
		Position: lifecycle.ToastPosition,
	})

	rec2 := httptest.NewRecorder()
	toasts := q.Pop(rec2, carry(t, rec, "/organization"))
	if len(toasts) != 2 {
		t.Fatalf("expected 2 toasts, got %d", len(toasts))
	}
	if toasts[0].Kind != "success" {
		t.Errorf("re-invitation toast kind: got %q, want success", toasts[0].Kind)
	}
	if toasts[1].Kind != "error" {
		t.Errorf("conflict toast kind: got %q, want error", toasts[1].Kind)
	}
	if toasts[1].Position != lifecycle.ToastPosition {
		t.Errorf("Position: got %q, want %q", toasts[1].Position, lifecycle.ToastPosition)
	}
}
