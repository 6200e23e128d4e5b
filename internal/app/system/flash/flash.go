// internal/app/system/flash/flash.go

// Package flash is the toast channel: fire-and-forget display messages queued
// in the session cookie and drained on the next page render.
package flash

import (
	"encoding/gob"
	"net/http"
	"time"

	"github.com/dalemusser/orgdesk/internal/app/lifecycle"
	"github.com/gorilla/sessions"
)

const (
	sessionName = "orgdesk-flash"
	toastsKey   = "toasts"
)

// Toast is the serialized form of one queued message.
type Toast struct {
	Message    string
	DurationMS int64
	Position   string
	Kind       string // "success" | "error" | "warning"
}

func init() {
	gob.Register([]Toast{})
}

// Queue stores and drains toasts for the current browser session.
type Queue struct {
	store *sessions.CookieStore
}

// NewQueue builds a Queue from the session signing key.
func NewQueue(sessionKey string, secure bool) *Queue {
	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int((10 * time.Minute).Seconds()),
	}
	return &Queue{store: store}
}

// Push appends a toast. Errors saving the cookie are swallowed: the channel
// is fire-and-forget and a lost toast must not fail the operation behind it.
func (q *Queue) Push(w http.ResponseWriter, r *http.Request, t Toast) {
	sess, _ := q.store.Get(r, sessionName)
	queued, _ := sess.Values[toastsKey].([]Toast)
	sess.Values[toastsKey] = append(queued, t)
	_ = sess.Save(r, w)
}

// Error queues a display-ready error message.
func (q *Queue) Error(w http.ResponseWriter, r *http.Request, message string) {
	q.Push(w, r, Toast{
		Message:    message,
		DurationMS: lifecycle.ToastDuration.Milliseconds(),
		Position:   lifecycle.ToastPosition,
		Kind:       "error",
	})
}

// Success queues a display-ready success message.
func (q *Queue) Success(w http.ResponseWriter, r *http.Request, message string) {
	q.Push(w, r, Toast{
		Message:    message,
		DurationMS: lifecycle.ToastDuration.Milliseconds(),
		Position:   lifecycle.ToastPosition,
		Kind:       "success",
	})
}

// Pop drains and returns all queued toasts.
func (q *Queue) Pop(w http.ResponseWriter, r *http.Request) []Toast {
	sess, _ := q.store.Get(r, sessionName)
	queued, _ := sess.Values[toastsKey].([]Toast)
	if len(queued) > 0 {
		delete(sess.Values, toastsKey)
		_ = sess.Save(r, w)
	}
	return queued
}

// Sink adapts the Queue to the orchestrator's ToastSink for one request.
type Sink struct {
	Queue *Queue
	W     http.ResponseWriter
	R     *http.Request
}

// ShowToast queues the orchestrator's toast for the next render.
func (s Sink) ShowToast(t lifecycle.Toast) {
	kind := t.Kind
	if kind == "" {
		kind = lifecycle.ToastError
	}
	s.Queue.Push(s.W, s.R, Toast{
		Message:    t.Message,
		DurationMS: t.Duration.Milliseconds(),
		Position:   t.Position,
		Kind:       kind,
	})
}
