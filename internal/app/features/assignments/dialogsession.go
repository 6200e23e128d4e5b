// internal/app/features/assignments/dialogsession.go
package assignments

import (
	"net/http"

	"github.com/dalemusser/orgdesk/internal/app/lifecycle"
	"github.com/dalemusser/orgdesk/internal/app/system/auth"
)

// Each action kind ("decline", "delete") gets its own signed dialog cookie,
// so an abandoned confirm page cannot leave a stale selection behind for a
// different action.
func dialogCookieName(action string) string {
	return "orgdesk-dialog-" + action
}

// loadDialog restores the dialog machine for one action from its cookie.
// A missing or corrupt cookie yields an Idle machine.
func loadDialog(r *http.Request, action string) lifecycle.Dialog {
	if auth.Codec == nil {
		return lifecycle.Dialog{}
	}
	c, err := r.Cookie(dialogCookieName(action))
	if err != nil {
		return lifecycle.Dialog{}
	}
	var snap lifecycle.DialogSnapshot
	if err := auth.Codec.Decode(dialogCookieName(action), c.Value, &snap); err != nil {
		return lifecycle.Dialog{}
	}
	return lifecycle.RestoreDialog(snap)
}

// saveDialog persists the machine back to its cookie. Encode errors degrade
// to a fresh Idle machine on the next request.
func saveDialog(w http.ResponseWriter, r *http.Request, action string, d *lifecycle.Dialog) {
	if auth.Codec == nil {
		return
	}
	name := dialogCookieName(action)

	snap := d.Snapshot()
	if snap.State == lifecycle.DialogIdle {
		http.SetCookie(w, &http.Cookie{Name: name, Path: "/", MaxAge: -1})
		return
	}

	encoded, err := auth.Codec.Encode(name, snap)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   600,
	})
}
