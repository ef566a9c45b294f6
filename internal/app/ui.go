package app

import "github.com/dkeye/Conclave/internal/core"

// Severity of a user-facing alert.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// InvitationPrompt is handed to the UI when a room invitation arrives. The
// dialog is modeless; the user answers through one of the callbacks, or
// never. An ignored invitation is simply dropped.
type InvitationPrompt struct {
	Inviter  string
	RoomName string
	Reason   string

	// Accept joins the target room. Deliberate user action, runs the join
	// synchronously with respect to the caller.
	Accept func()
	// Reject forwards the reason to the protocol layer.
	Reject func(reason string)
}

// UI is the window-manager collaborator of the conference manager. All
// calls arrive on the dispatcher goroutine; presentation is out of scope
// here.
type UI interface {
	// CreateRenderer opens a chat window for the wrapper and returns the
	// renderer the session pushes updates through.
	CreateRenderer(w *core.RoomWrapper) core.SessionRenderer
	CreateAdHocRenderer(w *core.AdHocRoomWrapper) core.SessionRenderer
	// CloseWindow closes the chat window of a disposed session.
	CloseWindow(w *core.RoomWrapper)
	CloseAdHocWindow(w *core.AdHocRoomWrapper)

	// Alert shows a non-blocking popup.
	Alert(severity Severity, title, body string)
	PresentInvitation(prompt InvitationPrompt)
}
