package core

import (
	"time"

	"github.com/dkeye/Conclave/internal/domain"
)

// SessionRenderer is the narrow surface the core pushes UI updates
// through. Implemented by the windowing layer; everything behind it is out
// of scope here. All calls arrive on the dispatcher goroutine.
type SessionRenderer interface {
	AddChatContact(c *ChatContact)
	RemoveChatContact(c *ChatContact)
	RemoveAllChatContacts()
	// UpdateChatContactStatus shows a status line for a contact ("X has
	// joined", "X was kicked", ...).
	UpdateChatContactStatus(c *ChatContact, statusMessage string)
	SetChatSubject(subject string)

	// AddMessage renders a transcript line.
	AddMessage(from string, ts time.Time, kind domain.MessageKind, content, contentType, uid string)
	// AddErrorMessage renders an inline delivery-error line attributed to
	// the intended recipient.
	AddErrorMessage(to, errorMessage string)
}
