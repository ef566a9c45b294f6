package main

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Conclave/internal/app"
	"github.com/dkeye/Conclave/internal/core"
	"github.com/dkeye/Conclave/internal/domain"
)

// consoleUI renders chat windows as structured log lines. It stands in for
// the windowing layer in the demo binary; invitations are auto-accepted.
type consoleUI struct{}

func (u *consoleUI) CreateRenderer(w *core.RoomWrapper) core.SessionRenderer {
	log.Info().Str("room", string(w.Name())).Msg("chat window opened")
	return &consoleRenderer{room: string(w.Name())}
}

func (u *consoleUI) CreateAdHocRenderer(w *core.AdHocRoomWrapper) core.SessionRenderer {
	log.Info().Str("room", string(w.Name())).Msg("ad-hoc chat window opened")
	return &consoleRenderer{room: string(w.Name())}
}

func (u *consoleUI) CloseWindow(w *core.RoomWrapper) {
	log.Info().Str("room", string(w.Name())).Msg("chat window closed")
}

func (u *consoleUI) CloseAdHocWindow(w *core.AdHocRoomWrapper) {
	log.Info().Str("room", string(w.Name())).Msg("ad-hoc chat window closed")
}

func (u *consoleUI) Alert(severity app.Severity, title, body string) {
	evt := log.Warn()
	if severity == app.SeverityError {
		evt = log.Error()
	}
	evt.Str("title", title).Msg(body)
}

func (u *consoleUI) PresentInvitation(prompt app.InvitationPrompt) {
	log.Info().Str("room", prompt.RoomName).Str("inviter", prompt.Inviter).
		Str("reason", prompt.Reason).Msg("invitation received, accepting")
	prompt.Accept()
}

type consoleRenderer struct {
	room string
}

func (r *consoleRenderer) AddChatContact(c *core.ChatContact) {
	log.Info().Str("room", r.room).Str("contact", c.Name()).
		Stringer("role", c.Role()).Msg("contact added")
}

func (r *consoleRenderer) RemoveChatContact(c *core.ChatContact) {
	log.Info().Str("room", r.room).Str("contact", c.Name()).Msg("contact removed")
}

func (r *consoleRenderer) RemoveAllChatContacts() {
	log.Info().Str("room", r.room).Msg("contact list cleared")
}

func (r *consoleRenderer) UpdateChatContactStatus(c *core.ChatContact, statusMessage string) {
	log.Info().Str("room", r.room).Str("contact", c.Name()).Msg(statusMessage)
}

func (r *consoleRenderer) SetChatSubject(subject string) {
	log.Info().Str("room", r.room).Str("subject", subject).Msg("subject changed")
}

func (r *consoleRenderer) AddMessage(from string, ts time.Time, kind domain.MessageKind, content, contentType, uid string) {
	log.Info().Str("room", r.room).Str("from", from).Time("at", ts).
		Stringer("kind", kind).Msg(content)
}

func (r *consoleRenderer) AddErrorMessage(to, errorMessage string) {
	log.Error().Str("room", r.room).Str("to", to).Msg(errorMessage)
}
