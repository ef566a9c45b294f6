package app

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Conclave/internal/config"
	"github.com/dkeye/Conclave/internal/core"
	"github.com/dkeye/Conclave/internal/domain"
	"github.com/dkeye/Conclave/internal/protocol"
)

// JoinResult tags the outcome of a background join so the dispatcher-side
// completion can decide what, if anything, to show the user.
type JoinResult int

const (
	JoinSuccess JoinResult = iota
	JoinAuthFailed
	JoinRegistrationRequired
	JoinNotRegistered
	JoinAlreadySubscribed
	JoinUnknown
)

func joinResultOf(err error) JoinResult {
	if err == nil {
		return JoinSuccess
	}
	switch domain.CodeOf(err) {
	case domain.CodeAuthenticationFailed:
		return JoinAuthFailed
	case domain.CodeRegistrationRequired:
		return JoinRegistrationRequired
	case domain.CodeProviderNotRegistered:
		return JoinNotRegistered
	case domain.CodeSubscriptionAlreadyExists:
		return JoinAlreadySubscribed
	default:
		return JoinUnknown
	}
}

// runJoin performs the blocking join off the dispatcher and posts the
// completion back onto it. Callers spawn it with go.
func (m *Manager) runJoin(w *core.RoomWrapper, room protocol.Room, nickname string, password []byte) {
	var err error
	if nickname != "" {
		err = room.JoinAs(nickname, password)
	} else {
		err = room.Join()
	}
	res := joinResultOf(err)
	reason := ""
	if err != nil {
		reason = err.Error()
		log.Warn().
			Str("module", "app.manager").
			Str("room", string(w.ID())).
			Err(err).
			Msg("join failed")
	}

	m.disp.Post(func() { m.joinDone(w, res, reason) })
}

// joinDone finishes a join on the dispatcher. The persisted disposition
// flips to online regardless of the outcome: the user asked for the room,
// and the next synchronization retries it.
func (m *Manager) joinDone(w *core.RoomWrapper, res JoinResult, reason string) {
	if w.Persistent() {
		m.store.SetDisposition(w.Provider().Provider().ID(), w.ID(), config.StatusOnline)
	}
	switch res {
	case JoinSuccess, JoinAuthFailed:
		// Success needs no popup. Auth failures are surfaced by the
		// protocol layer's own credential prompt, not by us.
	default:
		m.ui.Alert(SeverityError, titleError, joinFailureMessage(res, w.Name(), reason))
	}
}

// runAdHocJoin is the ad-hoc counterpart. Ad-hoc rooms take no nickname or
// password and are never persisted.
func (m *Manager) runAdHocJoin(w *core.AdHocRoomWrapper, room protocol.AdHocRoom) {
	err := room.Join()
	res := joinResultOf(err)
	reason := ""
	if err != nil {
		reason = err.Error()
		log.Warn().
			Str("module", "app.manager").
			Str("room", string(w.ID())).
			Err(err).
			Msg("ad-hoc join failed")
	}

	m.disp.Post(func() {
		switch res {
		case JoinSuccess, JoinAuthFailed:
		default:
			m.ui.Alert(SeverityError, titleError, joinFailureMessage(res, w.Name(), reason))
		}
	})
}
