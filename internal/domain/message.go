package domain

import (
	"time"

	"github.com/google/uuid"
)

// MessageKind maps a room message event subtype to its rendering category.
type MessageKind int

const (
	KindConversation MessageKind = iota
	KindAction
	// KindSystem does not exist for ad-hoc rooms.
	KindSystem
)

func (k MessageKind) String() string {
	switch k {
	case KindAction:
		return "action"
	case KindSystem:
		return "system"
	default:
		return "conversation"
	}
}

const ContentTypePlain = "text/plain"

// Message is one chat room message with its wire-level metadata.
type Message struct {
	UID         string
	Content     string
	ContentType string
	Timestamp   time.Time
}

// NewMessage builds an outgoing plain-text message with a fresh UID.
func NewMessage(content string) Message {
	return Message{
		UID:         uuid.NewString(),
		Content:     content,
		ContentType: ContentTypePlain,
		Timestamp:   time.Now(),
	}
}
