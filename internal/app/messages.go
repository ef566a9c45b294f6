package app

import (
	"fmt"

	"github.com/dkeye/Conclave/internal/domain"
)

// User-facing strings live here so the manager code stays readable and the
// wording is easy to review in one place.

const (
	titleWarning = "Warning"
	titleError   = "Error"
)

func msgNotConnected(room domain.RoomName) string {
	return fmt.Sprintf("Chat room %s is not connected.", room)
}

func msgCreateRoomFailed(provider string) string {
	return fmt.Sprintf("Failed to create a chat room on %s.", provider)
}

func msgInvitationJoinFailed(room domain.RoomName) string {
	return fmt.Sprintf("Failed to join the invited chat room %s.", room)
}

// joinFailureMessage maps a join outcome to the popup text. JoinSuccess and
// JoinAuthFailed never reach a popup; callers filter them first.
func joinFailureMessage(res JoinResult, room domain.RoomName, reason string) string {
	var body string
	switch res {
	case JoinNotRegistered:
		body = fmt.Sprintf("Chat room %s is not connected.", room)
	case JoinAlreadySubscribed:
		body = fmt.Sprintf("You have already joined chat room %s.", room)
	case JoinRegistrationRequired:
		body = fmt.Sprintf("Registration with the server is required to join chat room %s.", room)
	default:
		body = fmt.Sprintf("Failed to join chat room %s.", room)
	}
	if reason != "" {
		body += " Error was: " + reason
	}
	return body
}

// deliveryFailureMessage maps a delivery failure code to the inline error
// text shown in the chat window.
func deliveryFailureMessage(code domain.ErrorCode, to, reason string) string {
	var body string
	switch code {
	case domain.CodeOfflineMessagesNotSupported:
		body = fmt.Sprintf("%s does not support offline messages.", to)
	case domain.CodeNetworkFailure:
		body = "The message was not delivered due to a network failure."
	case domain.CodeProviderNotRegistered:
		body = "The message could not be sent because of a connection problem."
	case domain.CodeInternalError:
		body = "An internal error occurred while sending the message."
	case domain.CodeForbidden:
		body = "You are not allowed to send messages in this chat room."
	case domain.CodeUnsupportedOperation:
		body = "This operation is not supported by the recipient."
	default:
		body = "The message could not be delivered due to an unknown error."
	}
	if reason != "" {
		body += " Error was: " + reason
	}
	return body
}
