package domain

// OpenPolicy is the per-room configuration controlling whether an incoming
// event creates a closed chat window.
type OpenPolicy int

const (
	// OpenOnMessage opens the window for any non-history message.
	OpenOnMessage OpenPolicy = iota
	// OpenOnActivity opens the window for any message event, history
	// replay included.
	OpenOnActivity
	// OpenOnImportantMessage opens the window only for important messages.
	OpenOnImportantMessage
)

// ParseOpenPolicy maps the persisted policy string to its value. Unknown
// strings fall back to the OpenOnMessage default.
func ParseOpenPolicy(s string) OpenPolicy {
	switch s {
	case "OPEN_ON_ACTIVITY":
		return OpenOnActivity
	case "OPEN_ON_IMPORTANT_MESSAGE":
		return OpenOnImportantMessage
	default:
		return OpenOnMessage
	}
}

func (p OpenPolicy) String() string {
	switch p {
	case OpenOnActivity:
		return "OPEN_ON_ACTIVITY"
	case OpenOnImportantMessage:
		return "OPEN_ON_IMPORTANT_MESSAGE"
	default:
		return "OPEN_ON_MESSAGE"
	}
}

// ShouldOpen decides whether a closed chat window is created for a message
// event. Important messages always open; otherwise the policy applies.
func (p OpenPolicy) ShouldOpen(history, important bool) bool {
	if important {
		return true
	}
	switch p {
	case OpenOnActivity:
		return true
	case OpenOnImportantMessage:
		return false
	default:
		return !history
	}
}
