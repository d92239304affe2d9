package importer

import "fmt"

// The popup flow is a small finite state machine. States and events
// are closed enums and every legal transition lives in one table, so
// an impossible jump is an error instead of a silently weird UI.

type State string

const (
	StateIdle           State = "idle"
	StateExtracting     State = "extracting"
	StatePreview        State = "preview"
	StateAuth           State = "auth"
	StateSelectSemester State = "select-semester"
	StateSaving         State = "saving"
	StateSuccess        State = "success"
	StateFailed         State = "failed"
)

type Event string

const (
	// user asked for the current page to be scraped
	EventExtract          Event = "extract"
	EventExtractSucceeded Event = "extract-succeeded"
	EventExtractFailed    Event = "extract-failed"
	// user confirmed the preview but holds no session
	EventNeedLogin Event = "need-login"
	// a stored session (or a fresh login) is available
	EventLoggedIn    Event = "logged-in"
	EventLoginFailed Event = "login-failed"
	// user picked a semester, the import request goes out
	EventImport       Event = "import"
	EventImportDone   Event = "import-done"
	EventImportFailed Event = "import-failed"
	// back to the start, keeping any stored session
	EventReset Event = "reset"
)

var transitions = map[State]map[Event]State{
	StateIdle: {
		EventExtract:  StateExtracting,
		EventLoggedIn: StateSelectSemester,
	},
	StateExtracting: {
		EventExtractSucceeded: StatePreview,
		EventExtractFailed:    StateFailed,
	},
	StatePreview: {
		EventNeedLogin: StateAuth,
		EventLoggedIn:  StateSelectSemester,
		EventReset:     StateIdle,
	},
	StateAuth: {
		EventLoggedIn: StateSelectSemester,
		// a failed login keeps the form on screen
		EventLoginFailed: StateAuth,
		EventReset:       StateIdle,
	},
	StateSelectSemester: {
		EventImport: StateSaving,
		EventReset:  StateIdle,
	},
	StateSaving: {
		EventImportDone:   StateSuccess,
		EventImportFailed: StateFailed,
	},
	StateSuccess: {
		EventReset: StateIdle,
	},
	StateFailed: {
		EventReset: StateIdle,
	},
}

// Session tracks where an import flow currently stands.
type Session struct {
	state State
}

func NewSession() *Session {
	return &Session{state: StateIdle}
}

func (s *Session) State() State {
	return s.state
}

// Apply moves the session along one transition. Illegal transitions
// leave the state untouched and return an error.
func (s *Session) Apply(event Event) (State, error) {
	next, ok := transitions[s.state][event]
	if !ok {
		return s.state, fmt.Errorf(
			"illegal transition: %q does not accept %q", s.state, event,
		)
	}
	s.state = next
	return next, nil
}
