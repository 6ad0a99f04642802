package session

// State is the lifecycle position of a Controller.
type State int

const (
	// StateUnresolved is the initial state, before Start has read the store.
	StateUnresolved State = iota
	// StateAuthenticated means a decodable token is held.
	StateAuthenticated
	// StateAnonymous means no token, or a token that failed to decode.
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// IsResolved is true once the startup check has completed.
func (s State) IsResolved() bool {
	return s == StateAuthenticated || s == StateAnonymous
}
