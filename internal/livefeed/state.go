package livefeed

// State is the connection state of a Client.
type State int32

const (
	StateIdle State = iota
	StateNegotiating
	StateConnecting
	StateHandshakeSent
	StateJoined
	StateClosed
	StateReconnecting
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateNegotiating:
		return "negotiating"
	case StateConnecting:
		return "connecting"
	case StateHandshakeSent:
		return "handshake_sent"
	case StateJoined:
		return "joined"
	case StateClosed:
		return "closed"
	case StateReconnecting:
		return "reconnecting"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
