package field

// State describes where a resource currently is in its relationship
// state machine.
type State int

const (
	// StateIdle means the resource has no active relationships.
	StateIdle State = iota
	// StateActive marks a transient mid-operation phase (an adapter is
	// executing the resource right now).
	StateActive
	// StateShared means the resource holds one or more ordinary attractions.
	StateShared
	// StateLocked means one other resource holds an exclusive lock on this one.
	StateLocked
	// StateChatting is a symmetric direct-dialogue pairing, mutually
	// exclusive with every other bond type.
	StateChatting
	// StatePulling means this resource may read from its attraction target
	// but the target cannot push back; the bond is read-only on this side.
	StatePulling
)

// String returns the state name in upper case.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateActive:
		return "ACTIVE"
	case StateShared:
		return "SHARED"
	case StateLocked:
		return "LOCKED"
	case StateChatting:
		return "CHATTING"
	case StatePulling:
		return "PULLING"
	default:
		return "UNKNOWN"
	}
}
