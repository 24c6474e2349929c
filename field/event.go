package field

import (
	"time"

	"github.com/google/uuid"
)

// EventKind identifies the category of a field event. Handlers are registered
// per kind; emission never fans out across kinds.
type EventKind int

const (
	// EventResourceAdded fires after a resource joins a field.
	EventResourceAdded EventKind = iota
	// EventResourceRemoved fires after a resource leaves a field.
	EventResourceRemoved
	// EventAttracted fires after a successful attraction between two resources.
	EventAttracted
	// EventRepelled fires after a repulsion is recorded between two resources.
	EventRepelled
	// EventLocked fires after a resource is locked by a holder.
	EventLocked
	// EventUnlocked fires after a resource's lock is released.
	EventUnlocked
	// EventChatEnabled fires after two resources enter a chat pairing.
	EventChatEnabled
	// EventPullEnabled fires after a pull bond is registered.
	EventPullEnabled
	// EventFieldDeactivated fires once when a field is torn down.
	EventFieldDeactivated
)

// String returns a stable snake_case name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventResourceAdded:
		return "resource_added"
	case EventResourceRemoved:
		return "resource_removed"
	case EventAttracted:
		return "attracted"
	case EventRepelled:
		return "repelled"
	case EventLocked:
		return "locked"
	case EventUnlocked:
		return "unlocked"
	case EventChatEnabled:
		return "chat_enabled"
	case EventPullEnabled:
		return "pull_enabled"
	case EventFieldDeactivated:
		return "field_deactivated"
	default:
		return "unknown"
	}
}

// Event is the immutable record delivered to handlers. Source and Target are
// resource names; Target is empty for single-resource and field-level events.
type Event struct {
	ID        string    `json:"id"`
	Kind      EventKind `json:"kind"`
	Field     string    `json:"field"`
	Source    string    `json:"source,omitempty"`
	Target    string    `json:"target,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Handler receives events synchronously, in registration order. A handler
// must not block; long work belongs on the caller's side of a channel.
type Handler func(Event)

func newEvent(kind EventKind, fieldName, source, target string) Event {
	return Event{
		ID:        uuid.NewString(),
		Kind:      kind,
		Field:     fieldName,
		Source:    source,
		Target:    target,
		Timestamp: time.Now().UTC(),
	}
}

// OnEvent registers a handler for the exact event kind on this field.
// Handlers registered on an ancestor field also see events emitted by
// descendant fields, after the descendant's own handlers have run.
func (f *Field) OnEvent(kind EventKind, handler Handler) {
	if handler == nil {
		return
	}
	f.handlersMu.Lock()
	f.handlers[kind] = append(f.handlers[kind], handler)
	f.handlersMu.Unlock()
}

// emit dispatches to local handlers first, then walks up to the parent.
// It is called outside the field's main mutex so handlers may safely call
// back into the field.
func (f *Field) emit(ev Event) {
	f.handlersMu.RLock()
	local := f.handlers[ev.Kind]
	f.handlersMu.RUnlock()

	for _, h := range local {
		h(ev)
	}
	if f.parent != nil {
		f.parent.emit(ev)
	}
}
