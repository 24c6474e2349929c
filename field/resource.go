package field

import (
	"fmt"
	"sort"
	"sync"
)

// Resource is a named, stateful participant in a field: a model or a tool
// that can be attracted to, repelled from, locked by or paired with other
// resources. Identity is the name; two resources are the same participant
// iff their names match.
//
// All relationship mutation happens through the owning Field, which holds
// its internal lock across both sides of every pairwise update. The methods
// exported here are read-only accessors, safe for concurrent use by adapters
// while the field serializes writers.
type Resource struct {
	name     string
	strength Strength

	mu          sync.RWMutex
	state       State
	attractedTo map[string]*Resource
	repelledBy  map[string]*Resource
	lockHolder  *Resource
	current     *Field // non-owning back-reference, nil when standalone
}

// NewResource creates a standalone resource in state IDLE with no owning
// field. Strength defaults to Medium.
func NewResource(name string, optFns ...func(o *ResourceOptions)) *Resource {
	opts := ResourceOptions{Strength: Medium}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Resource{
		name:        name,
		strength:    opts.Strength,
		state:       StateIdle,
		attractedTo: make(map[string]*Resource),
		repelledBy:  make(map[string]*Resource),
	}
}

// ResourceOptions configures resource construction.
type ResourceOptions struct {
	Strength Strength
}

// Name returns the resource's unique name.
func (r *Resource) Name() string { return r.name }

// Strength returns the resource's attraction-strength tier.
func (r *Resource) Strength() Strength { return r.strength }

// State returns the resource's current state-machine state.
func (r *Resource) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Field returns the owning field, or nil for a standalone resource.
func (r *Resource) Field() *Field {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// LockHolder returns the resource currently holding an exclusive lock on
// this one, or nil when unlocked.
func (r *Resource) LockHolder() *Resource {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lockHolder
}

// AttractedTo returns a snapshot of the resources bonded to this one,
// sorted by name.
func (r *Resource) AttractedTo() []*Resource {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return snapshot(r.attractedTo)
}

// RepelledBy returns a snapshot of the resources this one is forbidden to
// bond with, sorted by name.
func (r *Resource) RepelledBy() []*Resource {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return snapshot(r.repelledBy)
}

// AttractedToName reports whether a bond with the named resource exists.
func (r *Resource) AttractedToName(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.attractedTo[name]
	return ok
}

// RepelledByName reports whether bonding with the named resource is forbidden.
func (r *Resource) RepelledByName(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.repelledBy[name]
	return ok
}

// String returns a diagnostic one-liner.
func (r *Resource) String() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return fmt.Sprintf("%s (strength=%s, state=%s)", r.name, r.strength, r.state)
}

func snapshot(m map[string]*Resource) []*Resource {
	out := make([]*Resource, 0, len(m))
	for _, r := range m {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// lockPair acquires both resource mutexes in name order so concurrent
// readers never observe a torn pairwise update.
func lockPair(a, b *Resource) func() {
	if a == b {
		a.mu.Lock()
		return a.mu.Unlock
	}
	first, second := a, b
	if second.name < first.name {
		first, second = second, first
	}
	first.mu.Lock()
	second.mu.Lock()
	return func() {
		second.mu.Unlock()
		first.mu.Unlock()
	}
}

// The unexported protocol below is only invoked by a Field while holding its
// internal lock, so pairwise invariants (symmetry, attraction/repulsion
// disjointness) hold at every observable point.

// attractTo bonds r and other symmetrically. Refused (false) when the pair
// is mutually repelled, when either side is locked by a third party, or when
// either side is in an exclusive pairing (CHATTING or PULLING).
func (r *Resource) attractTo(other *Resource) bool {
	unlock := lockPair(r, other)
	defer unlock()

	if _, repelled := r.repelledBy[other.name]; repelled {
		return false
	}
	if _, repelled := other.repelledBy[r.name]; repelled {
		return false
	}
	if r.state == StateLocked && r.lockHolder != other {
		return false
	}
	if other.state == StateLocked && other.lockHolder != r {
		return false
	}
	if r.state == StateChatting || r.state == StatePulling ||
		other.state == StateChatting || other.state == StatePulling {
		return false
	}

	r.attractedTo[other.name] = other
	other.attractedTo[r.name] = r
	if r.state == StateIdle {
		r.state = StateShared
	}
	if other.state == StateIdle {
		other.state = StateShared
	}
	return true
}

// repelFrom records a symmetric repulsion and tears down any existing bond.
// Repelling the holder of a lock also releases the lock, so a LOCKED
// resource never survives without its holder bonded.
func (r *Resource) repelFrom(other *Resource) {
	unlock := lockPair(r, other)
	defer unlock()

	r.repelledBy[other.name] = other
	other.repelledBy[r.name] = r

	delete(r.attractedTo, other.name)
	delete(other.attractedTo, r.name)

	if r.lockHolder == other {
		r.lockHolder = nil
		r.state = StateIdle
	}
	if other.lockHolder == r {
		other.lockHolder = nil
		other.state = StateIdle
	}

	r.settleLocked()
	other.settleLocked()
}

// settleLocked reverts a bond-carrying state to IDLE once the last bond is
// gone. Caller holds r.mu.
func (r *Resource) settleLocked() {
	if len(r.attractedTo) != 0 {
		return
	}
	switch r.state {
	case StateShared, StateChatting, StatePulling:
		r.state = StateIdle
	}
}

// lock acquires an exclusive hold on r for holder. Every currently attracted
// party other than the holder is repelled first, transitively tearing down
// bonds that would be invalid under the lock.
func (r *Resource) lock(holder *Resource) bool {
	r.mu.RLock()
	if r.state == StateLocked {
		r.mu.RUnlock()
		return false
	}
	others := make([]*Resource, 0, len(r.attractedTo))
	for _, o := range r.attractedTo {
		if o != holder {
			others = append(others, o)
		}
	}
	r.mu.RUnlock()

	for _, o := range others {
		r.repelFrom(o)
	}

	unlock := lockPair(r, holder)
	defer unlock()
	r.state = StateLocked
	r.lockHolder = holder
	return true
}

// unlockRelease releases the lock and performs the deliberate reset: any
// surviving attraction (at most the holder's) is detached without recording
// a repulsion, and the resource returns to IDLE. Callers re-attract as needed.
func (r *Resource) unlockRelease() {
	r.mu.RLock()
	partners := snapshot(r.attractedTo)
	r.mu.RUnlock()

	for _, p := range partners {
		r.detachFrom(p)
	}

	r.mu.Lock()
	r.lockHolder = nil
	r.state = StateIdle
	r.mu.Unlock()
}

// detachFrom removes a mutual attraction without recording a repulsion, so
// the pair may bond again later.
func (r *Resource) detachFrom(other *Resource) {
	unlock := lockPair(r, other)
	defer unlock()

	delete(r.attractedTo, other.name)
	delete(other.attractedTo, r.name)
	r.settleLocked()
	other.settleLocked()
}

// enableChat moves both resources into an exclusive direct-dialogue pairing.
// Refused when the pair is mutually repelled, when either side is locked, or
// when either side carries any bond other than with the counterpart.
func (r *Resource) enableChat(other *Resource) bool {
	unlock := lockPair(r, other)
	defer unlock()

	if _, repelled := r.repelledBy[other.name]; repelled {
		return false
	}
	if _, repelled := other.repelledBy[r.name]; repelled {
		return false
	}
	if r.state == StateLocked || other.state == StateLocked {
		return false
	}
	if !onlyBondWith(r, other) || !onlyBondWith(other, r) {
		return false
	}

	r.attractedTo[other.name] = other
	other.attractedTo[r.name] = r
	r.state = StateChatting
	other.state = StateChatting
	return true
}

// enablePull registers an asymmetric read-only bond: r may pull from source,
// source cannot push to r. The puller must be free of other bonds; the
// source keeps whatever ordinary bonds it already has.
func (r *Resource) enablePull(source *Resource) bool {
	unlock := lockPair(r, source)
	defer unlock()

	if _, repelled := r.repelledBy[source.name]; repelled {
		return false
	}
	if _, repelled := source.repelledBy[r.name]; repelled {
		return false
	}
	if r.state == StateLocked || source.state == StateLocked ||
		source.state == StateChatting {
		return false
	}
	if !onlyBondWith(r, source) {
		return false
	}

	r.attractedTo[source.name] = source
	source.attractedTo[r.name] = r
	r.state = StatePulling
	if source.state == StateIdle {
		source.state = StateShared
	}
	return true
}

// onlyBondWith reports whether r carries no bond except (possibly) one with
// other. Caller holds both mutexes.
func onlyBondWith(r, other *Resource) bool {
	for name := range r.attractedTo {
		if name != other.name {
			return false
		}
	}
	return true
}

// BeginExecute is the adapter-side gate for execute-style entry points. It
// fails with a ResourceLockedError when the resource is held by another
// party and with a ResourceStateError when it has no owning field. An IDLE
// resource transitions to ACTIVE for the duration of the operation; callers
// must pair this with EndExecute.
func (r *Resource) BeginExecute() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateLocked {
		holder := ""
		if r.lockHolder != nil {
			holder = r.lockHolder.name
		}
		return &ResourceLockedError{Resource: r.name, Holder: holder}
	}
	if r.current == nil {
		return &ResourceStateError{Resource: r.name, Reason: "not in any field"}
	}
	if r.state == StateIdle {
		r.state = StateActive
	}
	return nil
}

// EndExecute settles a transient ACTIVE state back to SHARED when bonds
// exist, IDLE otherwise. States other than ACTIVE are left untouched.
func (r *Resource) EndExecute() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateActive {
		return
	}
	if len(r.attractedTo) > 0 {
		r.state = StateShared
	} else {
		r.state = StateIdle
	}
}

// enterField binds the resource to a field, leaving any previous field
// first, and resets it to IDLE.
func (r *Resource) enterField(f *Field) {
	r.mu.RLock()
	prev := r.current
	r.mu.RUnlock()
	if prev != nil && prev != f {
		r.exitField()
	}

	r.mu.Lock()
	r.current = f
	r.state = StateIdle
	r.mu.Unlock()
}

// exitField voids every relationship: all bonds are field-scoped, so leaving
// the field detaches attractions on both sides, forgets repulsions on both
// sides, releases any lock and resets the resource to IDLE.
func (r *Resource) exitField() {
	r.mu.RLock()
	prev := r.current
	attracted := snapshot(r.attractedTo)
	repelled := snapshot(r.repelledBy)
	r.mu.RUnlock()

	if prev != nil {
		prev.forget(r)
	}

	for _, p := range attracted {
		r.detachFrom(p)
	}
	for _, p := range repelled {
		unlock := lockPair(r, p)
		delete(r.repelledBy, p.name)
		delete(p.repelledBy, r.name)
		unlock()
	}

	r.mu.Lock()
	r.current = nil
	r.lockHolder = nil
	r.state = StateIdle
	r.mu.Unlock()
}
