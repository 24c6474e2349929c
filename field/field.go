package field

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hupe1980/agentfield/logging"
)

// Options configures field construction.
type Options struct {
	// Strength is the field's policy floor: bonds are refused when either
	// participant's strength is below it. Defaults to Medium.
	Strength Strength

	// Logger receives lifecycle and relationship debug output.
	// Defaults to a no-op logger.
	Logger logging.Logger
}

// Field is an activation-scoped container that exclusively owns a set of
// resources and child fields, mediates every relationship operation between
// its members, and relays events up the field hierarchy.
//
// A field is created inactive, becomes active via Activate (or Use), and is
// irreversibly torn down by Deactivate: children first, then members, each
// member leaving with all of its relationships voided.
//
// All mutating operations are serialized by an internal lock, so the
// pairwise invariants (symmetric sets, attraction/repulsion disjointness)
// are never observed in a torn state even when callers span goroutines.
type Field struct {
	name     string
	strength Strength
	logger   logging.Logger

	mu        sync.Mutex
	active    bool
	resources map[string]*Resource
	parent    *Field
	children  []*Field

	handlersMu sync.RWMutex
	handlers   map[EventKind][]Handler
}

// New creates an inactive root field.
func New(name string, optFns ...func(o *Options)) *Field {
	opts := Options{
		Strength: Medium,
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Field{
		name:      name,
		strength:  opts.Strength,
		logger:    opts.Logger,
		resources: make(map[string]*Resource),
		handlers:  make(map[EventKind][]Handler),
	}
}

// Name returns the field's diagnostic name.
func (f *Field) Name() string { return f.name }

// Strength returns the field's policy floor.
func (f *Field) Strength() Strength { return f.strength }

// Parent returns the enclosing field, or nil for a root field.
func (f *Field) Parent() *Field { return f.parent }

// Active reports whether the field is currently active.
func (f *Field) Active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

// Activate marks the field active. Activating an already active field is a
// no-op. A deactivated field must not be reused; create a new one instead.
func (f *Field) Activate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.active {
		return
	}
	f.active = true
	f.logger.Debug("field activated", "field", f.name, "strength", f.strength.String())
}

// Deactivate tears the field down: child fields first, then every member
// resource (voiding all of its relationships), then the field itself is
// marked inactive. Calling Deactivate more than once is a no-op.
func (f *Field) Deactivate() {
	f.mu.Lock()
	if !f.active {
		f.mu.Unlock()
		return
	}
	f.active = false
	children := f.children
	f.children = nil
	members := make([]*Resource, 0, len(f.resources))
	for _, r := range f.resources {
		members = append(members, r)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].name < members[j].name })
	f.resources = make(map[string]*Resource)
	f.mu.Unlock()

	for _, child := range children {
		child.Deactivate()
	}
	for _, r := range members {
		r.exitField()
	}

	f.logger.Debug("field deactivated", "field", f.name)
	f.emit(newEvent(EventFieldDeactivated, f.name, "", ""))
}

// Use runs fn inside an activation scope: the field is activated before fn
// and deactivated on every exit path, normal or error.
func (f *Field) Use(fn func(f *Field) error) error {
	f.Activate()
	defer f.Deactivate()
	return fn(f)
}

// AddResource binds a resource to the field. The resource leaves any
// previous field first (voiding every relationship there) and is reset to
// IDLE.
func (f *Field) AddResource(r *Resource) error {
	f.mu.Lock()
	if !f.active {
		f.mu.Unlock()
		return fmt.Errorf("add resource %q to field %q: %w", r.name, f.name, ErrFieldInactive)
	}
	if _, exists := f.resources[r.name]; exists {
		f.mu.Unlock()
		return &DuplicateResourceError{Field: f.name, Resource: r.name}
	}
	f.mu.Unlock()

	// Outside f.mu: leaving a previous field takes that field's lock.
	r.enterField(f)

	f.mu.Lock()
	if !f.active {
		f.mu.Unlock()
		r.exitField()
		return fmt.Errorf("add resource %q to field %q: %w", r.name, f.name, ErrFieldInactive)
	}
	f.resources[r.name] = r
	f.mu.Unlock()

	f.logger.Debug("resource added", "field", f.name, "resource", r.name)
	f.emit(newEvent(EventResourceAdded, f.name, r.name, ""))
	return nil
}

// RemoveResource detaches a resource from the field, voiding all of its
// relationships on both sides. Removing a non-member is a no-op.
func (f *Field) RemoveResource(r *Resource) error {
	f.mu.Lock()
	if _, exists := f.resources[r.name]; !exists {
		f.mu.Unlock()
		return nil
	}
	delete(f.resources, r.name)
	f.mu.Unlock()

	r.exitField()

	f.logger.Debug("resource removed", "field", f.name, "resource", r.name)
	f.emit(newEvent(EventResourceRemoved, f.name, r.name, ""))
	return nil
}

// forget drops a departing resource from the membership map. Called from
// Resource.exitField, never while f.mu is held.
func (f *Field) forget(r *Resource) {
	f.mu.Lock()
	delete(f.resources, r.name)
	f.mu.Unlock()
}

// Attract bonds two member resources. A refusal (strength below the field
// floor, mutual repulsion, foreign lock, exclusive pairing) returns
// (false, nil); only structural problems return an error.
func (f *Field) Attract(a, b *Resource) (bool, error) {
	f.mu.Lock()
	if err := f.requireMembers(a, b); err != nil {
		f.mu.Unlock()
		return false, err
	}
	if a.strength < f.strength || b.strength < f.strength {
		f.mu.Unlock()
		return false, nil
	}
	ok := a.attractTo(b)
	f.mu.Unlock()

	if ok {
		f.logger.Debug("resources attracted", "field", f.name, "source", a.name, "target", b.name)
		f.emit(newEvent(EventAttracted, f.name, a.name, b.name))
	}
	return ok, nil
}

// Repel records a repulsion between two member resources, tearing down any
// existing bond. Repulsion always succeeds and is permanent until the
// resources re-enter a field.
func (f *Field) Repel(a, b *Resource) error {
	f.mu.Lock()
	if err := f.requireMembers(a, b); err != nil {
		f.mu.Unlock()
		return err
	}
	a.repelFrom(b)
	f.mu.Unlock()

	f.logger.Debug("resources repelled", "field", f.name, "source", a.name, "target", b.name)
	f.emit(newEvent(EventRepelled, f.name, a.name, b.name))
	return nil
}

// EnableChat pairs two member resources for direct dialogue. The pairing is
// exclusive: it is refused when either side carries any other bond.
func (f *Field) EnableChat(a, b *Resource) (bool, error) {
	f.mu.Lock()
	if err := f.requireMembers(a, b); err != nil {
		f.mu.Unlock()
		return false, err
	}
	if a.strength < f.strength || b.strength < f.strength {
		f.mu.Unlock()
		return false, nil
	}
	ok := a.enableChat(b)
	f.mu.Unlock()

	if ok {
		f.logger.Debug("chat enabled", "field", f.name, "source", a.name, "target", b.name)
		f.emit(newEvent(EventChatEnabled, f.name, a.name, b.name))
	}
	return ok, nil
}

// EnablePull registers a read-only bond from puller to source: the puller
// may read from the source, the source cannot push back. The source keeps
// its own ordinary bonds.
func (f *Field) EnablePull(puller, source *Resource) (bool, error) {
	f.mu.Lock()
	if err := f.requireMembers(puller, source); err != nil {
		f.mu.Unlock()
		return false, err
	}
	if puller.strength < f.strength || source.strength < f.strength {
		f.mu.Unlock()
		return false, nil
	}
	ok := puller.enablePull(source)
	f.mu.Unlock()

	if ok {
		f.logger.Debug("pull enabled", "field", f.name, "puller", puller.name, "source", source.name)
		f.emit(newEvent(EventPullEnabled, f.name, puller.name, source.name))
	}
	return ok, nil
}

// LockResource gives holder an exclusive hold on r, repelling every other
// attracted party. Returns (false, nil) when r is already locked.
func (f *Field) LockResource(r, holder *Resource) (bool, error) {
	f.mu.Lock()
	if err := f.requireMembers(r, holder); err != nil {
		f.mu.Unlock()
		return false, err
	}
	ok := r.lock(holder)
	f.mu.Unlock()

	if ok {
		f.logger.Debug("resource locked", "field", f.name, "resource", r.name, "holder", holder.name)
		f.emit(newEvent(EventLocked, f.name, r.name, holder.name))
	}
	return ok, nil
}

// UnlockResource releases any lock on r and resets it to IDLE, detaching the
// holder's surviving bond. Callers re-attract as needed; this is a reset,
// not a restore.
func (f *Field) UnlockResource(r *Resource) error {
	f.mu.Lock()
	if err := f.requireMembers(r); err != nil {
		f.mu.Unlock()
		return err
	}
	r.unlockRelease()
	f.mu.Unlock()

	f.logger.Debug("resource unlocked", "field", f.name, "resource", r.name)
	f.emit(newEvent(EventUnlocked, f.name, r.name, ""))
	return nil
}

// CreateChildField creates an already-active child field owned by this one.
// The child inherits the parent's strength floor and logger unless
// overridden, and is torn down when the parent deactivates.
func (f *Field) CreateChildField(name string, optFns ...func(o *Options)) (*Field, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.active {
		return nil, fmt.Errorf("create child field %q in field %q: %w", name, f.name, ErrFieldInactive)
	}

	opts := Options{
		Strength: f.strength,
		Logger:   f.logger,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	child := &Field{
		name:      name,
		strength:  opts.Strength,
		logger:    opts.Logger,
		active:    true,
		parent:    f,
		resources: make(map[string]*Resource),
		handlers:  make(map[EventKind][]Handler),
	}
	f.children = append(f.children, child)
	f.logger.Debug("child field created", "field", f.name, "child", name)
	return child, nil
}

// GetResource looks up a member resource by name.
func (f *Field) GetResource(name string) (*Resource, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.resources[name]
	return r, ok
}

// ListResources returns the names of all member resources, sorted.
func (f *Field) ListResources() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.resources))
	for name := range f.resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Attractions returns a snapshot of the resources bonded to r.
func (f *Field) Attractions(r *Resource) ([]*Resource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.requireMembers(r); err != nil {
		return nil, err
	}
	return r.AttractedTo(), nil
}

// Repulsions returns a snapshot of the resources r is forbidden to bond with.
func (f *Field) Repulsions(r *Resource) ([]*Resource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.requireMembers(r); err != nil {
		return nil, err
	}
	return r.RepelledBy(), nil
}

// ResourceState returns the state of a member resource.
func (f *Field) ResourceState(r *Resource) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.requireMembers(r); err != nil {
		return StateIdle, err
	}
	return r.State(), nil
}

// String returns a diagnostic one-liner.
func (f *Field) String() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fmt.Sprintf("Field(%s, strength=%s, resources=%d)", f.name, f.strength, len(f.resources))
}

// requireMembers verifies the field is active and every given resource is a
// member. Caller holds f.mu.
func (f *Field) requireMembers(rs ...*Resource) error {
	if !f.active {
		return fmt.Errorf("field %q: %w", f.name, ErrFieldInactive)
	}
	for _, r := range rs {
		if _, ok := f.resources[r.name]; !ok {
			return &NotMemberError{Field: f.name, Resource: r.name}
		}
	}
	return nil
}
