package field

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActiveField(t *testing.T, name string, optFns ...func(o *Options)) *Field {
	t.Helper()
	f := New(name, optFns...)
	f.Activate()
	t.Cleanup(f.Deactivate)
	return f
}

func TestFieldLifecycle(t *testing.T) {
	f := New("test_field")
	assert.False(t, f.Active())

	f.Activate()
	assert.True(t, f.Active())

	// Activating twice is a no-op.
	f.Activate()
	assert.True(t, f.Active())

	f.Deactivate()
	assert.False(t, f.Active())
}

func TestFieldDeactivateIdempotent(t *testing.T) {
	f := New("test_field")
	f.Activate()

	r := NewResource("res")
	require.NoError(t, f.AddResource(r))

	f.Deactivate()
	f.Deactivate() // must not double-clean or panic

	assert.False(t, f.Active())
	assert.Nil(t, r.Field())
	assert.Equal(t, StateIdle, r.State())
}

func TestFieldUseRunsTeardownOnError(t *testing.T) {
	f := New("test_field")
	r := NewResource("res")

	wantErr := fmt.Errorf("boom")
	err := f.Use(func(f *Field) error {
		require.NoError(t, f.AddResource(r))
		return wantErr
	})

	assert.ErrorIs(t, err, wantErr)
	assert.False(t, f.Active())
	assert.Nil(t, r.Field())
}

func TestAddResource(t *testing.T) {
	f := newActiveField(t, "test_field")
	r := NewResource("res")

	require.NoError(t, f.AddResource(r))

	got, ok := f.GetResource("res")
	require.True(t, ok)
	assert.Same(t, r, got)
	assert.Same(t, f, r.Field())
	assert.Equal(t, StateIdle, r.State())
}

func TestAddResourceInactiveField(t *testing.T) {
	f := New("test_field")
	err := f.AddResource(NewResource("res"))
	assert.ErrorIs(t, err, ErrFieldInactive)
}

func TestAddResourceDuplicate(t *testing.T) {
	f := newActiveField(t, "test_field")
	require.NoError(t, f.AddResource(NewResource("res")))

	err := f.AddResource(NewResource("res"))
	var dupErr *DuplicateResourceError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "res", dupErr.Resource)
	assert.Equal(t, "test_field", dupErr.Field)
}

func TestAddResourceMovesBetweenFields(t *testing.T) {
	f1 := newActiveField(t, "field1")
	f2 := newActiveField(t, "field2")

	r := NewResource("shared")
	other := NewResource("other")
	require.NoError(t, f1.AddResource(r))
	require.NoError(t, f1.AddResource(other))

	ok, err := f1.Attract(r, other)
	require.NoError(t, err)
	require.True(t, ok)

	// Entering a second field leaves the first and voids every relationship.
	require.NoError(t, f2.AddResource(r))
	assert.Same(t, f2, r.Field())
	assert.Empty(t, r.AttractedTo())
	assert.Empty(t, other.AttractedTo())
	assert.Equal(t, StateIdle, other.State())
}

func TestRemoveResource(t *testing.T) {
	f := newActiveField(t, "test_field")
	r := NewResource("res")
	require.NoError(t, f.AddResource(r))

	require.NoError(t, f.RemoveResource(r))
	_, ok := f.GetResource("res")
	assert.False(t, ok)
	assert.Nil(t, r.Field())

	// Removing a non-member is a no-op.
	require.NoError(t, f.RemoveResource(r))
}

func TestRemoveResourceCleansUpPartners(t *testing.T) {
	f := newActiveField(t, "test_field")
	parent := NewResource("parent")
	child1 := NewResource("child1")
	child2 := NewResource("child2")
	for _, r := range []*Resource{parent, child1, child2} {
		require.NoError(t, f.AddResource(r))
	}

	for _, c := range []*Resource{child1, child2} {
		ok, err := f.Attract(parent, c)
		require.NoError(t, err)
		require.True(t, ok)
	}

	require.NoError(t, f.RemoveResource(parent))

	for _, c := range []*Resource{child1, child2} {
		assert.Equal(t, StateIdle, c.State())
		assert.False(t, c.AttractedToName("parent"))
	}
}

func TestAttract(t *testing.T) {
	f := newActiveField(t, "wf")
	researcher := NewResource("researcher")
	writer := NewResource("writer")
	require.NoError(t, f.AddResource(researcher))
	require.NoError(t, f.AddResource(writer))

	ok, err := f.Attract(researcher, writer)
	require.NoError(t, err)
	require.True(t, ok)

	assert.True(t, researcher.AttractedToName("writer"))
	assert.True(t, writer.AttractedToName("researcher"))
	assert.Equal(t, StateShared, researcher.State())
	assert.Equal(t, StateShared, writer.State())
}

func TestAttractNotMember(t *testing.T) {
	f := newActiveField(t, "test_field")
	member := NewResource("member")
	outsider := NewResource("outsider")
	require.NoError(t, f.AddResource(member))

	_, err := f.Attract(member, outsider)
	var nmErr *NotMemberError
	require.ErrorAs(t, err, &nmErr)
	assert.Equal(t, "outsider", nmErr.Resource)
}

func TestAttractStrengthFloor(t *testing.T) {
	f := newActiveField(t, "test_field") // Medium floor
	agent := NewResource("agent")
	tool := NewResource("tool", func(o *ResourceOptions) { o.Strength = Weak })
	require.NoError(t, f.AddResource(agent))
	require.NoError(t, f.AddResource(tool))

	ok, err := f.Attract(agent, tool)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, StateIdle, agent.State())
	assert.Equal(t, StateIdle, tool.State())
	assert.Empty(t, agent.AttractedTo())
}

func TestAttractRepulsionWins(t *testing.T) {
	f := newActiveField(t, "test_field")
	a := NewResource("a")
	b := NewResource("b")
	require.NoError(t, f.AddResource(a))
	require.NoError(t, f.AddResource(b))

	require.NoError(t, f.Repel(a, b))

	ok, err := f.Attract(a, b)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, a.RepelledByName("b"))
	assert.True(t, b.RepelledByName("a"))
}

func TestRepelTearsDownBond(t *testing.T) {
	f := newActiveField(t, "test_field")
	a := NewResource("a")
	b := NewResource("b")
	require.NoError(t, f.AddResource(a))
	require.NoError(t, f.AddResource(b))

	ok, err := f.Attract(a, b)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, f.Repel(a, b))
	assert.False(t, a.AttractedToName("b"))
	assert.False(t, b.AttractedToName("a"))
	assert.Equal(t, StateIdle, a.State())
	assert.Equal(t, StateIdle, b.State())
}

func TestAttractionRepulsionDisjoint(t *testing.T) {
	f := newActiveField(t, "test_field")
	a := NewResource("a")
	b := NewResource("b")
	c := NewResource("c")
	for _, r := range []*Resource{a, b, c} {
		require.NoError(t, f.AddResource(r))
	}

	assertDisjoint := func() {
		t.Helper()
		for _, r := range []*Resource{a, b, c} {
			for _, att := range r.AttractedTo() {
				assert.False(t, r.RepelledByName(att.Name()),
					"%s both attracted to and repelled by %s", r.Name(), att.Name())
			}
		}
	}

	ok, err := f.Attract(a, b)
	require.NoError(t, err)
	require.True(t, ok)
	assertDisjoint()

	require.NoError(t, f.Repel(a, b))
	assertDisjoint()

	ok, err = f.Attract(a, c)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, f.Repel(b, c))
	assertDisjoint()
}

func TestLockResource(t *testing.T) {
	f := newActiveField(t, "test_field")
	tool := NewResource("tool")
	agent1 := NewResource("agent1")
	agent2 := NewResource("agent2")
	for _, r := range []*Resource{tool, agent1, agent2} {
		require.NoError(t, f.AddResource(r))
	}

	ok, err := f.LockResource(tool, agent1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, StateLocked, tool.State())
	assert.Same(t, agent1, tool.LockHolder())

	// Attraction from a non-holder fails while locked.
	ok, err = f.Attract(tool, agent2)
	require.NoError(t, err)
	assert.False(t, ok)

	// Locking by a second holder fails until unlocked.
	ok, err = f.LockResource(tool, agent2)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, f.UnlockResource(tool))
	assert.Equal(t, StateIdle, tool.State())
	assert.Nil(t, tool.LockHolder())

	ok, err = f.Attract(tool, agent2)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLockRepelsNonHolders(t *testing.T) {
	f := newActiveField(t, "test_field")
	tool := NewResource("tool")
	holder := NewResource("holder")
	other := NewResource("other")
	for _, r := range []*Resource{tool, holder, other} {
		require.NoError(t, f.AddResource(r))
	}

	ok, err := f.Attract(tool, holder)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = f.Attract(tool, other)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = f.LockResource(tool, holder)
	require.NoError(t, err)
	require.True(t, ok)

	// The holder's bond survives, everyone else is repelled transitively.
	assert.True(t, tool.AttractedToName("holder"))
	assert.False(t, tool.AttractedToName("other"))
	assert.True(t, tool.RepelledByName("other"))
	assert.Equal(t, StateIdle, other.State())
}

func TestUnlockIsResetNotRestore(t *testing.T) {
	f := newActiveField(t, "test_field")
	tool := NewResource("tool")
	holder := NewResource("holder")
	require.NoError(t, f.AddResource(tool))
	require.NoError(t, f.AddResource(holder))

	ok, err := f.Attract(tool, holder)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = f.LockResource(tool, holder)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, f.UnlockResource(tool))

	// The holder's bond does not come back; callers re-attract as needed.
	assert.Equal(t, StateIdle, tool.State())
	assert.Empty(t, tool.AttractedTo())
	assert.Equal(t, StateIdle, holder.State())

	ok, err = f.Attract(tool, holder)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRepelLockHolderReleasesLock(t *testing.T) {
	f := newActiveField(t, "test_field")
	tool := NewResource("tool")
	holder := NewResource("holder")
	require.NoError(t, f.AddResource(tool))
	require.NoError(t, f.AddResource(holder))

	ok, err := f.LockResource(tool, holder)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, f.Repel(tool, holder))
	assert.Equal(t, StateIdle, tool.State())
	assert.Nil(t, tool.LockHolder())
}

func TestCreateChildField(t *testing.T) {
	parent := newActiveField(t, "parent", func(o *Options) { o.Strength = Strong })

	child, err := parent.CreateChildField("child")
	require.NoError(t, err)
	assert.True(t, child.Active())
	assert.Equal(t, Strong, child.Strength())
	assert.Same(t, parent, child.Parent())

	override, err := parent.CreateChildField("override", func(o *Options) { o.Strength = Weak })
	require.NoError(t, err)
	assert.Equal(t, Weak, override.Strength())

	parent.Deactivate()
	assert.False(t, child.Active())
	assert.False(t, override.Active())
}

func TestCreateChildFieldInactiveParent(t *testing.T) {
	parent := New("parent")
	_, err := parent.CreateChildField("child")
	assert.ErrorIs(t, err, ErrFieldInactive)
}

func TestDeactivateCascades(t *testing.T) {
	parent := New("parent")
	parent.Activate()

	child, err := parent.CreateChildField("child")
	require.NoError(t, err)

	pr := NewResource("parent_res")
	cr := NewResource("child_res")
	require.NoError(t, parent.AddResource(pr))
	require.NoError(t, child.AddResource(cr))

	parent.Deactivate()

	assert.False(t, parent.Active())
	assert.False(t, child.Active())
	for _, r := range []*Resource{pr, cr} {
		assert.Nil(t, r.Field())
		assert.Equal(t, StateIdle, r.State())
		assert.Empty(t, r.AttractedTo())
	}
}

func TestOperationsOnInactiveField(t *testing.T) {
	f := New("test_field")
	a := NewResource("a")
	b := NewResource("b")

	_, err := f.Attract(a, b)
	assert.ErrorIs(t, err, ErrFieldInactive)
	assert.ErrorIs(t, f.Repel(a, b), ErrFieldInactive)
	_, err = f.LockResource(a, b)
	assert.ErrorIs(t, err, ErrFieldInactive)
}

func TestAccessors(t *testing.T) {
	f := newActiveField(t, "test_field")
	a := NewResource("a")
	b := NewResource("b")
	c := NewResource("c")
	for _, r := range []*Resource{a, b, c} {
		require.NoError(t, f.AddResource(r))
	}

	assert.Equal(t, []string{"a", "b", "c"}, f.ListResources())

	ok, err := f.Attract(a, b)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, f.Repel(a, c))

	attractions, err := f.Attractions(a)
	require.NoError(t, err)
	require.Len(t, attractions, 1)
	assert.Equal(t, "b", attractions[0].Name())

	repulsions, err := f.Repulsions(a)
	require.NoError(t, err)
	require.Len(t, repulsions, 1)
	assert.Equal(t, "c", repulsions[0].Name())

	state, err := f.ResourceState(a)
	require.NoError(t, err)
	assert.Equal(t, StateShared, state)

	outsider := NewResource("outsider")
	_, err = f.Attractions(outsider)
	var nmErr *NotMemberError
	assert.True(t, errors.As(err, &nmErr))
}
