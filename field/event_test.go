package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "resource_added", EventResourceAdded.String())
	assert.Equal(t, "attracted", EventAttracted.String())
	assert.Equal(t, "field_deactivated", EventFieldDeactivated.String())
	assert.Equal(t, "unknown", EventKind(999).String())
}

func TestEventEmission(t *testing.T) {
	f := newActiveField(t, "test_field")

	var added []Event
	f.OnEvent(EventResourceAdded, func(ev Event) { added = append(added, ev) })

	var attracted []Event
	f.OnEvent(EventAttracted, func(ev Event) { attracted = append(attracted, ev) })

	a := NewResource("a")
	b := NewResource("b")
	require.NoError(t, f.AddResource(a))
	require.NoError(t, f.AddResource(b))

	require.Len(t, added, 2)
	assert.Equal(t, "a", added[0].Source)
	assert.Equal(t, "b", added[1].Source)
	assert.Equal(t, "test_field", added[0].Field)
	assert.NotEmpty(t, added[0].ID)
	assert.NotEqual(t, added[0].ID, added[1].ID)
	assert.False(t, added[0].Timestamp.IsZero())

	ok, err := f.Attract(a, b)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, attracted, 1)
	assert.Equal(t, "a", attracted[0].Source)
	assert.Equal(t, "b", attracted[0].Target)
}

func TestEventNotEmittedOnRefusal(t *testing.T) {
	f := newActiveField(t, "test_field")
	var events []Event
	f.OnEvent(EventAttracted, func(ev Event) { events = append(events, ev) })

	a := NewResource("a")
	b := NewResource("b")
	require.NoError(t, f.AddResource(a))
	require.NoError(t, f.AddResource(b))
	require.NoError(t, f.Repel(a, b))

	ok, err := f.Attract(a, b)
	require.NoError(t, err)
	require.False(t, ok)
	assert.Empty(t, events)
}

func TestEventHandlerOrderFIFO(t *testing.T) {
	f := newActiveField(t, "test_field")

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		f.OnEvent(EventResourceAdded, func(Event) { order = append(order, i) })
	}

	require.NoError(t, f.AddResource(NewResource("res")))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestEventPropagationChildBeforeParent(t *testing.T) {
	root := newActiveField(t, "root")
	child, err := root.CreateChildField("child")
	require.NoError(t, err)
	grandchild, err := child.CreateChildField("grandchild")
	require.NoError(t, err)

	var order []string
	grandchild.OnEvent(EventResourceAdded, func(Event) { order = append(order, "grandchild") })
	child.OnEvent(EventResourceAdded, func(Event) { order = append(order, "child") })
	root.OnEvent(EventResourceAdded, func(Event) { order = append(order, "root") })

	require.NoError(t, grandchild.AddResource(NewResource("res")))

	// Local handlers first, then each ancestor in turn; the root sees every
	// descendant event.
	assert.Equal(t, []string{"grandchild", "child", "root"}, order)
}

func TestEventPropagationKeepsDescendantFieldName(t *testing.T) {
	root := newActiveField(t, "root")
	child, err := root.CreateChildField("child")
	require.NoError(t, err)

	var seen []Event
	root.OnEvent(EventResourceAdded, func(ev Event) { seen = append(seen, ev) })

	require.NoError(t, child.AddResource(NewResource("res")))
	require.Len(t, seen, 1)
	assert.Equal(t, "child", seen[0].Field)
}

func TestFieldDeactivatedEvent(t *testing.T) {
	root := newActiveField(t, "root")
	child, err := root.CreateChildField("child")
	require.NoError(t, err)

	var seen []string
	root.OnEvent(EventFieldDeactivated, func(ev Event) { seen = append(seen, ev.Field) })

	child.Deactivate()
	assert.Equal(t, []string{"child"}, seen)
}

func TestHandlerMayCallBackIntoField(t *testing.T) {
	f := newActiveField(t, "test_field")

	var states []State
	f.OnEvent(EventAttracted, func(ev Event) {
		r, ok := f.GetResource(ev.Source)
		require.True(t, ok)
		state, err := f.ResourceState(r)
		require.NoError(t, err)
		states = append(states, state)
	})

	a := NewResource("a")
	b := NewResource("b")
	require.NoError(t, f.AddResource(a))
	require.NoError(t, f.AddResource(b))

	ok, err := f.Attract(a, b)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []State{StateShared}, states)
}

func TestNilHandlerIgnored(t *testing.T) {
	f := newActiveField(t, "test_field")
	f.OnEvent(EventResourceAdded, nil)
	require.NoError(t, f.AddResource(NewResource("res")))
}
