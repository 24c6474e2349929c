package tool

import (
	"context"

	"github.com/hupe1980/agentfield/field"
)

// BoundTool couples a Tool with a field resource so tool execution is gated
// by the coordination protocol: a locked tool refuses callers other than its
// holder and a tool outside any field refuses to run at all.
//
// Example:
//
//	search := tool.NewBound(webSearch)
//	f := field.New("research")
//	err := f.Use(func(f *field.Field) error {
//	    if err := f.AddResource(search.Resource()); err != nil {
//	        return err
//	    }
//	    result, err := search.Execute(ctx, map[string]any{"query": "paperclips"})
//	    ...
//	})
type BoundTool struct {
	tool     Tool
	resource *field.Resource
}

// BoundOptions configures the binding.
type BoundOptions struct {
	// Strength is the resource tier the tool participates at. Defaults to Medium.
	Strength field.Strength
}

// NewBound wraps a Tool in a field resource carrying the tool's name.
func NewBound(t Tool, optFns ...func(o *BoundOptions)) *BoundTool {
	opts := BoundOptions{Strength: field.Medium}
	for _, fn := range optFns {
		fn(&opts)
	}
	r := field.NewResource(t.Name(), func(o *field.ResourceOptions) {
		o.Strength = opts.Strength
	})
	return &BoundTool{tool: t, resource: r}
}

// Resource returns the resource to register with a field.
func (b *BoundTool) Resource() *field.Resource { return b.resource }

// Tool returns the wrapped tool.
func (b *BoundTool) Tool() Tool { return b.tool }

// Name returns the wrapped tool's name.
func (b *BoundTool) Name() string { return b.tool.Name() }

// Execute runs the wrapped tool if the resource's coordination state allows
// it. It surfaces *field.ResourceLockedError when the tool is held by
// another party and *field.ResourceStateError when the tool is not in any
// field. While executing from IDLE the resource shows the transient ACTIVE
// state, settling to SHARED or IDLE afterwards depending on its bonds.
func (b *BoundTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	if err := b.resource.BeginExecute(); err != nil {
		return nil, err
	}
	defer b.resource.EndExecute()

	return b.tool.Call(ctx, args)
}
