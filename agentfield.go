// Package agentfield provides a high-level façade over the field
// coordination core, enabling dynamic grouping, connection and isolation of
// shared model and tool resources while a multi-agent workflow executes.
// Most applications interact with this package by:
//  1. Creating an AgentField via New() (optionally overriding logger and
//     default strength)
//  2. Opening an activation scope with Scope() (or NewField + Use)
//  3. Adding resources and issuing relationship operations (attract, repel,
//     lock, chat, pull) through the field
//
// The façade delegates all coordination semantics to the field package while
// keeping setup ergonomics concise. Defaults are safe for local development
// and testing; production deployments typically supply a structured logger.
package agentfield

import (
	"github.com/hupe1980/agentfield/field"
	"github.com/hupe1980/agentfield/logging"
)

// Options configures the AgentField instance.
type Options struct {
	// DefaultStrength is the policy floor applied to fields created through
	// this façade unless overridden per field. Defaults to Medium.
	DefaultStrength field.Strength

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// AgentField is the high-level entry point for building coordination
// hierarchies with shared defaults.
type AgentField struct {
	opts Options
}

// New creates a new AgentField instance with optional overrides.
func New(optFns ...func(o *Options)) *AgentField {
	opts := Options{
		DefaultStrength: field.Medium,
		Logger:          logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &AgentField{opts: opts}
}

// NewField creates an inactive root field carrying the façade defaults.
// Per-field options are applied on top and may override them.
func (a *AgentField) NewField(name string, optFns ...func(o *field.Options)) *field.Field {
	return field.New(name, func(o *field.Options) {
		o.Strength = a.opts.DefaultStrength
		o.Logger = a.opts.Logger
		for _, fn := range optFns {
			fn(o)
		}
	})
}

// Scope creates a root field, activates it, runs fn and tears the field down
// on every exit path. It is the recommended way to run a workflow stage.
func (a *AgentField) Scope(name string, fn func(f *field.Field) error) error {
	return a.NewField(name).Use(fn)
}
