package model

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentfield/field"
)

// Peer is a model participant bound to a field resource. It consumes the
// coordination protocol: a chat exchange requires an established chat
// pairing, a pull exchange requires a pull bond, and a locked or fieldless
// peer refuses to operate at all.
type Peer struct {
	name         string
	model        Model
	instructions string
	resource     *field.Resource
}

// PeerOptions configures peer construction.
type PeerOptions struct {
	// Strength is the resource tier the peer participates at. Defaults to Medium.
	Strength field.Strength

	// Instructions is the system prompt applied to every generation.
	Instructions string
}

// NewPeer binds a model to a fresh field resource carrying the given name.
func NewPeer(name string, m Model, optFns ...func(o *PeerOptions)) *Peer {
	opts := PeerOptions{Strength: field.Medium}
	for _, fn := range optFns {
		fn(&opts)
	}
	r := field.NewResource(name, func(o *field.ResourceOptions) {
		o.Strength = opts.Strength
	})
	return &Peer{name: name, model: m, instructions: opts.Instructions, resource: r}
}

// Name returns the peer's resource name.
func (p *Peer) Name() string { return p.name }

// Resource returns the resource to register with a field.
func (p *Peer) Resource() *field.Resource { return p.resource }

// Model returns the wrapped model.
func (p *Peer) Model() Model { return p.model }

// Chat sends prompt to other and returns other's reply. Both peers must be
// members of a field and paired for chat with each other; violations surface
// *field.ResourceStateError (or *field.ResourceLockedError when a side is
// held by a third party).
func (p *Peer) Chat(ctx context.Context, other *Peer, prompt string) (string, error) {
	if err := p.requireBond(other.resource, field.StateChatting, "chat"); err != nil {
		return "", err
	}

	resp, err := other.generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("chat %s -> %s: %w", p.name, other.name, err)
	}
	return resp.Content, nil
}

// Pull reads from source without letting source push back: the puller must
// hold a pull bond to source. The source side performs the generation; the
// puller only consumes the result.
func (p *Peer) Pull(ctx context.Context, source *Peer, prompt string) (string, error) {
	if err := p.requireBond(source.resource, field.StatePulling, "pull"); err != nil {
		return "", err
	}

	resp, err := source.generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("pull %s <- %s: %w", p.name, source.name, err)
	}
	return resp.Content, nil
}

func (p *Peer) generate(ctx context.Context, prompt string) (*Response, error) {
	req := Request{
		Instructions: p.instructions,
		Messages:     []Message{{Role: "user", Content: prompt}},
	}
	return p.model.Generate(ctx, req)
}

// requireBond checks the adapter gate: field membership on both sides, no
// foreign lock, the expected bond state on the initiating side and a mutual
// attraction with the counterpart.
func (p *Peer) requireBond(other *field.Resource, want field.State, kind string) error {
	r := p.resource
	if r.Field() == nil {
		return &field.ResourceStateError{Resource: r.Name(), Reason: "not in any field"}
	}
	if other.Field() == nil {
		return &field.ResourceStateError{Resource: other.Name(), Reason: "not in any field"}
	}
	if r.State() == field.StateLocked {
		holder := ""
		if h := r.LockHolder(); h != nil {
			holder = h.Name()
		}
		return &field.ResourceLockedError{Resource: r.Name(), Holder: holder}
	}
	if r.State() != want || !r.AttractedToName(other.Name()) {
		return &field.ResourceStateError{
			Resource: r.Name(),
			Reason:   fmt.Sprintf("no %s bond with %q (state=%s)", kind, other.Name(), r.State()),
		}
	}
	return nil
}
