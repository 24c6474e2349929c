// Package field implements the resource coordination core of AgentField: a
// hierarchy of activation-scoped fields that own named resources (models and
// tools), mediate every pairwise relationship between them (attraction,
// repulsion, exclusive locks, chat pairing, pull-only access) and propagate
// lifecycle events to ancestor fields.
//
// All relationship mutations go through a Field, never through a Resource
// directly, so that field policy (active flag, strength floor, membership) is
// enforced at a single choke point and both sides of a pairwise mutation are
// updated in one step under the field's internal lock.
package field
