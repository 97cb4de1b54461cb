// Package session implements the two-player barrier-synchronized
// session protocol of §4.G: registration, per-phase validation, the
// input queue, and engine advancement. It depends on koth for game
// rules and protocol for wire shapes, but owns no socket of its own —
// transport wires Server.HandleRequest to whichever listener it runs.
package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"koth/internal/koth"
	"koth/internal/protocol"
)

// Registration is one player's (slot, alias, uuid) binding.
type Registration struct {
	Slot  koth.PlayerID
	Alias string
	UUID  string
}

// Registry assigns the Alpha slot before Beta (§8 invariant 6) and
// rejects alias collisions and a third registration attempt.
type Registry struct {
	mu      sync.Mutex
	bySlot  [2]*Registration
	byAlias map[string]*Registration
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byAlias: make(map[string]*Registration)}
}

// Register assigns alias the first empty slot and mints a fresh
// capability uuid, or returns a protocol error.
func (r *Registry) Register(alias string) (*Registration, *protocol.Error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byAlias[alias]; exists {
		return nil, protocol.NewError(protocol.AliasCollision, "alias %q already registered", alias)
	}

	var slot koth.PlayerID
	switch {
	case r.bySlot[koth.Alpha] == nil:
		slot = koth.Alpha
	case r.bySlot[koth.Beta] == nil:
		slot = koth.Beta
	default:
		return nil, protocol.NewError(protocol.NoSlotAvailable, "both player slots already filled")
	}

	reg := &Registration{Slot: slot, Alias: alias, UUID: uuid.NewString()}
	r.bySlot[slot] = reg
	r.byAlias[alias] = reg
	return reg, nil
}

// Lookup finds the registration matching (alias, uuid), if any.
func (r *Registry) Lookup(alias, uid string) (*Registration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.byAlias[alias]
	if !ok || reg.UUID != uid {
		return nil, false
	}
	return reg, true
}

// BySlot returns the registration for a slot, if filled.
func (r *Registry) BySlot(slot koth.PlayerID) (*Registration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg := r.bySlot[slot]
	return reg, reg != nil
}

// Full reports whether both slots are filled.
func (r *Registry) Full() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bySlot[koth.Alpha] != nil && r.bySlot[koth.Beta] != nil
}

// Entries returns the registry as wire RegistryEntry records, Alpha
// before Beta, omitting any unfilled slot.
func (r *Registry) Entries() []protocol.RegistryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []protocol.RegistryEntry
	for _, reg := range r.bySlot {
		if reg != nil {
			out = append(out, protocol.RegistryEntry{Slot: reg.Slot.String(), Alias: reg.Alias})
		}
	}
	return out
}

// Reset clears both slots, used when a full server reset occurs.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySlot = [2]*Registration{}
	r.byAlias = make(map[string]*Registration)
}

func (r *Registration) String() string {
	return fmt.Sprintf("%s(%s)", r.Slot, r.Alias)
}
