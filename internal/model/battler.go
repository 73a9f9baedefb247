package model

import (
	"slices"
	"strings"
	"sync"
)

// Battler is a participant of a battle (actor or enemy).
// Equipment and states change during battle; AllNotes always reads the
// current set.
// Thread-safe: all methods acquire internal mutex.
type Battler struct {
	mu           sync.RWMutex
	name         string
	base         *Entry // actor or enemy
	class        *Entry // nil for enemies
	equips       []*Entry
	states       []*Entry
	magicReflect float64
}

// NewBattler creates a battler from its base actor/enemy entry.
// Name falls back to the entry name when empty.
func NewBattler(name string, base *Entry) *Battler {
	if name == "" && base != nil {
		name = base.Name
	}
	return &Battler{
		name: name,
		base: base,
	}
}

// Name returns the display name.
func (b *Battler) Name() string {
	return b.name
}

// SetClass sets the class entry (actors only).
func (b *Battler) SetClass(class *Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.class = class
}

// Equip adds a weapon or armor entry.
func (b *Battler) Equip(e *Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.equips = append(b.equips, e)
}

// Unequip removes the first equipment entry with the given kind and id.
// Returns false if nothing matched.
func (b *Battler) Unequip(kind EntryKind, id int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, e := range b.equips {
		if e.Kind == kind && e.ID == id {
			b.equips = slices.Delete(b.equips, i, i+1)
			return true
		}
	}
	return false
}

// AddState adds a state entry. Adding an already active state is a no-op.
func (b *Battler) AddState(state *Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.states {
		if s.ID == state.ID {
			return
		}
	}
	b.states = append(b.states, state)
}

// RemoveState removes a state by id. Returns false if it was not active.
func (b *Battler) RemoveState(id int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.states {
		if s.ID == id {
			b.states = slices.Delete(b.states, i, i+1)
			return true
		}
	}
	return false
}

// StateIDs returns ids of active states in the order they were added.
func (b *Battler) StateIDs() []int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ids := make([]int, 0, len(b.states))
	for _, s := range b.states {
		ids = append(ids, s.ID)
	}
	return ids
}

// MagicReflect returns the magic reflection trait rate: the battler's own
// rate plus the rates of every bound entry.
func (b *Battler) MagicReflect() float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	total := b.magicReflect
	b.eachSource(func(e *Entry) {
		total += e.MagicReflect
	})
	return total
}

// SetMagicReflect sets the battler's own magic reflection rate.
func (b *Battler) SetMagicReflect(rate float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.magicReflect = rate
}

// AllNotes concatenates notes of every source bound to the battler:
// base entry, class, equipment, active states (in that order).
func (b *Battler) AllNotes() string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var sb strings.Builder
	b.eachSource(func(e *Entry) {
		if e.Note == "" {
			return
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(e.Note)
	})
	return sb.String()
}

// Sources returns every entry bound to the battler in notes order.
func (b *Battler) Sources() []*Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []*Entry
	b.eachSource(func(e *Entry) {
		out = append(out, e)
	})
	return out
}

// eachSource calls fn for base, class, equipment and states.
// Caller must hold b.mu.
func (b *Battler) eachSource(fn func(e *Entry)) {
	if b.base != nil {
		fn(b.base)
	}
	if b.class != nil {
		fn(b.class)
	}
	for _, e := range b.equips {
		fn(e)
	}
	for _, s := range b.states {
		fn(s)
	}
}
