package combat

import (
	"log/slog"
	"math/rand/v2"

	"github.com/udisondev/actreflect/internal/game/reflection"
	"github.com/udisondev/actreflect/internal/model"
)

// BaseChanceProvider supplies the reflect chance a target already has
// against action before note tags are applied.
type BaseChanceProvider interface {
	BaseChance(user, target *model.Battler, action model.Action) float64
}

// BaseChanceFunc adapts a function to BaseChanceProvider.
type BaseChanceFunc func(user, target *model.Battler, action model.Action) float64

// BaseChance implements BaseChanceProvider.
func (f BaseChanceFunc) BaseChance(user, target *model.Battler, action model.Action) float64 {
	return f(user, target, action)
}

// MagicReflectBase returns the target's magic reflection rate for magical
// actions and 0 for everything else.
var MagicReflectBase = BaseChanceFunc(func(_, target *model.Battler, action model.Action) float64 {
	if action.IsMagical() {
		return target.MagicReflect()
	}
	return 0
})

// ReflectionDisplay receives the outcome of a reflected action (battle log).
type ReflectionDisplay interface {
	DisplayReflection(target *model.Battler, action model.Action, outcome reflection.Outcome)
}

// RatesFunc returns the reflect rates of a target. Used instead of the
// target's notes when rates come from structured storage.
type RatesFunc func(target *model.Battler) reflection.Rates

// ReflectionResult is the result of one reflection roll.
type ReflectionResult struct {
	Reflected bool
	Chance    float64
	Outcome   reflection.Outcome
}

// Reflection decides whether an action is reflected back at its user.
// Combines base chance with the note-tag contribution of the target.
type Reflection struct {
	resolver *reflection.Resolver
	base     BaseChanceProvider
	display  ReflectionDisplay
	rates    RatesFunc
	roll     func() float64
}

// NewReflection creates a Reflection. nil base uses MagicReflectBase;
// nil display skips battle log output.
func NewReflection(resolver *reflection.Resolver, base BaseChanceProvider, display ReflectionDisplay) *Reflection {
	if base == nil {
		base = MagicReflectBase
	}
	return &Reflection{
		resolver: resolver,
		base:     base,
		display:  display,
		roll:     rand.Float64,
	}
}

// SetRoll replaces the random source (0.0 <= roll < 1.0). For tests.
func (r *Reflection) SetRoll(roll func() float64) {
	r.roll = roll
}

// SetRates makes the resolver read rates from fn instead of the target's
// aggregated notes. nil restores notes.
func (r *Reflection) SetRates(fn RatesFunc) {
	r.rates = fn
}

// ReflectChance returns total chance (base + contribution) for target
// reflecting action, together with the resolution outcome.
func (r *Reflection) ReflectChance(user, target *model.Battler, action model.Action) (float64, reflection.Outcome) {
	base := r.base.BaseChance(user, target, action)

	var out reflection.Outcome
	if r.rates != nil {
		out = r.resolver.Resolve(r.rates(target), action, base)
	} else {
		out = r.resolver.ResolveNotes(target.AllNotes(), action, base)
	}
	return out.Total(), out
}

// Invoke rolls reflection of action used by user on target.
// If reflected and a display is set, the outcome is passed to it directly.
func (r *Reflection) Invoke(user, target *model.Battler, action model.Action) ReflectionResult {
	chance, out := r.ReflectChance(user, target, action)
	res := ReflectionResult{
		Reflected: r.roll() < chance,
		Chance:    chance,
		Outcome:   out,
	}

	if res.Reflected {
		slog.Debug("action reflected",
			"user", user.Name(),
			"target", target.Name(),
			"action", action.Name,
			"chance", chance,
			"by_tags", out.Reflected)
		if r.display != nil {
			r.display.DisplayReflection(target, action, out)
		}
	}

	return res
}
