package reflection

import (
	"log/slog"

	"github.com/udisondev/actreflect/internal/model"
)

// Outcome is the result of one resolution.
// Reflected is true only when Contribution is strictly greater than Base.
type Outcome struct {
	Contribution float64
	Base         float64
	Reflected    bool
}

// Total returns the combined chance handed back to the battle flow.
func (o Outcome) Total() float64 {
	return o.Base + o.Contribution
}

// Resolver computes the action reflect contribution of a battler.
type Resolver struct {
	cache *IndexCache
}

// NewResolver creates a resolver. A nil cache parses notes on every call.
func NewResolver(cache *IndexCache) *Resolver {
	return &Resolver{cache: cache}
}

// Resolve computes direct + type contributions for action from rates and
// compares the sum against base.
func (r *Resolver) Resolve(rates Rates, action model.Action, base float64) Outcome {
	itemCat, typeCat := CategoriesFor(action.Kind)

	direct := rates.Rate(itemCat, action.ID)

	var typeTotal float64
	for _, t := range action.TypeIDs {
		typeTotal += rates.Rate(typeCat, t)
	}

	contribution := direct + typeTotal
	return Outcome{
		Contribution: contribution,
		Base:         base,
		Reflected:    contribution > base,
	}
}

// ResolveNotes resolves against a battler's aggregated notes.
// Malformed tags are logged and contribute 0.
func (r *Resolver) ResolveNotes(notes string, action model.Action, base float64) Outcome {
	var (
		idx  *NoteIndex
		errs []*ConfigError
	)
	if r.cache != nil {
		idx, errs = r.cache.Get(notes)
	} else {
		idx, errs = ParseNotes(notes)
	}

	for _, err := range errs {
		slog.Warn("skipping reflect tag", "tag", err.Tag, "error", err.Err)
	}

	return r.Resolve(idx, action, base)
}
