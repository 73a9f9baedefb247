package model

// ActionKind is the binary skill/item classification of an action.
type ActionKind int32

const (
	ActionSkill ActionKind = iota
	ActionItem
)

// String returns "skill" or "item".
func (k ActionKind) String() string {
	if k == ActionItem {
		return "item"
	}
	return "skill"
}

// HitType определяет способ попадания действия.
type HitType int32

const (
	HitCertain HitType = iota
	HitPhysical
	HitMagical
)

// Action identifies a skill or item use directed at a battler.
// TypeIDs holds skill type ids for skills and item type ids for items;
// an empty set is allowed.
type Action struct {
	Kind    ActionKind
	ID      int
	Name    string
	TypeIDs []int
	HitType HitType
}

// IsSkill reports whether the action is a skill use.
func (a Action) IsSkill() bool {
	return a.Kind == ActionSkill
}

// IsMagical reports whether the action hits as magic.
func (a Action) IsMagical() bool {
	return a.HitType == HitMagical
}
