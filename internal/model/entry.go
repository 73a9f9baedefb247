package model

// EntryKind определяет таблицу базы данных, из которой пришла запись.
type EntryKind int32

const (
	EntryActor EntryKind = iota
	EntryClass
	EntryEnemy
	EntryWeapon
	EntryArmor
	EntryState
	EntrySkill
	EntryItem
)

// String returns the lower-case table name of the entry kind.
func (k EntryKind) String() string {
	switch k {
	case EntryActor:
		return "actor"
	case EntryClass:
		return "class"
	case EntryEnemy:
		return "enemy"
	case EntryWeapon:
		return "weapon"
	case EntryArmor:
		return "armor"
	case EntryState:
		return "state"
	case EntrySkill:
		return "skill"
	case EntryItem:
		return "item"
	default:
		return "unknown"
	}
}

// Entry — запись базы данных (actor, class, enemy, weapon, armor, state).
// Note хранит свободный текст с тегами вида <SKILL REFLECT 5: +20%>.
type Entry struct {
	Kind         EntryKind
	ID           int
	Name         string
	Note         string
	MagicReflect float64 // magic reflection trait rate granted by the entry
}
