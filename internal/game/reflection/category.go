// Package reflection computes the extra chance of reflecting a skill or item
// back at its user, configured by note tags on database entries:
//
//	<SKILL REFLECT 5: +20%>       <ITEM REFLECT 3: -10%>
//	<SKILL TYPE REFLECT 1: +5%>   <ITEM TYPE REFLECT 2: 15>
//
// Tags with the same category and id are additive. Lookups go through the
// Rates interface so freeform notes and structured records are
// interchangeable.
package reflection

import (
	"fmt"
	"strings"

	"github.com/udisondev/actreflect/internal/model"
)

// Category is the tag category token.
type Category int32

const (
	CategorySkill Category = iota
	CategoryItem
	CategorySkillType
	CategoryItemType
)

// String returns the tag token ("SKILL", "ITEM", "SKILL TYPE", "ITEM TYPE").
func (c Category) String() string {
	switch c {
	case CategorySkill:
		return "SKILL"
	case CategoryItem:
		return "ITEM"
	case CategorySkillType:
		return "SKILL TYPE"
	case CategoryItemType:
		return "ITEM TYPE"
	default:
		return fmt.Sprintf("Category(%d)", int32(c))
	}
}

// ParseCategory parses a tag token. Case and inner whitespace runs are ignored.
func ParseCategory(token string) (Category, error) {
	norm := strings.ToUpper(strings.Join(strings.Fields(token), " "))
	switch norm {
	case "SKILL":
		return CategorySkill, nil
	case "ITEM":
		return CategoryItem, nil
	case "SKILL TYPE":
		return CategorySkillType, nil
	case "ITEM TYPE":
		return CategoryItemType, nil
	}
	return 0, fmt.Errorf("unknown reflect category %q", token)
}

// CategoriesFor returns the direct and type categories used for an action kind.
func CategoriesFor(kind model.ActionKind) (item, typ Category) {
	if kind == model.ActionSkill {
		return CategorySkill, CategorySkillType
	}
	return CategoryItem, CategoryItemType
}
