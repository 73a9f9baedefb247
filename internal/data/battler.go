package data

import (
	"fmt"

	"github.com/udisondev/actreflect/internal/model"
)

// BattlerSetup overrides an actor's initial class and equipment.
// Zero ClassID and nil slices keep the database defaults.
type BattlerSetup struct {
	ClassID   int
	WeaponIDs []int
	ArmorIDs  []int
	StateIDs  []int
}

// NewActorBattler builds a battler for actor id with its class, equipment
// and the given states.
func (db *Database) NewActorBattler(actorID int, setup BattlerSetup) (*model.Battler, error) {
	actor := db.Entry(model.EntryActor, actorID)
	if actor == nil {
		return nil, fmt.Errorf("actor %d not found", actorID)
	}
	def := db.actors[actorID]

	classID := def.classID
	if setup.ClassID != 0 {
		classID = setup.ClassID
	}
	weapons := def.weaponIDs
	if setup.WeaponIDs != nil {
		weapons = setup.WeaponIDs
	}
	armors := def.armorIDs
	if setup.ArmorIDs != nil {
		armors = setup.ArmorIDs
	}

	b := model.NewBattler(actor.Name, actor)
	if classID != 0 {
		class := db.Entry(model.EntryClass, classID)
		if class == nil {
			return nil, fmt.Errorf("actor %d: class %d not found", actorID, classID)
		}
		b.SetClass(class)
	}
	if err := db.equip(b, model.EntryWeapon, weapons); err != nil {
		return nil, fmt.Errorf("actor %d: %w", actorID, err)
	}
	if err := db.equip(b, model.EntryArmor, armors); err != nil {
		return nil, fmt.Errorf("actor %d: %w", actorID, err)
	}
	if err := db.addStates(b, setup.StateIDs); err != nil {
		return nil, fmt.Errorf("actor %d: %w", actorID, err)
	}
	return b, nil
}

// NewEnemyBattler builds a battler for enemy id with the given states.
func (db *Database) NewEnemyBattler(enemyID int, stateIDs []int) (*model.Battler, error) {
	enemy := db.Entry(model.EntryEnemy, enemyID)
	if enemy == nil {
		return nil, fmt.Errorf("enemy %d not found", enemyID)
	}
	b := model.NewBattler(enemy.Name, enemy)
	if err := db.addStates(b, stateIDs); err != nil {
		return nil, fmt.Errorf("enemy %d: %w", enemyID, err)
	}
	return b, nil
}

func (db *Database) equip(b *model.Battler, kind model.EntryKind, ids []int) error {
	for _, id := range ids {
		e := db.Entry(kind, id)
		if e == nil {
			return fmt.Errorf("%s %d not found", kind, id)
		}
		b.Equip(e)
	}
	return nil
}

func (db *Database) addStates(b *model.Battler, ids []int) error {
	for _, id := range ids {
		st := db.Entry(model.EntryState, id)
		if st == nil {
			return fmt.Errorf("state %d not found", id)
		}
		b.AddState(st)
	}
	return nil
}
