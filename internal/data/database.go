package data

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"golang.org/x/crypto/blake2b"

	"github.com/udisondev/actreflect/internal/game/reflection"
	"github.com/udisondev/actreflect/internal/model"
)

// Database — загруженные таблицы базы данных игры.
// Read-only после Load; безопасна для конкурентного чтения.
type Database struct {
	entries map[model.EntryKind]map[int]*model.Entry
	skills  map[int]model.Action
	items   map[int]model.Action
	actors  map[int]actorSetup
}

// actorSetup is the initial class and equipment of an actor.
type actorSetup struct {
	classID   int
	weaponIDs []int
	armorIDs  []int
}

func newDatabase() *Database {
	db := &Database{
		entries: make(map[model.EntryKind]map[int]*model.Entry, 6),
		skills:  make(map[int]model.Action),
		items:   make(map[int]model.Action),
		actors:  make(map[int]actorSetup),
	}
	for _, k := range noteKinds {
		db.entries[k] = make(map[int]*model.Entry)
	}
	return db
}

// noteKinds lists the tables whose notes can carry reflect tags.
var noteKinds = []model.EntryKind{
	model.EntryActor,
	model.EntryClass,
	model.EntryEnemy,
	model.EntryWeapon,
	model.EntryArmor,
	model.EntryState,
}

// Entry returns an entry by kind and id, nil if absent.
func (db *Database) Entry(kind model.EntryKind, id int) *model.Entry {
	return db.entries[kind][id]
}

// Count returns the number of entries of kind.
func (db *Database) Count(kind model.EntryKind) int {
	switch kind {
	case model.EntrySkill:
		return len(db.skills)
	case model.EntryItem:
		return len(db.items)
	default:
		return len(db.entries[kind])
	}
}

// Skill returns the action identity of a skill.
func (db *Database) Skill(id int) (model.Action, bool) {
	a, ok := db.skills[id]
	return a, ok
}

// Item returns the action identity of an item.
func (db *Database) Item(id int) (model.Action, bool) {
	a, ok := db.items[id]
	return a, ok
}

// Entries returns entries of kind sorted by id.
func (db *Database) Entries(kind model.EntryKind) []*model.Entry {
	table := db.entries[kind]
	ids := slices.Sorted(maps.Keys(table))
	out := make([]*model.Entry, 0, len(ids))
	for _, id := range ids {
		out = append(out, table[id])
	}
	return out
}

// Validate runs the reflect tag validator over every note-carrying entry.
func (db *Database) Validate() []reflection.Issue {
	var issues []reflection.Issue
	for _, kind := range noteKinds {
		for _, e := range db.Entries(kind) {
			issues = append(issues, reflection.Validate(kind.String()+" "+strconv.Itoa(e.ID), e.Note)...)
		}
	}
	return issues
}

// Fingerprint returns a BLAKE2b-256 hex digest over every note in the
// database. Changes whenever any tag changes.
func (db *Database) Fingerprint() string {
	h, _ := blake2b.New256(nil) // nil key never fails
	for _, kind := range noteKinds {
		for _, e := range db.Entries(kind) {
			fmt.Fprintf(h, "%d/%d/%q\n", kind, e.ID, e.Note)
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
