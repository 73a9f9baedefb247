package data

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/udisondev/actreflect/internal/model"
)

// entryDef is one row of actors/classes/enemies/weapons/armors/states.yaml.
type entryDef struct {
	ID           int     `yaml:"id"`
	Name         string  `yaml:"name"`
	Note         string  `yaml:"note"`
	MagicReflect float64 `yaml:"magic_reflect"`

	// actors only
	ClassID   int   `yaml:"class_id"`
	WeaponIDs []int `yaml:"weapon_ids"`
	ArmorIDs  []int `yaml:"armor_ids"`
}

// actionDef is one row of skills.yaml/items.yaml.
type actionDef struct {
	ID      int    `yaml:"id"`
	Name    string `yaml:"name"`
	TypeIDs []int  `yaml:"type_ids"`
	HitType string `yaml:"hit_type"` // certain, physical, magical
}

var entryFiles = map[model.EntryKind]string{
	model.EntryActor:  "actors.yaml",
	model.EntryClass:  "classes.yaml",
	model.EntryEnemy:  "enemies.yaml",
	model.EntryWeapon: "weapons.yaml",
	model.EntryArmor:  "armors.yaml",
	model.EntryState:  "states.yaml",
}

var actionFiles = map[model.ActionKind]string{
	model.ActionSkill: "skills.yaml",
	model.ActionItem:  "items.yaml",
}

// Load reads every table file from dir concurrently.
// Missing files load as empty tables.
func Load(ctx context.Context, dir string) (*Database, error) {
	db := newDatabase()

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	for kind, file := range entryFiles {
		g.Go(func() error {
			var defs []entryDef
			if err := readTable(gctx, filepath.Join(dir, file), &defs); err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			for _, d := range defs {
				if _, dup := db.entries[kind][d.ID]; dup {
					return fmt.Errorf("%s: duplicate %s id %d", file, kind, d.ID)
				}
				db.entries[kind][d.ID] = &model.Entry{
					Kind:         kind,
					ID:           d.ID,
					Name:         d.Name,
					Note:         d.Note,
					MagicReflect: d.MagicReflect,
				}
				if kind == model.EntryActor {
					db.actors[d.ID] = actorSetup{classID: d.ClassID, weaponIDs: d.WeaponIDs, armorIDs: d.ArmorIDs}
				}
			}
			return nil
		})
	}

	for kind, file := range actionFiles {
		g.Go(func() error {
			var defs []actionDef
			if err := readTable(gctx, filepath.Join(dir, file), &defs); err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			table := db.skills
			if kind == model.ActionItem {
				table = db.items
			}
			for _, d := range defs {
				hit, err := parseHitType(d.HitType)
				if err != nil {
					return fmt.Errorf("%s: %s %d: %w", file, kind, d.ID, err)
				}
				table[d.ID] = model.Action{
					Kind:    kind,
					ID:      d.ID,
					Name:    d.Name,
					TypeIDs: d.TypeIDs,
					HitType: hit,
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading database %s: %w", dir, err)
	}

	slog.Info("loaded database",
		"dir", dir,
		"actors", db.Count(model.EntryActor),
		"enemies", db.Count(model.EntryEnemy),
		"states", db.Count(model.EntryState),
		"skills", db.Count(model.EntrySkill),
		"items", db.Count(model.EntryItem))
	return db, nil
}

func readTable(ctx context.Context, path string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Debug("table file missing, using empty table", "path", path)
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func parseHitType(s string) (model.HitType, error) {
	switch strings.ToLower(s) {
	case "", "certain":
		return model.HitCertain, nil
	case "physical":
		return model.HitPhysical, nil
	case "magical":
		return model.HitMagical, nil
	}
	return 0, fmt.Errorf("unknown hit type %q", s)
}
