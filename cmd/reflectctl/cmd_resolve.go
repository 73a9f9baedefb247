package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/udisondev/actreflect/internal/data"
	"github.com/udisondev/actreflect/internal/db"
	"github.com/udisondev/actreflect/internal/game/battlelog"
	"github.com/udisondev/actreflect/internal/game/combat"
	"github.com/udisondev/actreflect/internal/game/reflection"
	"github.com/udisondev/actreflect/internal/model"
)

// Rates sources for resolve --source.
const (
	sourceNotes = "notes"
	sourceDB    = "db"
	sourceBoth  = "both"
)

type resolveOptions struct {
	actorID int
	enemyID int
	classID int
	weapons []int
	armors  []int
	states  []int
	skillID int
	itemID  int
	base    float64
	roll    bool
	source  string
}

var resolveFlags = resolveOptions{source: sourceNotes}

// traitLoader loads structured traits for a battler's entries.
type traitLoader interface {
	LoadForEntries(ctx context.Context, entries []*model.Entry) (reflection.Records, error)
}

// openTraitStore connects to the trait database. Replaced in tests.
var openTraitStore = func(ctx context.Context) (traitLoader, func(), error) {
	pg, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, nil, err
	}
	return db.NewTraitRepository(pg.Pool()), pg.Close, nil
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve the reflect chance of a battler against a skill or item",
	Args:  cobra.NoArgs,
	RunE:  runResolve,
}

func init() {
	f := resolveCmd.Flags()
	f.IntVar(&resolveFlags.actorID, "actor", 0, "actor id of the target")
	f.IntVar(&resolveFlags.enemyID, "enemy", 0, "enemy id of the target")
	f.IntVar(&resolveFlags.classID, "class", 0, "override actor class id")
	f.IntSliceVar(&resolveFlags.weapons, "weapon", nil, "override actor weapon ids")
	f.IntSliceVar(&resolveFlags.armors, "armor", nil, "override actor armor ids")
	f.IntSliceVar(&resolveFlags.states, "state", nil, "active state ids")
	f.IntVar(&resolveFlags.skillID, "skill", 0, "incoming skill id")
	f.IntVar(&resolveFlags.itemID, "item", 0, "incoming item id")
	f.Float64Var(&resolveFlags.base, "base", 0, "base reflect chance (default: target magic reflection)")
	f.BoolVar(&resolveFlags.roll, "roll", false, "roll the reflection and print the battle log")
	f.StringVar(&resolveFlags.source, "source", sourceNotes, "reflect rates source: notes, db or both")
	resolveCmd.MarkFlagsMutuallyExclusive("actor", "enemy")
	resolveCmd.MarkFlagsOneRequired("actor", "enemy")
	resolveCmd.MarkFlagsMutuallyExclusive("skill", "item")
	resolveCmd.MarkFlagsOneRequired("skill", "item")
}

func runResolve(cmd *cobra.Command, _ []string) error {
	db, err := loadDatabase(cmd.Context())
	if err != nil {
		return err
	}

	target, err := resolveTarget(db)
	if err != nil {
		return err
	}
	action, err := resolveAction(db)
	if err != nil {
		return err
	}

	var base combat.BaseChanceProvider
	if cmd.Flags().Changed("base") {
		fixed := resolveFlags.base
		base = combat.BaseChanceFunc(func(_, _ *model.Battler, _ model.Action) float64 { return fixed })
	}

	var (
		log     *battlelog.Log
		display combat.ReflectionDisplay
	)
	if resolveFlags.roll {
		log = battlelog.New(nil, cfg.BattleLogOptions())
		display = log
	}

	resolver := reflection.NewResolver(reflection.NewIndexCache(cfg.CacheSize))
	flow := combat.NewReflection(resolver, base, display)

	rates, err := loadRates(cmd.Context(), target)
	if err != nil {
		return err
	}
	if rates != nil {
		flow.SetRates(func(*model.Battler) reflection.Rates { return rates })
	}

	out := cmd.OutOrStdout()
	user := model.NewBattler("Attacker", nil)
	total, outcome := flow.ReflectChance(user, target, action)
	fmt.Fprintf(out, "target=%s action=%s base=%.2f contribution=%.2f total=%.2f reflected=%t\n",
		target.Name(), action.Name, outcome.Base, outcome.Contribution, total, outcome.Reflected)

	if log == nil {
		return nil
	}
	res := flow.Invoke(user, target, action)
	fmt.Fprintf(out, "roll: reflected=%t chance=%.2f\n", res.Reflected, res.Chance)
	for _, line := range log.Lines() {
		fmt.Fprintln(out, line)
	}
	return nil
}

// loadRates returns structured rates for --source db/both, nil for notes.
func loadRates(ctx context.Context, target *model.Battler) (reflection.Rates, error) {
	switch resolveFlags.source {
	case sourceNotes:
		return nil, nil
	case sourceDB, sourceBoth:
	default:
		return nil, fmt.Errorf("unknown source %q (want notes, db or both)", resolveFlags.source)
	}

	store, closeStore, err := openTraitStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening trait store: %w", err)
	}
	defer closeStore()

	records, err := store.LoadForEntries(ctx, target.Sources())
	if err != nil {
		return nil, err
	}
	if resolveFlags.source == sourceDB {
		return records, nil
	}

	idx, cfgErrs := reflection.ParseNotes(target.AllNotes())
	for _, ce := range cfgErrs {
		slog.Warn("skipping reflect tag", "tag", ce.Tag, "error", ce.Err)
	}
	return reflection.Combine(idx, records), nil
}

func resolveTarget(db *data.Database) (*model.Battler, error) {
	if resolveFlags.enemyID != 0 {
		return db.NewEnemyBattler(resolveFlags.enemyID, resolveFlags.states)
	}
	return db.NewActorBattler(resolveFlags.actorID, data.BattlerSetup{
		ClassID:   resolveFlags.classID,
		WeaponIDs: resolveFlags.weapons,
		ArmorIDs:  resolveFlags.armors,
		StateIDs:  resolveFlags.states,
	})
}

func resolveAction(db *data.Database) (model.Action, error) {
	switch {
	case resolveFlags.skillID != 0:
		if a, ok := db.Skill(resolveFlags.skillID); ok {
			return a, nil
		}
		return model.Action{}, fmt.Errorf("skill %d not found", resolveFlags.skillID)
	case resolveFlags.itemID != 0:
		if a, ok := db.Item(resolveFlags.itemID); ok {
			return a, nil
		}
		return model.Action{}, fmt.Errorf("item %d not found", resolveFlags.itemID)
	}
	return model.Action{}, errors.New("no action given")
}
