package main

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/actreflect/internal/db"
	"github.com/udisondev/actreflect/internal/model"
)

var importWorkers int

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Store reflect tags of every entry as structured traits in PostgreSQL",
	Args:  cobra.NoArgs,
	RunE:  runImport,
}

func init() {
	importCmd.Flags().IntVar(&importWorkers, "workers", 8, "concurrent entry imports")
}

func runImport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	database, err := loadDatabase(ctx)
	if err != nil {
		return err
	}

	dsn := cfg.Database.DSN()
	if err := db.RunMigrations(ctx, dsn); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	pg, err := db.New(ctx, dsn)
	if err != nil {
		return err
	}
	defer pg.Close()
	repo := db.NewTraitRepository(pg.Pool())

	var imported, skipped atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(importWorkers, 1))

	for _, kind := range []model.EntryKind{
		model.EntryActor, model.EntryClass, model.EntryEnemy,
		model.EntryWeapon, model.EntryArmor, model.EntryState,
	} {
		for _, e := range database.Entries(kind) {
			g.Go(func() error {
				cfgErrs, err := repo.ImportEntry(gctx, e)
				if err != nil {
					return err
				}
				for _, ce := range cfgErrs {
					slog.Warn("skipping reflect tag", "source", fmt.Sprintf("%s %d", e.Kind, e.ID), "tag", ce.Tag, "error", ce.Err)
				}
				imported.Add(1)
				skipped.Add(int64(len(cfgErrs)))
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("importing traits: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "imported %d entries, skipped %d tags\n", imported.Load(), skipped.Load())
	return nil
}
