package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/actreflect/internal/game/reflection"
	"github.com/udisondev/actreflect/internal/model"
)

// TraitRepository manages reflect_traits table: structured reflect tags
// keyed by the database entry that owns them.
type TraitRepository struct {
	db *pgxpool.Pool
}

// NewTraitRepository creates a new TraitRepository.
func NewTraitRepository(db *pgxpool.Pool) *TraitRepository {
	return &TraitRepository{db: db}
}

// LoadByOwner loads traits of a single entry in stored order.
func (r *TraitRepository) LoadByOwner(ctx context.Context, kind model.EntryKind, ownerID int) (reflection.Records, error) {
	query := `
		SELECT category, target_id, percent
		FROM reflect_traits
		WHERE owner_kind = $1 AND owner_id = $2
		ORDER BY seq
	`

	rows, err := r.db.Query(ctx, query, kind.String(), ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying traits for %s %d: %w", kind, ownerID, err)
	}
	return scanRecords(rows)
}

// LoadForEntries loads traits of every given entry in one query.
// Used to build structured rates for a battler from Battler.Sources().
func (r *TraitRepository) LoadForEntries(ctx context.Context, entries []*model.Entry) (reflection.Records, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	kinds := make([]string, len(entries))
	ids := make([]int64, len(entries))
	for i, e := range entries {
		kinds[i] = e.Kind.String()
		ids[i] = int64(e.ID)
	}

	query := `
		SELECT t.category, t.target_id, t.percent
		FROM reflect_traits t
		JOIN unnest($1::text[], $2::bigint[]) WITH ORDINALITY AS o(kind, id, ord)
		  ON t.owner_kind = o.kind AND t.owner_id = o.id
		ORDER BY o.ord, t.seq
	`

	rows, err := r.db.Query(ctx, query, kinds, ids)
	if err != nil {
		return nil, fmt.Errorf("querying traits for %d entries: %w", len(entries), err)
	}
	return scanRecords(rows)
}

func scanRecords(rows pgx.Rows) (reflection.Records, error) {
	defer rows.Close()

	var records reflection.Records
	for rows.Next() {
		var (
			token         string
			targetID, pct int32
		)
		if err := rows.Scan(&token, &targetID, &pct); err != nil {
			return nil, fmt.Errorf("scanning trait row: %w", err)
		}
		cat, err := reflection.ParseCategory(token)
		if err != nil {
			return nil, fmt.Errorf("trait row: %w", err)
		}
		records = append(records, reflection.Record{Category: cat, ID: int(targetID), Percent: int(pct)})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trait rows: %w", err)
	}

	return records, nil
}

// SaveAllTx replaces all traits of an entry within an existing transaction.
func (r *TraitRepository) SaveAllTx(ctx context.Context, tx pgx.Tx, kind model.EntryKind, ownerID int, records reflection.Records) error {
	if _, err := tx.Exec(ctx,
		`DELETE FROM reflect_traits WHERE owner_kind = $1 AND owner_id = $2`,
		kind.String(), ownerID,
	); err != nil {
		return fmt.Errorf("deleting existing traits: %w", err)
	}

	for seq, rec := range records {
		if _, err := tx.Exec(ctx,
			`INSERT INTO reflect_traits (owner_kind, owner_id, seq, category, target_id, percent)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			kind.String(), ownerID, seq, rec.Category.String(), rec.ID, rec.Percent,
		); err != nil {
			return fmt.Errorf("inserting trait %d: %w", seq, err)
		}
	}

	return nil
}

// Save replaces all traits of an entry using a standalone transaction.
func (r *TraitRepository) Save(ctx context.Context, kind model.EntryKind, ownerID int, records reflection.Records) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("traits rollback failed", "kind", kind, "ownerID", ownerID, "error", err)
		}
	}()

	if err := r.SaveAllTx(ctx, tx, kind, ownerID, records); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing traits save: %w", err)
	}

	return nil
}

// ImportEntry parses the entry's note tags and stores them as traits.
// Malformed tags are skipped and returned.
func (r *TraitRepository) ImportEntry(ctx context.Context, e *model.Entry) ([]*reflection.ConfigError, error) {
	idx, cfgErrs := reflection.ParseNotes(e.Note)
	if err := r.Save(ctx, e.Kind, e.ID, idx.Records()); err != nil {
		return cfgErrs, fmt.Errorf("importing %s %d: %w", e.Kind, e.ID, err)
	}
	return cfgErrs, nil
}
