// Package sqlstore persists duel progress in MySQL, PostgreSQL or SQLite.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"github.com/swipefeed/swipefeed/internal/datasources"
	"github.com/swipefeed/swipefeed/internal/domain"
)

const duelProgressTable = "duel_progress"

var _ datasources.DuelProgressStore = (*Repository)(nil)

type Repository struct {
	db     *sql.DB
	flavor sqlbuilder.Flavor
}

func New(db *sql.DB, flavor sqlbuilder.Flavor) *Repository {
	return &Repository{
		db:     db,
		flavor: flavor,
	}
}

// Migrate creates the duel progress table if it does not exist yet.
func (r *Repository) Migrate(ctx context.Context) error {
	ctb := r.flavor.NewCreateTableBuilder()
	ctb.CreateTable(duelProgressTable).IfNotExists()
	ctb.Define("installation_id", "VARCHAR(128)", "NOT NULL", "PRIMARY KEY")
	ctb.Define("votes_cast", "INTEGER", "NOT NULL")
	// Unix milliseconds; NULL while the gate is open.
	ctb.Define("cooldown_ends_at", "BIGINT", "NULL")

	query, args := ctb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("creating %s table: %w", duelProgressTable, err)
	}
	return nil
}

func (r *Repository) LoadDuelProgress(ctx context.Context, installationID string) (domain.DuelProgress, error) {
	sb := r.flavor.NewSelectBuilder()
	sb.Select("votes_cast", "cooldown_ends_at")
	sb.From(duelProgressTable)
	sb.Where(sb.Equal("installation_id", installationID))

	query, args := sb.Build()

	var (
		votesCast      int
		cooldownEndsAt sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&votesCast, &cooldownEndsAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DuelProgress{}, nil
	}
	if err != nil {
		return domain.DuelProgress{}, fmt.Errorf("loading duel progress for [%s]: %w", installationID, err)
	}

	progress := domain.DuelProgress{VotesCast: votesCast}
	if cooldownEndsAt.Valid {
		progress.CooldownEndsAt = time.UnixMilli(cooldownEndsAt.Int64).UTC()
	}
	return progress, nil
}

// SaveDuelProgress replaces the stored record. Delete and insert run in one transaction so the
// same statements work on every supported dialect.
func (r *Repository) SaveDuelProgress(
	ctx context.Context, installationID string, progress domain.DuelProgress,
) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	db := r.flavor.NewDeleteBuilder()
	db.DeleteFrom(duelProgressTable)
	db.Where(db.Equal("installation_id", installationID))

	query, args := db.Build()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting previous duel progress: %w", err)
	}

	var cooldownEndsAt sql.NullInt64
	if !progress.CooldownEndsAt.IsZero() {
		cooldownEndsAt = sql.NullInt64{Int64: progress.CooldownEndsAt.UnixMilli(), Valid: true}
	}

	ib := r.flavor.NewInsertBuilder()
	ib.InsertInto(duelProgressTable)
	ib.Cols("installation_id", "votes_cast", "cooldown_ends_at")
	ib.Values(installationID, progress.VotesCast, cooldownEndsAt)

	query, args = ib.Build()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting duel progress: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
