package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/greenacesso/boleto-importer/internal/domain"
)

type LotRepo struct {
	db *sql.DB
}

func NewLotRepo(db *sql.DB) *LotRepo {
	return &LotRepo{db: db}
}

// GetByName looks up a lot by its normalized 4-character name.
// Returns sql.ErrNoRows when no lot matches.
func (r *LotRepo) GetByName(ctx context.Context, name string) (*domain.Lot, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM lots WHERE name = ?", name)
	return scanLot(row)
}

// Insert adds a lot, ignoring duplicates. The returned id is the
// lot's row id whether the insert was fresh or the name already
// existed.
func (r *LotRepo) Insert(ctx context.Context, name string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO lots (name, created_at) VALUES (?, ?)",
		name, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("insert lot: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return res.LastInsertId()
	}

	// Ignored duplicate: LastInsertId would be stale, fetch the row.
	lot, err := r.GetByName(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("lookup existing lot: %w", err)
	}
	return lot.ID, nil
}

func (r *LotRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM lots").Scan(&count)
	return count, err
}

func (r *LotRepo) List(ctx context.Context) ([]domain.Lot, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM lots ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("query lots: %w", err)
	}
	defer rows.Close()

	var lots []domain.Lot
	for rows.Next() {
		var lot domain.Lot
		var createdAt string
		if err := rows.Scan(&lot.ID, &lot.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		lot.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		lots = append(lots, lot)
	}
	return lots, rows.Err()
}

func scanLot(row *sql.Row) (*domain.Lot, error) {
	var lot domain.Lot
	var createdAt string
	if err := row.Scan(&lot.ID, &lot.Name, &createdAt); err != nil {
		return nil, err
	}
	lot.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &lot, nil
}
