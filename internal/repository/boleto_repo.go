package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/greenacesso/boleto-importer/internal/domain"
)

// TieBreak selects which row wins when a payer-name lookup matches
// more than one boleto.
type TieBreak string

const (
	// TieBreakOldest picks the lowest id (earliest import).
	TieBreakOldest TieBreak = "oldest"
	// TieBreakNewest picks the highest id (latest import).
	TieBreakNewest TieBreak = "newest"
)

type BoletoRepo struct {
	db *sql.DB
}

func NewBoletoRepo(db *sql.DB) *BoletoRepo {
	return &BoletoRepo{db: db}
}

// BulkInsert persists all validated boletos of a batch inside a single
// transaction: either every row commits or none do.
func (r *BoletoRepo) BulkInsert(ctx context.Context, boletos []domain.ValidatedBoleto) (int, error) {
	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer sqlTx.Rollback()

	stmt, err := sqlTx.PrepareContext(ctx,
		`INSERT INTO boletos (payer_name, lot_id, amount, payment_line, created_at)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for i := range boletos {
		b := &boletos[i]
		if _, err := stmt.ExecContext(ctx,
			b.PayerName, b.LotID, b.Amount, b.PaymentLine, now); err != nil {
			return 0, fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	if err := sqlTx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(boletos), nil
}

// FindByPayerName looks up a boleto by payer name, case-insensitively.
// The tie-break decides which row wins when several match.
// Returns sql.ErrNoRows when nothing matches.
func (r *BoletoRepo) FindByPayerName(ctx context.Context, name string, tb TieBreak) (*domain.Boleto, error) {
	order := "ASC"
	if tb == TieBreakNewest {
		order = "DESC"
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT id, payer_name, lot_id, amount, payment_line, created_at
		FROM boletos WHERE LOWER(payer_name) = LOWER(?)
		ORDER BY id `+order+` LIMIT 1`, name)
	return scanBoletoRow(row)
}

func (r *BoletoRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM boletos").Scan(&count)
	return count, err
}

// BoletoFilter narrows List results. Zero values mean "no constraint".
type BoletoFilter struct {
	Name      string
	MinAmount *float64
	MaxAmount *float64
	LotID     *int64
	Page      int
	Limit     int
}

func (r *BoletoRepo) List(ctx context.Context, f BoletoFilter) ([]domain.Boleto, int, error) {
	where, args := buildBoletoWhere(f)

	var total int
	countSQL := "SELECT COUNT(*) FROM boletos" + where
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	offset := (f.Page - 1) * f.Limit

	querySQL := `SELECT id, payer_name, lot_id, amount, payment_line, created_at
		FROM boletos` + where + " ORDER BY id LIMIT ? OFFSET ?"
	args = append(args, f.Limit, offset)

	rows, err := r.db.QueryContext(ctx, querySQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var boletos []domain.Boleto
	for rows.Next() {
		b, err := scanBoletoRows(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan: %w", err)
		}
		boletos = append(boletos, *b)
	}
	return boletos, total, rows.Err()
}

// --- helpers ---

func buildBoletoWhere(f BoletoFilter) (string, []any) {
	var clauses []string
	var args []any

	if f.Name != "" {
		clauses = append(clauses, "payer_name LIKE ?")
		args = append(args, "%"+f.Name+"%")
	}
	if f.MinAmount != nil {
		clauses = append(clauses, "amount >= ?")
		args = append(args, *f.MinAmount)
	}
	if f.MaxAmount != nil {
		clauses = append(clauses, "amount <= ?")
		args = append(args, *f.MaxAmount)
	}
	if f.LotID != nil {
		clauses = append(clauses, "lot_id = ?")
		args = append(args, *f.LotID)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanBoletoRow(row *sql.Row) (*domain.Boleto, error) {
	var b domain.Boleto
	var createdAt string
	err := row.Scan(&b.ID, &b.PayerName, &b.LotID, &b.Amount, &b.PaymentLine, &createdAt)
	if err != nil {
		return nil, err
	}
	b.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &b, nil
}

func scanBoletoRows(rows *sql.Rows) (*domain.Boleto, error) {
	var b domain.Boleto
	var createdAt string
	err := rows.Scan(&b.ID, &b.PayerName, &b.LotID, &b.Amount, &b.PaymentLine, &createdAt)
	if err != nil {
		return nil, err
	}
	b.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &b, nil
}
