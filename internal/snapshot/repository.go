package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that the requested snapshot was not found.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is a stored daily balance snapshot. The three balances are kept
// as exact numerics; Data holds the full JSON payload written at
// generation time (balances plus the running series).
type Snapshot struct {
	ID            int             `json:"id"`
	SnapshotDate  time.Time       `json:"snapshotDate"`
	FiatBalance   decimal.Decimal `json:"fiatBalance"`
	CryptoBalance decimal.Decimal `json:"cryptoBalance"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	Data          json.RawMessage `json:"data"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Repository defines persistent storage for balance snapshots.
type Repository interface {
	Save(ctx context.Context, date time.Time, fiat, crypto, total decimal.Decimal, data json.RawMessage) error
	GetLatest(ctx context.Context) (*Snapshot, error)
	GetByDate(ctx context.Context, date time.Time) (*Snapshot, error)
	List(ctx context.Context, limit int) ([]Snapshot, error)
}

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL snapshot repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Save(ctx context.Context, date time.Time, fiat, crypto, total decimal.Decimal, data json.RawMessage) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO balance_snapshots (snapshot_date, fiat_balance, crypto_balance, total_value, data)
		 VALUES ($1, $2, $3, $4, $5::jsonb)
		 ON CONFLICT (snapshot_date)
		 DO UPDATE SET fiat_balance = $2, crypto_balance = $3, total_value = $4, data = $5::jsonb`,
		date, fiat, crypto, total, data)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

func (r *PgRepository) GetLatest(ctx context.Context) (*Snapshot, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT id, snapshot_date, fiat_balance, crypto_balance, total_value, data, created_at
		 FROM balance_snapshots
		 ORDER BY snapshot_date DESC
		 LIMIT 1`))
}

func (r *PgRepository) GetByDate(ctx context.Context, date time.Time) (*Snapshot, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT id, snapshot_date, fiat_balance, crypto_balance, total_value, data, created_at
		 FROM balance_snapshots
		 WHERE snapshot_date = $1`, date))
}

func (r *PgRepository) List(ctx context.Context, limit int) ([]Snapshot, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, snapshot_date, fiat_balance, crypto_balance, total_value, data, created_at
		 FROM balance_snapshots
		 ORDER BY snapshot_date DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.ID, &s.SnapshotDate, &s.FiatBalance, &s.CryptoBalance, &s.TotalValue, &s.Data, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

func (r *PgRepository) scanOne(row pgx.Row) (*Snapshot, error) {
	var s Snapshot
	err := row.Scan(&s.ID, &s.SnapshotDate, &s.FiatBalance, &s.CryptoBalance, &s.TotalValue, &s.Data, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting snapshot: %w", err)
	}
	return &s, nil
}
