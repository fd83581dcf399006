package dataset

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lowkh/coewatch/internal/contracts"
)

// Repository archives bidding records in PostgreSQL. It implements
// Source, so the store can load history from the archive instead of a
// CSV file, and the fetcher upserts newly published rounds into it.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new bidding-record repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the archive table if it does not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS bidding_records (
			vehicle_class TEXT NOT NULL,
			month         DATE NOT NULL,
			bidding_no    INT  NOT NULL,
			quota         DOUBLE PRECISION NOT NULL DEFAULT 0,
			bids_received DOUBLE PRECISION NOT NULL DEFAULT 0,
			bids_success  DOUBLE PRECISION NOT NULL DEFAULT 0,
			premium       DOUBLE PRECISION NOT NULL DEFAULT 0,
			PRIMARY KEY (vehicle_class, month, bidding_no)
		)
	`

	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure bidding_records schema: %w", err)
	}
	return nil
}

// Load retrieves the full archive in (vehicle_class, month, bidding_no)
// order.
func (r *Repository) Load(ctx context.Context) ([]contracts.BiddingRecord, error) {
	query := `
		SELECT vehicle_class, month, bidding_no, quota, bids_received, bids_success, premium
		FROM bidding_records
		ORDER BY vehicle_class, month, bidding_no
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []contracts.BiddingRecord
	for rows.Next() {
		var rec contracts.BiddingRecord
		if err := rows.Scan(
			&rec.VehicleClass, &rec.Month, &rec.BiddingNo,
			&rec.Quota, &rec.BidsReceived, &rec.BidsSuccess, &rec.Premium,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Upsert inserts or updates records, returning how many were written.
// Re-fetching an already archived round overwrites it in place.
func (r *Repository) Upsert(ctx context.Context, records []contracts.BiddingRecord) (int, error) {
	query := `
		INSERT INTO bidding_records
			(vehicle_class, month, bidding_no, quota, bids_received, bids_success, premium)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (vehicle_class, month, bidding_no) DO UPDATE SET
			quota = EXCLUDED.quota,
			bids_received = EXCLUDED.bids_received,
			bids_success = EXCLUDED.bids_success,
			premium = EXCLUDED.premium
	`

	written := 0
	for _, rec := range records {
		if _, err := r.pool.Exec(ctx, query,
			rec.VehicleClass, rec.Month, rec.BiddingNo,
			rec.Quota, rec.BidsReceived, rec.BidsSuccess, rec.Premium,
		); err != nil {
			return written, fmt.Errorf("failed to upsert record %s/%s/%d: %w",
				rec.VehicleClass, rec.Month.Format("2006-01"), rec.BiddingNo, err)
		}
		written++
	}
	return written, nil
}

// Count returns the number of archived records.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM bidding_records`).Scan(&count)
	return count, err
}
