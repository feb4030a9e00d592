package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"time"

	"github.com/jackc/pgx/v5"

	"github.com/miruku-pixel/poddo-pos-engine/internal/domain"
	"github.com/miruku-pixel/poddo-pos-engine/internal/interfaces"
)

type reconciliationRepository struct {
	db DB
}

func NewReconciliationRepository(db DB) interfaces.ReconciliationRepository {
	return &reconciliationRepository{db: db}
}

// Find returns nil without error when no record exists for the day yet.
func (r *reconciliationRepository) Find(ctx context.Context, outletID int, date time.Time) (*domain.DailyCashRecord, error) {
	query := `
		SELECT id, outlet_id, date, previous_balance, cash_revenue, cash_deposit,
		       adjustment, remaining_balance, remarks, locked, submitted_by, submitted_at
		FROM daily_cash_records
		WHERE outlet_id = $1 AND date = $2
	`

	var rec domain.DailyCashRecord
	var remarks []byte
	err := r.db.QueryRow(ctx, query, outletID, date.Format("2006-01-02")).Scan(
		&rec.ID, &rec.OutletID, &rec.Date, &rec.PreviousBalance, &rec.CashRevenue,
		&rec.CashDeposit, &rec.Adjustment, &rec.RemainingBalance, &remarks,
		&rec.Locked, &rec.SubmittedBy, &rec.SubmittedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load daily cash record: %w", err)
	}

	if len(remarks) > 0 {
		if err := json.Unmarshal(remarks, &rec.Remarks); err != nil {
			return nil, fmt.Errorf("failed to decode remarks: %w", err)
		}
	}

	return &rec, nil
}

// Upsert writes the record keyed by (outlet, date); a re-submission after
// unlock overwrites the prior values in place.
func (r *reconciliationRepository) Upsert(ctx context.Context, record *domain.DailyCashRecord) error {
	remarks, err := json.Marshal(record.Remarks)
	if err != nil {
		return fmt.Errorf("failed to encode remarks: %w", err)
	}

	query := `
		INSERT INTO daily_cash_records (outlet_id, date, previous_balance, cash_revenue,
		                                cash_deposit, adjustment, remaining_balance,
		                                remarks, locked, submitted_by, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (outlet_id, date) DO UPDATE
		SET previous_balance = EXCLUDED.previous_balance,
		    cash_revenue = EXCLUDED.cash_revenue,
		    cash_deposit = EXCLUDED.cash_deposit,
		    adjustment = EXCLUDED.adjustment,
		    remaining_balance = EXCLUDED.remaining_balance,
		    remarks = EXCLUDED.remarks,
		    locked = EXCLUDED.locked,
		    submitted_by = EXCLUDED.submitted_by,
		    submitted_at = EXCLUDED.submitted_at
		RETURNING id
	`
	err = r.db.QueryRow(ctx, query,
		record.OutletID, record.Date.Format("2006-01-02"), record.PreviousBalance,
		record.CashRevenue, record.CashDeposit, record.Adjustment,
		record.RemainingBalance, remarks, record.Locked,
		record.SubmittedBy, record.SubmittedAt,
	).Scan(&record.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert daily cash record: %w", err)
	}
	return nil
}

// Unlock clears the lock flag; prior values stay in place.
func (r *reconciliationRepository) Unlock(ctx context.Context, outletID int, date time.Time) error {
	query := `
		UPDATE daily_cash_records SET locked = FALSE
		WHERE outlet_id = $1 AND date = $2
	`
	tag, err := r.db.Exec(ctx, query, outletID, date.Format("2006-01-02"))
	if err != nil {
		return fmt.Errorf("failed to unlock daily cash record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no daily cash record for outlet %d on %s", outletID, date.Format("2006-01-02"))
	}
	return nil
}

func (r *reconciliationRepository) PreviousRemaining(ctx context.Context, outletID int, date time.Time) (int64, error) {
	query := `
		SELECT remaining_balance
		FROM daily_cash_records
		WHERE outlet_id = $1 AND date < $2
		ORDER BY date DESC
		LIMIT 1
	`

	var balance int64
	err := r.db.QueryRow(ctx, query, outletID, date.Format("2006-01-02")).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to load previous balance: %w", err)
	}
	return balance, nil
}
