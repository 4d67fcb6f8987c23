package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"homebid/internal/utils"
	"homebid/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pendingPaymentTableName = "homebid.pending_bid_payments"

// pendingPaymentRow is the table shape; fields is stored as jsonb.
type pendingPaymentRow struct {
	ID                string     `db:"id"`
	BidID             string     `db:"bid_id"`
	ContractorID      string     `db:"contractor_id"`
	CheckoutSessionID string     `db:"checkout_session_id"`
	Fields            []byte     `db:"fields"`
	CreatedAt         time.Time  `db:"created_at"`
	CompletedAt       *time.Time `db:"completed_at"`
}

var pendingPaymentColumns = utils.StructTagValues(pendingPaymentRow{})

func pendingPaymentToRow(p *types.PendingBidPayment) (*pendingPaymentRow, error) {
	fields, err := json.Marshal(p.Fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode pending payment fields: %w", err)
	}
	return &pendingPaymentRow{
		ID:                p.ID,
		BidID:             p.BidID,
		ContractorID:      p.ContractorID,
		CheckoutSessionID: p.CheckoutSessionID,
		Fields:            fields,
		CreatedAt:         p.CreatedAt,
		CompletedAt:       p.CompletedAt,
	}, nil
}

func (row *pendingPaymentRow) payment() (*types.PendingBidPayment, error) {
	p := &types.PendingBidPayment{
		ID:                row.ID,
		BidID:             row.BidID,
		ContractorID:      row.ContractorID,
		CheckoutSessionID: row.CheckoutSessionID,
		CreatedAt:         row.CreatedAt,
		CompletedAt:       row.CompletedAt,
	}
	if len(row.Fields) > 0 {
		if err := json.Unmarshal(row.Fields, &p.Fields); err != nil {
			return nil, fmt.Errorf("failed to decode pending payment %s fields: %w", row.ID, err)
		}
	}
	return p, nil
}

type PendingPaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPendingPaymentRepository(pool *pgxpool.Pool) *PendingPaymentRepository {
	return &PendingPaymentRepository{pool: pool}
}

func (r *PendingPaymentRepository) Create(ctx context.Context, payment *types.PendingBidPayment) error {
	if payment.ID == "" {
		payment.ID = utils.NanoID()
	}
	payment.CreatedAt = time.Now()

	row, err := pendingPaymentToRow(payment)
	if err != nil {
		return err
	}

	query, args, err := psql().
		Insert(pendingPaymentTableName).
		SetMap(utils.StructToMap(row)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create pending payment query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create pending payment")
}

func (r *PendingPaymentRepository) PendingPayment(ctx context.Context, id string) (*types.PendingBidPayment, error) {
	query, args, err := psql().
		Select(pendingPaymentColumns...).
		From(pendingPaymentTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate pending payment query: %w", err)
	}

	var row pendingPaymentRow
	err = pgxscan.Get(ctx, r.pool, &row, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrPendingPaymentNotFound
		}
		return nil, fmt.Errorf("failed to fetch pending payment: %w", err)
	}

	return row.payment()
}

// MarkCompleted stamps the payment once its draft has been resubmitted.
func (r *PendingPaymentRepository) MarkCompleted(ctx context.Context, id string) error {
	query, args, err := psql().
		Update(pendingPaymentTableName).
		Set("completed_at", time.Now()).
		Where(sq.Eq{"id": id, "completed_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate complete pending payment query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to complete pending payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrPendingPaymentNotFound
	}

	return nil
}
