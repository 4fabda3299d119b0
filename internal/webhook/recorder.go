package webhook

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PgRecorder writes delivery attempts to webhook_deliveries.
type PgRecorder struct {
	db *pgxpool.Pool
}

func NewPgRecorder(db *pgxpool.Pool) *PgRecorder {
	return &PgRecorder{db: db}
}

func (r *PgRecorder) Record(ctx context.Context, req DeliveryRequest, res DeliveryResult) error {
	errText := ""
	if res.Err != nil {
		errText = res.Err.Error()
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO webhook_deliveries (delivery_id, job_id, url, event, payload, response_status, error, delivered_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		req.ID, req.JobID, req.URL, req.Event, req.Payload, res.Status, errText, res.DeliveredAt,
	)
	if err != nil {
		return fmt.Errorf("insert webhook delivery: %w", err)
	}
	return nil
}
