package postgres

import (
	"context"
	"database/sql"
	"errors"

	"etf-fortune/internal/application/disclaimer"
)

// AckRepo 存取 disclaimer_acks。
type AckRepo struct {
	db *sql.DB
}

func NewAckRepo(db *sql.DB) *AckRepo {
	return &AckRepo{db: db}
}

func (r *AckRepo) SaveAcknowledgment(ctx context.Context, ack disclaimer.Acknowledgment) error {
	const q = `
INSERT INTO disclaimer_acks (id, user_id, level, acknowledged_at)
VALUES ($1, $2, $3, $4);
`
	_, err := r.db.ExecContext(ctx, q, ack.ID, ack.UserID, string(ack.Level), ack.AcknowledgedAt)
	return err
}

// LatestAcknowledgment 查無紀錄時回傳 disclaimer.ErrNoAcknowledgment。
func (r *AckRepo) LatestAcknowledgment(ctx context.Context, userID string, level disclaimer.Level) (disclaimer.Acknowledgment, error) {
	const q = `
SELECT id, user_id, level, acknowledged_at
FROM disclaimer_acks
WHERE user_id = $1 AND level = $2
ORDER BY acknowledged_at DESC
LIMIT 1;
`
	var ack disclaimer.Acknowledgment
	var lvl string
	err := r.db.QueryRowContext(ctx, q, userID, string(level)).Scan(&ack.ID, &ack.UserID, &lvl, &ack.AcknowledgedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return disclaimer.Acknowledgment{}, disclaimer.ErrNoAcknowledgment
	}
	if err != nil {
		return disclaimer.Acknowledgment{}, err
	}
	ack.Level = disclaimer.Level(lvl)
	return ack, nil
}
