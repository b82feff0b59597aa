package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"etf-fortune/internal/application/disclaimer"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestAckRepo_SaveAndLatest(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %s", err)
	}
	defer db.Close()
	repo := NewAckRepo(db)

	at := time.Date(2024, 1, 15, 1, 0, 0, 0, time.UTC)
	ack := disclaimer.Acknowledgment{ID: "a-1", UserID: "u-1", Level: disclaimer.LevelHigh, AcknowledgedAt: at}

	mock.ExpectExec("INSERT INTO disclaimer_acks").
		WithArgs("a-1", "u-1", string(disclaimer.LevelHigh), at).
		WillReturnResult(sqlmock.NewResult(1, 1))
	if err := repo.SaveAcknowledgment(context.Background(), ack); err != nil {
		t.Fatalf("SaveAcknowledgment failed: %v", err)
	}

	mock.ExpectQuery("SELECT (.+) FROM disclaimer_acks").
		WithArgs("u-1", string(disclaimer.LevelHigh)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "level", "acknowledged_at"}).AddRow("a-1", "u-1", "high", at))
	got, err := repo.LatestAcknowledgment(context.Background(), "u-1", disclaimer.LevelHigh)
	if err != nil {
		t.Fatalf("LatestAcknowledgment failed: %v", err)
	}
	if got.ID != "a-1" || !got.AcknowledgedAt.Equal(at) || got.Level != disclaimer.LevelHigh {
		t.Errorf("unexpected ack: %+v", got)
	}
}

func TestAckRepo_LatestNone(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %s", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM disclaimer_acks").WillReturnError(sql.ErrNoRows)
	if _, err := NewAckRepo(db).LatestAcknowledgment(context.Background(), "u-1", disclaimer.LevelCritical); !errors.Is(err, disclaimer.ErrNoAcknowledgment) {
		t.Errorf("expected ErrNoAcknowledgment, got %v", err)
	}
}
