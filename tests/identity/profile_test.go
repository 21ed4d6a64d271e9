package identity_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/aquaguardian/aquaguardian/internal/identity"
)

func TestProfileNullFullName(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	sys := identity.New(
		identity.Config{Issuer: "https://auth.example.com"},
		db,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	id := uuid.New()
	columns := []string{"id", "email", "full_name", "role", "wallet_address", "created_at"}

	mock.ExpectQuery("SELECT (.+) FROM public.users").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(id.String(), "rahul@example.com", nil, "citizen", nil, time.Now()))

	profile, err := sys.Profile(context.Background(), id)
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}

	if profile.FullName != "" {
		t.Errorf("FullName = %q, want empty for missing name", profile.FullName)
	}
	if got := profile.DisplayName(); got != "rahul@example.com" {
		t.Errorf("DisplayName() = %q, want email fallback", got)
	}
	if profile.WalletAddress != nil {
		t.Errorf("WalletAddress = %v, want nil", *profile.WalletAddress)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
