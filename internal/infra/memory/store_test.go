package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"etf-fortune/internal/application/disclaimer"
	"etf-fortune/internal/application/profile"
	"etf-fortune/internal/domain/auth"
	"etf-fortune/internal/domain/dataingestion"
	"etf-fortune/internal/domain/fortune"
	authinfra "etf-fortune/internal/infrastructure/auth"
)

func TestStore_Users(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	t.Run("AddAndFind", func(t *testing.T) {
		u := s.AddUser("Test@Example.com", "hash", "Test", auth.RoleUser)
		got, err := s.FindByID(ctx, u.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.Email != "test@example.com" {
			t.Errorf("expected normalized email, got %s", got.Email)
		}
		u2, err := s.FindByEmail(ctx, "TEST@example.com")
		if err != nil || u2.ID != u.ID {
			t.Error("FindByEmail failed")
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		if _, err := s.FindByEmail(ctx, "nobody@example.com"); !errors.Is(err, auth.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
		if _, err := s.FindByID(ctx, "missing"); !errors.Is(err, auth.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("SeedUsers", func(t *testing.T) {
		if err := s.SeedUsers(); err != nil {
			t.Fatal(err)
		}
		admin, err := s.FindByEmail(ctx, "admin@example.com")
		if err != nil {
			t.Fatal("admin user seed failed")
		}
		if admin.Role != auth.RoleAdmin || !(authinfra.BcryptHasher{}).Compare(admin.Password, authinfra.DefaultPassword) {
			t.Errorf("unexpected seeded admin: %+v", admin)
		}
	})
}

func TestStore_Sessions(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	sess := auth.Session{Token: "r-1", UserID: "u-1", ExpiresAt: time.Now().Add(time.Hour)}
	if err := s.SaveSession(ctx, sess); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetSession(ctx, "r-1")
	if err != nil || !got.Active(time.Now()) {
		t.Fatalf("expected active session, got %+v err=%v", got, err)
	}
	if err := s.RevokeSession(ctx, "r-1"); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetSession(ctx, "r-1")
	if got.Active(time.Now()) {
		t.Error("session should be revoked")
	}
	if _, err := s.GetSession(ctx, "missing"); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestStore_Profiles(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if _, err := s.FindProfile(ctx, "u-1"); !errors.Is(err, profile.ErrNotFound) {
		t.Fatalf("expected profile.ErrNotFound, got %v", err)
	}

	p := fortune.UserProfile{Name: "測試用戶", BirthDate: "1990-01-01", BirthTime: "10:30", Zodiac: "馬", LuckyNumbers: []int{3}}
	if err := s.SaveProfile(ctx, "u-1", p); err != nil {
		t.Fatal(err)
	}
	p.LuckyNumbers[0] = 9

	got, err := s.FindProfile(ctx, "u-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "測試用戶" || got.LuckyNumbers[0] != 3 {
		t.Errorf("stored profile should be an independent copy: %+v", got)
	}
}

func TestStore_Prices(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

	for _, d := range []int{5, 2, 3, 4} {
		p := dataingestion.DailyPrice{Symbol: "0050", TradeDate: day(d), Close: float64(100 + d)}
		if err := s.UpsertDailyPrice(ctx, p); err != nil {
			t.Fatal(err)
		}
	}
	// 同日覆寫
	if err := s.UpsertDailyPrice(ctx, dataingestion.DailyPrice{Symbol: "0050", TradeDate: day(3), Close: 200}); err != nil {
		t.Fatal(err)
	}

	got, err := s.ListDailyPrices(ctx, "0050", day(3), day(5))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 prices, got %d", len(got))
	}
	if !got[0].TradeDate.Equal(day(3)) || got[0].Close != 200 || !got[2].TradeDate.Equal(day(5)) {
		t.Errorf("unexpected order or values: %+v", got)
	}
	if s.PriceCount() != 4 {
		t.Errorf("expected 4 stored prices, got %d", s.PriceCount())
	}
	if other, _ := s.ListDailyPrices(ctx, "006208", day(1), day(31)); len(other) != 0 {
		t.Error("unknown symbol should be empty")
	}
}

func TestStore_Acknowledgments(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if _, err := s.LatestAcknowledgment(ctx, "u-1", disclaimer.LevelHigh); !errors.Is(err, disclaimer.ErrNoAcknowledgment) {
		t.Fatalf("expected ErrNoAcknowledgment, got %v", err)
	}

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_ = s.SaveAcknowledgment(ctx, disclaimer.Acknowledgment{ID: "a", UserID: "u-1", Level: disclaimer.LevelHigh, AcknowledgedAt: base.Add(2 * time.Hour)})
	_ = s.SaveAcknowledgment(ctx, disclaimer.Acknowledgment{ID: "b", UserID: "u-1", Level: disclaimer.LevelHigh, AcknowledgedAt: base})
	_ = s.SaveAcknowledgment(ctx, disclaimer.Acknowledgment{ID: "c", UserID: "u-1", Level: disclaimer.LevelCritical, AcknowledgedAt: base.Add(5 * time.Hour)})

	got, err := s.LatestAcknowledgment(ctx, "u-1", disclaimer.LevelHigh)
	if err != nil || got.ID != "a" {
		t.Errorf("expected latest high ack a, got %+v err=%v", got, err)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.UpsertDailyPrice(ctx, dataingestion.DailyPrice{Symbol: "0050", TradeDate: time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC)})
			_, _ = s.ListDailyPrices(ctx, "0050", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
		}(i)
	}
	wg.Wait()
	if s.PriceCount() != 20 {
		t.Errorf("expected 20 prices, got %d", s.PriceCount())
	}
}
