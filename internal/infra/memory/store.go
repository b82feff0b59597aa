package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"etf-fortune/internal/application/disclaimer"
	"etf-fortune/internal/application/profile"
	authDomain "etf-fortune/internal/domain/auth"
	dataDomain "etf-fortune/internal/domain/dataingestion"
	"etf-fortune/internal/domain/fortune"
	authinfra "etf-fortune/internal/infrastructure/auth"
)

// Store 為未設定資料庫時使用的記憶體儲存，實作所有 repository 介面。
type Store struct {
	mu       sync.RWMutex
	users    map[string]authDomain.User
	sessions map[string]authDomain.Session
	profiles map[string]fortune.UserProfile
	prices   map[string]map[string]dataDomain.DailyPrice // symbol -> date -> price
	acks     []disclaimer.Acknowledgment
	idSeq    int64
}

// NewStore 建立新的記憶體 Store 實例。
func NewStore() *Store {
	return &Store{
		users:    make(map[string]authDomain.User),
		sessions: make(map[string]authDomain.Session),
		profiles: make(map[string]fortune.UserProfile),
		prices:   make(map[string]map[string]dataDomain.DailyPrice),
	}
}

func (s *Store) nextID() string {
	s.idSeq++
	return fmt.Sprintf("id-%d", s.idSeq)
}

// SeedUsers 建立預設帳號供登入測試。
func (s *Store) SeedUsers() error {
	hash, err := authinfra.HashPassword(authinfra.DefaultPassword)
	if err != nil {
		return err
	}
	s.AddUser("admin@example.com", hash, "Admin", authDomain.RoleAdmin)
	s.AddUser("user@example.com", hash, "User", authDomain.RoleUser)
	return nil
}

// AddUser 新增啟用中的帳號，password 需為雜湊後的值。
func (s *Store) AddUser(email, passwordHash, name string, role authDomain.Role) authDomain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := authDomain.User{
		ID:       s.nextID(),
		Email:    authDomain.NormalizeEmail(email),
		Name:     name,
		Role:     role,
		Status:   authDomain.StatusActive,
		Password: passwordHash,
	}
	s.users[user.ID] = user
	return user
}

// FindByEmail 依 email 查詢使用者。
func (s *Store) FindByEmail(_ context.Context, email string) (authDomain.User, error) {
	email = authDomain.NormalizeEmail(email)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return authDomain.User{}, authDomain.ErrUserNotFound
}

// FindByID 依 ID 查詢使用者。
func (s *Store) FindByID(_ context.Context, id string) (authDomain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return authDomain.User{}, authDomain.ErrUserNotFound
	}
	return u, nil
}

// SaveSession 實作 auth.SessionStore。
func (s *Store) SaveSession(_ context.Context, sess authDomain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.Token] = sess
	return nil
}

func (s *Store) GetSession(_ context.Context, token string) (authDomain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[token]
	if !ok {
		return authDomain.Session{}, authDomain.ErrSessionNotFound
	}
	return sess, nil
}

func (s *Store) RevokeSession(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok || sess.RevokedAt != nil {
		return nil
	}
	now := time.Now()
	sess.RevokedAt = &now
	s.sessions[token] = sess
	return nil
}

// FindProfile 實作 profile.Repository。
func (s *Store) FindProfile(_ context.Context, userID string) (fortune.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return fortune.UserProfile{}, profile.ErrNotFound
	}
	return cloneProfile(p), nil
}

func (s *Store) SaveProfile(_ context.Context, userID string, p fortune.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[userID] = cloneProfile(p)
	return nil
}

func cloneProfile(p fortune.UserProfile) fortune.UserProfile {
	p.LuckyColors = append([]string(nil), p.LuckyColors...)
	p.LuckyNumbers = append([]int(nil), p.LuckyNumbers...)
	return p
}

// UpsertDailyPrice 以 symbol + 交易日為鍵覆寫。
func (s *Store) UpsertDailyPrice(_ context.Context, price dataDomain.DailyPrice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bySymbol, ok := s.prices[price.Symbol]
	if !ok {
		bySymbol = make(map[string]dataDomain.DailyPrice)
		s.prices[price.Symbol] = bySymbol
	}
	bySymbol[price.TradeDate.Format("2006-01-02")] = price
	return nil
}

// ListDailyPrices 依日期遞增回傳區間內資料（含首尾）。
func (s *Store) ListDailyPrices(_ context.Context, symbol string, start, end time.Time) ([]dataDomain.DailyPrice, error) {
	from := start.Format("2006-01-02")
	to := end.Format("2006-01-02")
	s.mu.RLock()
	var out []dataDomain.DailyPrice
	for key, p := range s.prices[symbol] {
		if key >= from && key <= to {
			out = append(out, p)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].TradeDate.Before(out[j].TradeDate) })
	return out, nil
}

// PriceCount 回傳已儲存的筆數，健康檢查使用。
func (s *Store) PriceCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, bySymbol := range s.prices {
		n += len(bySymbol)
	}
	return n
}

// SaveAcknowledgment 實作 disclaimer.AckRepository。
func (s *Store) SaveAcknowledgment(_ context.Context, ack disclaimer.Acknowledgment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acks = append(s.acks, ack)
	return nil
}

func (s *Store) LatestAcknowledgment(_ context.Context, userID string, level disclaimer.Level) (disclaimer.Acknowledgment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest disclaimer.Acknowledgment
	found := false
	for _, a := range s.acks {
		if a.UserID != userID || a.Level != level {
			continue
		}
		if !found || a.AcknowledgedAt.After(latest.AcknowledgedAt) {
			latest = a
			found = true
		}
	}
	if !found {
		return disclaimer.Acknowledgment{}, disclaimer.ErrNoAcknowledgment
	}
	return latest, nil
}
