package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	authDomain "etf-fortune/internal/domain/auth"
	authinfra "etf-fortune/internal/infrastructure/auth"
)

// AuthRepo 提供使用者與 refresh session 的存取。
type AuthRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewAuthRepo 建立 AuthRepo。
func NewAuthRepo(db *sql.DB) *AuthRepo {
	return &AuthRepo{db: db, now: time.Now}
}

const selectUser = `
SELECT id, email, display_name, password_hash, role, status
FROM users
`

// FindByEmail 依 email 查詢使用者。
func (r *AuthRepo) FindByEmail(ctx context.Context, email string) (authDomain.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, selectUser+"WHERE email = $1;", authDomain.NormalizeEmail(email)))
}

// FindByID 依 ID 查詢使用者。
func (r *AuthRepo) FindByID(ctx context.Context, id string) (authDomain.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, selectUser+"WHERE id = $1;", id))
}

func (r *AuthRepo) scanUser(row *sql.Row) (authDomain.User, error) {
	var u authDomain.User
	var role, status string
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Password, &role, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return authDomain.User{}, authDomain.ErrUserNotFound
	}
	if err != nil {
		return authDomain.User{}, err
	}
	u.Role = authDomain.Role(role)
	u.Status = authDomain.Status(status)
	return u, nil
}

// SeedDefaults 建立預設帳號（admin/user），密碼為 authinfra.DefaultPassword。
func (r *AuthRepo) SeedDefaults(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	users := []struct {
		email string
		name  string
		role  authDomain.Role
	}{
		{"admin@example.com", "Admin", authDomain.RoleAdmin},
		{"user@example.com", "User", authDomain.RoleUser},
	}
	for _, u := range users {
		hash, err := authinfra.HashPassword(authinfra.DefaultPassword)
		if err != nil {
			return err
		}
		if err := upsertUserTx(ctx, tx, u.email, u.name, hash, u.role); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func upsertUserTx(ctx context.Context, tx *sql.Tx, email, name, passwordHash string, role authDomain.Role) error {
	const q = `
INSERT INTO users (email, display_name, password_hash, role, status)
VALUES ($1, $2, $3, $4, 'active')
ON CONFLICT (email) DO NOTHING;
`
	_, err := tx.ExecContext(ctx, q, email, name, passwordHash, string(role))
	return err
}

// SaveSession 寫入 refresh session。
func (r *AuthRepo) SaveSession(ctx context.Context, sess authDomain.Session) error {
	const q = `
INSERT INTO auth_sessions (user_id, refresh_token, expires_at, user_agent, ip_address)
VALUES ($1, $2, $3, $4, $5);
`
	_, err := r.db.ExecContext(ctx, q, sess.UserID, sess.Token, sess.ExpiresAt, sess.UserAgent, sess.IPAddress)
	return err
}

// GetSession 查無 token 時回傳 ErrSessionNotFound。
func (r *AuthRepo) GetSession(ctx context.Context, token string) (authDomain.Session, error) {
	const q = `
SELECT user_id, refresh_token, expires_at, revoked_at, user_agent, ip_address, created_at
FROM auth_sessions
WHERE refresh_token = $1;
`
	var sess authDomain.Session
	var revoked sql.NullTime
	err := r.db.QueryRowContext(ctx, q, token).Scan(&sess.UserID, &sess.Token, &sess.ExpiresAt, &revoked, &sess.UserAgent, &sess.IPAddress, &sess.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return authDomain.Session{}, authDomain.ErrSessionNotFound
	}
	if err != nil {
		return authDomain.Session{}, err
	}
	if revoked.Valid {
		at := revoked.Time
		sess.RevokedAt = &at
	}
	return sess, nil
}

// RevokeSession 標記撤銷時間，已撤銷者不覆寫。
func (r *AuthRepo) RevokeSession(ctx context.Context, token string) error {
	const q = `
UPDATE auth_sessions SET revoked_at = $2
WHERE refresh_token = $1 AND revoked_at IS NULL;
`
	_, err := r.db.ExecContext(ctx, q, token, r.now())
	return err
}
