package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tiendamx/pos-mostrador/internal/domain"
	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
	"github.com/tiendamx/pos-mostrador/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepository)(nil)

// UserRepository usuarios sobre SQLite.
type UserRepository struct {
	q Querier
}

func NewUserRepository(q Querier) *UserRepository {
	return &UserRepository{q: q}
}

const userColumns = `id, username, password_hash, full_name, role, is_active, created_at`

func (r *UserRepository) Create(u *entity.User) (int64, error) {
	res, err := r.q.Exec(`INSERT INTO users
		(username, password_hash, full_name, role, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.Username, u.PasswordHash, u.FullName, u.Role, u.IsActive, formatTime(time.Now()))
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrDuplicate
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return res.LastInsertId()
}

func (r *UserRepository) GetByID(id int64) (*entity.User, error) {
	row := r.q.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByUsername(username string) (*entity.User, error) {
	row := r.q.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

func (r *UserRepository) List() ([]*entity.User, error) {
	rows, err := r.q.Query(`SELECT ` + userColumns + ` FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var out []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepository) UpdateRole(id int64, role string) error {
	res, err := r.q.Exec(`UPDATE users SET role = ? WHERE id = ?`, role, id)
	if err != nil {
		return fmt.Errorf("update user role: %w", err)
	}
	return requireRows(res)
}

func (r *UserRepository) SetActive(id int64, active bool) error {
	res, err := r.q.Exec(`UPDATE users SET is_active = ? WHERE id = ?`, active, id)
	if err != nil {
		return fmt.Errorf("set user active: %w", err)
	}
	return requireRows(res)
}

func scanUser(row rowScanner) (*entity.User, error) {
	var (
		u       entity.User
		created string
	)
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &u.Role,
		&u.IsActive, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.CreatedAt = parseTime(created)
	return &u, nil
}

var _ repository.BranchRepository = (*BranchRepository)(nil)

// BranchRepository sucursales sobre SQLite.
type BranchRepository struct {
	q Querier
}

func NewBranchRepository(q Querier) *BranchRepository {
	return &BranchRepository{q: q}
}

func (r *BranchRepository) Create(b *entity.Branch) (int64, error) {
	res, err := r.q.Exec(`INSERT INTO branches (name, currency, timezone, is_default)
		VALUES (?, ?, ?, ?)`, b.Name, b.Currency, b.Timezone, b.IsDefault)
	if err != nil {
		return 0, fmt.Errorf("insert branch: %w", err)
	}
	return res.LastInsertId()
}

func (r *BranchRepository) GetByID(id int64) (*entity.Branch, error) {
	row := r.q.QueryRow(`SELECT id, name, currency, timezone, is_default FROM branches WHERE id = ?`, id)
	return scanBranch(row)
}

func (r *BranchRepository) GetDefault() (*entity.Branch, error) {
	row := r.q.QueryRow(`SELECT id, name, currency, timezone, is_default
		FROM branches ORDER BY is_default DESC, id LIMIT 1`)
	return scanBranch(row)
}

func (r *BranchRepository) List() ([]*entity.Branch, error) {
	rows, err := r.q.Query(`SELECT id, name, currency, timezone, is_default FROM branches ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close()
	var out []*entity.Branch
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBranch(row rowScanner) (*entity.Branch, error) {
	var b entity.Branch
	err := row.Scan(&b.ID, &b.Name, &b.Currency, &b.Timezone, &b.IsDefault)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan branch: %w", err)
	}
	return &b, nil
}

var _ repository.AuditRepository = (*AuditRepository)(nil)

// AuditRepository registro de auditoría sobre SQLite.
type AuditRepository struct {
	q Querier
}

func NewAuditRepository(q Querier) *AuditRepository {
	return &AuditRepository{q: q}
}

func (r *AuditRepository) Create(log *entity.AuditLog) error {
	ts := log.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	payload := log.Payload
	if payload == "" {
		payload = "{}"
	}
	_, err := r.q.Exec(`INSERT INTO audit_logs (user_id, action, payload, timestamp)
		VALUES (?, ?, ?, ?)`,
		int64PtrArg(log.UserID), log.Action, payload, formatTime(ts))
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

func (r *AuditRepository) List(limit int) ([]*entity.AuditLog, error) {
	rows, err := r.q.Query(`SELECT id, user_id, action, payload, timestamp
		FROM audit_logs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()
	var out []*entity.AuditLog
	for rows.Next() {
		var (
			l      entity.AuditLog
			userID sql.NullInt64
			ts     string
		)
		if err := rows.Scan(&l.ID, &userID, &l.Action, &l.Payload, &ts); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		l.UserID = nullInt64Ptr(userID)
		l.Timestamp = parseTime(ts)
		out = append(out, &l)
	}
	return out, rows.Err()
}

var _ repository.APITokenRepository = (*APITokenRepository)(nil)

// APITokenRepository tokens de caja sobre SQLite.
type APITokenRepository struct {
	q Querier
}

func NewAPITokenRepository(q Querier) *APITokenRepository {
	return &APITokenRepository{q: q}
}

func (r *APITokenRepository) Create(t *entity.APIToken) (int64, error) {
	res, err := r.q.Exec(`INSERT INTO api_tokens
		(user_id, token, role, description, created_at, is_active)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.UserID, t.Token, t.Role, t.Description, formatTime(time.Now()), t.IsActive)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrDuplicate
		}
		return 0, fmt.Errorf("insert api token: %w", err)
	}
	return res.LastInsertId()
}

func (r *APITokenRepository) GetByToken(token string) (*entity.APIToken, error) {
	var (
		t       entity.APIToken
		created string
	)
	err := r.q.QueryRow(`SELECT id, user_id, token, role, description, created_at, is_active
		FROM api_tokens WHERE token = ? AND is_active = 1`, token).
		Scan(&t.ID, &t.UserID, &t.Token, &t.Role, &t.Description, &created, &t.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get api token: %w", err)
	}
	t.CreatedAt = parseTime(created)
	return &t, nil
}

func (r *APITokenRepository) Revoke(id int64) error {
	res, err := r.q.Exec(`UPDATE api_tokens SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("revoke api token: %w", err)
	}
	return requireRows(res)
}

func (r *APITokenRepository) List() ([]*entity.APIToken, error) {
	rows, err := r.q.Query(`SELECT id, user_id, token, role, description, created_at, is_active
		FROM api_tokens ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list api tokens: %w", err)
	}
	defer rows.Close()
	var out []*entity.APIToken
	for rows.Next() {
		var (
			t       entity.APIToken
			created string
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Token, &t.Role, &t.Description,
			&created, &t.IsActive); err != nil {
			return nil, fmt.Errorf("scan api token: %w", err)
		}
		t.CreatedAt = parseTime(created)
		out = append(out, &t)
	}
	return out, rows.Err()
}
