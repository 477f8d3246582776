package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrAccountExists is returned by Create when the name is already taken.
var ErrAccountExists = errors.New("persist: account already exists")

// AccountRow is one row of the accounts table.
type AccountRow struct {
	ID           uint32
	Name         string
	PasswordHash string
	Locale       string // last client locale, e.g. "deDE"
	IP           string
	Banned       bool
	Online       bool
	CreatedAt    time.Time
	LastActive   *time.Time
}

// AccountRepo stores login accounts. Passwords are kept as bcrypt hashes.
type AccountRepo struct {
	db         *DB
	bcryptCost int
}

func NewAccountRepo(db *DB) *AccountRepo {
	return &AccountRepo{db: db, bcryptCost: bcrypt.DefaultCost}
}

const accountColumns = `id, name, password_hash, locale, COALESCE(ip, ''),
	banned, online, created_at, last_active`

func scanAccount(row pgx.Row) (*AccountRow, error) {
	a := &AccountRow{}
	err := row.Scan(
		&a.ID, &a.Name, &a.PasswordHash, &a.Locale, &a.IP,
		&a.Banned, &a.Online, &a.CreatedAt, &a.LastActive,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Load returns the account with the given name, or nil when none exists.
func (r *AccountRepo) Load(ctx context.Context, name string) (*AccountRow, error) {
	a, err := scanAccount(r.db.Pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE name = $1`, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load account %q: %w", name, err)
	}
	return a, nil
}

// Create inserts a new account. Two sessions racing to auto-create the
// same name get ErrAccountExists on the losing side.
func (r *AccountRepo) Create(ctx context.Context, name, rawPassword, locale, ip string) (*AccountRow, error) {
	hash, err := HashPassword(rawPassword, r.bcryptCost)
	if err != nil {
		return nil, err
	}
	a, err := scanAccount(r.db.Pool.QueryRow(ctx,
		`INSERT INTO accounts (name, password_hash, locale, ip, last_active)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (name) DO NOTHING
		 RETURNING `+accountColumns,
		name, hash, locale, ip,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("create account %q: %w", name, ErrAccountExists)
	}
	if err != nil {
		return nil, fmt.Errorf("create account %q: %w", name, err)
	}
	return a, nil
}

func (r *AccountRepo) ValidatePassword(hash string, rawPassword string) bool {
	return CheckPassword(hash, rawPassword)
}

// UpdateLastActive records a successful login.
func (r *AccountRepo) UpdateLastActive(ctx context.Context, id uint32, ip, locale string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE accounts SET last_active = now(), ip = $1, locale = $2 WHERE id = $3`,
		ip, locale, id,
	)
	return err
}

func (r *AccountRepo) SetOnline(ctx context.Context, id uint32, online bool) error {
	_, err := r.db.Pool.Exec(ctx, `UPDATE accounts SET online = $1 WHERE id = $2`, online, id)
	return err
}

// ResetOnline clears stale online flags left by an unclean shutdown.
func (r *AccountRepo) ResetOnline(ctx context.Context) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx, `UPDATE accounts SET online = FALSE WHERE online`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// HashPassword returns the bcrypt hash of a raw password.
func HashPassword(rawPassword string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether rawPassword matches a bcrypt hash.
func CheckPassword(hash, rawPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(rawPassword)) == nil
}
