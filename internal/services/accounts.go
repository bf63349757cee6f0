package services

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"time"

	"adaptlearn-backend-go/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

const uniqueViolation = "23505"

// CreateAccount inserts a new account row. The username is the primary key;
// a collision leaves the existing row untouched.
func CreateAccount(db *sqlx.DB, username, email, passwordHash string) (models.Account, error) {
	account := models.Account{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	_, err := db.Exec(`
INSERT INTO users (username, email, password_hash, created_at)
VALUES ($1,$2,$3,$4)
`, account.Username, account.Email, account.PasswordHash, account.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.Account{}, ErrDuplicateKey("Username already exists")
		}
		return models.Account{}, dbError(err, "create account")
	}
	return account, nil
}

func GetAccount(db *sqlx.DB, username string) (models.Account, error) {
	account := models.Account{}
	err := db.Get(&account, `
SELECT username, email, password_hash, created_at, last_login
FROM users
WHERE username = $1
`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, ErrNotFound("Account not found")
	}
	if err != nil {
		return models.Account{}, dbError(err, "get account")
	}
	return account, nil
}

// EmailInUse reports whether any account already claims the email,
// case-insensitively. Email is not unique-constrained at the storage level;
// registration enforces it here.
func EmailInUse(db *sqlx.DB, email string) (bool, error) {
	var exists bool
	err := db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1))`, email)
	if err != nil {
		return false, dbError(err, "check email")
	}
	return exists, nil
}

// RecordLogin stamps last_login, leaving every other column unchanged.
func RecordLogin(db *sqlx.DB, username string, at time.Time) error {
	result, err := db.Exec(`UPDATE users SET last_login = $1 WHERE username = $2`, at.UTC(), username)
	if err != nil {
		return dbError(err, "record login")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return dbError(err, "record login")
	}
	if affected == 0 {
		return ErrNotFound("Account not found")
	}
	return nil
}

func UpdatePassword(db *sqlx.DB, username, passwordHash string) error {
	result, err := db.Exec(`UPDATE users SET password_hash = $1 WHERE username = $2`, passwordHash, username)
	if err != nil {
		return dbError(err, "update password")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return dbError(err, "update password")
	}
	if affected == 0 {
		return ErrNotFound("Account not found")
	}
	return nil
}

// DeleteAccount removes the account and its learning state in one
// transaction. The tables carry no foreign key, so the cascade lives here.
func DeleteAccount(db *sqlx.DB, username string) error {
	tx, err := db.Beginx()
	if err != nil {
		return dbError(err, "delete account")
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.Exec(`DELETE FROM rl_state WHERE username = $1`, username); err != nil {
		return dbError(err, "delete account")
	}
	if _, err := tx.Exec(`DELETE FROM users WHERE username = $1`, username); err != nil {
		return dbError(err, "delete account")
	}
	if err := tx.Commit(); err != nil {
		return dbError(err, "delete account")
	}
	return nil
}

// dbError maps driver failures onto the error taxonomy. Constraint
// violations are handled at call sites that expect them; anything that looks
// like a lost connection becomes a connectivity error.
func dbError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, driver.ErrBadConn) {
		return ErrConnectivity("Database unavailable")
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return ErrConnectivity("Database unavailable")
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return ErrConnectivity("Database unavailable")
	}
	return WrapError(err, msg)
}
