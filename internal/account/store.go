// Package account implements user registration, password verification,
// and bearer-token sessions. Credentials live in a SQLite database;
// passwords are stored as salted PBKDF2-SHA256 keys.
package account

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/pbkdf2"

	"github.com/starford/daybook/internal/apperr"
)

const (
	pbkdf2Iterations = 150000
	pbkdf2KeyLen     = 32
	saltLen          = 16

	minPasswordLen = 6
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	username   TEXT PRIMARY KEY,
	salt       TEXT NOT NULL,
	key        TEXT NOT NULL,
	iterations INTEGER NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	last_login DATETIME
);
`

// DB wraps the SQLite connection holding user credentials.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the account database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("account: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("account: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("account: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// ValidateUsername rejects empty names and names carrying characters
// that are unsafe in a file-system path segment, since the username
// doubles as the user's storage directory.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("account: username is required: %w", apperr.ErrInvalidArgument)
	}
	if strings.ContainsAny(username, ` \/:`) {
		return fmt.Errorf("account: username contains illegal characters: %w", apperr.ErrInvalidArgument)
	}
	return nil
}

// Register creates a new user with a fresh salt and derived key.
func (db *DB) Register(username, password string) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("account: password must be at least %d characters: %w", minPasswordLen, apperr.ErrInvalidArgument)
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("account: generate salt: %w", err)
	}
	key := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLen, sha256.New)

	_, err := db.conn.Exec(
		`INSERT INTO users (username, salt, key, iterations) VALUES (?, ?, ?, ?)`,
		username, hex.EncodeToString(salt), hex.EncodeToString(key), pbkdf2Iterations,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("account: username %q is taken: %w", username, apperr.ErrAlreadyExists)
		}
		return fmt.Errorf("account: insert user: %w", err)
	}
	return nil
}

// Authenticate verifies a username/password pair and records the login
// time. Unknown users and wrong passwords both return ErrUnauthorized
// so that callers cannot distinguish the two.
func (db *DB) Authenticate(username, password string) error {
	var saltHex, keyHex string
	var iterations int
	err := db.conn.QueryRow(
		`SELECT salt, key, iterations FROM users WHERE username = ?`, username,
	).Scan(&saltHex, &keyHex, &iterations)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("account: unknown user: %w", apperr.ErrUnauthorized)
		}
		return fmt.Errorf("account: query user: %w", err)
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return fmt.Errorf("account: corrupt salt for %q: %w", username, err)
	}
	stored, err := hex.DecodeString(keyHex)
	if err != nil {
		return fmt.Errorf("account: corrupt key for %q: %w", username, err)
	}

	derived := pbkdf2.Key([]byte(password), salt, iterations, len(stored), sha256.New)
	if subtle.ConstantTimeCompare(derived, stored) != 1 {
		return fmt.Errorf("account: wrong password: %w", apperr.ErrUnauthorized)
	}

	_, _ = db.conn.Exec(`UPDATE users SET last_login = ? WHERE username = ?`, time.Now(), username)
	return nil
}

// Exists reports whether a user is registered.
func (db *DB) Exists(username string) (bool, error) {
	var one int
	err := db.conn.QueryRow(`SELECT 1 FROM users WHERE username = ?`, username).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("account: query user: %w", err)
	}
	return true, nil
}

// Usernames returns every registered username, sorted.
func (db *DB) Usernames() ([]string, error) {
	rows, err := db.conn.Query(`SELECT username FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("account: list users: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
