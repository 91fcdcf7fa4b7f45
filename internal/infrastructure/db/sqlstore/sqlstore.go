// Package sqlstore persists users, clients and projects in PostgreSQL or
// SQLite. Queries are built with squirrel so one code path serves both
// dialects; only the placeholder format and the goose migrations differ.
package sqlstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/freelancehub/api/internal/core/domain"
	"github.com/freelancehub/api/internal/infrastructure/db/sqlstore/migrations"
)

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

const pingTimeout = 5 * time.Second

// DB wraps a sqlx handle together with the statement builder for its
// dialect.
type DB struct {
	x       *sqlx.DB
	dialect Dialect
	sb      sq.StatementBuilderType
}

// Open connects to dsn using the driver registered for dialect and checks
// the connection.
func Open(ctx context.Context, dialect Dialect, dsn string) (*DB, error) {
	var driverName string
	switch dialect {
	case DialectPostgres:
		driverName = "pgx"
	case DialectSQLite:
		driverName = "sqlite"
	default:
		return nil, fmt.Errorf("sqlstore: unsupported dialect %q", dialect)
	}

	x, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore open: %w", err)
	}
	if dialect == DialectSQLite {
		// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
		x.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := x.PingContext(pingCtx); err != nil {
		_ = x.Close()
		return nil, fmt.Errorf("sqlstore ping: %w", err)
	}
	return New(x, dialect), nil
}

// New wraps an existing handle.
func New(x *sqlx.DB, dialect Dialect) *DB {
	var placeholder sq.PlaceholderFormat = sq.Question
	if dialect == DialectPostgres {
		placeholder = sq.Dollar
	}
	return &DB{
		x:       x,
		dialect: dialect,
		sb:      sq.StatementBuilder.PlaceholderFormat(placeholder),
	}
}

func (db *DB) Ping(ctx context.Context) error {
	return db.x.PingContext(ctx)
}

func (db *DB) Close() error {
	return db.x.Close()
}

func (db *DB) Users() *UserRepository       { return &UserRepository{db: db} }
func (db *DB) Clients() *ClientRepository   { return &ClientRepository{db: db} }
func (db *DB) Projects() *ProjectRepository { return &ProjectRepository{db: db} }

// gooseUp and gooseStatus are seams for tests.
var (
	gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
		return goose.UpContext(ctx, db, dir)
	}
	gooseStatus = func(ctx context.Context, db *sql.DB, dir string) error {
		return goose.StatusContext(ctx, db, dir)
	}
)

func (db *DB) setupGoose() (string, error) {
	switch db.dialect {
	case DialectPostgres:
		goose.SetBaseFS(migrations.Postgres)
		return "postgres", goose.SetDialect("pgx")
	case DialectSQLite:
		goose.SetBaseFS(migrations.SQLite)
		return "sqlite", goose.SetDialect("sqlite3")
	default:
		return "", fmt.Errorf("sqlstore: unsupported dialect %q", db.dialect)
	}
}

// Migrate applies every pending embedded migration.
func (db *DB) Migrate(ctx context.Context) error {
	dir, err := db.setupGoose()
	if err != nil {
		return err
	}
	if err := gooseUp(ctx, db.x.DB, dir); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// MigrationStatus logs the applied state of each migration through goose.
func (db *DB) MigrationStatus(ctx context.Context) error {
	dir, err := db.setupGoose()
	if err != nil {
		return err
	}
	return gooseStatus(ctx, db.x.DB, dir)
}

// withTx runs fn inside a transaction, committing on success.
func (db *DB) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.x.BeginTxx(ctx, nil)
	if err != nil {
		return wrapErr("begin transaction", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return wrapErr("commit transaction", err)
	}
	return nil
}

// parseID converts a public string id to the integer key. Malformed ids
// cannot match any row.
func parseID(id string) (int64, bool) {
	n, err := strconv.ParseInt(id, 10, 64)
	return n, err == nil && n > 0
}

func formatID(n int64) string {
	return strconv.FormatInt(n, 10)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// wrapErr tags connectivity failures as domain.ErrStorageUnavailable.
func wrapErr(op string, err error) error {
	if isUnavailable(err) {
		return domain.Unavailable(op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) || pgconn.Timeout(err) {
		return true
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
	}
	return false
}
