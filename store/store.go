package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"go.uber.org/zap"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps the relational database behind the entity operations the
// service layers need. All queries go through bun; callers never see SQL.
type Store struct {
	db  *bun.DB
	log *zap.Logger
}

// New wires a Store around an existing bun handle. Pass a nil logger to
// discard store logging.
func New(db *bun.DB, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{db: db, log: log}
}

// Open connects to the sqlite database at dsn and returns a Store around it.
// Foreign key enforcement is forced on so the delete cascades in the schema
// actually fire.
func Open(dsn string, log *zap.Logger) (*Store, error) {
	if !strings.Contains(dsn, "_foreign_keys") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_foreign_keys=on"
	}

	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	return New(db, log), nil
}

// DB exposes the underlying bun handle, mainly for tests.
func (s *Store) DB() *bun.DB {
	return s.db
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the schema. It is idempotent; every table is created only
// if absent. Child tables carry ON DELETE CASCADE on their owning reference,
// which is the mechanism behind "page deletion removes posts and employees,
// post deletion removes comments". The reply self-reference on comments is
// deliberately not cascaded.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().
		Model((*Page)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create pages table: %w", err)
	}

	if _, err := s.db.NewCreateTable().
		Model((*Post)(nil)).
		IfNotExists().
		ForeignKey(`("page_ref") REFERENCES "pages" ("id") ON DELETE CASCADE`).
		Exec(ctx); err != nil {
		return fmt.Errorf("create posts table: %w", err)
	}

	if _, err := s.db.NewCreateTable().
		Model((*Comment)(nil)).
		IfNotExists().
		ForeignKey(`("post_ref") REFERENCES "posts" ("id") ON DELETE CASCADE`).
		Exec(ctx); err != nil {
		return fmt.Errorf("create comments table: %w", err)
	}

	if _, err := s.db.NewCreateTable().
		Model((*Employee)(nil)).
		IfNotExists().
		ForeignKey(`("page_ref") REFERENCES "pages" ("id") ON DELETE CASCADE`).
		Exec(ctx); err != nil {
		return fmt.Errorf("create employees table: %w", err)
	}

	s.log.Debug("schema ready", zap.String("component", "store"))
	return nil
}

// applyPagination clamps page/size to sane values and returns them with the
// matching offset. Pages are 1-indexed.
func applyPagination(page, size, maxSize int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 1
	}
	if maxSize > 0 && size > maxSize {
		size = maxSize
	}
	return page, size, (page - 1) * size
}
