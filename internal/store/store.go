// Package store persists authors and books in a relational database.
// SQLite is the default backend; Postgres is selected with a DSN.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lepinkainen/gutenshelf/internal/catalog"
)

// ErrAlreadyExists is returned when an insert collides with a unique
// title or name. ErrBookExists and ErrAuthorExists both wrap it and tell
// the two constraints apart.
var (
	ErrAlreadyExists = errors.New("already exists")
	ErrBookExists    = fmt.Errorf("book %w", ErrAlreadyExists)
	ErrAuthorExists  = fmt.Errorf("author %w", ErrAlreadyExists)
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store defines the persistence operations used by the library service.
// All lookups are exact matches.
type Store interface {
	// FindAuthorByName returns nil, nil when no author has that exact name.
	FindAuthorByName(ctx context.Context, name string) (*catalog.Author, error)

	// SaveAuthor inserts a new author (ID 0) or updates an existing one.
	SaveAuthor(ctx context.Context, author *catalog.Author) (*catalog.Author, error)

	BookExistsByTitle(ctx context.Context, title string) (bool, error)

	// SaveBook inserts a book. A duplicate title yields ErrBookExists.
	SaveBook(ctx context.Context, book *catalog.Book) (*catalog.Book, error)

	// SaveAuthorWithBook creates the author when its ID is 0 and then the
	// book, in one transaction. Nothing is persisted if either insert fails.
	SaveAuthorWithBook(ctx context.Context, author *catalog.Author, book *catalog.Book) (*catalog.Author, *catalog.Book, error)

	ListAllBooks(ctx context.Context) ([]catalog.Book, error)
	ListAllAuthors(ctx context.Context) ([]catalog.Author, error)
	FindAuthorsAliveInYear(ctx context.Context, year int) ([]catalog.Author, error)
	FindBooksByLanguage(ctx context.Context, code string) ([]catalog.Book, error)
	FindTop10ByDownloads(ctx context.Context) ([]catalog.Book, error)

	// Close closes the connection to the data store
	Close() error
}

// Config selects and locates the backend.
type Config struct {
	Driver string
	// File is the SQLite database path.
	File string
	// DSN is the Postgres connection string.
	DSN string
}

// Open opens the backend named by cfg.Driver. An empty driver means SQLite.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Driver {
	case "", DriverSQLite:
		return OpenSQLite(cfg.File, logger)
	case DriverPostgres, "postgresql", "pgx":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres driver requires a DSN (database.dsn or DATABASE_URL)")
		}
		return OpenPostgres(ctx, cfg.DSN, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
