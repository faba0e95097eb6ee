package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lepinkainen/gutenshelf/internal/catalog"
	apperrors "github.com/lepinkainen/gutenshelf/internal/errors"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

//go:embed schema_sqlite.sql
var sqliteSchema string

// SQLiteStore implements the Store interface for local SQLite storage
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
	logger *slog.Logger
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the database at path, applies the
// pragmas and creates the schema.
func OpenSQLite(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Pragmas are per connection, and SQLite has a single writer anyway.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logger.Debug("Opened SQLite store", "path", path)

	return &SQLiteStore{db: db, dbPath: path, logger: logger}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

func (s *SQLiteStore) FindAuthorByName(ctx context.Context, name string) (*catalog.Author, error) {
	author, err := scanAuthor(s.db.QueryRowContext(ctx, queryAuthorByName, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewPersistenceError("find author", err)
	}
	return &author, nil
}

func (s *SQLiteStore) SaveAuthor(ctx context.Context, author *catalog.Author) (*catalog.Author, error) {
	saved := *author
	if saved.ID == 0 {
		if err := s.db.QueryRowContext(ctx, insertAuthor, saved.Name, saved.BirthYear, saved.DeathYear).Scan(&saved.ID); err != nil {
			return nil, sqliteWriteError("save author", ErrAuthorExists, saved.Name, err)
		}
		return &saved, nil
	}

	if _, err := s.db.ExecContext(ctx, queryUpdateAuthor, saved.Name, saved.BirthYear, saved.DeathYear, saved.ID); err != nil {
		return nil, sqliteWriteError("update author", ErrAuthorExists, saved.Name, err)
	}
	return &saved, nil
}

func (s *SQLiteStore) BookExistsByTitle(ctx context.Context, title string) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, queryBookExists, title).Scan(&exists); err != nil {
		return false, apperrors.NewPersistenceError("check book", err)
	}
	return exists, nil
}

func (s *SQLiteStore) SaveBook(ctx context.Context, book *catalog.Book) (*catalog.Book, error) {
	saved := *book
	if saved.AuthorID == 0 && saved.Author != nil {
		saved.AuthorID = saved.Author.ID
	}
	if err := s.db.QueryRowContext(ctx, insertBook, saved.Title, saved.Language, saved.DownloadCount, saved.AuthorID).Scan(&saved.ID); err != nil {
		return nil, sqliteWriteError("save book", ErrBookExists, saved.Title, err)
	}
	return &saved, nil
}

func (s *SQLiteStore) SaveAuthorWithBook(ctx context.Context, author *catalog.Author, book *catalog.Book) (*catalog.Author, *catalog.Book, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, apperrors.NewPersistenceError("begin transaction", err)
	}
	defer func() {
		// Rollback if we don't commit - ignore errors as they're expected if transaction was committed
		_ = tx.Rollback()
	}()

	savedAuthor := *author
	if savedAuthor.ID == 0 {
		if err := tx.QueryRowContext(ctx, insertAuthor, savedAuthor.Name, savedAuthor.BirthYear, savedAuthor.DeathYear).Scan(&savedAuthor.ID); err != nil {
			return nil, nil, sqliteWriteError("save author", ErrAuthorExists, savedAuthor.Name, err)
		}
	}

	savedBook := *book
	savedBook.AuthorID = savedAuthor.ID
	savedBook.Author = &savedAuthor
	if err := tx.QueryRowContext(ctx, insertBook, savedBook.Title, savedBook.Language, savedBook.DownloadCount, savedBook.AuthorID).Scan(&savedBook.ID); err != nil {
		return nil, nil, sqliteWriteError("save book", ErrBookExists, savedBook.Title, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, apperrors.NewPersistenceError("commit transaction", err)
	}

	return &savedAuthor, &savedBook, nil
}

func (s *SQLiteStore) ListAllBooks(ctx context.Context) ([]catalog.Book, error) {
	return s.queryBooks(ctx, "list books", queryAllBooks)
}

func (s *SQLiteStore) FindBooksByLanguage(ctx context.Context, code string) ([]catalog.Book, error) {
	return s.queryBooks(ctx, "find books by language", queryBooksByLang, code)
}

func (s *SQLiteStore) FindTop10ByDownloads(ctx context.Context) ([]catalog.Book, error) {
	return s.queryBooks(ctx, "find top books", queryTopByDownloads, catalog.TopLimit)
}

func (s *SQLiteStore) ListAllAuthors(ctx context.Context) ([]catalog.Author, error) {
	return s.queryAuthors(ctx, "list authors", queryAllAuthors)
}

func (s *SQLiteStore) FindAuthorsAliveInYear(ctx context.Context, year int) ([]catalog.Author, error) {
	return s.queryAuthors(ctx, "find authors alive", queryAuthorsAlive, year, year)
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) queryBooks(ctx context.Context, op, query string, args ...any) ([]catalog.Book, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewPersistenceError(op, err)
	}
	defer func() { _ = rows.Close() }()

	books := []catalog.Book{}
	for rows.Next() {
		b, err := scanBookWithAuthor(rows)
		if err != nil {
			return nil, apperrors.NewPersistenceError(op, err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewPersistenceError(op, err)
	}
	return books, nil
}

func (s *SQLiteStore) queryAuthors(ctx context.Context, op, query string, args ...any) ([]catalog.Author, error) {
	authors, err := s.scanAuthors(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewPersistenceError(op, err)
	}
	if len(authors) == 0 {
		return authors, nil
	}

	// Loaded after the author rows are closed; the pool has one connection.
	books, err := s.scanBooks(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError(op, err)
	}
	attachBooks(authors, books)
	return authors, nil
}

func (s *SQLiteStore) scanAuthors(ctx context.Context, query string, args ...any) ([]catalog.Author, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	authors := []catalog.Author{}
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

func (s *SQLiteStore) scanBooks(ctx context.Context) ([]catalog.Book, error) {
	rows, err := s.db.QueryContext(ctx, queryBooksOfAuthors)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var books []catalog.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func sqliteWriteError(op string, conflict error, key string, err error) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return apperrors.NewPersistenceError(op, fmt.Errorf("%q: %w", key, conflict))
	}
	return apperrors.NewPersistenceError(op, err)
}
