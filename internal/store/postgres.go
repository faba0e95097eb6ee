package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lepinkainen/gutenshelf/internal/catalog"
	apperrors "github.com/lepinkainen/gutenshelf/internal/errors"
)

//go:embed schema_postgres.sql
var postgresSchema string

const pgUniqueViolation = "23505"

// querier is the subset of pgxpool.Pool and pgx.Tx used for reads and inserts.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements the Store interface on a pgx connection pool.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

var _ Store = (*PostgresStore)(nil)

// OpenPostgres connects to dsn and creates the schema.
func OpenPostgres(ctx context.Context, dsn string, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logger.Debug("Opened Postgres store", "host", pool.Config().ConnConfig.Host, "database", pool.Config().ConnConfig.Database)

	return &PostgresStore{pool: pool, logger: logger}, nil
}

func (s *PostgresStore) FindAuthorByName(ctx context.Context, name string) (*catalog.Author, error) {
	author, err := scanAuthor(s.pool.QueryRow(ctx, rebind(queryAuthorByName), name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewPersistenceError("find author", err)
	}
	return &author, nil
}

func (s *PostgresStore) SaveAuthor(ctx context.Context, author *catalog.Author) (*catalog.Author, error) {
	saved := *author
	if saved.ID == 0 {
		if err := insertAuthorPG(ctx, s.pool, &saved); err != nil {
			return nil, err
		}
		return &saved, nil
	}

	if _, err := s.pool.Exec(ctx, rebind(queryUpdateAuthor), saved.Name, saved.BirthYear, saved.DeathYear, saved.ID); err != nil {
		return nil, postgresWriteError("update author", ErrAuthorExists, saved.Name, err)
	}
	return &saved, nil
}

func (s *PostgresStore) BookExistsByTitle(ctx context.Context, title string) (bool, error) {
	var exists bool
	if err := s.pool.QueryRow(ctx, rebind(queryBookExists), title).Scan(&exists); err != nil {
		return false, apperrors.NewPersistenceError("check book", err)
	}
	return exists, nil
}

func (s *PostgresStore) SaveBook(ctx context.Context, book *catalog.Book) (*catalog.Book, error) {
	saved := *book
	if saved.AuthorID == 0 && saved.Author != nil {
		saved.AuthorID = saved.Author.ID
	}
	if err := insertBookPG(ctx, s.pool, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *PostgresStore) SaveAuthorWithBook(ctx context.Context, author *catalog.Author, book *catalog.Book) (*catalog.Author, *catalog.Book, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, nil, apperrors.NewPersistenceError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	savedAuthor := *author
	if savedAuthor.ID == 0 {
		if err := insertAuthorPG(ctx, tx, &savedAuthor); err != nil {
			return nil, nil, err
		}
	}

	savedBook := *book
	savedBook.AuthorID = savedAuthor.ID
	savedBook.Author = &savedAuthor
	if err := insertBookPG(ctx, tx, &savedBook); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, apperrors.NewPersistenceError("commit transaction", err)
	}

	return &savedAuthor, &savedBook, nil
}

func (s *PostgresStore) ListAllBooks(ctx context.Context) ([]catalog.Book, error) {
	return s.queryBooks(ctx, "list books", queryAllBooks)
}

func (s *PostgresStore) FindBooksByLanguage(ctx context.Context, code string) ([]catalog.Book, error) {
	return s.queryBooks(ctx, "find books by language", queryBooksByLang, code)
}

func (s *PostgresStore) FindTop10ByDownloads(ctx context.Context) ([]catalog.Book, error) {
	return s.queryBooks(ctx, "find top books", queryTopByDownloads, catalog.TopLimit)
}

func (s *PostgresStore) ListAllAuthors(ctx context.Context) ([]catalog.Author, error) {
	return s.queryAuthors(ctx, "list authors", queryAllAuthors)
}

func (s *PostgresStore) FindAuthorsAliveInYear(ctx context.Context, year int) ([]catalog.Author, error) {
	return s.queryAuthors(ctx, "find authors alive", queryAuthorsAlive, year, year)
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *PostgresStore) queryBooks(ctx context.Context, op, query string, args ...any) ([]catalog.Book, error) {
	rows, err := s.pool.Query(ctx, rebind(query), args...)
	if err != nil {
		return nil, apperrors.NewPersistenceError(op, err)
	}
	defer rows.Close()

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

func (s *PostgresStore) queryAuthors(ctx context.Context, op, query string, args ...any) ([]catalog.Author, error) {
	authors, err := collect(ctx, s.pool, rebind(query), scanAuthor, args...)
	if err != nil {
		return nil, apperrors.NewPersistenceError(op, err)
	}
	if len(authors) == 0 {
		return []catalog.Author{}, nil
	}

	books, err := collect(ctx, s.pool, rebind(queryBooksOfAuthors), scanBook)
	if err != nil {
		return nil, apperrors.NewPersistenceError(op, err)
	}
	attachBooks(authors, books)
	return authors, nil
}

func collect[T any](ctx context.Context, q querier, query string, scan func(rowScanner) (T, error), args ...any) ([]T, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func insertAuthorPG(ctx context.Context, q querier, author *catalog.Author) error {
	err := q.QueryRow(ctx, rebind(insertAuthor), author.Name, author.BirthYear, author.DeathYear).Scan(&author.ID)
	if err != nil {
		return postgresWriteError("save author", ErrAuthorExists, author.Name, err)
	}
	return nil
}

func insertBookPG(ctx context.Context, q querier, book *catalog.Book) error {
	err := q.QueryRow(ctx, rebind(insertBook), book.Title, book.Language, book.DownloadCount, book.AuthorID).Scan(&book.ID)
	if err != nil {
		return postgresWriteError("save book", ErrBookExists, book.Title, err)
	}
	return nil
}

func postgresWriteError(op string, conflict error, key string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return apperrors.NewPersistenceError(op, fmt.Errorf("%q: %w", key, conflict))
	}
	return apperrors.NewPersistenceError(op, err)
}
