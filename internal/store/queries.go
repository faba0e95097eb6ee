package store

import (
	"strconv"
	"strings"

	"github.com/lepinkainen/gutenshelf/internal/catalog"
)

// Queries are written with ? placeholders; the Postgres store rebinds them.
const (
	authorColumns = `a.id, a.name, a.birth_year, a.death_year`
	bookColumns   = `b.id, b.title, b.language, b.download_count, b.author_id`

	selectBooksWithAuthor = `SELECT ` + bookColumns + `, ` + authorColumns + `
		FROM books b JOIN authors a ON a.id = b.author_id`

	queryAuthorByName   = `SELECT ` + authorColumns + ` FROM authors a WHERE a.name = ?`
	queryBookExists     = `SELECT EXISTS (SELECT 1 FROM books WHERE title = ?)`
	queryUpdateAuthor   = `UPDATE authors SET name = ?, birth_year = ?, death_year = ? WHERE id = ?`
	queryAllBooks       = selectBooksWithAuthor + ` ORDER BY b.title`
	queryBooksByLang    = selectBooksWithAuthor + ` WHERE b.language = ? ORDER BY b.title`
	queryTopByDownloads = selectBooksWithAuthor + ` ORDER BY b.download_count DESC, b.title ASC LIMIT ?`
	queryAllAuthors     = `SELECT ` + authorColumns + ` FROM authors a ORDER BY a.name`
	queryAuthorsAlive   = `SELECT ` + authorColumns + ` FROM authors a
		WHERE a.birth_year IS NOT NULL AND a.birth_year <= ?
		AND (a.death_year IS NULL OR a.death_year >= ?)
		ORDER BY a.name`
	queryBooksOfAuthors = `SELECT ` + bookColumns + ` FROM books b ORDER BY b.title`

	insertAuthor = `INSERT INTO authors (name, birth_year, death_year) VALUES (?, ?, ?) RETURNING id`
	insertBook   = `INSERT INTO books (title, language, download_count, author_id) VALUES (?, ?, ?, ?) RETURNING id`
)

// rowScanner is satisfied by *sql.Row, *sql.Rows, pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAuthor(row rowScanner) (catalog.Author, error) {
	var a catalog.Author
	err := row.Scan(&a.ID, &a.Name, &a.BirthYear, &a.DeathYear)
	return a, err
}

func scanBook(row rowScanner) (catalog.Book, error) {
	var b catalog.Book
	err := row.Scan(&b.ID, &b.Title, &b.Language, &b.DownloadCount, &b.AuthorID)
	return b, err
}

func scanBookWithAuthor(row rowScanner) (catalog.Book, error) {
	var b catalog.Book
	var a catalog.Author
	err := row.Scan(
		&b.ID, &b.Title, &b.Language, &b.DownloadCount, &b.AuthorID,
		&a.ID, &a.Name, &a.BirthYear, &a.DeathYear,
	)
	if err != nil {
		return b, err
	}
	b.Author = &a
	return b, nil
}

// attachBooks sets Books on each author from a flat book list.
func attachBooks(authors []catalog.Author, books []catalog.Book) {
	byAuthor := make(map[int64][]catalog.Book, len(authors))
	for _, b := range books {
		byAuthor[b.AuthorID] = append(byAuthor[b.AuthorID], b)
	}
	for i := range authors {
		authors[i].Books = byAuthor[authors[i].ID]
	}
}

// rebind converts ? placeholders to Postgres $n placeholders.
func rebind(query string) string {
	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
