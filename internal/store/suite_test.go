package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lepinkainen/gutenshelf/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreSuite exercises the Store contract against a fresh, empty backend.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("author lookup is exact", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		saved, err := s.SaveAuthor(ctx, &catalog.Author{Name: "Shelley, Mary Wollstonecraft", BirthYear: catalog.Year(1797), DeathYear: catalog.Year(1851)})
		require.NoError(t, err)
		assert.NotZero(t, saved.ID)

		found, err := s.FindAuthorByName(ctx, "Shelley, Mary Wollstonecraft")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, saved.ID, found.ID)
		assert.Equal(t, 1797, *found.BirthYear)
		assert.Equal(t, 1851, *found.DeathYear)

		missing, err := s.FindAuthorByName(ctx, "shelley, mary wollstonecraft")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("save author updates by id", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		saved, err := s.SaveAuthor(ctx, &catalog.Author{Name: "Doe, Jane"})
		require.NoError(t, err)

		saved.DeathYear = catalog.Year(1900)
		updated, err := s.SaveAuthor(ctx, saved)
		require.NoError(t, err)
		assert.Equal(t, saved.ID, updated.ID)

		found, err := s.FindAuthorByName(ctx, "Doe, Jane")
		require.NoError(t, err)
		require.NotNil(t, found.DeathYear)
		assert.Equal(t, 1900, *found.DeathYear)
		assert.Nil(t, found.BirthYear)
	})

	t.Run("duplicate author name", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.SaveAuthor(ctx, &catalog.Author{Name: "Twain, Mark"})
		require.NoError(t, err)
		_, err = s.SaveAuthor(ctx, &catalog.Author{Name: "Twain, Mark"})
		assert.True(t, errors.Is(err, ErrAlreadyExists))
		assert.True(t, errors.Is(err, ErrAuthorExists))
		assert.False(t, errors.Is(err, ErrBookExists))
	})

	t.Run("book existence and duplicate title", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		author, err := s.SaveAuthor(ctx, &catalog.Author{Name: "Carroll, Lewis"})
		require.NoError(t, err)

		exists, err := s.BookExistsByTitle(ctx, "Alice's Adventures in Wonderland")
		require.NoError(t, err)
		assert.False(t, exists)

		book, err := s.SaveBook(ctx, &catalog.Book{Title: "Alice's Adventures in Wonderland", Language: "en", DownloadCount: 30000, Author: author})
		require.NoError(t, err)
		assert.NotZero(t, book.ID)
		assert.Equal(t, author.ID, book.AuthorID)

		exists, err = s.BookExistsByTitle(ctx, "Alice's Adventures in Wonderland")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = s.BookExistsByTitle(ctx, "alice's adventures in wonderland")
		require.NoError(t, err)
		assert.False(t, exists)

		_, err = s.SaveBook(ctx, &catalog.Book{Title: "Alice's Adventures in Wonderland", AuthorID: author.ID})
		assert.True(t, errors.Is(err, ErrAlreadyExists))
		assert.True(t, errors.Is(err, ErrBookExists))
		assert.False(t, errors.Is(err, ErrAuthorExists))
	})

	t.Run("save author with book reuses existing author", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		author, book, err := s.SaveAuthorWithBook(ctx, &catalog.Author{Name: "Austen, Jane", BirthYear: catalog.Year(1775), DeathYear: catalog.Year(1817)}, &catalog.Book{Title: "Emma", Language: "en", DownloadCount: 10})
		require.NoError(t, err)
		assert.NotZero(t, author.ID)
		assert.Equal(t, author.ID, book.AuthorID)

		again, second, err := s.SaveAuthorWithBook(ctx, author, &catalog.Book{Title: "Persuasion", Language: "en", DownloadCount: 5})
		require.NoError(t, err)
		assert.Equal(t, author.ID, again.ID)
		assert.Equal(t, author.ID, second.AuthorID)

		authors, err := s.ListAllAuthors(ctx)
		require.NoError(t, err)
		require.Len(t, authors, 1)
		require.Len(t, authors[0].Books, 2)
		assert.Equal(t, "Emma", authors[0].Books[0].Title)
		assert.Equal(t, "Persuasion", authors[0].Books[1].Title)
	})

	t.Run("reports", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		seedStore(t, s)

		books, err := s.ListAllBooks(ctx)
		require.NoError(t, err)
		require.Len(t, books, 12)
		assert.Equal(t, "Book 00", books[0].Title)
		require.NotNil(t, books[0].Author)
		assert.Equal(t, "Old, Writer", books[0].Author.Name)

		fr, err := s.FindBooksByLanguage(ctx, "fr")
		require.NoError(t, err)
		require.Len(t, fr, 1)
		assert.Equal(t, "Book 03", fr[0].Title)

		none, err := s.FindBooksByLanguage(ctx, "pt")
		require.NoError(t, err)
		assert.Empty(t, none)

		top, err := s.FindTop10ByDownloads(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"Book 11", "Book 10", "Book 09", "Book 08", "Book 07",
			"Book 06", "Book 05", "Book 04", "Book 03", "Book 02",
		}, bookTitles(top))
	})

	t.Run("top ten breaks download ties by title", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		author, err := s.SaveAuthor(ctx, &catalog.Author{Name: "Tied, Writer"})
		require.NoError(t, err)

		downloads := map[string]int{"Zeta": 500, "Alpha": 500, "Mid": 700, "Beta": 500}
		for i := range 9 {
			downloads[fmt.Sprintf("Filler %02d", 8-i)] = 100
		}
		for title, count := range downloads {
			_, err := s.SaveBook(ctx, &catalog.Book{Title: title, Language: "en", DownloadCount: count, AuthorID: author.ID})
			require.NoError(t, err)
		}

		top, err := s.FindTop10ByDownloads(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"Mid", "Alpha", "Beta", "Zeta",
			"Filler 00", "Filler 01", "Filler 02", "Filler 03", "Filler 04", "Filler 05",
		}, bookTitles(top))
	})

	t.Run("authors alive in year", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		seedStore(t, s)

		alive, err := s.FindAuthorsAliveInYear(ctx, 1850)
		require.NoError(t, err)
		assert.Equal(t, []string{"Living, Writer", "Old, Writer"}, authorNames(alive))

		alive, err = s.FindAuthorsAliveInYear(ctx, 1900)
		require.NoError(t, err)
		assert.Equal(t, []string{"Living, Writer"}, authorNames(alive))

		// Boundaries are inclusive.
		alive, err = s.FindAuthorsAliveInYear(ctx, 1800)
		require.NoError(t, err)
		assert.Equal(t, []string{"Old, Writer"}, authorNames(alive))

		alive, err = s.FindAuthorsAliveInYear(ctx, 1000)
		require.NoError(t, err)
		assert.Empty(t, alive)
	})
}

// seedStore stores three authors and twelve books. "Old, Writer" lived
// 1800-1870, "Living, Writer" was born 1830, "Mystery, Writer" has no
// known years.
func seedStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	authors := []*catalog.Author{
		{Name: "Old, Writer", BirthYear: catalog.Year(1800), DeathYear: catalog.Year(1870)},
		{Name: "Living, Writer", BirthYear: catalog.Year(1830)},
		{Name: "Mystery, Writer"},
	}
	for i := range 12 {
		lang := "en"
		if i == 3 {
			lang = "fr"
		}
		author := authors[i%len(authors)]
		saved, _, err := s.SaveAuthorWithBook(ctx, author, &catalog.Book{
			Title:         fmt.Sprintf("Book %02d", i),
			Language:      lang,
			DownloadCount: i * 100,
		})
		require.NoError(t, err)
		authors[i%len(authors)] = saved
	}
}

func authorNames(authors []catalog.Author) []string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		names = append(names, a.Name)
	}
	return names
}

func bookTitles(books []catalog.Book) []string {
	titles := make([]string, 0, len(books))
	for _, b := range books {
		titles = append(titles, b.Title)
	}
	return titles
}
