package export

import (
	"encoding/json"
	"testing"

	"github.com/lepinkainen/gutenshelf/internal/catalog"
	"github.com/lepinkainen/gutenshelf/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBooks() ([]catalog.Book, []catalog.Author) {
	shelley := catalog.Author{ID: 1, Name: "Shelley, Mary Wollstonecraft", BirthYear: catalog.Year(1797), DeathYear: catalog.Year(1851)}
	voltaire := catalog.Author{ID: 2, Name: "Voltaire", BirthYear: catalog.Year(1694), DeathYear: catalog.Year(1778)}
	books := []catalog.Book{
		{ID: 1, Title: "Frankenstein; Or, The Modern Prometheus", Language: "en", DownloadCount: 50000, AuthorID: 1, Author: &shelley},
		{ID: 2, Title: "Candide", Language: "fr", DownloadCount: 0, AuthorID: 2, Author: &voltaire},
	}
	return books, []catalog.Author{shelley, voltaire}
}

func TestNewSnapshot(t *testing.T) {
	books, authors := sampleBooks()
	snap := NewSnapshot(books, authors)

	assert.Len(t, snap.Books, 2)
	assert.Equal(t, 1, snap.Statistics.Count)
	assert.Equal(t, 50000, snap.Statistics.Max)

	empty := NewSnapshot(nil, nil)
	assert.NotNil(t, empty.Books)
	assert.True(t, empty.Statistics.Empty)
}

func TestWriteJSON(t *testing.T) {
	env := testutil.NewTestEnv(t)
	books, authors := sampleBooks()
	path := env.Path("json", "books.json")

	written, err := WriteJSON(NewSnapshot(books, authors), path, false)
	require.NoError(t, err)
	assert.True(t, written)

	var decoded Snapshot
	require.NoError(t, json.Unmarshal([]byte(env.ReadFileString("json/books.json")), &decoded))
	require.Len(t, decoded.Books, 2)
	assert.Equal(t, "Candide", decoded.Books[1].Title)
	assert.Equal(t, "Voltaire", decoded.Books[1].Author.Name)
	assert.Equal(t, 1797, *decoded.Authors[0].BirthYear)

	// Existing file is kept without overwrite.
	written, err = WriteJSON(NewSnapshot(nil, nil), path, false)
	require.NoError(t, err)
	assert.False(t, written)
	assert.Contains(t, env.ReadFileString("json/books.json"), "Candide")

	written, err = WriteJSON(NewSnapshot(nil, nil), path, true)
	require.NoError(t, err)
	assert.True(t, written)
	assert.NotContains(t, env.ReadFileString("json/books.json"), "Candide")
}

func TestFileExists(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.WriteFileString("present.txt", "x")

	assert.True(t, FileExists(env.Path("present.txt")))
	assert.False(t, FileExists(env.Path("missing.txt")))
	assert.False(t, FileExists(env.RootDir()))
}
