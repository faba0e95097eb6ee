package catalog

import (
	"errors"
	"testing"

	apperrors "github.com/lepinkainen/gutenshelf/internal/errors"
	"github.com/lepinkainen/gutenshelf/internal/gutendex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestMapCandidate(t *testing.T) {
	candidate := gutendex.Candidate{
		Title: "Frankenstein; Or, The Modern Prometheus",
		Authors: []gutendex.Person{
			{Name: strPtr("Shelley, Mary Wollstonecraft"), BirthYear: Year(1797), DeathYear: Year(1851)},
			{Name: strPtr("Second, Author")},
		},
		Language:      "en",
		DownloadCount: 50000,
	}

	book, author, err := MapCandidate(candidate)
	require.NoError(t, err)

	assert.Equal(t, "Frankenstein; Or, The Modern Prometheus", book.Title)
	assert.Equal(t, "en", book.Language)
	assert.Equal(t, 50000, book.DownloadCount)
	assert.Same(t, author, book.Author)

	assert.Equal(t, "Shelley, Mary Wollstonecraft", author.Name)
	require.NotNil(t, author.BirthYear)
	assert.Equal(t, 1797, *author.BirthYear)
	require.NotNil(t, author.DeathYear)
	assert.Equal(t, 1851, *author.DeathYear)
}

func TestMapCandidateNullYears(t *testing.T) {
	book, author, err := MapCandidate(gutendex.Candidate{
		Title:   "Anonymous Tales",
		Authors: []gutendex.Person{{Name: strPtr("Unknown")}},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, book.DownloadCount)
	assert.Nil(t, author.BirthYear)
	assert.Nil(t, author.DeathYear)
}

func TestMapCandidateNoAuthors(t *testing.T) {
	book, author, err := MapCandidate(gutendex.Candidate{Title: "Orphan"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoAuthors))
	assert.Nil(t, book)
	assert.Nil(t, author)
}

func TestMapCandidateValidation(t *testing.T) {
	tests := []struct {
		name      string
		candidate gutendex.Candidate
		field     string
	}{
		{
			name:      "missing title",
			candidate: gutendex.Candidate{Authors: []gutendex.Person{{Name: strPtr("Somebody")}}},
			field:     "book",
		},
		{
			name:      "negative downloads",
			candidate: gutendex.Candidate{Title: "T", DownloadCount: -1, Authors: []gutendex.Person{{Name: strPtr("Somebody")}}},
			field:     "book",
		},
		{
			name:      "missing author name",
			candidate: gutendex.Candidate{Title: "T", Authors: []gutendex.Person{{}}},
			field:     "author",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := MapCandidate(tt.candidate)
			require.Error(t, err)

			var invalid *apperrors.InvalidInputError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}
