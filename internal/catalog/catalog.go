// Package catalog holds the persisted book and author entities and the
// pure functions computed over them.
package catalog

import (
	"fmt"
	"strconv"
)

// Author is a persisted writer. Authors are unique by exact name.
type Author struct {
	ID        int64  `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name" validate:"required"`
	BirthYear *int   `json:"birth_year,omitempty" yaml:"birth_year,omitempty"`
	DeathYear *int   `json:"death_year,omitempty" yaml:"death_year,omitempty"`
	Books     []Book `json:"books,omitempty" yaml:"-" validate:"-"`
}

// Book is a persisted catalog entry. Books are unique by exact title.
type Book struct {
	ID            int64   `json:"id" yaml:"id"`
	Title         string  `json:"title" yaml:"title" validate:"required"`
	Language      string  `json:"language" yaml:"language"`
	DownloadCount int     `json:"download_count" yaml:"download_count" validate:"gte=0"`
	AuthorID      int64   `json:"author_id" yaml:"author_id"`
	Author        *Author `json:"author,omitempty" yaml:"-" validate:"-"`
}

// Lifespan renders the birth and death years, using "?" for unknown values.
func (a Author) Lifespan() string {
	return fmt.Sprintf("%s - %s", yearString(a.BirthYear), yearString(a.DeathYear))
}

// AuthorName returns the name of the book's author, if loaded.
func (b Book) AuthorName() string {
	if b.Author == nil {
		return ""
	}
	return b.Author.Name
}

// Year returns a pointer to year, for building nullable year fields.
func Year(year int) *int {
	return &year
}

func yearString(year *int) string {
	if year == nil {
		return "?"
	}
	return strconv.Itoa(*year)
}
