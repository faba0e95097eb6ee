package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/lepinkainen/gutenshelf/internal/errors"
	"github.com/lepinkainen/gutenshelf/internal/gutendex"
)

// ErrNoAuthors is returned when a candidate lists no authors at all.
var ErrNoAuthors = errors.New("candidate lists no authors")

var validate = validator.New(validator.WithRequiredStructEnabled())

// MapCandidate builds the Book and Author entities for a catalog candidate.
// Only the first listed author is kept; co-authors are dropped. Absent
// author fields map to nil.
func MapCandidate(c gutendex.Candidate) (*Book, *Author, error) {
	if len(c.Authors) == 0 {
		return nil, nil, fmt.Errorf("%q: %w", c.Title, ErrNoAuthors)
	}

	first := c.Authors[0]
	author := &Author{
		BirthYear: first.BirthYear,
		DeathYear: first.DeathYear,
	}
	if first.Name != nil {
		author.Name = *first.Name
	}

	book := &Book{
		Title:         c.Title,
		Language:      c.Language,
		DownloadCount: c.DownloadCount,
		Author:        author,
	}

	if err := Validate(book, author); err != nil {
		return nil, nil, err
	}

	return book, author, nil
}

// Validate checks the entity constraints of a book and its author.
func Validate(book *Book, author *Author) error {
	if err := validateStruct("book", book.Title, book); err != nil {
		return err
	}
	return validateStruct("author", author.Name, author)
}

func validateStruct(field, value string, s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	reasons := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		reasons = append(reasons, friendlyMessage(fe))
	}
	return apperrors.NewInvalidInputError(field, value, strings.Join(reasons, "; "))
}

func friendlyMessage(fe validator.FieldError) string {
	name := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "gte":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", name, fe.Tag())
	}
}
