// Package library implements the search-and-save workflow and the read-only
// reports over the stored catalog.
package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/lepinkainen/gutenshelf/internal/catalog"
	apperrors "github.com/lepinkainen/gutenshelf/internal/errors"
	"github.com/lepinkainen/gutenshelf/internal/gutendex"
	"github.com/lepinkainen/gutenshelf/internal/store"
)

// CatalogClient fetches and decodes remote search results.
type CatalogClient interface {
	Search(ctx context.Context, query string) (*gutendex.SearchResponse, error)
}

// Service ties the remote catalog to the store.
type Service struct {
	client CatalogClient
	store  store.Store
}

// NewService creates a Service.
func NewService(client CatalogClient, st store.Store) *Service {
	return &Service{client: client, store: st}
}

// decimalNumber matches plain decimal numbers such as "42", "-3.5" or "1e3".
// Words like "Infinity" or "NaN" are titles, not numbers.
var decimalNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ValidateQuery rejects blank queries and queries that are a decimal number.
func ValidateQuery(query string) error {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return apperrors.NewInvalidInputError("title", "", "must not be blank")
	}
	if decimalNumber.MatchString(trimmed) {
		return apperrors.NewInvalidInputError("title", trimmed, "must not be a number")
	}
	return nil
}

// FirstMatch returns the first candidate whose title contains query,
// ignoring case, in the order the catalog returned them.
func FirstMatch(candidates []gutendex.Candidate, query string) (gutendex.Candidate, bool) {
	needle := strings.ToLower(strings.TrimSpace(query))
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c.Title), needle) {
			return c, true
		}
	}
	return gutendex.Candidate{}, false
}

// Search looks query up in the remote catalog and stores the first matching
// book with its first author. Existing titles are left untouched and an
// author with the same exact name is reused.
func (s *Service) Search(ctx context.Context, query string) (SearchResult, error) {
	res := SearchResult{Query: strings.TrimSpace(query), State: StateQueryReceived}

	fail := func(err error) (SearchResult, error) {
		slog.Debug("Search failed", "query", res.Query, "state", res.State.String(), "error", err)
		res.State = StateError
		return res, err
	}

	if err := ValidateQuery(query); err != nil {
		return fail(err)
	}

	resp, err := s.client.Search(ctx, res.Query)
	if err != nil {
		if apperrors.IsDecodeError(err) {
			res.State = StateFetched
		}
		return fail(err)
	}
	res.State = StateDecoded
	slog.Debug("Catalog search decoded", "query", res.Query, "candidates", len(resp.Results))

	candidate, ok := FirstMatch(resp.Results, res.Query)
	if !ok {
		res.State = StateNoMatch
		slog.Info("No matching book", "query", res.Query)
		return res, nil
	}
	res.State = StateMatched
	res.Title = candidate.Title

	exists, err := s.store.BookExistsByTitle(ctx, candidate.Title)
	if err != nil {
		return fail(err)
	}
	if exists {
		res.State = StateAlreadyExists
		slog.Info("Book already registered", "title", candidate.Title)
		return res, nil
	}
	res.State = StateDeduplicated

	book, author, err := catalog.MapCandidate(candidate)
	if err != nil {
		return fail(err)
	}

	existing, err := s.store.FindAuthorByName(ctx, author.Name)
	if err != nil {
		return fail(err)
	}
	if existing != nil {
		author = existing
	} else {
		res.AuthorCreated = true
	}

	savedAuthor, savedBook, err := s.store.SaveAuthorWithBook(ctx, author, book)
	if errors.Is(err, store.ErrAuthorExists) && author.ID == 0 {
		// The author was stored after the lookup above; attach the book to it.
		existing, findErr := s.store.FindAuthorByName(ctx, author.Name)
		if findErr != nil {
			return fail(findErr)
		}
		if existing != nil {
			slog.Debug("Author stored concurrently, reusing", "author", existing.Name)
			res.AuthorCreated = false
			savedAuthor, savedBook, err = s.store.SaveAuthorWithBook(ctx, existing, book)
		}
	}
	if err != nil {
		if errors.Is(err, store.ErrBookExists) {
			res.State = StateAlreadyExists
			res.AuthorCreated = false
			return res, nil
		}
		return fail(fmt.Errorf("save %q: %w", candidate.Title, err))
	}

	res.State = StatePersisted
	res.Book = savedBook
	res.Author = savedAuthor
	slog.Info("Book saved", "title", savedBook.Title, "author", savedAuthor.Name, "new_author", res.AuthorCreated)

	return res, nil
}
