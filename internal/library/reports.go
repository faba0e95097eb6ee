package library

import (
	"context"
	"strings"

	"github.com/lepinkainen/gutenshelf/internal/catalog"
	apperrors "github.com/lepinkainen/gutenshelf/internal/errors"
)

func (s *Service) ListBooks(ctx context.Context) ([]catalog.Book, error) {
	return s.store.ListAllBooks(ctx)
}

func (s *Service) ListAuthors(ctx context.Context) ([]catalog.Author, error) {
	return s.store.ListAllAuthors(ctx)
}

func (s *Service) AuthorsAliveIn(ctx context.Context, year int) ([]catalog.Author, error) {
	return s.store.FindAuthorsAliveInYear(ctx, year)
}

// BooksByLanguage lists books whose language code equals code exactly.
func (s *Service) BooksByLanguage(ctx context.Context, code string) ([]catalog.Book, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperrors.NewInvalidInputError("language", "", "must not be blank")
	}
	return s.store.FindBooksByLanguage(ctx, code)
}

// Top10 lists at most ten books by descending download count, ties by title.
func (s *Service) Top10(ctx context.Context) ([]catalog.Book, error) {
	return s.store.FindTop10ByDownloads(ctx)
}

// Statistics summarizes downloads of the stored books that have any.
func (s *Service) Statistics(ctx context.Context) (catalog.Statistics, error) {
	books, err := s.store.ListAllBooks(ctx)
	if err != nil {
		return catalog.Statistics{}, err
	}
	return catalog.ComputeStatistics(books), nil
}
