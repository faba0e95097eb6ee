package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/lepinkainen/gutenshelf/internal/catalog"
	apperrors "github.com/lepinkainen/gutenshelf/internal/errors"
	"github.com/lepinkainen/gutenshelf/internal/library"
)

func (s *Session) searchBook(ctx context.Context) error {
	title, err := s.prompt(ctx, "Enter the book title:")
	if err != nil {
		return err
	}

	res, err := s.svc.Search(ctx, title)
	if err != nil {
		return err
	}

	if res.State != library.StatePersisted {
		s.warn(res.Message())
		return nil
	}
	s.info(res.Message())
	s.print(FormatBook(*res.Book))
	return nil
}

func (s *Session) listBooks(ctx context.Context) error {
	books, err := s.svc.ListBooks(ctx)
	if err != nil {
		return err
	}
	if len(books) == 0 {
		s.warn("No books registered yet")
		return nil
	}

	s.header("Books")
	for _, b := range books {
		s.print(FormatBook(b))
	}
	return nil
}

func (s *Session) listAuthors(ctx context.Context) error {
	authors, err := s.svc.ListAuthors(ctx)
	if err != nil {
		return err
	}
	if len(authors) == 0 {
		s.warn("No authors registered yet")
		return nil
	}

	s.header("Authors")
	for _, a := range authors {
		s.print(FormatAuthor(a))
	}
	return nil
}

func (s *Session) listAuthorsAlive(ctx context.Context) error {
	answer, err := s.prompt(ctx, "Enter the year to look up:")
	if err != nil {
		return err
	}

	year, err := ParseYear(answer)
	if err != nil {
		return err
	}

	authors, err := s.svc.AuthorsAliveIn(ctx, year)
	if err != nil {
		return err
	}
	if len(authors) == 0 {
		s.warn(fmt.Sprintf("No authors found alive in %d", year))
		return nil
	}

	s.header(fmt.Sprintf("Authors alive in %d", year))
	for _, a := range authors {
		s.print(FormatAuthor(a))
	}
	return nil
}

func (s *Session) listBooksByLanguage(ctx context.Context) error {
	var menu strings.Builder
	menu.WriteString("Choose the language:\n\n")
	for i, lang := range catalog.MenuLanguages {
		fmt.Fprintf(&menu, "%d - %s\n", i+1, lang.Name)
	}

	answer, err := s.prompt(ctx, menu.String())
	if err != nil {
		return err
	}

	lang, err := LanguageChoice(answer)
	if err != nil {
		return err
	}

	books, err := s.svc.BooksByLanguage(ctx, lang.Code)
	if err != nil {
		return err
	}
	if len(books) == 0 {
		s.warn(fmt.Sprintf("No books found in %s, pick another language!", lang.Name))
		return nil
	}

	s.header(fmt.Sprintf("Books in %s", lang.Name))
	for _, b := range books {
		s.print(FormatBook(b))
	}
	return nil
}

func (s *Session) listTop10(ctx context.Context) error {
	books, err := s.svc.Top10(ctx)
	if err != nil {
		return err
	}
	if len(books) == 0 {
		s.warn("No books found!")
		return nil
	}

	s.header("Top 10 downloaded books")
	s.print(FormatRanking(books))
	return nil
}

func (s *Session) showStatistics(ctx context.Context) error {
	stats, err := s.svc.Statistics(ctx)
	if err != nil {
		return err
	}
	if stats.Empty {
		s.warn("No books with downloads found!")
		return nil
	}

	s.header("Download statistics")
	s.print(FormatStatistics(stats))
	return nil
}

// ParseYear parses a year answer. Negative years (BCE) are accepted.
func ParseYear(answer string) (int, error) {
	answer = strings.TrimSpace(answer)
	year, err := strconv.Atoi(answer)
	if err != nil {
		return 0, apperrors.NewInvalidInputError("year", answer, "must be a whole number")
	}
	return year, nil
}

// LanguageChoice maps a language submenu answer to its language.
func LanguageChoice(answer string) (catalog.LanguageOption, error) {
	answer = strings.TrimSpace(answer)
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(catalog.MenuLanguages) {
		return catalog.LanguageOption{}, apperrors.NewInvalidInputError("language option", answer,
			fmt.Sprintf("choose 1-%d", len(catalog.MenuLanguages)))
	}
	return catalog.MenuLanguages[n-1], nil
}
