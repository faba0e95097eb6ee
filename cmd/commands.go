package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/lepinkainen/gutenshelf/internal/cache"
	"github.com/lepinkainen/gutenshelf/internal/catalog"
	"github.com/lepinkainen/gutenshelf/internal/config"
	"github.com/lepinkainen/gutenshelf/internal/console"
	"github.com/lepinkainen/gutenshelf/internal/csvutil"
	apperrors "github.com/lepinkainen/gutenshelf/internal/errors"
	"github.com/lepinkainen/gutenshelf/internal/export"
	"github.com/lepinkainen/gutenshelf/internal/library"
	"github.com/lepinkainen/gutenshelf/internal/tui"
	"github.com/spf13/viper"
)

// MenuCmd runs the interactive numbered menu.
type MenuCmd struct{}

func (m *MenuCmd) Run(rt *cliEnv) error {
	return withLibrary(rt.ctx, func(svc *library.Service) error {
		return console.NewSession(svc, rt.in, rt.out).Run(rt.ctx)
	})
}

// SearchCmd searches one or more titles, or every title in a CSV file.
type SearchCmd struct {
	Title []string `arg:"" optional:"" help:"Titles to search for"`
	File  string   `short:"f" type:"existingfile" help:"CSV file with a title column"`
}

func (s *SearchCmd) titles() ([]string, error) {
	titles := make([]string, 0, len(s.Title))
	if len(s.Title) > 0 {
		// Unquoted words on the command line form a single title
		titles = append(titles, strings.Join(s.Title, " "))
	}
	if s.File != "" {
		fromFile, err := csvutil.ReadTitles(s.File)
		if err != nil {
			return nil, err
		}
		titles = append(titles, fromFile...)
	}
	if len(titles) == 0 {
		return nil, fmt.Errorf("no titles given: pass a title or --file")
	}
	return titles, nil
}

func (s *SearchCmd) Run(rt *cliEnv) error {
	titles, err := s.titles()
	if err != nil {
		return err
	}

	return withLibrary(rt.ctx, func(svc *library.Service) error {
		results, err := svc.SearchBatch(rt.ctx, titles)
		for _, r := range results {
			if r.Err != nil {
				rt.printf("%s\n", console.DescribeError(r.Err))
				continue
			}
			rt.printf("%s\n", r.Result.Message())
			if r.Result.State == library.StatePersisted && r.Result.Book != nil {
				rt.printf("%s\n", console.FormatBook(*r.Result.Book))
			}
		}

		if len(titles) > 1 {
			summary := library.Summary(results)
			slog.Info("Search batch complete",
				"titles", len(titles),
				"saved", summary[library.StatePersisted],
				"already_registered", summary[library.StateAlreadyExists],
				"not_found", summary[library.StateNoMatch],
				"failed", summary[library.StateError])
		}
		return err
	})
}

// BooksCmd lists every registered book.
type BooksCmd struct{}

func (b *BooksCmd) Run(rt *cliEnv) error {
	return withLibrary(rt.ctx, func(svc *library.Service) error {
		books, err := svc.ListBooks(rt.ctx)
		if err != nil {
			return err
		}
		if len(books) == 0 {
			rt.printf("No books registered yet\n")
			return nil
		}
		for _, book := range books {
			rt.printf("%s\n", console.FormatBook(book))
		}
		return nil
	})
}

// AuthorsCmd lists every registered author with their books.
type AuthorsCmd struct{}

func (a *AuthorsCmd) Run(rt *cliEnv) error {
	return withLibrary(rt.ctx, func(svc *library.Service) error {
		authors, err := svc.ListAuthors(rt.ctx)
		if err != nil {
			return err
		}
		if len(authors) == 0 {
			rt.printf("No authors registered yet\n")
			return nil
		}
		for _, author := range authors {
			rt.printf("%s\n", console.FormatAuthor(author))
		}
		return nil
	})
}

// AliveCmd lists authors alive in the given year.
type AliveCmd struct {
	Year int `arg:"" help:"Year to check"`
}

func (a *AliveCmd) Run(rt *cliEnv) error {
	return withLibrary(rt.ctx, func(svc *library.Service) error {
		authors, err := svc.AuthorsAliveIn(rt.ctx, a.Year)
		if err != nil {
			return err
		}
		if len(authors) == 0 {
			rt.printf("No authors found alive in %d\n", a.Year)
			return nil
		}
		for _, author := range authors {
			rt.printf("%s\n", console.FormatAuthor(author))
		}
		return nil
	})
}

// LanguageCmd lists books in one of the menu languages.
type LanguageCmd struct {
	Code string `arg:"" enum:"en,fr,de,pt,es" help:"Language code: en, fr, de, pt or es"`
}

func (l *LanguageCmd) Run(rt *cliEnv) error {
	return withLibrary(rt.ctx, func(svc *library.Service) error {
		books, err := svc.BooksByLanguage(rt.ctx, l.Code)
		if err != nil {
			return err
		}
		if len(books) == 0 {
			rt.printf("No books found in %s, pick another language!\n", catalog.LanguageName(l.Code))
			return nil
		}
		for _, book := range books {
			rt.printf("%s\n", console.FormatBook(book))
		}
		return nil
	})
}

// TopCmd prints the ten most downloaded books.
type TopCmd struct{}

func (t *TopCmd) Run(rt *cliEnv) error {
	return withLibrary(rt.ctx, func(svc *library.Service) error {
		books, err := svc.Top10(rt.ctx)
		if err != nil {
			return err
		}
		if len(books) == 0 {
			rt.printf("No books found!\n")
			return nil
		}
		rt.printf("%s", console.FormatRanking(books))
		return nil
	})
}

// StatsCmd prints download statistics.
type StatsCmd struct{}

func (s *StatsCmd) Run(rt *cliEnv) error {
	return withLibrary(rt.ctx, func(svc *library.Service) error {
		stats, err := svc.Statistics(rt.ctx)
		if err != nil {
			return err
		}
		if stats.Empty {
			rt.printf("No books with downloads found!\n")
			return nil
		}
		rt.printf("%s", console.FormatStatistics(stats))
		return nil
	})
}

// BrowseCmd opens the interactive book list.
type BrowseCmd struct{}

func (b *BrowseCmd) Run(rt *cliEnv) error {
	return withLibrary(rt.ctx, func(svc *library.Service) error {
		books, err := svc.ListBooks(rt.ctx)
		if err != nil {
			return err
		}
		if len(books) == 0 {
			rt.printf("No books registered yet\n")
			return nil
		}

		result, err := runBrowse(books)
		if apperrors.IsStopProcessingError(err) {
			slog.Debug("Browse closed without a selection")
			return nil
		}
		if err != nil {
			return err
		}
		if result.Action == tui.ActionSelected && result.Selection != nil {
			rt.printf("%s\n", console.FormatBook(*result.Selection))
		}
		return nil
	})
}

// ExportCmd writes the shelf to a JSON snapshot and markdown notes.
type ExportCmd struct {
	JSON        bool   `help:"Write the JSON snapshot"`
	Markdown    bool   `help:"Write one markdown note per book"`
	JSONOutput  string `short:"j" help:"JSON output path"`
	MarkdownDir string `short:"o" help:"Markdown output directory"`
	Overwrite   bool   `help:"Overwrite existing files"`
}

func (e *ExportCmd) Run(rt *cliEnv) error {
	writeJSON, writeMarkdown := e.JSON, e.Markdown
	if !writeJSON && !writeMarkdown {
		writeJSON, writeMarkdown = true, true
	}

	jsonPath := e.JSONOutput
	if jsonPath == "" {
		jsonPath = viper.GetString("export.jsonoutput")
	}
	markdownDir := e.MarkdownDir
	if markdownDir == "" {
		markdownDir = viper.GetString("export.markdownoutputdir")
	}

	return withLibrary(rt.ctx, func(svc *library.Service) error {
		books, err := svc.ListBooks(rt.ctx)
		if err != nil {
			return err
		}

		if writeJSON {
			authors, err := svc.ListAuthors(rt.ctx)
			if err != nil {
				return err
			}
			written, err := export.WriteJSON(export.NewSnapshot(books, authors), jsonPath, e.Overwrite)
			if err != nil {
				return err
			}
			if written {
				rt.printf("Wrote %s\n", jsonPath)
			} else {
				rt.printf("Skipped %s (already exists)\n", jsonPath)
			}
		}

		if writeMarkdown {
			count, err := export.WriteNotes(books, markdownDir, e.Overwrite)
			if err != nil {
				return err
			}
			rt.printf("Wrote %d notes to %s\n", count, markdownDir)
		}
		return nil
	})
}

// CacheCmd groups the response cache maintenance commands.
type CacheCmd struct {
	Invalidate CacheInvalidateCmd `cmd:"" help:"Remove every cached catalog response"`
	Prune      CachePruneCmd      `cmd:"" help:"Remove cached catalog responses older than the TTL"`
}

// CacheInvalidateCmd clears the catalog response cache.
type CacheInvalidateCmd struct{}

func (c *CacheInvalidateCmd) Run(rt *cliEnv) error {
	return withCache(func(db *cache.CacheDB) error {
		removed, err := db.InvalidateSource(cache.GutendexTable)
		if err != nil {
			return err
		}
		rt.printf("Removed %d cached responses\n", removed)
		return nil
	})
}

// CachePruneCmd drops expired catalog responses.
type CachePruneCmd struct{}

func (c *CachePruneCmd) Run(rt *cliEnv) error {
	return withCache(func(db *cache.CacheDB) error {
		removed, err := db.ClearExpired(cache.GutendexTable, config.CacheTTL())
		if err != nil {
			return err
		}
		rt.printf("Removed %d expired cached responses\n", removed)
		return nil
	})
}

func withCache(fn func(*cache.CacheDB) error) error {
	db, err := cache.Open(viper.GetString("cache.dbfile"))
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Warn("Failed to close cache", "error", closeErr)
		}
	}()
	return fn(db)
}
