package console

import (
	"fmt"
	"strings"

	"github.com/lepinkainen/gutenshelf/internal/catalog"
	apperrors "github.com/lepinkainen/gutenshelf/internal/errors"
)

// FormatBook renders one book as a text block.
func FormatBook(b catalog.Book) string {
	var sb strings.Builder
	sb.WriteString("\n----- BOOK -----\n")
	fmt.Fprintf(&sb, "Title: %s\n", b.Title)
	if b.Author != nil {
		fmt.Fprintf(&sb, "Author: %s\n", b.Author.Name)
	}
	fmt.Fprintf(&sb, "Language: %s\n", b.Language)
	fmt.Fprintf(&sb, "Downloads: %d\n", b.DownloadCount)
	sb.WriteString("----------------\n")
	return sb.String()
}

// FormatAuthor renders one author and the titles of their stored books.
func FormatAuthor(a catalog.Author) string {
	titles := make([]string, 0, len(a.Books))
	for _, b := range a.Books {
		titles = append(titles, b.Title)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\nAuthor: %s\n", a.Name)
	fmt.Fprintf(&sb, "Birth year: %s\n", optionalYear(a.BirthYear))
	fmt.Fprintf(&sb, "Death year: %s\n", optionalYear(a.DeathYear))
	fmt.Fprintf(&sb, "Books: [%s]\n", strings.Join(titles, ", "))
	return sb.String()
}

// FormatRanking renders a numbered list of titles with download counts.
func FormatRanking(books []catalog.Book) string {
	var sb strings.Builder
	for i, b := range books {
		fmt.Fprintf(&sb, "%2d. %s (%d downloads)\n", i+1, b.Title, b.DownloadCount)
	}
	return sb.String()
}

// FormatStatistics renders download statistics.
func FormatStatistics(stats catalog.Statistics) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Average downloads: %.2f\n", stats.Average)
	fmt.Fprintf(&sb, "Max downloads: %d\n", stats.Max)
	fmt.Fprintf(&sb, "Min downloads: %d\n", stats.Min)
	fmt.Fprintf(&sb, "Books counted: %d\n", stats.Count)
	return sb.String()
}

// DescribeError turns an operation failure into a one-line message.
func DescribeError(err error) string {
	switch {
	case apperrors.IsInvalidInputError(err):
		return fmt.Sprintf("Invalid input: %v", err)
	case apperrors.IsRateLimitError(err):
		return fmt.Sprintf("Catalog is rate limiting requests: %v", err)
	case apperrors.IsRemoteFailure(err):
		return fmt.Sprintf("Catalog request failed: %v", err)
	case apperrors.IsPersistenceError(err):
		return fmt.Sprintf("Storage error: %v", err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

func optionalYear(year *int) string {
	if year == nil {
		return "unknown"
	}
	return fmt.Sprintf("%d", *year)
}
