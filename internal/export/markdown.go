package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/gutenshelf/internal/catalog"
)

// NoteFrontmatter is the YAML header of a book note.
type NoteFrontmatter struct {
	Title           string   `yaml:"title"`
	Author          string   `yaml:"author,omitempty"`
	AuthorBirthYear *int     `yaml:"author_birth_year,omitempty"`
	AuthorDeathYear *int     `yaml:"author_death_year,omitempty"`
	Language        string   `yaml:"language,omitempty"`
	LanguageName    string   `yaml:"language_name,omitempty"`
	Downloads       int      `yaml:"downloads"`
	Tags            []string `yaml:"tags,flow"`
}

var filenameReplacer = strings.NewReplacer(
	":", " -",
	"/", "-",
	"\\", "-",
	"?", "",
	"*", "",
	"\"", "'",
	"<", "",
	">", "",
	"|", "-",
)

// SanitizeFilename cleans a filename by replacing problematic characters
func SanitizeFilename(name string) string {
	return strings.TrimSpace(filenameReplacer.Replace(name))
}

// NotePath returns the markdown file path for a book title.
func NotePath(title, directory string) string {
	return filepath.Join(directory, SanitizeFilename(title)+".md")
}

func frontmatterFor(book catalog.Book) NoteFrontmatter {
	fm := NoteFrontmatter{
		Title:     book.Title,
		Language:  book.Language,
		Downloads: book.DownloadCount,
		Tags:      []string{"gutenberg"},
	}
	if book.Language != "" {
		fm.LanguageName = catalog.LanguageName(book.Language)
		fm.Tags = append(fm.Tags, "language/"+book.Language)
	}
	if book.Author != nil {
		fm.Author = book.Author.Name
		fm.AuthorBirthYear = book.Author.BirthYear
		fm.AuthorDeathYear = book.Author.DeathYear
	}
	return fm
}

// BuildNote renders a book as markdown with YAML frontmatter.
func BuildNote(book catalog.Book) ([]byte, error) {
	frontmatterBytes, err := yaml.Marshal(frontmatterFor(book))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(frontmatterBytes)
	buf.WriteString("---\n\n")

	fmt.Fprintf(&buf, "# %s\n\n", book.Title)
	if book.Author != nil {
		fmt.Fprintf(&buf, "By %s (%s)\n\n", book.Author.Name, book.Author.Lifespan())
	}
	fmt.Fprintf(&buf, "Downloads: %d\n", book.DownloadCount)

	return buf.Bytes(), nil
}

// WriteNotes writes one note per book into directory and returns how many
// files were written. Existing notes are kept unless overwrite is set.
func WriteNotes(books []catalog.Book, directory string, overwrite bool) (int, error) {
	written := 0
	for _, book := range books {
		content, err := BuildNote(book)
		if err != nil {
			return written, fmt.Errorf("build note for %q: %w", book.Title, err)
		}

		path := NotePath(book.Title, directory)
		ok, err := writeFile(path, content, overwrite)
		if err != nil {
			return written, err
		}
		if !ok {
			slog.Debug("Note already exists, skipping", "filename", path)
			continue
		}
		written++
	}

	slog.Info("Wrote markdown notes", "directory", directory, "written", written, "total", len(books))
	return written, nil
}
