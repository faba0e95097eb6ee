// Package console runs the interactive numbered menu over an input reader
// and an output writer.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/gutenshelf/internal/library"
)

const menuText = `
--- Choose an option: ---

1 - Search book by title
2 - List registered books
3 - List registered authors
4 - List authors alive in a given year
5 - List books by language
6 - Top 10 most downloaded books
7 - Download statistics

0 - Exit
`

// Session holds the state of one interactive menu run.
type Session struct {
	svc    *library.Service
	in     io.Reader
	out    io.Writer
	lines  <-chan string
	styles styles
}

type styles struct {
	header  lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		success: r.NewStyle().Foreground(lipgloss.Color("42")),
		warning: r.NewStyle().Foreground(lipgloss.Color("178")),
		failure: r.NewStyle().Foreground(lipgloss.Color("161")),
	}
}

// NewSession creates a session reading commands from in and writing to out.
func NewSession(svc *library.Service, in io.Reader, out io.Writer) *Session {
	return &Session{
		svc:    svc,
		in:     in,
		out:    out,
		styles: newStyles(lipgloss.NewRenderer(out)),
	}
}

// scanLines feeds input lines to a channel so reads can be abandoned when
// the context is cancelled. The channel is closed at end of input; the
// goroutine stops sending once ctx is done.
func scanLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

// Run shows the menu until the user picks 0, input ends or ctx is cancelled.
// Failures of single operations are reported and the menu is shown again.
func (s *Session) Run(ctx context.Context) error {
	scanCtx, stopScan := context.WithCancel(ctx)
	defer stopScan()
	s.lines = scanLines(scanCtx, s.in)

	for {
		s.print(menuText)

		line, ok := s.readLine(ctx)
		if !ok {
			s.println("")
			s.println("Closing...")
			return ctx.Err()
		}

		option, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			s.warn("Choose one of the options!")
			continue
		}

		if option == 0 {
			s.println("")
			s.println("Closing...")
			return nil
		}

		op, found := s.operations()[option]
		if !found {
			s.warn("Invalid option")
			continue
		}
		s.safely(ctx, op)
	}
}

func (s *Session) operations() map[int]func(context.Context) error {
	return map[int]func(context.Context) error{
		1: s.searchBook,
		2: s.listBooks,
		3: s.listAuthors,
		4: s.listAuthorsAlive,
		5: s.listBooksByLanguage,
		6: s.listTop10,
		7: s.showStatistics,
	}
}

// safely runs one menu operation, reporting its error or panic as a single
// line so the menu loop always continues.
func (s *Session) safely(ctx context.Context, op func(context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Menu operation panicked", "panic", r)
			s.fail(fmt.Sprintf("Unexpected error: %v", r))
		}
	}()

	if err := op(ctx); err != nil {
		slog.Debug("Menu operation failed", "error", err)
		s.fail(DescribeError(err))
	}
}

// readLine waits for the next input line. It returns false at end of input
// or when ctx is done.
func (s *Session) readLine(ctx context.Context) (string, bool) {
	select {
	case <-ctx.Done():
		return "", false
	case line, ok := <-s.lines:
		return line, ok
	}
}

// prompt prints question and reads the answer.
func (s *Session) prompt(ctx context.Context, question string) (string, error) {
	s.println("")
	s.println(question)
	line, ok := s.readLine(ctx)
	if !ok {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return line, nil
}

func (s *Session) print(text string) {
	_, _ = fmt.Fprint(s.out, text)
}

func (s *Session) println(text string) {
	_, _ = fmt.Fprintln(s.out, text)
}

func (s *Session) header(title string) {
	s.println("")
	s.println(s.styles.header.Render(fmt.Sprintf("----- %s -----", title)))
}

func (s *Session) info(text string) {
	s.println("")
	s.println(s.styles.success.Render(text))
}

func (s *Session) warn(text string) {
	s.println("")
	s.println(s.styles.warning.Render(text))
}

func (s *Session) fail(text string) {
	s.println("")
	s.println(s.styles.failure.Render(text))
}
