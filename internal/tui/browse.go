// Package tui provides interactive terminal UI components.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/gutenshelf/internal/catalog"
	apperrors "github.com/lepinkainen/gutenshelf/internal/errors"
)

const (
	defaultListWidth  = 72
	defaultListHeight = 20
)

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m).Run()
}

// BrowseAction represents the user's action in the browse UI.
type BrowseAction int

const (
	// ActionNone indicates no action was taken.
	ActionNone BrowseAction = iota
	// ActionSelected indicates the user picked a book.
	ActionSelected
	// ActionStopped indicates the user quit without picking.
	ActionStopped
)

// BrowseResult holds the outcome of a browse session.
type BrowseResult struct {
	Action    BrowseAction
	Selection *catalog.Book
}

type bookItem struct {
	catalog.Book
}

func (i bookItem) Title() string {
	return i.Book.Title
}

func (i bookItem) FilterValue() string {
	return i.Book.Title + " " + i.AuthorName()
}

func (i bookItem) Description() string {
	return i.AuthorName()
}

type itemStyles struct {
	normal        lipgloss.Style
	selected      lipgloss.Style
	langStyle     lipgloss.Style
	titleStyle    lipgloss.Style
	authorStyle   lipgloss.Style
	metadataStyle lipgloss.Style
}

func newItemStyles() itemStyles {
	asciiBorder := lipgloss.Border{
		Top:         "-",
		Bottom:      "-",
		Left:        "|",
		Right:       "|",
		TopLeft:     "+",
		TopRight:    "+",
		BottomLeft:  "+",
		BottomRight: "+",
	}

	container := lipgloss.NewStyle().
		Border(asciiBorder).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1).
		Foreground(lipgloss.Color("252"))

	selected := container.Copy().
		BorderForeground(lipgloss.Color("214")).
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("237"))

	return itemStyles{
		normal:   container,
		selected: selected,
		langStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("110")),
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("254")),
		authorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("178")),
		metadataStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("247")).
			Faint(true),
	}
}

type bookDelegate struct {
	styles itemStyles
}

func newDelegate() bookDelegate {
	return bookDelegate{styles: newItemStyles()}
}

func (d bookDelegate) Height() int                         { return 4 }
func (d bookDelegate) Spacing() int                        { return 1 }
func (d bookDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d bookDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	book, ok := item.(bookItem)
	if !ok {
		return
	}

	langLine := d.styles.langStyle.Render(fmt.Sprintf("[%s]", strings.ToUpper(book.Language)))
	titleLine := d.styles.titleStyle.Render(truncate(book.Book.Title, m.Width()-4))
	authorLine := d.styles.authorStyle.Render(formatAuthor(book.Book))
	metadataLine := d.styles.metadataStyle.Render(formatMetadata(book.Book, m.Width()-4))

	content := lipgloss.JoinVertical(lipgloss.Left, langLine, titleLine, authorLine, metadataLine)

	container := d.styles.normal
	if idx == m.Index() {
		container = d.styles.selected
	}
	_, _ = fmt.Fprint(w, container.Render(content))
}

type model struct {
	list    list.Model
	heading string
	result  BrowseResult
}

func newModel(heading string, books []catalog.Book) *model {
	listItems := make([]list.Item, len(books))
	for i, book := range books {
		listItems[i] = bookItem{Book: book}
	}

	l := list.New(listItems, newDelegate(), defaultListWidth, defaultListHeight)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = lipgloss.NewStyle()

	return &model{
		list:    l,
		heading: heading,
		result:  BrowseResult{Action: ActionNone},
	}
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// While the filter prompt is open, keys belong to the filter.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			if selected, ok := m.list.SelectedItem().(bookItem); ok {
				book := selected.Book
				m.result = BrowseResult{Action: ActionSelected, Selection: &book}
				return m, tea.Quit
			}
		case "ctrl+c", "q", "esc":
			m.result = BrowseResult{Action: ActionStopped}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		width := clamp(defaultListWidth, msg.Width-4, 40)
		height := clamp(defaultListHeight, msg.Height-6, 5)
		m.list.SetSize(width, height)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *model) View() string {
	header := headerStyle.Render(m.heading)
	help := helpStyle.Render("Up/Down navigate | / filter | Enter show details | q quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, m.list.View(), help)
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("244"))
)

// Browse shows the stored books in an interactive, filterable list. Quitting
// without a selection returns a StopProcessingError.
func Browse(books []catalog.Book) (BrowseResult, error) {
	if len(books) == 0 {
		return BrowseResult{Action: ActionNone}, nil
	}

	m := newModel(fmt.Sprintf("Registered books (%d)", len(books)), books)
	finalModel, err := runProgram(m)
	if err != nil {
		return BrowseResult{}, err
	}

	if typed, ok := finalModel.(*model); ok {
		if typed.result.Action == ActionStopped {
			return typed.result, apperrors.NewStopProcessingError("browse stopped by user")
		}
		return typed.result, nil
	}

	return BrowseResult{}, fmt.Errorf("unexpected program result")
}

func truncate(value string, width int) string {
	value = strings.Join(strings.Fields(value), " ")
	if width <= 0 || len(value) <= width {
		return value
	}
	if width <= 3 {
		return value[:width]
	}
	return value[:width-3] + "..."
}

func formatAuthor(book catalog.Book) string {
	if book.Author == nil {
		return "Unknown author"
	}
	return fmt.Sprintf("%s (%s)", book.Author.Name, book.Author.Lifespan())
}

// formatMetadata creates the metadata line with language name and download count
func formatMetadata(book catalog.Book, availableWidth int) string {
	var parts []string

	if book.Language != "" {
		parts = append(parts, catalog.LanguageName(book.Language))
	}
	parts = append(parts, formatDownloads(book.DownloadCount))

	metadata := strings.Join(parts, " | ")
	if availableWidth > 0 && len(metadata) > availableWidth {
		metadata = truncate(metadata, availableWidth)
	}
	return metadata
}

// formatDownloads formats download count in a compact way
func formatDownloads(count int) string {
	if count >= 1000 {
		return fmt.Sprintf("%.1fK downloads", float64(count)/1000)
	}
	return fmt.Sprintf("%d downloads", count)
}

func clamp(defaultValue, available, minimum int) int {
	width := defaultValue
	if available > 0 && available < defaultValue {
		width = available
	}
	if width < minimum {
		width = minimum
	}
	return width
}
