package csvutil

import (
	"errors"
	"strings"
)

// TitleColumns are the header names recognised as the title column.
var TitleColumns = []string{"title", "titulo", "book", "name"}

var errBlankTitle = errors.New("blank title")

// ReadTitles reads book titles from a CSV file with a header row. The title
// column is found by name; without a match the first column is used.
// Blank titles are skipped.
func ReadTitles(filename string) ([]string, error) {
	column := 0

	opts := ProcessorOptions{
		FieldsPerRecord: -1,
		SkipInvalid:     true,
		OnHeader: func(header []string) error {
			column = titleColumn(header)
			return nil
		},
	}

	return ProcessCSV(filename, func(record []string) (string, error) {
		if column >= len(record) {
			return "", errBlankTitle
		}
		title := strings.TrimSpace(record[column])
		if title == "" {
			return "", errBlankTitle
		}
		return title, nil
	}, opts)
}

func titleColumn(header []string) int {
	for _, name := range TitleColumns {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")), name) {
				return i
			}
		}
	}
	return 0
}
