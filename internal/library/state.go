package library

import (
	"fmt"

	"github.com/lepinkainen/gutenshelf/internal/catalog"
)

// State is a step of the search workflow. A search ends in one of NoMatch,
// AlreadyExists, Persisted or Error.
type State int

const (
	StateQueryReceived State = iota
	StateFetched
	StateDecoded
	StateMatched
	StateNoMatch
	StateDeduplicated
	StateAlreadyExists
	StatePersisted
	StateError
)

var stateNames = map[State]string{
	StateQueryReceived: "query_received",
	StateFetched:       "fetched",
	StateDecoded:       "decoded",
	StateMatched:       "matched",
	StateNoMatch:       "no_match",
	StateDeduplicated:  "deduplicated",
	StateAlreadyExists: "already_exists",
	StatePersisted:     "persisted",
	StateError:         "error",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// SearchResult is the outcome of one search.
type SearchResult struct {
	Query string
	State State
	// Title is the matched candidate title, set from StateMatched on.
	Title         string
	Book          *catalog.Book
	Author        *catalog.Author
	AuthorCreated bool
}

// Message is the one-line, human-readable summary of a terminal result.
func (r SearchResult) Message() string {
	switch r.State {
	case StateNoMatch:
		return fmt.Sprintf("Book not found for %q, try again!", r.Query)
	case StateAlreadyExists:
		return fmt.Sprintf("Book %q is already registered", r.Title)
	case StatePersisted:
		if r.AuthorCreated {
			return fmt.Sprintf("Saved %q by %s (new author)", r.Book.Title, r.Author.Name)
		}
		return fmt.Sprintf("Saved %q by %s", r.Book.Title, r.Author.Name)
	case StateError:
		return fmt.Sprintf("Search for %q failed", r.Query)
	default:
		return fmt.Sprintf("Search for %q is %s", r.Query, r.State)
	}
}
