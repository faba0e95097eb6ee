package gutendex

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Field aliases. Each key of a payload may appear under the English names
// Gutendex uses or under the Portuguese names used by older mirrors.
var (
	resultsAliases  = []string{"results", "resultados"}
	countAliases    = []string{"count", "total"}
	titleAliases    = []string{"title", "titulo"}
	authorsAliases  = []string{"authors", "autores"}
	languageAliases = []string{"languages", "language", "idiomas", "idioma"}
	downloadAliases = []string{"download_count", "downloads", "numero_downloads"}
	nameAliases     = []string{"name", "nome"}
	birthAliases    = []string{"birth_year", "nascimento"}
	deathAliases    = []string{"death_year", "falecimento"}
)

// SearchResponse is a decoded page of catalog search results.
type SearchResponse struct {
	Count   int         `json:"count"`
	Results []Candidate `json:"results"`
}

// Candidate is a book summary returned by a catalog search.
type Candidate struct {
	Title         string   `json:"title"`
	Authors       []Person `json:"authors"`
	Language      string   `json:"language"`
	DownloadCount int      `json:"download_count"`
}

// Person is an author entry of a candidate. Every field may be absent.
type Person struct {
	Name      *string `json:"name"`
	BirthYear *int    `json:"birth_year"`
	DeathYear *int    `json:"death_year"`
}

// UnmarshalJSON resolves the result list under either alias.
func (r *SearchResponse) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}

	*r = SearchResponse{}
	if raw, ok := pick(fields, countAliases...); ok {
		if n, ok := flexibleInt(raw); ok {
			r.Count = n
		}
	}
	if raw, ok := pick(fields, resultsAliases...); ok {
		if err := json.Unmarshal(raw, &r.Results); err != nil {
			return fmt.Errorf("results: %w", err)
		}
	}
	return nil
}

// UnmarshalJSON resolves candidate fields under either alias set and
// ignores everything else.
func (c *Candidate) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}

	*c = Candidate{}
	if raw, ok := pick(fields, titleAliases...); ok {
		if err := json.Unmarshal(raw, &c.Title); err != nil {
			return fmt.Errorf("title: %w", err)
		}
	}
	if raw, ok := pick(fields, authorsAliases...); ok {
		if err := json.Unmarshal(raw, &c.Authors); err != nil {
			return fmt.Errorf("authors: %w", err)
		}
	}
	if raw, ok := pick(fields, languageAliases...); ok {
		c.Language = firstLanguage(raw)
	}
	if raw, ok := pick(fields, downloadAliases...); ok {
		n, ok := flexibleInt(raw)
		if !ok {
			return fmt.Errorf("download_count: not a number: %s", raw)
		}
		c.DownloadCount = n
	}
	return nil
}

// UnmarshalJSON resolves author fields under either alias set. Years may be
// numbers or numeric strings; anything unparseable becomes nil.
func (p *Person) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}

	*p = Person{}
	if raw, ok := pick(fields, nameAliases...); ok {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return fmt.Errorf("name: %w", err)
		}
		p.Name = &name
	}
	if raw, ok := pick(fields, birthAliases...); ok {
		p.BirthYear = nullableYear(raw)
	}
	if raw, ok := pick(fields, deathAliases...); ok {
		p.DeathYear = nullableYear(raw)
	}
	return nil
}

func objectFields(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// pick returns the first non-null value among the aliases.
func pick(fields map[string]json.RawMessage, aliases ...string) (json.RawMessage, bool) {
	for _, alias := range aliases {
		raw, ok := fields[alias]
		if !ok || isNull(raw) {
			continue
		}
		return raw, true
	}
	return nil, false
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// firstLanguage accepts a single code or a list of codes.
func firstLanguage(raw json.RawMessage) string {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return strings.TrimSpace(single)
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return strings.TrimSpace(list[0])
	}
	return ""
}

func flexibleInt(raw json.RawMessage) (int, bool) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		if f, err := n.Float64(); err == nil {
			return int(f), true
		}
		return 0, false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func nullableYear(raw json.RawMessage) *int {
	year, ok := flexibleInt(raw)
	if !ok {
		return nil
	}
	return &year
}
