package gutendex

import (
	"testing"

	apperrors "github.com/lepinkainen/gutenshelf/internal/errors"
	"github.com/lepinkainen/gutenshelf/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeGutendexPayload(t *testing.T) {
	resp, err := Decode([]byte(testutil.FrankensteinPayload))
	require.NoError(t, err)

	require.Len(t, resp.Results, 1)
	assert.Equal(t, 1, resp.Count)

	c := resp.Results[0]
	assert.Equal(t, "Frankenstein; Or, The Modern Prometheus", c.Title)
	assert.Equal(t, "en", c.Language)
	assert.Equal(t, 50000, c.DownloadCount)
	require.Len(t, c.Authors, 1)
	require.NotNil(t, c.Authors[0].Name)
	assert.Equal(t, "Shelley, Mary Wollstonecraft", *c.Authors[0].Name)
	require.NotNil(t, c.Authors[0].BirthYear)
	assert.Equal(t, 1797, *c.Authors[0].BirthYear)
	require.NotNil(t, c.Authors[0].DeathYear)
	assert.Equal(t, 1851, *c.Authors[0].DeathYear)
}

func TestDecodeAlternateAliases(t *testing.T) {
	payload := `{
		"resultados": [{
			"titulo": "Dom Casmurro",
			"autores": [{"nome": "Machado de Assis", "nascimento": "1839", "falecimento": "1908"}],
			"idioma": "pt",
			"numero_downloads": "1234",
			"extra": {"ignored": true}
		}]
	}`

	resp, err := Decode([]byte(payload))
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)

	c := resp.Results[0]
	assert.Equal(t, "Dom Casmurro", c.Title)
	assert.Equal(t, "pt", c.Language)
	assert.Equal(t, 1234, c.DownloadCount)
	require.Len(t, c.Authors, 1)
	assert.Equal(t, "Machado de Assis", *c.Authors[0].Name)
	assert.Equal(t, 1839, *c.Authors[0].BirthYear)
	assert.Equal(t, 1908, *c.Authors[0].DeathYear)
}

func TestDecodeNullableAuthorFields(t *testing.T) {
	payload := `{"results": [{
		"title": "Beowulf",
		"authors": [{"name": null, "birth_year": null, "death_year": "unknown"}, {}],
		"languages": [],
		"download_count": 10
	}]}`

	resp, err := Decode([]byte(payload))
	require.NoError(t, err)

	c := resp.Results[0]
	assert.Equal(t, "", c.Language)
	require.Len(t, c.Authors, 2)
	for _, p := range c.Authors {
		assert.Nil(t, p.Name)
		assert.Nil(t, p.BirthYear)
		assert.Nil(t, p.DeathYear)
	}
}

func TestDecodeNegativeYears(t *testing.T) {
	payload := `{"results": [{"title": "The Iliad", "authors": [{"name": "Homer", "birth_year": -750, "death_year": -650}]}]}`

	resp, err := Decode([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, -750, *resp.Results[0].Authors[0].BirthYear)
	assert.Equal(t, -650, *resp.Results[0].Authors[0].DeathYear)
}

func TestDecodeEmptyResults(t *testing.T) {
	for _, payload := range []string{`{}`, `{"count": 0, "results": []}`, `{"results": null}`} {
		resp, err := Decode([]byte(payload))
		require.NoError(t, err, payload)
		assert.Empty(t, resp.Results, payload)
	}
}

func TestDecodeMalformedJSON(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "truncated", payload: `{"results": [`},
		{name: "not an object", payload: `[1, 2, 3]`},
		{name: "html error page", payload: `<html>Bad Gateway</html>`},
		{name: "title wrong type", payload: `{"results": [{"title": 42}]}`},
		{name: "download count not numeric", payload: `{"results": [{"title": "x", "download_count": "lots"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.payload))
			require.Error(t, err)
			assert.True(t, apperrors.IsDecodeError(err))
			assert.True(t, apperrors.IsRemoteFailure(err))
		})
	}
}
