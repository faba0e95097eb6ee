package library

import (
	"context"
	"fmt"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/lepinkainen/gutenshelf/internal/catalog"
	apperrors "github.com/lepinkainen/gutenshelf/internal/errors"
)

func seedLibrary(t *testing.T, svc *Service, client *fakeClient, downloads ...int) {
	t.Helper()
	for i, d := range downloads {
		title := fmt.Sprintf("Volume %02d", i)
		c := candidate(title, fmt.Sprintf("Writer %d", i%2), d)
		if i%3 == 0 {
			c.Language = "fr"
		}
		client.resp = response(c)
		res, err := svc.Search(context.Background(), title)
		assert.NoError(t, err)
		assert.Equal(t, StatePersisted, res.State)
	}
}

func TestReports(t *testing.T) {
	client := &fakeClient{}
	svc := NewService(client, newTestStore(t))
	ctx := context.Background()
	seedLibrary(t, svc, client, 5, 0, 50, 500, 5000, 50000, 7, 70, 700, 7000, 70000, 1, 2)

	books, err := svc.ListBooks(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 13, len(books))

	top, err := svc.Top10(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 10, len(top))
	assert.Equal(t, 70000, top[0].DownloadCount)
	assert.Equal(t, 50000, top[1].DownloadCount)

	fr, err := svc.BooksByLanguage(ctx, "fr")
	assert.NoError(t, err)
	assert.Equal(t, 5, len(fr))

	alive, err := svc.AuthorsAliveIn(ctx, 1850)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(alive))

	alive, err = svc.AuthorsAliveIn(ctx, 1790)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(alive))

	stats, err := svc.Statistics(ctx)
	assert.NoError(t, err)
	assert.False(t, stats.Empty)
	assert.Equal(t, 12, stats.Count)
	assert.Equal(t, 1, stats.Min)
	assert.Equal(t, 70000, stats.Max)
}

func TestStatisticsNoneFound(t *testing.T) {
	client := &fakeClient{}
	svc := NewService(client, newTestStore(t))

	stats, err := svc.Statistics(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, catalog.Statistics{Empty: true}, stats)

	seedLibrary(t, svc, client, 0, 0)
	stats, err = svc.Statistics(context.Background())
	assert.NoError(t, err)
	assert.True(t, stats.Empty)
	assert.Equal(t, 0.0, stats.Average)
}

func TestBooksByLanguageBlank(t *testing.T) {
	svc := NewService(&fakeClient{}, newTestStore(t))

	_, err := svc.BooksByLanguage(context.Background(), "  ")
	assert.True(t, apperrors.IsInvalidInputError(err))
}
