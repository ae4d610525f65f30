package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/veracity/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newsReport(subject string, score int, at time.Time) *model.Report {
	r := model.NewReport(model.KindNews, subject, "https://news.example.com/"+subject)
	r.AnalyzedAt = at
	r.Credibility = &model.Credibility{Score: score, Level: model.CredibilityMedium}
	return r
}

func TestStore_SaveAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	report := newsReport("budget", 55, time.Now().UTC())
	id, err := s.Save(ctx, report)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Empty(t, report.ID, "Save must not mutate the caller's report")

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, model.KindNews, got.Kind)
	assert.Equal(t, "budget", got.Subject)
	require.NotNil(t, got.Credibility)
	assert.Equal(t, 55, got.Credibility.Score)
	assert.Equal(t, model.Disclaimer, got.Disclaimer)
}

func TestStore_ListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, subject := range []string{"first", "second", "third"} {
		_, err := s.Save(ctx, newsReport(subject, 40+i, base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	entries, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "third", entries[0].Subject)
	assert.Equal(t, "second", entries[1].Subject)
	assert.Equal(t, 42, entries[0].Score)
	assert.Equal(t, "Medium Credibility", entries[0].Label)
	assert.True(t, entries[0].AnalyzedAt.Equal(base.Add(2*time.Minute)))

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestStore_Delete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, newsReport("gone", 50, time.Now()))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, id))

	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, id), ErrNotFound)
}

func TestStore_GetMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)
}
