package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppend_AssignsIDAndTime(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rec, err := s.Append(ctx, createTestRecord("gps-week-tow", "2405,475219", 2405))
	require.NoError(t, err)
	assert.Equal(t, "conv-0001", rec.ID)
	assert.Equal(t, testStart, rec.RecordedAt)

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestAppend_DefaultIDsAreUUIDv7(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	rec, err := s.Append(context.Background(), createTestRecord("utc", "2024-01-01 00:00:00", 2295))
	require.NoError(t, err)

	id, err := uuid.Parse(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.WithinDuration(t, time.Now(), rec.RecordedAt, time.Minute)
}

func TestAppend_NoWarnings(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	in := createTestRecord("utc", "2016-06-01 00:00:00", 1899)
	in.Warnings = nil
	rec, err := s.Append(ctx, in)
	require.NoError(t, err)

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Warnings)

	var raw string
	require.NoError(t, s.db.QueryRow("SELECT warnings FROM conversions WHERE id = ?", rec.ID).Scan(&raw))
	assert.Equal(t, "[]", raw)
}

func TestList_NewestFirst(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.Append(ctx, createTestRecord("gps-week-tow", "x", 2400+i))
		require.NoError(t, err)
	}

	all, err := s.List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "conv-0005", all[0].ID)
	assert.Equal(t, 2404, all[0].Result.Week)
	assert.Equal(t, "conv-0001", all[4].ID)

	limited, err := s.List(ctx, ListOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, []string{"conv-0005", "conv-0004"}, []string{limited[0].ID, limited[1].ID})
}

func TestList_Filters(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, kind := range []string{"utc", "mjd", "utc", "bjt"} {
		_, err := s.Append(ctx, createTestRecord(kind, "x", 2000))
		require.NoError(t, err)
	}

	utc, err := s.List(ctx, ListOptions{Kind: "utc"})
	require.NoError(t, err)
	require.Len(t, utc, 2)
	assert.Equal(t, "conv-0003", utc[0].ID)

	// Records are stamped one second apart from testStart.
	recent, err := s.List(ctx, ListOptions{Since: testStart.Add(2 * time.Second)})
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "bjt", recent[0].Kind)
	assert.Equal(t, "utc", recent[1].Kind)

	none, err := s.List(ctx, ListOptions{Kind: "now"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestGet_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCountAndClear(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.Append(ctx, createTestRecord("mjd", "60000", 2190))
		require.NoError(t, err)
	}

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	removed, err := s.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	n, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRecords_SurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	s1, err := Open(path)
	require.NoError(t, err)
	rec, err := s1.Append(ctx, createTestRecord("utc", "2017-01-01 00:00:00", 1930))
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Result, got.Result)
	assert.Equal(t, rec.RecordedAt, got.RecordedAt)
}
