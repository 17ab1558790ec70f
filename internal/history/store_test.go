package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name   string
		dbPath string
	}{
		{name: "file database", dbPath: filepath.Join(t.TempDir(), "history.db")},
		{name: "nested directories", dbPath: filepath.Join(t.TempDir(), "a", "b", "history.db")},
		{name: "in memory", dbPath: ":memory:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(tt.dbPath)
			require.NoError(t, err)
			defer store.Close()
			assert.Equal(t, tt.dbPath, store.Path())
		})
	}
}

func TestRecordAssignsID(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	run := &Run{Script: "lint", Command: "pylint src", ExitCode: 0, Success: true}
	require.NoError(t, store.Record(context.Background(), run))

	_, err = uuid.Parse(run.ID)
	assert.NoError(t, err)
	assert.False(t, run.StartedAt.IsZero())
}

func TestRecent(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, name := range []string{"lint", "test", "lint"} {
		run := &Run{
			Script:    name,
			Command:   "cmd " + name,
			ExitCode:  i,
			Success:   i == 0,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			Duration:  1500 * time.Millisecond,
		}
		require.NoError(t, store.Record(ctx, run))
	}

	runs, err := store.Recent(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, 2, runs[0].ExitCode)
	assert.Equal(t, 0, runs[2].ExitCode)
	assert.True(t, runs[2].Success)
	assert.Equal(t, 1500*time.Millisecond, runs[0].Duration)
	assert.True(t, base.Equal(runs[2].StartedAt))

	runs, err = store.Recent(ctx, "lint", 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	for _, r := range runs {
		assert.Equal(t, "lint", r.Script)
	}

	runs, err = store.Recent(ctx, "", 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestRecordDuplicateID(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	id := uuid.NewString()
	require.NoError(t, store.Record(ctx, &Run{ID: id, Script: "a", Command: "true"}))
	assert.Error(t, store.Record(ctx, &Run{ID: id, Script: "a", Command: "true"}))
}

func TestCloseNil(t *testing.T) {
	var s *Store
	assert.NoError(t, s.Close())
}
