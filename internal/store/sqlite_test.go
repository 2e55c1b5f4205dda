package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/fairyhunter13/item-registry-service/internal/model"
)

func setupSQLite(t *testing.T) *SQLite {
	t.Helper()
	db, err := OpenSQLite(context.Background())
	require.NoError(t, err, "OpenSQLite should succeed")
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSQLite_MigrationsCreateItemsTable(t *testing.T) {
	db := setupSQLite(t)

	var name string
	err := db.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='items'",
	).Scan(&name)
	require.NoError(t, err, "items table should exist after migrations")
	require.Equal(t, "items", name)
}

func TestSQLite_RunMigrationsTwice(t *testing.T) {
	db := setupSQLite(t)
	require.NoError(t, RunMigrations(db.db), "re-running migrations should be a no-op")
}

func TestSQLite_InsertLookup(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()

	d := "red widget"
	in := model.NewItem(1, model.ItemInput{Name: "Widget", Description: &d, Price: 2.5, Quantity: 4})
	require.NoError(t, db.Insert(ctx, in))

	got, err := db.Lookup(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, in, got)
}

func TestSQLite_NullVersusEmptyDescription(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()

	empty := ""
	require.NoError(t, db.Insert(ctx, model.NewItem(1, model.ItemInput{Name: "a"})))
	require.NoError(t, db.Insert(ctx, model.NewItem(2, model.ItemInput{Name: "b", Description: &empty})))

	a, err := db.Lookup(ctx, 1)
	require.NoError(t, err)
	require.Nil(t, a.Description, "omitted description should read back as nil")

	b, err := db.Lookup(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, b.Description)
	require.Equal(t, "", *b.Description)
}

func TestSQLite_LookupMissing(t *testing.T) {
	db := setupSQLite(t)
	_, err := db.Lookup(context.Background(), 999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_DuplicateID(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()
	require.NoError(t, db.Insert(ctx, model.Item{ID: 1, Name: "a"}))
	err := db.Insert(ctx, model.Item{ID: 1, Name: "b"})
	require.ErrorIs(t, err, ErrDuplicateID)
}

func TestSQLite_SeparateInstancesAreIsolated(t *testing.T) {
	a := setupSQLite(t)
	b := setupSQLite(t)
	ctx := context.Background()
	require.NoError(t, a.Insert(ctx, model.Item{ID: 1, Name: "only-in-a"}))
	_, err := b.Lookup(ctx, 1)
	require.True(t, errors.Is(err, ErrNotFound), "second database should not see first one's rows")
}

// Property: whatever is inserted reads back identically from every backend.
func TestBackends_RoundTripProperty(t *testing.T) {
	db := setupSQLite(t)
	backends := map[string]Storage{
		"memory": NewMemory(),
		"sqlite": db,
		"cached": NewCached(NewMemory(), time.Minute),
	}
	var next int64
	rapid.Check(t, func(rt *rapid.T) {
		next++
		in := model.ItemInput{
			Name:     rapid.StringMatching(`[a-zA-Z0-9 ]{0,24}`).Draw(rt, "name"),
			Price:    rapid.Float64Range(-1e6, 1e6).Draw(rt, "price"),
			Quantity: rapid.Int64Range(-1e6, 1e6).Draw(rt, "quantity"),
		}
		if rapid.Bool().Draw(rt, "hasDescription") {
			d := rapid.StringMatching(`[a-zA-Z0-9 ]{0,24}`).Draw(rt, "description")
			in.Description = &d
		}
		it := model.NewItem(next, in)
		for name, st := range backends {
			if err := st.Insert(context.Background(), it); err != nil {
				rt.Fatalf("%s insert: %v", name, err)
			}
			got, err := st.Lookup(context.Background(), it.ID)
			if err != nil {
				rt.Fatalf("%s lookup: %v", name, err)
			}
			if got.Name != it.Name || got.Price != it.Price || got.Quantity != it.Quantity || got.Total != it.Total {
				rt.Fatalf("%s mismatch: got %+v want %+v", name, got, it)
			}
			if (got.Description == nil) != (it.Description == nil) {
				rt.Fatalf("%s description presence mismatch", name)
			}
			if got.Description != nil && *got.Description != *it.Description {
				rt.Fatalf("%s description mismatch", name)
			}
		}
	})
}
