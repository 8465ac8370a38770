package kvstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	sqliteStore, err := NewSqliteStore(sqlite)
	require.NoError(t, err)

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqliteStore,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			err := store.Set(ctx, "tasks", json.RawMessage(`["a"]`))
			require.NoError(t, err)
			err = store.Set(ctx, "grades", json.RawMessage(`["b"]`))
			require.NoError(t, err)

			values, err := store.Get(ctx, "tasks", "missing")
			require.NoError(t, err)
			require.Len(t, values, 1)
			require.JSONEq(t, `["a"]`, string(values["tasks"]))

			all, err := store.GetAll(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)

			err = store.Delete(ctx, "tasks")
			require.NoError(t, err)
			err = store.Clear(ctx)
			require.NoError(t, err)

			all, err = store.GetAll(ctx)
			require.NoError(t, err)
			require.Empty(t, all)
		})
	}
}

func TestStoreNotifications(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			var got []Change
			unsubscribe := store.Subscribe(func(changes []Change) {
				got = append(got, changes...)
			})

			err := store.Set(ctx, "k", json.RawMessage(`1`))
			require.NoError(t, err)
			err = store.Set(ctx, "k", json.RawMessage(`2`))
			require.NoError(t, err)

			require.Len(t, got, 2)
			require.Nil(t, got[0].Old)
			require.JSONEq(t, `1`, string(got[0].New))
			require.JSONEq(t, `1`, string(got[1].Old))
			require.JSONEq(t, `2`, string(got[1].New))

			unsubscribe()
			err = store.Set(ctx, "k", json.RawMessage(`3`))
			require.NoError(t, err)
			require.Len(t, got, 2)
		})
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	type record struct {
		Name string `json:"name"`
	}

	_, ok, err := GetJSON[record](ctx, store, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	err = SetJSON(ctx, store, "r", record{Name: "x"})
	require.NoError(t, err)

	out, ok, err := GetJSON[record](ctx, store, "r")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "x", out.Name)
}
