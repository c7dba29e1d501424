package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	perrors "plinius-pricer/internal/errors"
)

func newTestSQLite(t *testing.T) *SQLiteKV {
	t.Helper()
	kv, err := NewSQLiteKV(filepath.Join(t.TempDir(), "plinius.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return kv
}

func backends(t *testing.T) map[string]KV {
	return map[string]KV{
		"memory": NewMemoryKV(),
		"sqlite": newTestSQLite(t),
	}
}

// Property: for any key and value, Set followed by Get returns the value verbatim.
func TestProperty_KVRoundTrip(t *testing.T) {
	for name, kv := range backends(t) {
		kv := kv
		t.Run(name, func(t *testing.T) {
			parameters := gopter.DefaultTestParameters()
			parameters.MinSuccessfulTests = 100
			parameters.Rng.Seed(time.Now().UnixNano())

			properties := gopter.NewProperties(parameters)

			properties.Property("set then get returns the stored value", prop.ForAll(
				func(key, value string) bool {
					ctx := context.Background()
					if err := kv.Set(ctx, key, value); err != nil {
						t.Logf("Failed to set: %v", err)
						return false
					}
					got, ok, err := kv.Get(ctx, key)
					return err == nil && ok && got == value
				},
				gen.Identifier(),
				gen.AlphaString(),
			))

			properties.TestingRun(t)
		})
	}
}

func TestKV_MissingAndOverwrite(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := kv.Get(ctx, "absent"); err != nil || ok {
				t.Fatalf("Get(absent) = ok %v, err %v", ok, err)
			}

			if err := kv.Set(ctx, "k", "one"); err != nil {
				t.Fatal(err)
			}
			if err := kv.Set(ctx, "k", "two"); err != nil {
				t.Fatal(err)
			}
			if got, _, _ := kv.Get(ctx, "k"); got != "two" {
				t.Errorf("Get(k) = %q, want two", got)
			}

			if err := kv.Delete(ctx, "k"); err != nil {
				t.Fatal(err)
			}
			if err := kv.Delete(ctx, "k"); err != nil {
				t.Fatalf("second delete: %v", err)
			}
			if _, ok, _ := kv.Get(ctx, "k"); ok {
				t.Error("key survived delete")
			}
		})
	}
}

func TestSQLiteKV_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reopen.db")

	kv, err := NewSQLiteKV(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := kv.Set(ctx, "scenarios", `[{"id":"a"}]`); err != nil {
		t.Fatal(err)
	}
	kv.Close()

	kv, err = NewSQLiteKV(path)
	if err != nil {
		t.Fatal(err)
	}
	defer kv.Close()

	got, ok, err := kv.Get(ctx, "scenarios")
	if err != nil || !ok || got != `[{"id":"a"}]` {
		t.Fatalf("Get after reopen = %q, %v, %v", got, ok, err)
	}

	entries, err := kv.Entries(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Key != "scenarios" {
		t.Fatalf("Entries = %+v", entries)
	}
}

func TestMemoryKV_FailureInjection(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	kv.FailWrites(true)

	err := kv.Set(ctx, "k", "v")
	if !perrors.Is(err, perrors.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}

	kv.FailWrites(false)
	kv.FailReads(true)
	if err := kv.Set(ctx, "k", "v"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := kv.Get(ctx, "k"); !perrors.Is(err, perrors.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}
