package platform_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/noodle/internal/platform"
	"github.com/aretw0/noodle/pkg/adapters/memory"
	"github.com/aretw0/noodle/pkg/core"
)

func TestNewJarService(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.jar")

	svc, err := platform.New(path)
	require.NoError(t, err)

	ctx := context.Background()
	err = svc.SaveNote(ctx, "cs101", "week1", core.SaveRequest{Text: "hello"})
	require.NoError(t, err)

	// A fresh service over the same file sees the persisted note.
	svc2, err := platform.New(path)
	require.NoError(t, err)

	rec, err := svc2.LoadNote(ctx, "cs101", "week1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "hello", rec.Text)
}

func TestNewSQLiteService(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.db")

	svc, err := platform.New(path, platform.WithAdapter("sqlite"))
	require.NoError(t, err)

	ctx := context.Background()
	err = svc.SaveNote(ctx, "cs101", "week1", core.SaveRequest{Text: "durable"})
	require.NoError(t, err)

	rec, err := svc.LoadNote(ctx, "cs101", "week1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "durable", rec.Text)
}

func TestNewMemoryService(t *testing.T) {
	svc, err := platform.New("", platform.WithAdapter("memory"))
	require.NoError(t, err)

	ctx := context.Background()
	err = svc.SaveNote(ctx, "", "scratch", core.SaveRequest{Text: "ephemeral"})
	require.NoError(t, err)

	rec, err := svc.LoadNote(ctx, "", "scratch")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "ephemeral", rec.Text)
}

func TestNewUnknownAdapter(t *testing.T) {
	_, err := platform.New("x", platform.WithAdapter("carrier-pigeon"))
	assert.Error(t, err)
}

func TestWithStoreInjection(t *testing.T) {
	store := memory.New()
	svc, err := platform.New("ignored", platform.WithStore(store))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, svc.SaveNote(ctx, "", "s1", core.SaveRequest{Text: "injected"}))
	assert.Equal(t, 1, store.Len())
}

func TestWithCeilingTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.jar")
	store, err := platform.OpenStore(path, platform.WithCeiling(10))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "noodle_s1", "0123456789abcdef", 0))
	got, ok, err := store.Get(ctx, "noodle_s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "0123456789", got)
}

func TestOpenStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.jar")
	store, err := platform.OpenStore(path)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "noodle_s1", "v", 0))
	got, ok, err := store.Get(ctx, "noodle_s1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", got)
}
