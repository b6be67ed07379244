package conversation

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKVGetSet(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, map[string]json.RawMessage{
		"a": json.RawMessage(`{"x":1}`),
		"b": json.RawMessage(`{"y":2}`),
	}))

	values, err := kv.Get(ctx, []string{"a", "b", "missing"})
	require.NoError(t, err)
	assert.Len(t, values, 2)
	assert.JSONEq(t, `{"x":1}`, string(values["a"]))
	_, ok := values["missing"]
	assert.False(t, ok, "missing keys are absent, not nil-valued")
}

func TestFileKVPersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversations.json")
	ctx := context.Background()

	kv, err := NewFileKV(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, map[string]json.RawMessage{"key": json.RawMessage(`{"summary":"s"}`)}))

	reopened, err := NewFileKV(path)
	require.NoError(t, err)

	values, err := reopened.Get(ctx, []string{"key"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"s"}`, string(values["key"]))
}

func TestFileKVCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "store.json")

	kv, err := NewFileKV(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(context.Background(), map[string]json.RawMessage{"k": json.RawMessage(`1`)}))

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestFileKVMissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never-written.json")

	kv, err := NewFileKV(path)
	require.NoError(t, err)

	values, err := kv.Get(context.Background(), []string{"anything"})
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestFileKVRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	_, err := NewFileKV(path)
	assert.Error(t, err)
}

func TestFileKVLeavesNoTempFileBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.json")

	kv, err := NewFileKV(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(context.Background(), map[string]json.RawMessage{"k": json.RawMessage(`1`)}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "store.json", entries[0].Name())
}
