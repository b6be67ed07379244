package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// KV is the key-value persistence interface the store is built on. Writes
// made with a given key must be visible to subsequent reads of that same key
// within the same process; no cross-process guarantees are required.
type KV interface {
	// Get returns the stored values for the given keys. Keys with no
	// stored value are absent from the result.
	Get(ctx context.Context, keys []string) (map[string]json.RawMessage, error)

	// Set stores all entries in the mapping, overwriting existing values.
	Set(ctx context.Context, entries map[string]json.RawMessage) error
}

// MemoryKV is an in-process KV used in tests and as the fallback when no
// storage path is configured.
type MemoryKV struct {
	mu      sync.RWMutex
	entries map[string]json.RawMessage
}

// NewMemoryKV creates an empty in-memory KV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{entries: make(map[string]json.RawMessage)}
}

// Get implements KV.
func (m *MemoryKV) Get(_ context.Context, keys []string) (map[string]json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]json.RawMessage, len(keys))
	for _, key := range keys {
		if value, ok := m.entries[key]; ok {
			result[key] = value
		}
	}
	return result, nil
}

// Set implements KV.
func (m *MemoryKV) Set(_ context.Context, entries map[string]json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, value := range entries {
		m.entries[key] = value
	}
	return nil
}

// FileKV is a JSON-file-backed KV. The full mapping is held in memory and
// flushed to disk on every Set via an atomic temp-file rename.
type FileKV struct {
	path    string
	mu      sync.RWMutex
	entries map[string]json.RawMessage
}

// fileFormat is the on-disk shape of a FileKV.
type fileFormat struct {
	Version string                     `json:"version"`
	Entries map[string]json.RawMessage `json:"entries"`
}

// NewFileKV creates a file-backed KV at path, loading any existing data.
// If path is empty, defaults to ~/.pagesage/conversations.json.
func NewFileKV(path string) (*FileKV, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("conversation: failed to get user home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".pagesage", "conversations.json")
	}

	kv := &FileKV{
		path:    path,
		entries: make(map[string]json.RawMessage),
	}
	if err := kv.load(); err != nil {
		return nil, err
	}
	return kv, nil
}

// Path returns the backing file path.
func (f *FileKV) Path() string { return f.path }

func (f *FileKV) load() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("conversation: failed to read store file: %w", err)
	}

	var parsed fileFormat
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("conversation: failed to decode store file: %w", err)
	}
	if parsed.Entries != nil {
		f.entries = parsed.Entries
	}
	return nil
}

// Get implements KV.
func (f *FileKV) Get(_ context.Context, keys []string) (map[string]json.RawMessage, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	result := make(map[string]json.RawMessage, len(keys))
	for _, key := range keys {
		if value, ok := f.entries[key]; ok {
			result[key] = value
		}
	}
	return result, nil
}

// Set implements KV, flushing the full mapping to disk atomically.
func (f *FileKV) Set(_ context.Context, entries map[string]json.RawMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for key, value := range entries {
		f.entries[key] = value
	}
	return f.flush()
}

// flush writes the mapping to a temp file and renames it over the store
// file. Caller holds the write lock.
func (f *FileKV) flush() error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("conversation: failed to create store directory: %w", err)
	}

	data, err := json.MarshalIndent(fileFormat{Version: "1.0", Entries: f.entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("conversation: failed to encode store file: %w", err)
	}

	tempPath := f.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("conversation: failed to write temp store file: %w", err)
	}
	if err := os.Rename(tempPath, f.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("conversation: failed to replace store file: %w", err)
	}
	return nil
}
