package trust

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// snapshotVersion is the on-disk format version.
const snapshotVersion = "1.0"

// snapshotEnvelope is the JSON representation of a persisted snapshot.
type snapshotEnvelope struct {
	Version     string       `json:"version"`
	AllowList   []Record     `json:"allow_list,omitempty"`
	DenyList    []string     `json:"deny_list,omitempty"`
	SigningKeys []SigningKey `json:"signing_keys,omitempty"`
}

// FileStore persists the trust snapshot as JSON on disk. All access is
// serialized by an internal mutex; loading a missing file yields the empty
// snapshot.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file store at the given path. The file and its
// directory are created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the snapshot file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the snapshot from disk.
func (s *FileStore) Load(_ context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, nil
		}
		return Snapshot{}, fmt.Errorf("failed to read trust snapshot: %w", err)
	}

	var envelope snapshotEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return Snapshot{}, fmt.Errorf("failed to unmarshal trust snapshot: %w", err)
	}

	return Snapshot{
		AllowList:   envelope.AllowList,
		DenyList:    envelope.DenyList,
		SigningKeys: envelope.SigningKeys,
	}, nil
}

// Save writes the snapshot to disk, replacing any previous state.
func (s *FileStore) Save(_ context.Context, snapshot Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create trust store directory: %w", err)
	}

	envelope := snapshotEnvelope{
		Version:     snapshotVersion,
		AllowList:   snapshot.AllowList,
		DenyList:    snapshot.DenyList,
		SigningKeys: snapshot.SigningKeys,
	}

	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal trust snapshot: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write trust snapshot: %w", err)
	}

	return nil
}

var _ Store = (*FileStore)(nil)
