package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists trained artifacts. Save returns an opaque handle that Load
// accepts back.
type Store interface {
	Save(artifact *Artifact) (string, error)
	Load(handle string) (*Artifact, error)
}

// FileStore keeps the artifact as a single JSON file. The write goes through
// a temp file and rename so a concurrent reader never sees a partial model.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) Save(artifact *Artifact) (string, error) {
	data, err := json.Marshal(artifact)
	if err != nil {
		return "", fmt.Errorf("encoding model artifact: %w", err)
	}
	tmp := s.Path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return "", fmt.Errorf("creating model directory: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("writing model artifact: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return "", fmt.Errorf("publishing model artifact: %w", err)
	}
	return s.Path, nil
}

func (s *FileStore) Load(handle string) (*Artifact, error) {
	if handle == "" {
		handle = s.Path
	}
	data, err := os.ReadFile(handle)
	if err != nil {
		return nil, fmt.Errorf("reading model artifact: %w", err)
	}
	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("decoding model artifact: %w", err)
	}
	return &artifact, nil
}
