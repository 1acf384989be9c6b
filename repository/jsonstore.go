package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"autopost/entities"
)

// JSONStore keeps the upload-record log in a single JSON file, for
// deployments without a database. Writes are serialized by a mutex and go
// through a temp-file rename so a crash never leaves a half-written log.
type JSONStore struct {
	mu   sync.RWMutex
	path string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Upsert(ctx context.Context, record *entities.UploadRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	records[record.Filename] = *record
	return s.save(records)
}

func (s *JSONStore) FindByFilename(ctx context.Context, filename string) (*entities.UploadRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}

	record, ok := records[filename]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &record, nil
}

func (s *JSONStore) List(ctx context.Context) ([]*entities.UploadRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}

	out := make([]*entities.UploadRecord, 0, len(records))
	for filename := range records {
		record := records[filename]
		out = append(out, &record)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	return out, nil
}

func (s *JSONStore) load() (map[string]entities.UploadRecord, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]entities.UploadRecord{}, nil
		}
		return nil, err
	}

	records := map[string]entities.UploadRecord{}
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *JSONStore) save(records map[string]entities.UploadRecord) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
