// Package store persists scenario inputs so they can be recalled and
// recalculated later.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/property-forecast/internal/config"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("scenario not found")

// Record is a saved scenario.
type Record struct {
	ID       string          `yaml:"id" json:"id"`
	Name     string          `yaml:"name" json:"name"`
	SavedAt  time.Time       `yaml:"savedAt" json:"savedAt"`
	Scenario config.Scenario `yaml:"scenario" json:"scenario"`
}

type document struct {
	Records []Record `yaml:"records"`
}

// FileStore keeps records in a single YAML file. Every mutation rewrites the
// file through a temporary file and a rename.
type FileStore struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewFileStore returns a store backed by path. The file is created on the
// first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// Save stores the scenario under a new id. An empty name falls back to the
// scenario's own name.
func (s *FileStore) Save(ctx context.Context, name string, scenario config.Scenario) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	if name == "" {
		name = scenario.Name
	}
	if name == "" {
		return Record{}, fmt.Errorf("saved scenario requires a name")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return Record{}, err
	}
	rec := Record{
		ID:       uuid.NewString(),
		Name:     name,
		SavedAt:  s.now().UTC().Truncate(time.Second),
		Scenario: scenario,
	}
	doc.Records = append(doc.Records, rec)
	if err := s.write(doc); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Get returns the record with the given id.
func (s *FileStore) Get(id string) (Record, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Record{}, fmt.Errorf("invalid id %q: %w", id, ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return Record{}, err
	}
	for _, rec := range doc.Records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return Record{}, fmt.Errorf("id %s: %w", id, ErrNotFound)
}

// List returns every record, oldest first.
func (s *FileStore) List() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	records := doc.Records
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].SavedAt.Before(records[j].SavedAt)
	})
	return records, nil
}

// Delete removes the record with the given id.
func (s *FileStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	for i, rec := range doc.Records {
		if rec.ID == id {
			doc.Records = append(doc.Records[:i], doc.Records[i+1:]...)
			return s.write(doc)
		}
	}
	return fmt.Errorf("id %s: %w", id, ErrNotFound)
}

func (s *FileStore) load() (document, error) {
	var doc document
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("read store %s: %w", s.path, err)
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("decode store %s: %w", s.path, err)
	}
	return doc, nil
}

func (s *FileStore) write(doc document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".scenarios-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace store %s: %w", s.path, err)
	}
	return nil
}
