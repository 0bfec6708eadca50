package permission

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Flat key-value layout of the persisted document. The list separator never
// appears in a UUID's textual form (hex and hyphens only).
const (
	keyNamePrefix      = "NAME_"
	keyPermittedPrefix = "PERMITTED_"
	keyList            = "LIST"
	listSep            = ";"
)

// FileStore is a Store persisted as a single flat JSON document.
// Every mutation rewrites the file before returning.
type FileStore struct {
	mu   sync.Mutex
	path string

	names     map[uuid.UUID]string
	permitted map[uuid.UUID]bool
	list      []uuid.UUID
}

// NewFileStore opens (or creates) a file-backed permission store at path.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:      path,
		names:     make(map[uuid.UUID]string),
		permitted: make(map[uuid.UUID]bool),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		return fmt.Errorf("corrupt permission store %s: %w", s.path, err)
	}

	if encoded, ok := flat[keyList].(string); ok && encoded != "" {
		for _, item := range strings.Split(encoded, listSep) {
			id, err := uuid.Parse(item)
			if err != nil {
				return fmt.Errorf("corrupt permission store %s: bad list entry %q: %w", s.path, item, err)
			}
			s.list = append(s.list, id)
		}
	}

	for key, value := range flat {
		if rest, ok := strings.CutPrefix(key, keyNamePrefix); ok {
			id, err := uuid.Parse(rest)
			if err != nil {
				continue
			}
			if name, ok := value.(string); ok {
				s.names[id] = name
			}
		} else if rest, ok := strings.CutPrefix(key, keyPermittedPrefix); ok {
			id, err := uuid.Parse(rest)
			if err != nil {
				continue
			}
			if perm, ok := value.(bool); ok {
				s.permitted[id] = perm
			}
		}
	}
	return nil
}

// save writes the flat document. Caller holds s.mu.
func (s *FileStore) save() error {
	flat := make(map[string]any, len(s.names)+len(s.permitted)+1)
	for id, name := range s.names {
		flat[keyNamePrefix+id.String()] = name
	}
	for id, perm := range s.permitted {
		flat[keyPermittedPrefix+id.String()] = perm
	}
	items := make([]string, len(s.list))
	for i, id := range s.list {
		items[i] = id.String()
	}
	flat[keyList] = strings.Join(items, listSep)

	data, err := json.MarshalIndent(flat, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, data, 0644)
}

// register creates the record and list entry if id is unknown.
// Caller holds s.mu. Record existence and list membership change together,
// so the list append happens exactly once per identity.
func (s *FileStore) register(id uuid.UUID) {
	if _, known := s.permitted[id]; known {
		return
	}
	s.permitted[id] = false
	s.list = append(s.list, id)
}

// IsPermitted reports whether the identity may mutate features.
func (s *FileStore) IsPermitted(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.permitted[id]
}

// RecordSeen notes a request from id, creating its record on first contact
// and updating the stored name when one is carried.
func (s *FileStore) RecordSeen(id uuid.UUID, displayName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.register(id)
	if displayName != "" {
		s.names[id] = displayName
	}
	return s.save()
}

// SetPermitted sets the permitted flag, creating the record if needed.
func (s *FileStore) SetPermitted(id uuid.UUID, permitted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.register(id)
	s.permitted[id] = permitted
	return s.save()
}

// Name returns the stored display name for id.
func (s *FileStore) Name(id uuid.UUID) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.names[id]
	return name, ok
}

// List returns the known identities in first-contact order.
func (s *FileStore) List() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]uuid.UUID, len(s.list))
	copy(out, s.list)
	return out
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error {
	return nil
}

// Compile-time interface satisfaction check.
var _ Store = (*FileStore)(nil)
