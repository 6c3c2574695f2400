package state

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

type fileStore struct {
	mu    sync.RWMutex
	path  string
	table map[string]string
}

var _ Store = (*fileStore)(nil)

// OpenFileStore loads (or creates) the JSON-backed Store at path.
// Every mutation rewrites the file atomically.
func OpenFileStore(path string) (Store, error) {
	s := &fileStore{path: path, table: make(map[string]string)}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, errors.Wrap(err, "reading state file")
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.table); err != nil {
			return nil, errors.Wrap(err, "decoding state file")
		}
	}
	return s, nil
}

func (s *fileStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.table[key]
	return v, ok
}

func (s *fileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table[key] = value
	return s.flush()
}

func (s *fileStore) Del(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.table, key)
	return s.flush()
}

func (s *fileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = make(map[string]string)
	return s.flush()
}

// flush rewrites the backing file; callers hold the write lock.
func (s *fileStore) flush() error {
	data, err := json.Marshal(s.table)
	if err != nil {
		return errors.Wrap(err, "encoding state")
	}

	tmp, err := ioutil.TempFile(filepath.Dir(s.path), ".state-*")
	if err != nil {
		return errors.Wrap(err, "creating temp state file")
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing state")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp state file")
	}
	return errors.Wrap(os.Rename(tmp.Name(), s.path), "replacing state file")
}
