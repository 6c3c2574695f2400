package state

import "sync"

type memStore struct {
	sync.RWMutex
	table map[string]string
}

var _ Store = (*memStore)(nil) // interface compliance check

// NewMemStore returns a volatile in-memory Store, for tests and one-shot CLI runs.
func NewMemStore() Store {
	return &memStore{table: make(map[string]string)}
}

func (s *memStore) Get(key string) (string, bool) {
	s.RLock()
	defer s.RUnlock()
	v, ok := s.table[key]
	return v, ok
}

func (s *memStore) Set(key, value string) error {
	s.Lock()
	defer s.Unlock()
	s.table[key] = value
	return nil
}

func (s *memStore) Del(key string) error {
	s.Lock()
	defer s.Unlock()
	delete(s.table, key)
	return nil
}

func (s *memStore) Clear() error {
	s.Lock()
	defer s.Unlock()
	s.table = make(map[string]string)
	return nil
}
