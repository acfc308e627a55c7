package seen

import (
	"sync"

	"github.com/tomakado/containers/set"
)

// memoryStore implements Store with per-pair in-memory sets. Marks are
// lost on restart; the bbolt backend exists for deployments that care.
type memoryStore struct {
	mu    sync.RWMutex
	pairs map[string]set.HashSet[string]
}

// NewMemory creates an in-memory seen store.
func NewMemory() Store {
	return &memoryStore{pairs: make(map[string]set.HashSet[string])}
}

func (m *memoryStore) Close() error { return nil }

func (m *memoryStore) Seen(userID int64, keyword, url string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	urls, ok := m.pairs[pairKey(userID, keyword, "")]
	if !ok {
		return false, nil
	}
	return urls.Contains(url), nil
}

func (m *memoryStore) Mark(userID int64, keyword, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := pairKey(userID, keyword, "")
	urls, ok := m.pairs[key]
	if !ok {
		urls = set.New[string]()
		m.pairs[key] = urls
	}
	urls.Add(url)
	return nil
}
