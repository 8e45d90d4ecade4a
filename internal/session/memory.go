package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"
)

type memoryEntry struct {
	data      []byte
	updatedAt time.Time
}

// MemoryStore keeps sessions and generation logs in process memory.
// Data is stored serialized so callers never share state with the store.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	logs     []GenerationLog
	now      func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memoryEntry), now: time.Now}
}

// SetClock replaces the store's time source.
func (m *MemoryStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *MemoryStore) Load(_ context.Context, id string) (Data, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(id)
}

func (m *MemoryStore) load(id string) (Data, error) {
	var d Data
	e, ok := m.sessions[id]
	if !ok {
		return d, nil
	}
	if err := json.Unmarshal(e.data, &d); err != nil {
		return Data{}, fmt.Errorf("decoding session %s: %w", id, err)
	}
	return d, nil
}

func (m *MemoryStore) Update(_ context.Context, id string, fn func(*Data) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, err := m.load(id)
	if err != nil {
		return err
	}
	if err := fn(&d); err != nil {
		return err
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding session %s: %w", id, err)
	}
	m.sessions[id] = memoryEntry{data: raw, updatedAt: m.now()}
	return nil
}

func (m *MemoryStore) Destroy(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) PurgeExpired(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, e := range m.sessions {
		if e.updatedAt.Before(before) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) InsertGenerationLog(_ context.Context, log GenerationLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if log.CreatedAt.IsZero() {
		log.CreatedAt = m.now()
	}
	m.logs = append(m.logs, log)
	return nil
}

// QueryGenerationLogs returns the newest entries for sessionID first.
func (m *MemoryStore) QueryGenerationLogs(_ context.Context, sessionID string, limit int) ([]GenerationLog, error) {
	if limit <= 0 {
		limit = 50
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []GenerationLog
	for _, l := range m.logs {
		if l.SessionID == sessionID {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
