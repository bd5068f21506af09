package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"ozzus/pingdumb/internal/domain"
)

// Store keeps definitions and results in process memory. Results are
// capped at maxResults, oldest dropped first.
type Store struct {
	mu          sync.RWMutex
	definitions map[string]domain.CheckDefinition
	results     []domain.Result
	maxResults  int
}

const defaultMaxResults = 100_000

func New() *Store {
	return &Store{
		definitions: make(map[string]domain.CheckDefinition),
		results:     make([]domain.Result, 0, 128),
		maxResults:  defaultMaxResults,
	}
}

func (m *Store) ListDefinitions(_ context.Context) ([]domain.CheckDefinition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.CheckDefinition, 0, len(m.definitions))
	for _, d := range m.definitions {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Store) GetDefinition(_ context.Context, id string) (domain.CheckDefinition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.definitions[id]
	if !ok {
		return domain.CheckDefinition{}, fmt.Errorf("definition %s: %w", id, domain.ErrNotFound)
	}
	return d, nil
}

func (m *Store) SaveDefinition(_ context.Context, def domain.CheckDefinition) error {
	if def.ID == "" {
		return fmt.Errorf("save definition: empty id")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.definitions[def.ID] = def
	return nil
}

func (m *Store) DeleteDefinition(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.definitions[id]; !ok {
		return fmt.Errorf("definition %s: %w", id, domain.ErrNotFound)
	}
	delete(m.definitions, id)
	return nil
}

func (m *Store) SaveResult(_ context.Context, r domain.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.results = append(m.results, r)
	if over := len(m.results) - m.maxResults; over > 0 {
		m.results = append(m.results[:0:0], m.results[over:]...)
	}
	return nil
}

func (m *Store) RecentResults(_ context.Context, limit int) ([]domain.Result, error) {
	return m.collect(time.Time{}, limit), nil
}

func (m *Store) ResultsSince(_ context.Context, since time.Time, limit int) ([]domain.Result, error) {
	return m.collect(since, limit), nil
}

func (m *Store) collect(since time.Time, limit int) []domain.Result {
	m.mu.RLock()
	matched := make([]domain.Result, 0, len(m.results))
	for _, r := range m.results {
		if !since.IsZero() && r.Timestamp.Before(since) {
			continue
		}
		matched = append(matched, r)
	}
	m.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched
}

func (m *Store) DeleteResults(_ context.Context, configID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.results[:0]
	for _, r := range m.results {
		if r.ConfigID != configID {
			kept = append(kept, r)
		}
	}
	m.results = kept
	return nil
}

func (m *Store) Ping(_ context.Context) error { return nil }

func (m *Store) Close() error { return nil }
