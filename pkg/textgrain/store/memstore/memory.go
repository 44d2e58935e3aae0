// Package memstore is an in-memory store.Store implementation, used in
// tests and as the default when no persistence is configured.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/textgrain/textgrain/pkg/textgrain/internalerr"
	"github.com/textgrain/textgrain/pkg/textgrain/store"
	"github.com/textgrain/textgrain/pkg/textgrain/wordvec"
)

// Store keeps models in a map guarded by an RWMutex. Models are copied
// on the way in and out, so callers can mutate their own copies
// freely.
type Store struct {
	mu     sync.RWMutex
	models map[string]store.Record
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{models: make(map[string]store.Record)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveModel stores a copy of the model under a fresh ULID.
func (s *Store) SaveModel(ctx context.Context, m wordvec.Model) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := store.Record{
		ID:        store.NewID(),
		CreatedAt: time.Now().UTC(),
		Model:     copyModel(m),
	}
	s.models[rec.ID] = rec
	return rec.ID, nil
}

// GetModel returns a copy of a stored model.
func (s *Store) GetModel(ctx context.Context, id string) (store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.models[id]
	if !ok {
		return store.Record{}, internalerr.ErrNotFound
	}
	rec.Model = copyModel(rec.Model)
	return rec, nil
}

// ListModels returns summaries of all stored models, newest first.
func (s *Store) ListModels(ctx context.Context) ([]store.Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]store.Info, 0, len(s.models))
	for _, rec := range s.models {
		relation := ""
		if rec.Model.Input != nil {
			relation = rec.Model.Input.Relation
		}
		infos = append(infos, store.Info{
			ID:          rec.ID,
			CreatedAt:   rec.CreatedAt,
			WordsToKeep: rec.Model.WordsToKeep,
			DictSize:    len(rec.Model.Words),
			Relation:    relation,
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ID > infos[j].ID // ULIDs sort by time
	})
	return infos, nil
}

// DeleteModel removes a stored model.
func (s *Store) DeleteModel(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.models[id]; !ok {
		return internalerr.ErrNotFound
	}
	delete(s.models, id)
	return nil
}

func copyModel(m wordvec.Model) wordvec.Model {
	words := make([]string, len(m.Words))
	copy(words, m.Words)

	out := wordvec.Model{
		WordsToKeep: m.WordsToKeep,
		Words:       words,
	}
	if m.Input != nil {
		out.Input = m.Input.Clone()
	}
	return out
}
