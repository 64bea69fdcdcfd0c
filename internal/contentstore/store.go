// Package contentstore holds generated study aids keyed by module and content
// type, tracks which keys are mid-generation, and persists the whole map after
// every change.
package contentstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/yungbote/studyaid-backend/internal/domain"
	"github.com/yungbote/studyaid-backend/internal/platform/apierr"
	"github.com/yungbote/studyaid-backend/internal/platform/logger"
)

var (
	ErrGenerationInProgress = errors.New("generation already in progress")
	ErrPersistFailed        = errors.New("persist generated content")
	ErrClosed               = errors.New("content store closed")
)

// Generator produces study-aid text for one module and content type.
type Generator interface {
	Generate(ctx context.Context, moduleID string, t domain.ContentType, source string) (string, error)
}

type GeneratorFunc func(ctx context.Context, moduleID string, t domain.ContentType, source string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, moduleID string, t domain.ContentType, source string) (string, error) {
	return f(ctx, moduleID, t, source)
}

type Store struct {
	log       *logger.Logger
	gen       Generator
	persister Persister

	mu      sync.RWMutex
	entries map[domain.ContentKey]string
	loading map[domain.ContentKey]bool
	closed  bool

	// persistMu orders snapshot-and-save pairs so a stale snapshot never lands last.
	persistMu sync.Mutex

	subsMu     sync.RWMutex
	subs       map[*Subscription]struct{}
	subsClosed bool
}

// New builds a store seeded from p. A corrupt persisted record yields an empty
// store; any other load error is returned.
func New(ctx context.Context, gen Generator, p Persister, log *logger.Logger) (*Store, error) {
	if gen == nil {
		return nil, fmt.Errorf("generator required")
	}
	if p == nil {
		p = NewMemoryPersister()
	}
	if log == nil {
		log = logger.Nop()
	}
	s := &Store{
		log:       log.With("component", "ContentStore"),
		gen:       gen,
		persister: p,
		entries:   map[domain.ContentKey]string{},
		loading:   map[domain.ContentKey]bool{},
		subs:      map[*Subscription]struct{}{},
	}

	raw, err := p.Load(ctx)
	switch {
	case errors.Is(err, ErrCorruptSnapshot):
		s.log.Warn("Persisted content unreadable; starting empty", "error", err)
		raw = nil
	case err != nil:
		return nil, fmt.Errorf("load generated content: %w", err)
	}
	for k, v := range raw {
		key, perr := domain.ParseContentKey(k)
		if perr != nil {
			s.log.Warn("Skipping persisted entry with unreadable key", "key", k, "error", perr)
			continue
		}
		s.entries[key] = v
	}
	s.log.Debug("Content store loaded", "entries", len(s.entries))
	return s, nil
}

// Generate produces content for (moduleID, t) and stores it, replacing any
// prior entry. On generator failure the prior entry is kept and the error is
// returned as is. A persist failure keeps the new entry in memory and returns
// an error wrapping ErrPersistFailed.
func (s *Store) Generate(ctx context.Context, moduleID string, t domain.ContentType, source string) error {
	if !t.Valid() {
		return apierr.Newf(http.StatusBadRequest, "invalid_content_type",
			"invalid type %q: must be one of summary, flashcards, quiz", string(t))
	}
	if strings.TrimSpace(moduleID) == "" {
		return apierr.Newf(http.StatusBadRequest, "missing_fields", "module id is required")
	}
	key := domain.NewContentKey(moduleID, t)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.loading[key] {
		s.mu.Unlock()
		return apierr.New(http.StatusConflict, "generation_in_progress",
			fmt.Errorf("%s: %w", key, ErrGenerationInProgress))
	}
	s.loading[key] = true
	s.mu.Unlock()
	s.publish(Event{Key: key, Kind: EventLoading})

	defer func() {
		s.mu.Lock()
		delete(s.loading, key)
		s.mu.Unlock()
	}()

	text, err := s.gen.Generate(ctx, moduleID, t, source)
	if err != nil {
		s.log.Warn("Generation failed", "key", key.String(), "error", err)
		s.publish(Event{Key: key, Kind: EventFailed, Err: err})
		return err
	}

	s.mu.Lock()
	s.entries[key] = text
	s.mu.Unlock()

	if perr := s.persist(ctx); perr != nil {
		s.log.Error("Persisting generated content failed", "key", key.String(), "error", perr)
		s.publish(Event{Key: key, Kind: EventStored, Err: perr})
		return fmt.Errorf("%w: %w", ErrPersistFailed, perr)
	}
	s.publish(Event{Key: key, Kind: EventStored})
	return nil
}

func (s *Store) persist(ctx context.Context) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	return s.persister.Save(ctx, s.GetAll())
}

// Get returns the stored text for (moduleID, t).
func (s *Store) Get(moduleID string, t domain.ContentType) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[domain.NewContentKey(moduleID, t)]
	return v, ok
}

// GetAll returns a copy of the store keyed by serialized content key.
func (s *Store) GetAll() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.entries))
	for k, v := range s.entries {
		out[k.String()] = v
	}
	return out
}

// Entries returns a copy of the store keyed by structured content key.
func (s *Store) Entries() map[domain.ContentKey]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[domain.ContentKey]string, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

func (s *Store) IsLoading(moduleID string, t domain.ContentType) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading[domain.NewContentKey(moduleID, t)]
}

// Close ends all subscriptions. Later Generate calls return ErrClosed.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	s.subsClosed = true
	for sub := range s.subs {
		sub.close()
		delete(s.subs, sub)
	}
}
