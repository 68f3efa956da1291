package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"storefront/internal/core/kv"
	"storefront/internal/domain"
	"storefront/pkg/utils"
)

const (
	DefaultDocumentKey = "storefront_database"
	DefaultMaxRetries  = 3
)

type State int32

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "LOADING"
	case StateReady:
		return "READY"
	}
	return "UNINITIALIZED"
}

type Options struct {
	Storage kv.Storage
	Seed    SeedSource // nil bootstraps an empty document
	Key     string
	// MaxRetries bounds how often Update re-runs a mutation after losing a
	// version race to another writer.
	MaxRetries int
	Logger     *zap.Logger
	Now        func() time.Time
}

type Store struct {
	storage    kv.Storage
	seed       SeedSource
	key        string
	maxRetries int
	log        *zap.Logger
	now        func() time.Time

	sf    singleflight.Group
	state atomic.Int32

	mu      sync.RWMutex
	doc     *domain.Document
	version int64
}

func New(o Options) *Store {
	s := &Store{
		storage:    o.Storage,
		seed:       o.Seed,
		key:        o.Key,
		maxRetries: o.MaxRetries,
		log:        o.Logger,
		now:        o.Now,
	}
	if s.key == "" {
		s.key = DefaultDocumentKey
	}
	if s.maxRetries <= 0 {
		s.maxRetries = DefaultMaxRetries
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *Store) State() State { return State(s.state.Load()) }

// Version is the storage version of the cached document, 0 when none is loaded.
func (s *Store) Version() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Store) Now() time.Time { return s.now().UTC() }

func (s *Store) GenerateID(prefix string) string { return utils.NewIDAt(prefix, s.now()) }

// Initialize makes the store READY and returns a snapshot of the document.
// Callers arriving while a bootstrap is in flight wait for it instead of
// starting another one.
func (s *Store) Initialize(ctx context.Context) (*domain.Document, error) {
	if doc := s.snapshot(); doc != nil {
		return doc, nil
	}
	if _, err, _ := s.sf.Do("initialize", func() (any, error) {
		return nil, s.bootstrap(ctx)
	}); err != nil {
		return nil, err
	}
	return s.snapshot(), nil
}

func (s *Store) snapshot() *domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return nil
	}
	return s.doc.Clone()
}

func (s *Store) bootstrap(ctx context.Context) error {
	s.mu.Lock()
	err := s.loadLocked(ctx)
	if err == nil {
		s.log.Info("store ready", zap.String("source", "storage"), zap.Int64("version", s.version))
		s.mu.Unlock()
		bootstrapTotal.WithLabelValues("storage").Inc()
		return nil
	}
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		s.mu.Unlock()
		return err
	}
	s.state.Store(int32(StateLoading))
	s.mu.Unlock()

	// the seed fetch runs unlocked so readers see "no document" meanwhile
	doc, source := s.fetchSeed(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc != nil {
		return nil
	}
	err = s.persistLocked(ctx, doc)
	if errors.Is(err, domain.ErrVersionConflict) {
		// another writer bootstrapped the same key first; adopt its document
		err = s.loadLocked(ctx)
		source = "storage"
	}
	if err != nil {
		s.state.Store(int32(StateUninitialized))
		return err
	}
	bootstrapTotal.WithLabelValues(source).Inc()
	s.log.Info("store ready",
		zap.String("source", source),
		zap.Int("products", len(s.doc.Products)),
		zap.Int("users", len(s.doc.Users)),
	)
	return nil
}

func (s *Store) fetchSeed(ctx context.Context) (*domain.Document, string) {
	if s.seed == nil {
		return domain.NewDocument(), "empty"
	}
	doc, err := s.seed.Fetch(ctx)
	if err != nil {
		seedFetchTotal.WithLabelValues("error").Inc()
		s.log.Warn("seed fetch failed, starting with an empty document", zap.Error(err))
		return domain.NewDocument(), "empty"
	}
	seedFetchTotal.WithLabelValues("ok").Inc()
	doc.Normalize()
	return doc, "seed"
}

// Document returns a snapshot, reading through to durable storage when this
// process has not loaded it yet. It returns nil, nil when there is no
// document anywhere.
func (s *Store) Document(ctx context.Context) (*domain.Document, error) {
	var out *domain.Document
	err := s.View(ctx, func(d *domain.Document) error {
		out = d.Clone()
		return nil
	})
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return nil, nil
	}
	return out, err
}

// View runs fn against the cached document under a read lock. fn must copy
// anything it keeps. Returns domain.ErrStoreUnavailable when there is no
// document.
func (s *Store) View(ctx context.Context, fn func(*domain.Document) error) error {
	s.mu.RLock()
	if s.doc != nil {
		defer s.mu.RUnlock()
		return fn(s.doc)
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(ctx); err != nil {
		return err
	}
	return fn(s.doc)
}

// Update applies fn to a copy of the document and persists the copy as one
// write. An error from fn aborts without writing. When another writer has
// moved the stored version, the document is reloaded and fn re-run, up to
// MaxRetries times; fn must therefore depend only on its argument.
func (s *Store) Update(ctx context.Context, fn func(*domain.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(ctx); err != nil {
		return err
	}
	for attempt := 0; ; attempt++ {
		next := s.doc.Clone()
		if err := fn(next); err != nil {
			return err
		}
		err := s.persistLocked(ctx, next)
		if err == nil || !errors.Is(err, domain.ErrVersionConflict) || attempt >= s.maxRetries {
			return err
		}
		s.log.Warn("document changed underneath, retrying",
			zap.Int("attempt", attempt+1), zap.Int64("version", s.version))
		if err := s.reloadLocked(ctx); err != nil {
			return err
		}
	}
}

// Persist writes doc as the whole document and makes it the cached copy.
func (s *Store) Persist(ctx context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(ctx); err != nil && !errors.Is(err, domain.ErrStoreUnavailable) {
		return err
	}
	return s.persistLocked(ctx, doc.Clone())
}

// Reset deletes the persisted document and forgets the cached one.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Delete(ctx, s.key); err != nil {
		return err
	}
	s.forgetLocked()
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forgetLocked()
	return s.storage.Close()
}

func (s *Store) forgetLocked() {
	s.doc, s.version = nil, 0
	s.state.Store(int32(StateUninitialized))
}

func (s *Store) loadLocked(ctx context.Context) error {
	if s.doc != nil {
		return nil
	}
	e, err := s.storage.Get(ctx, s.key)
	if errors.Is(err, kv.ErrNotFound) {
		return domain.ErrStoreUnavailable
	}
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}
	var doc domain.Document
	if err := json.Unmarshal(e.Value, &doc); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	doc.Normalize()
	s.doc, s.version = &doc, e.Version
	s.state.Store(int32(StateReady))
	return nil
}

func (s *Store) reloadLocked(ctx context.Context) error {
	s.doc, s.version = nil, 0
	err := s.loadLocked(ctx)
	if errors.Is(err, domain.ErrStoreUnavailable) {
		s.state.Store(int32(StateUninitialized))
	}
	return err
}

// persistLocked writes doc at the cached version and, only on success, makes
// it the cached copy. Cache and storage never change independently.
func (s *Store) persistLocked(ctx context.Context, doc *domain.Document) error {
	doc.Normalize()
	b, err := json.Marshal(doc)
	if err != nil {
		persistTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("%w: encode: %w", domain.ErrPersist, err)
	}
	ver, err := s.storage.Put(ctx, s.key, b, s.version)
	switch {
	case errors.Is(err, kv.ErrVersionConflict):
		persistTotal.WithLabelValues("conflict").Inc()
		return fmt.Errorf("%w: %w", domain.ErrVersionConflict, err)
	case err != nil:
		persistTotal.WithLabelValues("error").Inc()
		s.log.Error("persist document failed", zap.Error(err))
		return fmt.Errorf("%w: %w", domain.ErrPersist, err)
	}
	persistTotal.WithLabelValues("ok").Inc()
	s.doc, s.version = doc, ver
	s.state.Store(int32(StateReady))
	return nil
}
