package latent

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// Store holds named cells loaded together, typically from one bundle.
type Store struct {
	mu     sync.RWMutex
	cells  map[string]*Cell
	closed bool
}

// NewStore collects existing cells under their names.
func NewStore(cells ...*Cell) (*Store, error) {
	s := &Store{cells: make(map[string]*Cell, len(cells))}
	for _, c := range cells {
		if c.Name() == "" {
			return nil, &ConfigError{Err: ErrMissingName}
		}
		if _, dup := s.cells[c.Name()]; dup {
			return nil, &ConfigError{Err: ErrDuplicateSecret, Secret: c.Name()}
		}
		s.cells[c.Name()] = c
	}
	return s, nil
}

// Load decodes a bundle and builds one cell per record. opts apply to every
// cell after the record's own settings. Nothing is decrypted here.
func Load(ctx context.Context, c Codec, data []byte, opts ...Option) (*Store, error) {
	start := time.Now()

	store, err := load(c, data, opts)
	count := 0
	if store != nil {
		count = len(store.cells)
	}
	emitStoreLoaded(ctx, c.ContentType(), count, time.Since(start), err)
	return store, err
}

func load(c Codec, data []byte, opts []Option) (*Store, error) {
	b, err := DecodeBundle(c, data)
	if err != nil {
		return nil, err
	}

	cells := make([]*Cell, 0, len(b.Secrets))
	for _, sealed := range b.Secrets {
		cell, err := FromSealed(sealed, opts...)
		if err != nil {
			closeAll(cells)
			return nil, err
		}
		cells = append(cells, cell)
	}
	return assemble(cells)
}

// assemble builds a store over cells, closing them all if it cannot.
func assemble(cells []*Cell) (*Store, error) {
	s, err := NewStore(cells...)
	if err != nil {
		closeAll(cells)
		return nil, err
	}
	return s, nil
}

func closeAll(cells []*Cell) {
	for _, c := range cells {
		_ = c.Close()
	}
}

// Cell returns the named cell.
func (s *Store) Cell(name string) (*Cell, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrReleased
	}
	cell, ok := s.cells[name]
	if !ok {
		return nil, &ConfigError{Err: ErrUnknownSecret, Secret: name}
	}
	return cell, nil
}

// Names returns the secret names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.cells))
	for name := range s.cells {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of cells.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cells)
}

// Close releases every cell. It is safe to call more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	cells := s.cells
	s.mu.Unlock()

	var errs []error
	for _, cell := range cells {
		if err := cell.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	err := errors.Join(errs...)
	emitStoreClosed(context.Background(), len(cells), err)
	return err
}
