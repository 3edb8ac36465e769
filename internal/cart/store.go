package cart

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SnapshotStore persists cart state as one blob under a fixed key.
// Load returns (nil, nil) when nothing usable is stored.
type SnapshotStore interface {
	Save(ctx context.Context, key string, state State) error
	Load(ctx context.Context, key string) (*State, error)
}

// Store wraps an Engine with a lock, lazy rehydration and write-through
// persistence. Every mutation is a synchronous read-modify-write against the
// in-memory engine; the storage write is fire-and-forget. If two sessions
// share a storage key, last writer wins; there is no merge.
type Store struct {
	mu        sync.Mutex
	key       string
	engine    *Engine
	snapshots SnapshotStore
	loaded    bool
}

// NewStore builds a cart store persisted under the given storage key.
func NewStore(key string, opts Options, snapshots SnapshotStore) *Store {
	return &Store{
		key:       key,
		engine:    NewEngine(opts),
		snapshots: snapshots,
	}
}

// AddToCart runs the engine algorithm and mirrors accepted mutations to
// storage. Rejected adds leave both memory and storage untouched.
func (s *Store) AddToCart(ctx context.Context, policy PricingPolicy, product Snapshot, requestedUnit string, quantity int) AddResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	result := s.engine.AddToCart(policy, product, requestedUnit, quantity)
	if result.Accepted() {
		s.persist()
	}
	return result
}

// UpdateUnit swaps a row's unit in place. Uniqueness is the caller's problem.
func (s *Store) UpdateUnit(ctx context.Context, lineID uuid.UUID, unit string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	s.engine.UpdateUnit(lineID, unit)
	s.persist()
}

// UpdateQuantity replaces a row's quantity.
func (s *Store) UpdateQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	if err := s.engine.UpdateQuantity(lineID, quantity); err != nil {
		return err
	}
	s.persist()
	return nil
}

// RemoveFromCart deletes a row; removing an absent id is a no-op.
func (s *Store) RemoveFromCart(ctx context.Context, lineID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	s.engine.RemoveFromCart(lineID)
	s.persist()
}

// Clear empties the cart, leaving the discount scalar alone.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	s.engine.Clear()
	s.persist()
}

// SetDiscountPercent replaces the discount scalar (sales variant only).
func (s *Store) SetDiscountPercent(ctx context.Context, value decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	if err := s.engine.SetDiscountPercent(value); err != nil {
		return err
	}
	s.persist()
	return nil
}

// Items returns the ordered line-item collection.
func (s *Store) Items(ctx context.Context) []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	return s.engine.Items()
}

// DiscountPercent returns the current discount scalar.
func (s *Store) DiscountPercent(ctx context.Context) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	return s.engine.DiscountPercent()
}

// ensureLoaded rehydrates from storage on first use. A failed or empty load
// starts the cart empty; the session can keep working either way.
func (s *Store) ensureLoaded(ctx context.Context) {
	if s.loaded {
		return
	}
	s.loaded = true

	if s.snapshots == nil {
		return
	}
	state, err := s.snapshots.Load(ctx, s.key)
	if err != nil {
		log.Printf("cart: load %q failed: %v", s.key, err)
		return
	}
	if state != nil {
		s.engine.Restore(*state)
	}
}

// persist mirrors the current state to storage without awaiting the write.
// Caller must hold the lock; the state is snapshotted before handing off.
func (s *Store) persist() {
	if s.snapshots == nil {
		return
	}
	state := s.engine.State()
	go func() {
		if err := s.snapshots.Save(context.Background(), s.key, state); err != nil {
			log.Printf("cart: save %q failed: %v", s.key, err)
		}
	}()
}
