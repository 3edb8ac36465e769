package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSnapshotStore records saves and serves a canned state for loads.
type stubSnapshotStore struct {
	mu      sync.Mutex
	state   *State
	loadErr error
	saves   int
	lastKey string
}

func (s *stubSnapshotStore) Save(_ context.Context, key string, state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	s.lastKey = key
	copied := state
	s.state = &copied
	return nil
}

func (s *stubSnapshotStore) Load(_ context.Context, _ string) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.loadErr
}

func (s *stubSnapshotStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *stubSnapshotStore) savedState() *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func TestStoreRehydratesOnFirstUse(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	seed := NewEngine(salesOptions())
	seed.AddToCart(manualPolicy(), manualProduct("pcs", "box"), "pcs", 3)
	require.NoError(t, seed.SetDiscountPercent(decimal.NewFromInt(5)))
	state := seed.State()

	snapshots := &stubSnapshotStore{state: &state}
	store := NewStore("pos:cart:cart-storage:session-1", salesOptions(), snapshots)

	items := store.Items(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, "pcs", items[0].Unit)
	assert.Equal(t, 3, items[0].Quantity)
	assert.True(t, store.DiscountPercent(ctx).Equal(decimal.NewFromInt(5)))
}

func TestStoreStartsEmptyWhenLoadFails(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	snapshots := &stubSnapshotStore{loadErr: errors.New("connection refused")}
	store := NewStore("pos:cart:cart-storage:session-2", salesOptions(), snapshots)

	assert.Empty(t, store.Items(ctx))

	// Still usable after the failed load
	result := store.AddToCart(ctx, manualPolicy(), manualProduct("pcs"), "pcs", 1)
	assert.True(t, result.Accepted())
}

func TestStorePersistsAcceptedMutations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	snapshots := &stubSnapshotStore{}
	store := NewStore("pos:cart:cart-storage:session-3", salesOptions(), snapshots)

	result := store.AddToCart(ctx, manualPolicy(), manualProduct("pcs"), "pcs", 2)
	require.True(t, result.Accepted())

	// Saves are fire-and-forget
	require.Eventually(t, func() bool {
		return snapshots.saveCount() == 1
	}, time.Second, 10*time.Millisecond)

	saved := snapshots.savedState()
	require.NotNil(t, saved)
	assert.Equal(t, SchemaVersion, saved.Version)
	require.Len(t, saved.Items, 1)
	assert.Equal(t, 2, saved.Items[0].Quantity)
}

func TestStoreDoesNotPersistRejectedAdds(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	snapshots := &stubSnapshotStore{}
	store := NewStore("pos:cart:cart-storage:session-4", salesOptions(), snapshots)

	product := manualProduct("pcs")
	product.ManualPrices[0].Price = 0
	result := store.AddToCart(ctx, manualPolicy(), product, "pcs", 1)

	require.Equal(t, OutcomeRejected, result.Outcome)
	assert.Empty(t, store.Items(ctx))

	// Give any stray goroutine a moment, then confirm nothing was written
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, snapshots.saveCount())
}

func TestStoreClearPersistsEmptyState(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	snapshots := &stubSnapshotStore{}
	store := NewStore("pos:cart:cart-storage:session-5", salesOptions(), snapshots)

	store.AddToCart(ctx, manualPolicy(), manualProduct("pcs"), "pcs", 1)
	store.Clear(ctx)

	require.Eventually(t, func() bool {
		saved := snapshots.savedState()
		return saved != nil && len(saved.Items) == 0
	}, time.Second, 10*time.Millisecond)
	assert.Empty(t, store.Items(ctx))
}

// Reading an AddResult while another goroutine mutates the same session must
// be safe: the result is a detached copy, not a window into the live rows.
func TestStoreAddResultSafeUnderConcurrentMutation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := NewStore("pos:cart:cart-storage:session-7", salesOptions(), nil)
	result := store.AddToCart(ctx, manualPolicy(), manualProduct("pcs"), "pcs", 1)
	require.True(t, result.Accepted())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = store.UpdateQuantity(ctx, result.Line.ID, 5)
	}()
	got := result.Line.Quantity
	wg.Wait()

	assert.Equal(t, 1, got)
	assert.Equal(t, 5, store.Items(ctx)[0].Quantity)
}

func TestStoreWorksWithoutSnapshotStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := NewStore("pos:cart:cart-storage:session-6", salesOptions(), nil)

	result := store.AddToCart(ctx, manualPolicy(), manualProduct("pcs"), "pcs", 1)
	assert.True(t, result.Accepted())
	assert.Len(t, store.Items(ctx), 1)
}
