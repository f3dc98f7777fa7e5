package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClassifier struct {
	calls int64
	delay time.Duration

	mu     sync.Mutex
	result Classification
	err    error
}

func (f *fakeClassifier) Classify(_ context.Context, _ string) (Classification, error) {
	atomic.AddInt64(&f.calls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result, f.err
}

func (f *fakeClassifier) set(result Classification, err error) {
	f.mu.Lock()
	f.result = result
	f.err = err
	f.mu.Unlock()
}

func (f *fakeClassifier) callCount() int64 { return atomic.LoadInt64(&f.calls) }

func newTestResolver(c Classifier) *Resolver {
	return NewResolver(NewMemoryStore(0), nil, c, zap.NewNop().Sugar())
}

func TestResolveClassifiesStaffOnce(t *testing.T) {
	fc := &fakeClassifier{}
	fc.set(Classification{Role: RoleAdmin, DisplayName: "Asha"}, nil)
	r := newTestResolver(fc)

	out := r.Resolve(context.Background(), "user-1")
	require.Equal(t, OutcomeStaff, out.Kind)
	require.NotNil(t, out.Record)
	assert.Equal(t, RoleAdmin, out.Record.Role)
	assert.Equal(t, "Asha", out.Record.DisplayName)
	assert.Equal(t, int64(1), fc.callCount())

	// Second load hits the cache: zero additional classification calls.
	out = r.Resolve(context.Background(), "user-1")
	require.Equal(t, OutcomeStaff, out.Kind)
	assert.Equal(t, int64(1), fc.callCount())
	assert.Equal(t, StateResolvedStaff, r.StateOf("user-1"))
}

func TestConcurrentResolveCoalescesToOneCall(t *testing.T) {
	fc := &fakeClassifier{delay: 30 * time.Millisecond}
	fc.set(Classification{Role: RoleWorker, DisplayName: "Bina"}, nil)
	r := newTestResolver(fc)

	const n = 25
	var wg sync.WaitGroup
	outcomes := make([]Outcome, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i] = r.Resolve(context.Background(), "user-2")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), fc.callCount(), "N near-simultaneous resolvers must issue exactly one classification call")
	for _, out := range outcomes {
		require.Equal(t, OutcomeStaff, out.Kind)
		assert.Equal(t, RoleWorker, out.Record.Role)
	}
}

func TestNotStaffIsTerminalForSession(t *testing.T) {
	fc := &fakeClassifier{}
	fc.set(Classification{}, ErrNotStaff)
	r := newTestResolver(fc)

	out := r.Resolve(context.Background(), "user-3")
	assert.Equal(t, OutcomeCustomer, out.Kind)
	assert.Equal(t, StateResolvedNotStaff, r.StateOf("user-3"))

	// Repeated navigation short-circuits without re-querying.
	for i := 0; i < 5; i++ {
		out = r.Resolve(context.Background(), "user-3")
		assert.Equal(t, OutcomeCustomer, out.Kind)
	}
	assert.Equal(t, int64(1), fc.callCount())
}

func TestMissingRoleTreatedAsNotStaff(t *testing.T) {
	fc := &fakeClassifier{}
	fc.set(Classification{DisplayName: "no role attached"}, nil)
	r := newTestResolver(fc)

	out := r.Resolve(context.Background(), "user-4")
	assert.Equal(t, OutcomeCustomer, out.Kind)
	assert.Equal(t, StateResolvedNotStaff, r.StateOf("user-4"))

	r.Resolve(context.Background(), "user-4")
	assert.Equal(t, int64(1), fc.callCount())
}

func TestAuthErrorDowngradesToAnonymous(t *testing.T) {
	fc := &fakeClassifier{}
	fc.set(Classification{}, ErrUnauthorized)
	r := newTestResolver(fc)

	out := r.Resolve(context.Background(), "user-5")
	assert.Equal(t, OutcomeAnonymous, out.Kind)
	assert.Equal(t, StateUnresolved, r.StateOf("user-5"))
}

func TestNetworkErrorFailsClosedWithoutCache(t *testing.T) {
	fc := &fakeClassifier{}
	fc.set(Classification{}, errors.New("directory unreachable"))
	r := newTestResolver(fc)

	out := r.Resolve(context.Background(), "user-6")
	assert.Equal(t, OutcomeDenied, out.Kind, "no cached session plus network error must never resolve as staff")
}

func TestNetworkErrorDoesNotEvictEstablishedSession(t *testing.T) {
	fc := &fakeClassifier{}
	fc.set(Classification{}, errors.New("directory unreachable"))
	r := newTestResolver(fc)

	r.Establish(context.Background(), "user-7", RoleAdmin, "Asha")

	// The blip is invisible: the cached record keeps winning.
	out := r.Resolve(context.Background(), "user-7")
	require.Equal(t, OutcomeStaff, out.Kind)
	assert.Equal(t, RoleAdmin, out.Record.Role)
	assert.Equal(t, int64(0), fc.callCount())
}

func TestEstablishedSessionIsIdempotentUntilCleared(t *testing.T) {
	r := newTestResolver(&fakeClassifier{})
	ctx := context.Background()

	rec := r.Establish(ctx, "user-8", RoleSuperuser, "Root")
	for i := 0; i < 4; i++ {
		got := r.GetCached(ctx, "user-8")
		require.NotNil(t, got)
		assert.Equal(t, *rec, *got)
	}

	r.Clear(ctx, "user-8")
	assert.Nil(t, r.GetCached(ctx, "user-8"))
	assert.Equal(t, StateUnresolved, r.StateOf("user-8"))
}

func TestEchoStoreFallbackWarmsPrimary(t *testing.T) {
	primary := NewMemoryStore(0)
	echo := NewMemoryStore(0)
	r := NewResolver(primary, echo, &fakeClassifier{}, zap.NewNop().Sugar())
	ctx := context.Background()

	require.NoError(t, echo.Put(ctx, Record{
		SubjectID:   "user-9",
		DisplayName: "Asha",
		Role:        RoleAdmin,
		ResolvedAt:  time.Now(),
	}))

	got := r.GetCached(ctx, "user-9")
	require.NotNil(t, got)
	assert.Equal(t, RoleAdmin, got.Role)

	// The echo hit must now live in the primary tier too.
	warmed, err := primary.Get(ctx, "user-9")
	require.NoError(t, err)
	require.NotNil(t, warmed)
	assert.Equal(t, RoleAdmin, warmed.Role)
}

func TestClearRemovesBothTiers(t *testing.T) {
	primary := NewMemoryStore(0)
	echo := NewMemoryStore(0)
	r := NewResolver(primary, echo, &fakeClassifier{}, zap.NewNop().Sugar())
	ctx := context.Background()

	r.Establish(ctx, "user-10", RoleWorker, "Bina")
	r.Clear(ctx, "user-10")

	p, _ := primary.Get(ctx, "user-10")
	e, _ := echo.Get(ctx, "user-10")
	assert.Nil(t, p)
	assert.Nil(t, e)
}

func TestEstablishAfterNotStaffResetsNegativeCache(t *testing.T) {
	fc := &fakeClassifier{}
	fc.set(Classification{}, ErrNotStaff)
	r := newTestResolver(fc)
	ctx := context.Background()

	r.Resolve(ctx, "user-11")
	assert.Equal(t, StateResolvedNotStaff, r.StateOf("user-11"))

	// Promotion mid-session: a fresh Establish wins over the negative cache.
	r.Establish(ctx, "user-11", RoleWorker, "Bina")
	out := r.Resolve(ctx, "user-11")
	assert.Equal(t, OutcomeStaff, out.Kind)
	assert.Equal(t, StateResolvedStaff, r.StateOf("user-11"))
}

func TestMemoryStoreRecordTTL(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	now := time.Now()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, Record{SubjectID: "u", Role: RoleAdmin, ResolvedAt: now}))

	got, err := s.Get(ctx, "u")
	require.NoError(t, err)
	require.NotNil(t, got)

	now = now.Add(2 * time.Minute)
	got, err = s.Get(ctx, "u")
	require.NoError(t, err)
	assert.Nil(t, got)
}
