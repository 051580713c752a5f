package confirm

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pgm-community/dispatch/internal/usage"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestConfirm_RunsActionExactlyOnce(t *testing.T) {
	clock := newFakeClock()
	m := New(WithClock(clock.Now))

	var observed []int
	amount := 10
	p, superseded := m.Request("steve", "pay", func(context.Context) error {
		observed = append(observed, amount)
		return nil
	})
	require.False(t, superseded)
	require.Equal(t, clock.Now().Add(DefaultTTL), p.ExpiresAt)
	require.NotEmpty(t, p.ID.String())

	clock.Advance(29 * time.Second)
	got, err := m.Confirm(context.Background(), "steve")
	require.NoError(t, err)
	require.Equal(t, p.ID, got.ID)
	require.Equal(t, []int{10}, observed)

	_, err = m.Confirm(context.Background(), "steve")
	require.Equal(t, usage.ErrNoPending, usage.KindOf(err))
	require.Equal(t, []int{10}, observed)
	require.Zero(t, m.Len())
}

func TestConfirm_ExpiredBehavesLikeNone(t *testing.T) {
	clock := newFakeClock()
	m := New(WithClock(clock.Now))

	ran := false
	m.Request("steve", "pay", func(context.Context) error {
		ran = true
		return nil
	})

	clock.Advance(DefaultTTL)
	_, ok := m.Lookup("steve")
	require.False(t, ok)

	_, err := m.Confirm(context.Background(), "steve")
	require.Equal(t, usage.ErrNoPending, usage.KindOf(err))
	require.False(t, ran)
	require.Zero(t, m.Len())
}

func TestRequest_SupersedesPrevious(t *testing.T) {
	clock := newFakeClock()
	m := New(WithClock(clock.Now))

	var ran []string
	record := func(name string) Action {
		return func(context.Context) error {
			ran = append(ran, name)
			return nil
		}
	}

	m.Request("steve", "first", record("first"))
	_, superseded := m.Request("steve", "second", record("second"))
	require.True(t, superseded)
	require.Equal(t, 1, m.Len())

	p, err := m.Confirm(context.Background(), "steve")
	require.NoError(t, err)
	require.Equal(t, "second", p.Label)
	require.Equal(t, []string{"second"}, ran)
}

func TestRequest_ReplacingExpiredIsNotSuperseding(t *testing.T) {
	clock := newFakeClock()
	m := New(WithClock(clock.Now), WithTTL(5*time.Second))

	m.Request("steve", "first", func(context.Context) error { return nil })
	clock.Advance(6 * time.Second)

	_, superseded := m.Request("steve", "second", func(context.Context) error { return nil })
	require.False(t, superseded)
}

func TestActorsAreIndependent(t *testing.T) {
	clock := newFakeClock()
	m := New(WithClock(clock.Now))

	var steve, alex atomic.Int32
	m.Request("steve", "a", func(context.Context) error { steve.Add(1); return nil })
	clock.Advance(20 * time.Second)
	m.Request("alex", "b", func(context.Context) error { alex.Add(1); return nil })

	clock.Advance(15 * time.Second)

	_, err := m.Confirm(context.Background(), "steve")
	require.Equal(t, usage.ErrNoPending, usage.KindOf(err))

	_, err = m.Confirm(context.Background(), "alex")
	require.NoError(t, err)
	require.Zero(t, steve.Load())
	require.EqualValues(t, 1, alex.Load())
}

func TestConfirm_ReturnsActionError(t *testing.T) {
	m := New()
	boom := errors.New("boom")
	m.Request("steve", "explode", func(context.Context) error { return boom })

	p, err := m.Confirm(context.Background(), "steve")
	require.ErrorIs(t, err, boom)
	require.Equal(t, "explode", p.Label)
	require.Zero(t, m.Len())
}

func TestConfirm_ConcurrentConfirmsRunOnce(t *testing.T) {
	m := New()

	var runs atomic.Int32
	m.Request("steve", "pay", func(context.Context) error {
		runs.Add(1)
		return nil
	})

	const workers = 16
	var wg sync.WaitGroup
	var failures atomic.Int32
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := m.Confirm(context.Background(), "steve"); err != nil {
				failures.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	require.EqualValues(t, 1, runs.Load())
	require.EqualValues(t, workers-1, failures.Load())
}

func TestCancelAndSweep(t *testing.T) {
	clock := newFakeClock()
	m := New(WithClock(clock.Now))
	nop := func(context.Context) error { return nil }

	m.Request("steve", "a", nop)
	m.Request("alex", "b", nop)
	clock.Advance(10 * time.Second)
	m.Request("notch", "c", nop)

	require.True(t, m.Cancel("notch"))
	require.False(t, m.Cancel("notch"))

	clock.Advance(25 * time.Second)
	m.Request("notch", "d", nop)

	require.Equal(t, 2, m.Sweep())
	require.Equal(t, 1, m.Len())
	p, ok := m.Lookup("notch")
	require.True(t, ok)
	require.Equal(t, "d", p.Label)
}

func TestRun_SweepsUntilCancelled(t *testing.T) {
	clock := newFakeClock()
	m := New(WithClock(clock.Now), WithTTL(time.Second))
	m.Request("steve", "a", func(context.Context) error { return nil })
	clock.Advance(2 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, time.Millisecond)
	cancel()
	<-done

	// A zero interval disables the sweeper.
	m.Run(context.Background(), 0)
}
