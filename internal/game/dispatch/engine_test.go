package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/bosstimers/internal/testutil"
)

func startEngine(t *testing.T, h *harness, buffer int) (*Engine, context.CancelFunc, <-chan error) {
	t.Helper()
	e := NewEngine(h.d, buffer)
	ctx, cancel := testutil.ContextWithCancel(t)
	errCh := make(chan error, 1)
	go func() { errCh <- e.Run(ctx) }()
	return e, cancel, errCh
}

func waitProcessed(t *testing.T, e *Engine, n uint64) {
	t.Helper()
	require.Eventually(t, func() bool { return e.Processed() >= n },
		time.Second, 5*time.Millisecond)
}

func TestEngine_InitialSnapshot(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	e := NewEngine(h.d, 4)

	snap := e.Snapshot()
	require.NotNil(t, snap)
	assert.Empty(t, snap.Encounters())
	assert.Empty(t, snap.Respawns())
}

func TestEngine_ProcessesInOrderAndPublishes(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	e, _, _ := startEngine(t, h, 8)
	ctx := context.Background()

	require.NoError(t, e.Submit(ctx, Spawn{Name: "King Black Dragon"}))
	require.NoError(t, e.Submit(ctx, Despawn{Name: "King Black Dragon", Dead: true}))
	require.NoError(t, e.Submit(ctx, Spawn{Name: "King Black Dragon"}))
	waitProcessed(t, e, 3)

	snap := e.Snapshot()
	views := snap.Encounters()
	require.Len(t, views, 1)
	assert.Equal(t, "King Black Dragon", views[0].Boss)

	respawns := snap.Respawns()
	require.Len(t, respawns, 1)
	assert.Equal(t, "0:09", respawns[0].RemainingText)
}

func TestEngine_ShutdownOnCancel(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	e, cancel, errCh := startEngine(t, h, 8)
	ctx := context.Background()

	require.NoError(t, e.Submit(ctx, Spawn{Name: "Dusk"}))
	require.NoError(t, e.Submit(ctx, Despawn{Name: "Callisto", Dead: true}))
	waitProcessed(t, e, 2)
	require.Len(t, e.Snapshot().Encounters(), 1)

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("engine did not stop")
	}

	snap := e.Snapshot()
	assert.Empty(t, snap.Encounters())
	assert.Empty(t, snap.Respawns())

	assert.ErrorIs(t, e.Submit(ctx, Tick{}), ErrEngineStopped)
}

func TestEngine_SubmitHonoursContext(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	e := NewEngine(h.d, 1) // not running, so the queue never drains

	require.NoError(t, e.Submit(context.Background(), Tick{}))

	err := e.Submit(testutil.ContextWithTimeout(t, 20*time.Millisecond), Tick{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEngine_SubmitNil(t *testing.T) {
	t.Parallel()
	e := NewEngine(newHarness(t).d, 1)
	assert.Error(t, e.Submit(context.Background(), nil))
}

func TestEngine_RunTicker(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	e, cancel, _ := startEngine(t, h, 8)

	ctx, stop := testutil.ContextWithCancel(t)
	tickErr := make(chan error, 1)
	go func() { tickErr <- e.RunTicker(ctx, 5*time.Millisecond) }()

	waitProcessed(t, e, 3)
	stop()
	require.NoError(t, <-tickErr)
	cancel()
}
