package slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/bosstimers/internal/game/boss"
	"github.com/udisondev/bosstimers/internal/testutil"
)

// mockBestTimes records writes and serves fixed reads.
type mockBestTimes struct {
	best   map[string]time.Duration
	writes map[string]time.Duration
}

func newMockBestTimes() *mockBestTimes {
	return &mockBestTimes{
		best:   make(map[string]time.Duration),
		writes: make(map[string]time.Duration),
	}
}

func (m *mockBestTimes) Read(_ context.Context, b *boss.Boss) time.Duration {
	if d, ok := m.best[b.Name]; ok {
		return d
	}
	return time.Hour
}

func (m *mockBestTimes) Write(_ context.Context, b *boss.Boss, d time.Duration) {
	m.writes[b.Name] = d
}

func find(t *testing.T, name string) *boss.Boss {
	t.Helper()
	b, ok := boss.Find(name)
	require.True(t, ok, "boss %q", name)
	return b
}

func newTestManager() (*Manager, *mockBestTimes, *testutil.FakeClock) {
	best := newMockBestTimes()
	clk := testutil.NewFakeClock()
	return NewManager(best, clk.Now), best, clk
}

func TestManager_StartAllocatesByFamily(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	solo, _, _ := newTestManager()
	assert.False(t, solo.Allocated())
	require.True(t, solo.Start(ctx, find(t, "General Graardor")))
	assert.Equal(t, 1, solo.Capacity())

	family, _, _ := newTestManager()
	require.True(t, family.Start(ctx, find(t, "Dagannoth Rex")))
	assert.Equal(t, 3, family.Capacity())
}

func TestManager_StartIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _, clk := newTestManager()
	zulrah := find(t, "Zulrah")

	require.True(t, m.Start(ctx, zulrah))
	first := m.Find("Zulrah")
	startedAt := first.Start()
	before := m.Slots()

	clk.Advance(5 * time.Second)
	assert.False(t, m.Start(ctx, zulrah))

	assert.Same(t, first, m.Find("Zulrah"))
	assert.Equal(t, startedAt, m.Find("Zulrah").Start())
	assert.Equal(t, before, m.Slots())
	assert.Len(t, m.Active(), 1)
}

func TestManager_StartDisabled(t *testing.T) {
	t.Parallel()
	m, _, _ := newTestManager()
	m.SetEnabled(false)

	assert.False(t, m.Start(context.Background(), find(t, "Callisto")))
	assert.False(t, m.Allocated())
}

func TestManager_CapacityExhausted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _, _ := newTestManager()

	require.True(t, m.Start(ctx, find(t, "Scorpia")))
	assert.False(t, m.Start(ctx, find(t, "Venenatis")), "solo array holds one timer")

	assert.NotNil(t, m.Find("Scorpia"))
	assert.Nil(t, m.Find("Venenatis"))
}

func TestManager_FamilyRunsThreeSiblings(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _, _ := newTestManager()

	for _, name := range []string{"Dagannoth Prime", "Dagannoth Rex", "Dagannoth Supreme"} {
		require.True(t, m.Start(ctx, find(t, name)), name)
	}
	assert.Len(t, m.Active(), 3)
	assert.False(t, m.Start(ctx, find(t, "Giant Mole")), "array is full")
}

func TestManager_EndSoloDropsArray(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _, _ := newTestManager()
	vork := find(t, "Vorkath")

	require.True(t, m.Start(ctx, vork))
	m.End(ctx, vork, false, "")

	assert.False(t, m.Allocated())
	assert.Nil(t, m.Find("Vorkath"))
}

func TestManager_EndFamilyMemberKeepsSiblings(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _, _ := newTestManager()
	prime := find(t, "Dagannoth Prime")
	rex := find(t, "Dagannoth Rex")

	require.True(t, m.Start(ctx, prime))
	require.True(t, m.Start(ctx, rex))

	m.End(ctx, prime, true, "Dagannoth Prime")

	require.True(t, m.Allocated())
	assert.Equal(t, 3, m.Capacity())
	assert.Nil(t, m.Find("Dagannoth Prime"))
	assert.NotNil(t, m.Find("Dagannoth Rex"))

	slots := m.Slots()
	assert.Nil(t, slots[0])
	assert.NotNil(t, slots[1])

	// The emptied slot is reused.
	require.True(t, m.Start(ctx, prime))
	assert.Same(t, m.Find("Dagannoth Prime"), m.Slots()[0])
}

func TestManager_FamilySameTickDeaths(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _, _ := newTestManager()
	rex := find(t, "Dagannoth Rex")
	supreme := find(t, "Dagannoth Supreme")

	require.True(t, m.Start(ctx, rex))
	require.True(t, m.Start(ctx, supreme))

	m.End(ctx, rex, true, "")
	m.End(ctx, supreme, true, "")

	assert.True(t, m.Allocated(), "family array persists until a full clear")
	assert.Empty(t, m.Active())
}

func TestManager_EndRecordsBestTime(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name        string
		killAt      time.Duration
		wasKill     bool
		interacting string
		wantWrite   bool
	}{
		{"kill before deadline", 70 * time.Second, true, "Kraken", true},
		{"kill after deadline", 95 * time.Second, true, "Kraken", false},
		{"kill while fighting something else", 70 * time.Second, true, "Cerberus", false},
		{"despawn without kill", 70 * time.Second, false, "Kraken", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, best, clk := newTestManager()
			best.best["Kraken"] = 90 * time.Second
			kraken := find(t, "Kraken")

			require.True(t, m.Start(ctx, kraken))
			clk.Advance(tt.killAt)
			m.End(ctx, kraken, tt.wasKill, tt.interacting)

			got, wrote := best.writes["Kraken"]
			assert.Equal(t, tt.wantWrite, wrote)
			if tt.wantWrite {
				assert.Equal(t, tt.killAt, got)
			}
			assert.False(t, m.Allocated())
		})
	}
}

func TestManager_EndUnknownIsNoop(t *testing.T) {
	t.Parallel()
	m, best, _ := newTestManager()

	m.End(context.Background(), find(t, "Dusk"), true, "Dusk")

	assert.False(t, m.Allocated())
	assert.Empty(t, best.writes)
}

func TestManager_EvaluateRegion(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("leaving lair clears solo boss", func(t *testing.T) {
		m, _, _ := newTestManager()
		require.True(t, m.Start(ctx, find(t, "Corporeal Beast")))

		m.EvaluateRegion(boss.RegionCorpLair, false)
		assert.NotNil(t, m.Find("Corporeal Beast"))

		m.EvaluateRegion(12000, false)
		assert.Nil(t, m.Find("Corporeal Beast"))
		assert.False(t, m.Allocated())
	})

	t.Run("unconstrained boss survives any region", func(t *testing.T) {
		m, _, _ := newTestManager()
		require.True(t, m.Start(ctx, find(t, "General Graardor")))

		m.EvaluateRegion(12000, false)
		assert.NotNil(t, m.Find("General Graardor"))
	})

	t.Run("family member leaving lair clears every sibling", func(t *testing.T) {
		m, _, _ := newTestManager()
		require.True(t, m.Start(ctx, find(t, "Dagannoth Prime")))
		require.True(t, m.Start(ctx, find(t, "Dagannoth Rex")))

		m.EvaluateRegion(boss.RegionDagannothLair, false)
		assert.Len(t, m.Active(), 2)

		m.EvaluateRegion(12000, false)
		assert.False(t, m.Allocated())
	})

	t.Run("instanced area keeps corp unless clear on teleport", func(t *testing.T) {
		m, _, _ := newTestManager()
		require.True(t, m.Start(ctx, find(t, "Corporeal Beast")))

		m.EvaluateRegion(7769, true)
		assert.NotNil(t, m.Find("Corporeal Beast"))

		m.SetClearOnTeleport(true)
		m.EvaluateRegion(7769, true)
		assert.Nil(t, m.Find("Corporeal Beast"))
	})

	t.Run("instanced area does not exempt other bosses", func(t *testing.T) {
		m, _, _ := newTestManager()
		require.True(t, m.Start(ctx, find(t, "Giant Mole")))

		m.EvaluateRegion(7769, true)
		assert.Nil(t, m.Find("Giant Mole"))
	})
}

func TestManager_EvaluateInstanceExempt(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _, _ := newTestManager()
	m.SetClearOnTeleport(true)

	require.True(t, m.Start(ctx, find(t, "Dagannoth Rex")))
	require.True(t, m.Start(ctx, find(t, "Corporeal Beast")))

	m.EvaluateInstanceExempt(12000, false)

	assert.Nil(t, m.Find("Corporeal Beast"), "corp is re-evaluated")
	// Corp is solo, so clearing it drops the shared array.
	assert.False(t, m.Allocated())
}

func TestManager_ClearAll(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _, _ := newTestManager()

	require.True(t, m.Start(ctx, find(t, "Dagannoth Supreme")))
	enc := m.Find("Dagannoth Supreme")

	m.ClearAll()
	assert.False(t, m.Allocated())
	assert.True(t, enc.Ended())

	m.ClearAll()
	assert.False(t, m.Allocated())
}
