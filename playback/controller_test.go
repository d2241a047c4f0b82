package playback

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikhrachel/go-gol/codec"
	"github.com/sheikhrachel/go-gol/model"
	"github.com/sheikhrachel/go-gol/utils"
)

// fakeScheduler queues callbacks until the test fires them
type fakeScheduler struct {
	pending []scheduled
}

type scheduled struct {
	delay time.Duration
	fn    func()
}

func (f *fakeScheduler) AfterFunc(d time.Duration, fn func()) {
	f.pending = append(f.pending, scheduled{delay: d, fn: fn})
}

// fire runs the oldest armed callback
func (f *fakeScheduler) fire(t *testing.T) {
	t.Helper()
	require.NotEmpty(t, f.pending, "nothing armed")
	next := f.pending[0]
	f.pending = f.pending[1:]
	next.fn()
}

var (
	block = model.NewCellSet(
		model.Coordinate{X: 0, Y: 0}, model.Coordinate{X: 10, Y: 0},
		model.Coordinate{X: 0, Y: 10}, model.Coordinate{X: 10, Y: 10},
	)
	horizontal = model.NewCellSet(
		model.Coordinate{X: -10, Y: 0}, model.Coordinate{X: 0, Y: 0}, model.Coordinate{X: 10, Y: 0},
	)
	vertical = model.NewCellSet(
		model.Coordinate{X: 0, Y: -10}, model.Coordinate{X: 0, Y: 0}, model.Coordinate{X: 0, Y: 10},
	)
	glider = model.NewCellSet(
		model.Coordinate{X: 0, Y: 10}, model.Coordinate{X: 10, Y: 0},
		model.Coordinate{X: -10, Y: -10}, model.Coordinate{X: 0, Y: -10}, model.Coordinate{X: 10, Y: -10},
	)
)

func newTestController(t *testing.T, opts ...Option) (*Controller, *fakeScheduler) {
	t.Helper()
	d, err := model.NewDomain(11, 11, 1, model.DefaultUnit)
	require.NoError(t, err)
	sched := &fakeScheduler{}
	opts = append([]Option{WithRNG(model.NewRNG(1))}, opts...)
	c, err := New(model.NewGrid(d), sched, opts...)
	require.NoError(t, err)
	return c, sched
}

func TestNewStartsRunning(t *testing.T) {
	c, sched := newTestController(t)
	assert.Equal(t, Running, c.State())
	assert.Empty(t, sched.pending)
	assert.Equal(t, Normal, c.Speed())
}

func TestStartPlaysImmediately(t *testing.T) {
	c, sched := newTestController(t)
	c.Start(horizontal)

	assert.Equal(t, Running, c.State())
	assert.True(t, horizontal.Equal(c.LastStart()))
	require.Len(t, sched.pending, 1)
	assert.Equal(t, 150*time.Millisecond, sched.pending[0].delay)

	sched.fire(t)
	assert.True(t, vertical.Equal(c.AliveSet()))
	assert.Equal(t, 1, c.Generation())
	require.Len(t, sched.pending, 1, "each tick arms exactly one more")

	sched.fire(t)
	assert.True(t, horizontal.Equal(c.AliveSet()))
	assert.Equal(t, 2, c.Generation())
}

func TestLoadStartLeavesPaused(t *testing.T) {
	c, sched := newTestController(t)
	c.Start(horizontal)
	c.LoadStart(block)

	assert.Equal(t, Paused, c.State())
	assert.True(t, block.Equal(c.AliveSet()))
	assert.True(t, block.Equal(c.LastStart()))

	// the tick armed by Start is now stale
	sched.fire(t)
	assert.True(t, block.Equal(c.AliveSet()))
	assert.Empty(t, sched.pending)
	assert.Equal(t, 0, c.Generation())
}

func TestPauseResumeKeepsSingleTickChain(t *testing.T) {
	c, sched := newTestController(t)
	c.Start(horizontal)
	c.Pause()
	c.Resume()
	require.Len(t, sched.pending, 2)

	sched.fire(t)
	assert.Equal(t, 0, c.Generation(), "stale tick must not advance")
	sched.fire(t)
	assert.Equal(t, 1, c.Generation())
	assert.Len(t, sched.pending, 1)
}

func TestPauseAndResumeAreIdempotent(t *testing.T) {
	c, sched := newTestController(t)
	c.Start(block)
	c.Resume()
	assert.Len(t, sched.pending, 1)

	c.Pause()
	c.Pause()
	assert.Equal(t, Paused, c.State())

	c.Toggle()
	assert.Equal(t, Running, c.State())
	c.Toggle()
	assert.Equal(t, Paused, c.State())
}

func TestTickWhilePausedDoesNothing(t *testing.T) {
	c, sched := newTestController(t)
	c.LoadStart(horizontal)
	c.Tick()

	assert.True(t, horizontal.Equal(c.AliveSet()))
	assert.Empty(t, sched.pending)
}

func TestStepWhilePaused(t *testing.T) {
	c, sched := newTestController(t)
	c.LoadStart(horizontal)
	c.Step()

	assert.True(t, vertical.Equal(c.AliveSet()))
	assert.Equal(t, 1, c.Generation())
	assert.Equal(t, Paused, c.State())
	assert.Empty(t, sched.pending)
	assert.True(t, horizontal.Equal(c.LastStart()))
}

func TestRevertRestoresLastStart(t *testing.T) {
	c, sched := newTestController(t)
	c.Start(glider)
	for range 5 {
		sched.fire(t)
	}
	require.False(t, glider.Equal(c.AliveSet()))

	c.Revert()
	assert.Equal(t, Paused, c.State())
	assert.True(t, glider.Equal(c.AliveSet()))
	assert.True(t, glider.Equal(c.LastStart()))
	assert.Equal(t, 0, c.Generation())

	sched.fire(t)
	assert.True(t, glider.Equal(c.AliveSet()), "no tick while paused")
}

func TestResumeAdoptsEditsAsBaseline(t *testing.T) {
	c, sched := newTestController(t)
	c.LoadStart(block)
	extra := model.Coordinate{X: -50, Y: -50}
	require.NoError(t, c.ToggleCell(extra))

	c.Resume()
	want := block.Clone()
	want.Add(extra)
	assert.True(t, want.Equal(c.LastStart()))

	sched.fire(t)
	c.Revert()
	assert.True(t, want.Equal(c.AliveSet()))
}

func TestToggleCellOutOfDomain(t *testing.T) {
	c, _ := newTestController(t)
	c.LoadStart(block)

	err := c.ToggleCell(model.Coordinate{X: 1000, Y: 0})
	assert.ErrorIs(t, err, model.ErrOutOfDomain)
	assert.True(t, block.Equal(c.AliveSet()))
}

func TestRandomizeNow(t *testing.T) {
	c, sched := newTestController(t, WithAliveProbability(1))
	c.Start(block)

	require.NoError(t, c.RandomizeNow())
	assert.Equal(t, Paused, c.State())
	assert.Equal(t, c.Grid().Domain().Len(), c.Grid().CountLivingCells())
	assert.True(t, c.AliveSet().Equal(c.LastStart()))

	sched.fire(t)
	assert.Empty(t, sched.pending)
}

func TestRandomizeNowRejectsBadProbability(t *testing.T) {
	c, _ := newTestController(t, WithAliveProbability(2))
	c.LoadStart(block)

	assert.Error(t, c.RandomizeNow())
	assert.True(t, block.Equal(c.AliveSet()))
}

func TestClearKeepsBaseline(t *testing.T) {
	c, _ := newTestController(t)
	c.Start(block)
	c.Clear()

	assert.Equal(t, Paused, c.State())
	assert.Empty(t, c.AliveSet())
	assert.True(t, block.Equal(c.LastStart()))

	c.Revert()
	assert.True(t, block.Equal(c.AliveSet()))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blinker.txt")
	require.NoError(t, os.WriteFile(path, []byte(codec.EncodeString(horizontal)), 0o644))

	c, _ := newTestController(t)
	c.Start(block)
	require.NoError(t, c.LoadFile(path))

	assert.Equal(t, Paused, c.State())
	assert.True(t, horizontal.Equal(c.AliveSet()))
	assert.True(t, horizontal.Equal(c.LastStart()))
}

func TestLoadFileFailureLeavesStateUntouched(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.txt")
	require.NoError(t, os.WriteFile(bad, []byte("1,2 3"), 0o644))

	c, sched := newTestController(t)
	c.Start(block)

	err := c.LoadFile(bad)
	assert.ErrorIs(t, err, codec.ErrMalformedRecord)

	err = c.LoadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, codec.ErrIO)

	assert.Equal(t, Running, c.State())
	assert.True(t, block.Equal(c.AliveSet()))
	assert.True(t, block.Equal(c.LastStart()))
	assert.Len(t, sched.pending, 1)
}

func TestSaveFile(t *testing.T) {
	c, _ := newTestController(t)
	c.LoadStart(glider)

	written, err := c.SaveFile(filepath.Join(t.TempDir(), "glider"))
	require.NoError(t, err)
	assert.Equal(t, ".txt", filepath.Ext(written))

	loaded, err := codec.LoadFile(written)
	require.NoError(t, err)
	assert.True(t, glider.Equal(loaded))
}

func TestSetSpeed(t *testing.T) {
	c, sched := newTestController(t)
	c.Start(horizontal)
	require.NoError(t, c.SetSpeed(Fast))
	assert.Equal(t, 20*time.Millisecond, c.Delay())

	sched.fire(t)
	require.Len(t, sched.pending, 1)
	assert.Equal(t, 20*time.Millisecond, sched.pending[0].delay)

	assert.ErrorIs(t, c.SetSpeed("Turbo"), ErrUnknownSpeed)
	assert.Equal(t, Fast, c.Speed())
}

func TestRendererNotified(t *testing.T) {
	var frames []model.CellSet
	c, sched := newTestController(t, WithRenderer(RendererFunc(func(cells model.CellSet) {
		frames = append(frames, cells)
	})))

	c.Start(horizontal)
	require.Len(t, frames, 1)
	assert.True(t, horizontal.Equal(frames[0]))

	sched.fire(t)
	require.Len(t, frames, 2)
	assert.True(t, vertical.Equal(frames[1]))

	c.Pause()
	require.NoError(t, c.ToggleCell(model.Coordinate{X: 50, Y: 50}))
	assert.Len(t, frames, 3)

	c.Revert()
	assert.Len(t, frames, 4)
}

func TestStatsRecorded(t *testing.T) {
	stats := utils.NewStats()
	c, sched := newTestController(t, WithStats(stats))
	c.Start(horizontal)
	sched.fire(t)
	sched.fire(t)

	generations, _, avg := stats.Snapshot()
	assert.Equal(t, 2, generations)
	assert.InDelta(t, 3, avg, 0.001)
}

func TestNewRequiresScheduler(t *testing.T) {
	d, err := model.NewDomain(11, 11, 1, model.DefaultUnit)
	require.NoError(t, err)

	c, err := New(model.NewGrid(d), nil)
	assert.ErrorIs(t, err, ErrNoScheduler)
	assert.Nil(t, c)
}

func TestLoadStartDropsOffDomainCells(t *testing.T) {
	c, _ := newTestController(t)
	origin := model.Coordinate{X: 0, Y: 0}
	c.LoadStart(model.NewCellSet(model.Coordinate{X: 5000, Y: 0}, origin))

	want := model.NewCellSet(origin)
	assert.True(t, want.Equal(c.AliveSet()))
	assert.True(t, want.Equal(c.LastStart()))

	c.Resume()
	c.Revert()
	assert.True(t, want.Equal(c.LastStart()))
	assert.True(t, want.Equal(c.AliveSet()))
}

func TestTickRateUsesInterval(t *testing.T) {
	now := time.Unix(0, 0)
	stats := utils.NewStats()
	c, sched := newTestController(t, WithStats(stats), WithClock(func() time.Time { return now }))
	c.Start(horizontal)

	now = now.Add(100 * time.Millisecond)
	sched.fire(t)
	_, perSecond, _ := stats.Snapshot()
	assert.InDelta(t, 10, perSecond, 0.001)

	now = now.Add(250 * time.Millisecond)
	sched.fire(t)
	_, perSecond, _ = stats.Snapshot()
	assert.InDelta(t, 4, perSecond, 0.001)
}

func TestStatsTotalSurvivesRevert(t *testing.T) {
	stats := utils.NewStats()
	c, sched := newTestController(t, WithStats(stats))
	c.Start(horizontal)
	sched.fire(t)
	sched.fire(t)

	c.Revert()
	assert.Equal(t, 0, c.Generation())
	c.Resume()
	sched.fire(t) // stale tick from before the revert
	sched.fire(t)
	c.Pause()
	c.Step()

	assert.Equal(t, 2, c.Generation())
	generations, _, _ := stats.Snapshot()
	assert.Equal(t, 4, generations)
}
