// Package playback sequences generations over time and keeps the last starting
// configuration so a run can be reverted.
package playback

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol/codec"
	"github.com/sheikhrachel/go-gol/model"
	"github.com/sheikhrachel/go-gol/utils"
)

// State is the playback state of a controller
type State int

const (
	Paused State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "paused"
}

// Renderer is told about every change of the grid
type Renderer interface {
	Render(cells model.CellSet)
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(cells model.CellSet)

func (f RendererFunc) Render(cells model.CellSet) { f(cells) }

// Controller owns a grid and advances it on a re-armable timer.
// Its methods must be called from a single goroutine, typically a Loop.
type Controller struct {
	grid      *model.Grid
	scheduler Scheduler
	renderers []Renderer
	logger    *slog.Logger
	stats     *utils.Stats
	rng       *rand.Rand

	state            State
	speed            Speed
	aliveProbability float64
	lastStart        model.CellSet
	generation       int

	now      func() time.Time
	lastTick time.Time

	// epoch identifies the one armed tick that is allowed to run
	epoch uint64
}

// Option configures a Controller
type Option func(*Controller)

// WithRenderer adds a renderer notified after every grid change
func WithRenderer(r Renderer) Option {
	return func(c *Controller) { c.renderers = append(c.renderers, r) }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithStats records generations and loads
func WithStats(s *utils.Stats) Option {
	return func(c *Controller) { c.stats = s }
}

// WithRNG sets the random source used by RandomizeNow
func WithRNG(r *rand.Rand) Option {
	return func(c *Controller) { c.rng = r }
}

// WithSpeed sets the initial speed preset
func WithSpeed(s Speed) Option {
	return func(c *Controller) { c.speed = s }
}

// WithAliveProbability sets the density used by RandomizeNow
func WithAliveProbability(p float64) Option {
	return func(c *Controller) { c.aliveProbability = p }
}

// WithClock replaces time.Now for tick interval measurement
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// ErrNoScheduler is returned by New when no Scheduler is given
var ErrNoScheduler = errors.New("controller needs a scheduler")

// New creates a controller for grid. It starts Running with nothing armed;
// the boot sequence is expected to call Start with the first configuration.
// Armed ticks run wherever scheduler runs them, so scheduler must call back on
// the goroutine that owns the controller, as Loop does.
func New(grid *model.Grid, scheduler Scheduler, opts ...Option) (*Controller, error) {
	if scheduler == nil {
		return nil, errors.WithStack(ErrNoScheduler)
	}
	if grid == nil {
		return nil, errors.New("[New] nil grid")
	}
	c := &Controller{
		grid:             grid,
		scheduler:        scheduler,
		state:            Running,
		speed:            Normal,
		aliveProbability: model.DefaultAliveProbability,
		lastStart:        make(model.CellSet),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = utils.NewNopLogger()
	}
	if c.rng == nil {
		c.rng = model.NewRNG(time.Now().UnixNano())
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c, nil
}

// Grid returns the grid the controller drives
func (c *Controller) Grid() *model.Grid { return c.grid }

// State returns the playback state
func (c *Controller) State() State { return c.state }

// Generation returns the number of generations since the last load
func (c *Controller) Generation() int { return c.generation }

// LastStart returns a copy of the configuration Revert restores
func (c *Controller) LastStart() model.CellSet { return c.lastStart.Clone() }

// AliveSet returns the current alive cells
func (c *Controller) AliveSet() model.CellSet { return c.grid.AliveSet() }

// Speed returns the current speed preset
func (c *Controller) Speed() Speed { return c.speed }

// Delay returns the tick delay of the current speed
func (c *Controller) Delay() time.Duration { return c.speed.Delay() }

// SetSpeed changes the delay used for the next armed tick
func (c *Controller) SetSpeed(s Speed) error {
	if _, ok := speedDelays[s]; !ok {
		return errors.Wrapf(ErrUnknownSpeed, "[SetSpeed] %q", s)
	}
	c.speed = s
	c.logger.Info("speed changed", "speed", string(s), "delay", s.Delay())
	return nil
}

// LoadStart pauses, installs cells and remembers them as the revert baseline
func (c *Controller) LoadStart(cells model.CellSet) {
	c.loadStart("load", cells)
}

func (c *Controller) loadStart(source string, cells model.CellSet) {
	c.Pause()
	c.install(cells)
	c.lastStart = c.grid.AliveSet()
	c.generation = 0
	if c.stats != nil {
		c.stats.Loaded(source, c.grid.CountLivingCells())
	}
	c.logger.Info("configuration loaded", "source", source, "alive", c.grid.CountLivingCells())
}

// Start loads cells and begins playing immediately
func (c *Controller) Start(cells model.CellSet) {
	c.loadStart("start", cells)
	c.Resume()
}

// Resume starts playing when paused. The current grid, including any
// edits made while paused, becomes the new revert baseline.
func (c *Controller) Resume() {
	if c.state == Running {
		return
	}
	c.lastStart = c.grid.AliveSet()
	c.state = Running
	c.lastTick = c.now()
	c.logger.Info("playback resumed", "alive", c.lastStart.Len(), "speed", string(c.speed))
	c.arm()
}

// Pause stops playing; an armed tick becomes a no-op
func (c *Controller) Pause() {
	if c.state == Paused {
		return
	}
	c.state = Paused
	c.epoch++
	c.logger.Info("playback paused", "generation", c.generation)
}

// Toggle pauses when running and resumes when paused
func (c *Controller) Toggle() {
	if c.state == Running {
		c.Pause()
	} else {
		c.Resume()
	}
}

// Tick advances one generation and arms the next tick. It does nothing while paused.
func (c *Controller) Tick() {
	if c.state != Running {
		return
	}
	now := c.now()
	interval := now.Sub(c.lastTick)
	c.lastTick = now
	c.advance(interval)
	c.arm()
}

// Step advances exactly one generation while paused
func (c *Controller) Step() {
	if c.state != Paused {
		return
	}
	c.advance(0)
}

// Revert pauses and reinstalls the last starting configuration
func (c *Controller) Revert() {
	c.Pause()
	c.install(c.lastStart)
	c.generation = 0
	c.logger.Info("reverted to last start", "alive", c.lastStart.Len())
}

// RandomizeNow loads a fresh random configuration and stays paused
func (c *Controller) RandomizeNow() error {
	cells, err := model.RandomInitial(c.grid.Domain(), c.aliveProbability, c.rng)
	if err != nil {
		return errors.Wrap(err, "[RandomizeNow] failed to generate grid")
	}
	c.loadStart("random", cells)
	return nil
}

// Clear pauses and kills every cell. The revert baseline is kept.
func (c *Controller) Clear() {
	c.Pause()
	c.install(nil)
	c.logger.Info("grid cleared")
}

// ToggleCell flips a single cell, as done by interactive editing
func (c *Controller) ToggleCell(cell model.Coordinate) error {
	if err := c.grid.Toggle(cell); err != nil {
		return err
	}
	c.render()
	return nil
}

// LoadFile decodes a grid file and loads it like LoadStart.
// On failure the grid and the revert baseline are left untouched.
func (c *Controller) LoadFile(path string) error {
	cells, err := codec.LoadFile(path)
	if err != nil {
		return err
	}
	c.loadStart("file", cells)
	return nil
}

// SaveFile writes the current alive set to path and returns the written path
func (c *Controller) SaveFile(path string) (string, error) {
	written, err := codec.SaveFile(path, c.grid.AliveSet())
	if err != nil {
		return "", err
	}
	c.logger.Info("grid saved", "path", written)
	return written, nil
}

// advance installs the next generation; interval is the time since the
// previous tick, zero for a manual step
func (c *Controller) advance(interval time.Duration) {
	start := time.Now()
	next := model.NextGeneration(c.grid)
	c.grid.Set(next)
	c.generation++
	if c.stats != nil {
		c.stats.Update(next.Len(), time.Since(start), interval)
	}
	c.logger.Debug("generation computed", "generation", c.generation, "alive", next.Len())
	c.render()
}

// arm schedules the next tick and invalidates any earlier one
func (c *Controller) arm() {
	c.epoch++
	epoch := c.epoch
	c.scheduler.AfterFunc(c.speed.Delay(), func() {
		if epoch != c.epoch {
			return
		}
		c.Tick()
	})
}

func (c *Controller) install(cells model.CellSet) {
	c.grid.Set(cells)
	c.render()
}

func (c *Controller) render() {
	if len(c.renderers) == 0 {
		return
	}
	cells := c.grid.AliveSet()
	for _, r := range c.renderers {
		r.Render(cells)
	}
}
