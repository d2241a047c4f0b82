package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikhrachel/go-gol/model"
	"github.com/sheikhrachel/go-gol/playback"
	"github.com/sheikhrachel/go-gol/utils"
)

// nopScheduler drops every armed tick
type nopScheduler struct{}

func (nopScheduler) AfterFunc(time.Duration, func()) {}

func newTestController(t *testing.T) *playback.Controller {
	t.Helper()
	d, err := model.NewDomain(9, 9, 1, model.DefaultUnit)
	require.NoError(t, err)
	c, err := playback.New(model.NewGrid(d), nopScheduler{}, playback.WithRNG(model.NewRNG(1)))
	require.NoError(t, err)
	c.Start(model.NewCellSet(
		model.Coordinate{X: -10, Y: 0}, model.Coordinate{X: 0, Y: 0}, model.Coordinate{X: 10, Y: 0},
	))
	return c
}

func TestExecCommandPlayback(t *testing.T) {
	c := newTestController(t)
	var out bytes.Buffer

	require.NoError(t, execCommand(c, "pause", &out))
	assert.Equal(t, playback.Paused, c.State())
	require.NoError(t, execCommand(c, "t", &out))
	assert.Equal(t, playback.Running, c.State())
	require.NoError(t, execCommand(c, "p", &out))

	require.NoError(t, execCommand(c, "step", &out))
	assert.Equal(t, 1, c.Generation())
	require.NoError(t, execCommand(c, "v", &out))
	assert.Equal(t, 0, c.Generation())

	require.NoError(t, execCommand(c, "  ", &out))
}

func TestExecCommandEdit(t *testing.T) {
	c := newTestController(t)
	var out bytes.Buffer

	require.NoError(t, execCommand(c, "edit 21.3 -18", &out))
	assert.True(t, c.AliveSet().Has(model.Coordinate{X: 20, Y: -20}))

	assert.ErrorIs(t, execCommand(c, "e 500 0", &out), model.ErrOutOfDomain)
	assert.Error(t, execCommand(c, "e 1", &out))
	assert.Error(t, execCommand(c, "e one two", &out))
}

func TestExecCommandFiles(t *testing.T) {
	c := newTestController(t)
	var out bytes.Buffer
	path := filepath.Join(t.TempDir(), "saved")

	require.NoError(t, execCommand(c, "save "+path, &out))
	assert.Contains(t, out.String(), path+".txt")
	saved := c.AliveSet()

	require.NoError(t, execCommand(c, "clear", &out))
	assert.Empty(t, c.AliveSet())

	require.NoError(t, execCommand(c, "load "+path+".txt", &out))
	assert.True(t, saved.Equal(c.AliveSet()))
	assert.Equal(t, playback.Paused, c.State())

	assert.Error(t, execCommand(c, "load", &out))
	assert.Error(t, execCommand(c, "load "+path+".missing", &out))
}

func TestExecCommandMisc(t *testing.T) {
	c := newTestController(t)
	var out bytes.Buffer

	require.NoError(t, execCommand(c, "speed slow", &out))
	assert.Equal(t, playback.Slow, c.Speed())
	assert.ErrorIs(t, execCommand(c, "speed warp", &out), playback.ErrUnknownSpeed)

	require.NoError(t, execCommand(c, "random", &out))
	assert.Equal(t, playback.Paused, c.State())

	require.NoError(t, execCommand(c, "help", &out))
	assert.Contains(t, out.String(), "Commands:")

	assert.ErrorIs(t, execCommand(c, "quit", &out), errQuit)
	assert.Error(t, execCommand(c, "dance", &out))
}

func TestReadCommands(t *testing.T) {
	c := newTestController(t)
	loop := playback.NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go loop.Run(ctx)

	var out bytes.Buffer
	var warnings []error
	quit := false
	readCommands(strings.NewReader("pause\nbogus\nstep\nq\nstep\n"), &out, loop, c,
		func() { quit = true },
		func(err error) { warnings = append(warnings, err) })
	cancel()

	assert.True(t, quit)
	assert.Len(t, warnings, 1)
	assert.Equal(t, 1, c.Generation(), "commands after quit are not run")
}

func TestDisplayGameStatus(t *testing.T) {
	c := newTestController(t)
	var out bytes.Buffer

	displayGameStatus(&out, c, utils.NewStats())
	assert.Contains(t, out.String(), "Gen: 0 | Living: 3")
	assert.Contains(t, out.String(), "Speed: Normal")
	assert.Contains(t, out.String(), "Performance:")
}
