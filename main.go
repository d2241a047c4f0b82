package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/go-gol/codec"
	"github.com/sheikhrachel/go-gol/model"
	"github.com/sheikhrachel/go-gol/playback"
	"github.com/sheikhrachel/go-gol/utils"
)

const defaultConfigFile = "config.json"

var rootCmd = &cobra.Command{
	Use:          "go-gol",
	Short:        "Conway's Game of Life on a bounded grid",
	Long:         `Runs Conway's Game of Life on a fixed, non-wrapping grid centered at the origin. Type commands on stdin to pause, edit, load or save the grid.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	defaults := utils.DefaultConfig()
	f := rootCmd.Flags()
	f.StringP("config", "c", "", "Configuration file (JSON or YAML), defaults to "+defaultConfigFile+" when present")
	f.IntP("width", "x", defaults.Width, "Requested grid width")
	f.IntP("height", "y", defaults.Height, "Requested grid height")
	f.Int("margin", defaults.Margin, "Extra cells around the visible area")
	f.StringP("speed", "s", defaults.Speed, "Speed preset: Normal, Fast, Medium or Slow")
	f.Float64P("probability", "p", defaults.AliveProbability, "Chance of a cell starting alive in random grids")
	f.Int64("seed", defaults.Seed, "Random seed, 0 uses the clock")
	f.StringP("file", "f", "", "Start from a grid file instead of a random grid")
	f.IntP("max-generations", "g", defaults.MaxGenerations, "Stop after this many generations, 0 runs forever")
	f.String("metrics-addr", "", "Serve prometheus metrics on this address, e.g. :2112")
	f.String("log-level", defaults.LogLevel, "Log level: debug, info, warn or error")
	f.Bool("no-color", false, "Disable colored output")
	f.Bool("no-clear", false, "Do not clear the terminal between frames")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	config, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	level, err := utils.ParseLogLevel(config.LogLevel)
	if err != nil {
		return err
	}
	logger := utils.NewLogger(level, os.Stderr)

	speed, err := playback.ParseSpeed(config.Speed)
	if err != nil {
		return err
	}
	domain, err := model.NewDomain(config.Width, config.Height, config.Margin, config.Unit)
	if err != nil {
		return err
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := model.NewRNG(seed)

	var cells model.CellSet
	if config.StartFile != "" {
		if cells, err = codec.LoadFile(config.StartFile); err != nil {
			return err
		}
	} else if cells, err = model.RandomInitial(domain, config.AliveProbability, rng); err != nil {
		return err
	}

	stats := utils.NewStats()
	registry := prometheus.NewRegistry()
	if err = stats.Register(registry); err != nil {
		return errors.Wrap(err, "[run] failed to register metrics")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	out := cmd.OutOrStdout()
	noClear, _ := cmd.Flags().GetBool("no-clear")
	terminal := model.NewTerminalRenderer(domain, out, config.Color, !noClear, logger)

	var ctrl *playback.Controller
	frame := playback.RendererFunc(func(alive model.CellSet) {
		terminal.Render(alive)
		displayGameStatus(out, ctrl, stats)
		if config.MaxGenerations > 0 && ctrl.Generation() >= config.MaxGenerations {
			logger.Info("reached maximum generations", "limit", config.MaxGenerations)
			cancel()
		}
	})

	loop := playback.NewLoop()
	ctrl, err = playback.New(model.NewGrid(domain), loop,
		playback.WithRenderer(frame),
		playback.WithLogger(logger),
		playback.WithStats(stats),
		playback.WithRNG(rng),
		playback.WithSpeed(speed),
		playback.WithAliveProbability(config.AliveProbability),
	)
	if err != nil {
		return err
	}

	logger.Info("starting",
		"columns", domain.Width(), "rows", domain.Height(),
		"alive", cells.Len(), "speed", string(speed), "seed", seed)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return loop.Run(gctx)
	})
	if config.MetricsAddr != "" {
		serveMetrics(gctx, g, config.MetricsAddr, registry, logger.Info)
	}

	loop.Do(func() { ctrl.Start(cells) })
	go readCommands(os.Stdin, out, loop, ctrl, cancel, func(err error) {
		logger.Warn("command failed", "error", err)
	})

	err = g.Wait()
	generations, perSecond, avgPopulation := stats.Snapshot()
	fmt.Fprintf(out, "Final stats: %d generations in %.1f seconds\n",
		generations, time.Since(stats.StartTime).Seconds())
	fmt.Fprintf(out, "Average: %.1f gen/sec, %.1f avg population\n", perSecond, avgPopulation)

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// resolveConfig loads the configuration file and applies explicit flags on top
func resolveConfig(cmd *cobra.Command) (utils.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")

	config := utils.DefaultConfig()
	switch {
	case path != "":
		loaded, err := utils.LoadConfig(path)
		if err != nil {
			return config, err
		}
		config = loaded
	default:
		if loaded, err := utils.LoadConfig(defaultConfigFile); err == nil {
			config = loaded
		} else if !errors.Is(err, os.ErrNotExist) {
			return config, err
		}
	}

	if flags.Changed("width") {
		config.Width, _ = flags.GetInt("width")
	}
	if flags.Changed("height") {
		config.Height, _ = flags.GetInt("height")
	}
	if flags.Changed("margin") {
		config.Margin, _ = flags.GetInt("margin")
	}
	if flags.Changed("speed") {
		config.Speed, _ = flags.GetString("speed")
	}
	if flags.Changed("probability") {
		config.AliveProbability, _ = flags.GetFloat64("probability")
	}
	if flags.Changed("seed") {
		config.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("file") {
		config.StartFile, _ = flags.GetString("file")
	}
	if flags.Changed("max-generations") {
		config.MaxGenerations, _ = flags.GetInt("max-generations")
	}
	if flags.Changed("metrics-addr") {
		config.MetricsAddr, _ = flags.GetString("metrics-addr")
	}
	if flags.Changed("log-level") {
		config.LogLevel, _ = flags.GetString("log-level")
	}
	if noColor, _ := flags.GetBool("no-color"); noColor {
		config.Color = false
	}
	return config, config.Validate()
}

// serveMetrics exposes the registry on /metrics until ctx is done
func serveMetrics(ctx context.Context, g *errgroup.Group, addr string, reg *prometheus.Registry, logf func(string, ...any)) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	g.Go(func() error {
		logf("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "[serveMetrics] metrics server failed")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

// readCommands feeds input lines to the controller on the loop goroutine
func readCommands(in io.Reader, out io.Writer, loop *playback.Loop, ctrl *playback.Controller, quit func(), warn func(error)) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		var err error
		if !loop.Call(func() { err = execCommand(ctrl, line, out) }) {
			return
		}
		if errors.Is(err, errQuit) {
			quit()
			return
		}
		if err != nil {
			warn(err)
		}
	}
}
