// Command geoview opens one or more map windows, optionally laid out from a
// YAML display file, and runs the frame loop.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"github.com/yohamta/donburi"

	"github.com/phanxgames/geoview"
	"github.com/phanxgames/geoview/ecs"
	"github.com/phanxgames/geoview/metrics"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "geoview:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("geoview", pflag.ContinueOnError)
	opts := geoview.NewOptions()
	opts.AddFlags(fs)
	about := fs.Bool("about", false, "Print module versions and exit.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := opts.Complete(); err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	log := newLogger(opts.LogLevel())
	slog.SetDefault(log)
	geoview.SetLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := geoview.NewApplication(geoview.NewEbitenBackend(opts.ScreenshotDir), opts)
	defer app.Close()

	if *about {
		for _, line := range app.About() {
			fmt.Println(line)
		}
		return nil
	}

	world := donburi.NewWorld()
	app.Systems = append(app.Systems, ecs.NewMotionSystem(world, app.MapNode.Ellipsoid))
	app.Viewer().AddEventHandler(ecs.NewEventBridge(world))
	spawnOrbiters(world)
	app.MainScene.AddChild(ecs.NewMarkerNode(world))

	if opts.ShowFPS {
		app.MainScene.AddChild(geoview.NewFPSOverlay(app))
	}

	if err := setupWindows(ctx, app, opts); err != nil {
		return err
	}

	if opts.Script != "" {
		data, err := os.ReadFile(opts.Script)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		runner, err := geoview.LoadScript(data)
		if err != nil {
			return err
		}
		finished := false
		app.UpdateFunc = func() {
			runner.Step(app)
			if runner.Done() && !finished {
				finished = true
				log.Info("script finished")
				app.Close()
			}
		}
	}

	if opts.MetricsAddr != "" {
		srv, err := serveMetrics(app, opts.MetricsAddr)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	go func() {
		<-ctx.Done()
		// Ends the loop on the next frame.
		app.Runtime.RunDuringUpdate(geoview.TaskFunc(func() {
			app.Viewer().Close()
		}))
	}()

	return geoview.RunEbiten(app)
}

// newLogger returns a text logger on a terminal and a JSON logger otherwise.
func newLogger(level slog.Level) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: level}
	fd := os.Stderr.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return slog.New(slog.NewTextHandler(os.Stderr, hopts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, hopts))
}

func setupWindows(ctx context.Context, app *geoview.Application, opts *geoview.Options) error {
	if opts.DisplayConfig == "" {
		_, err := app.AddWindow(geoview.NewWindowTraits(opts.Width, opts.Height, opts.Title)).Get(ctx)
		return err
	}

	cfg, err := geoview.LoadDisplayConfig(opts.DisplayConfig)
	if err != nil {
		return err
	}
	layout, err := cfg.Apply(app)
	if err != nil {
		return err
	}
	if opts.Watch {
		return geoview.WatchDisplayConfig(ctx, opts.DisplayConfig, app, layout)
	}
	return nil
}

func serveMetrics(app *geoview.Application, addr string) (*http.Server, error) {
	reg := prometheus.NewRegistry()
	collector, err := metrics.NewFrameCollector(reg)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	app.StatsObserver = collector

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			geoview.Logger().Error("metrics server failed", "addr", addr, "err", err)
		}
	}()
	geoview.Logger().Info("serving metrics", "addr", addr)
	return srv, nil
}

// spawnOrbiters populates the world with a few moving entities so the
// motion system has work to do.
func spawnOrbiters(world donburi.World) {
	for i := 0; i < 4; i++ {
		ecs.Spawn(world,
			ecs.Geodetic{Lat: float64(i*20 - 30), Lon: float64(i * 90), Alt: 400e3},
			ecs.Motion{DLon: 4, DLat: 0.5},
		)
	}
}
