// Command lanwatch-live continuously monitors the local subnet,
// redrawing the host table every cycle and highlighting the most
// recently arrived host. One optional positional argument sets the
// refresh interval in seconds (default 10, minimum 3). Runs until
// interrupted, then prints a session summary.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/HerbHall/lanwatch/internal/app"
	"github.com/HerbHall/lanwatch/internal/metrics"
	"github.com/HerbHall/lanwatch/internal/monitor"
	"github.com/HerbHall/lanwatch/internal/report"
	"github.com/HerbHall/lanwatch/internal/version"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("lanwatch-live starting", zap.String("version", version.Short()))

	engine, err := app.Build(logger)
	if err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}

	interval := monitor.ClampInterval(engine.Config.Interval, logger)
	if len(os.Args) > 1 {
		interval = monitor.ParseIntervalArg(os.Args[1], logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var recorder *metrics.Recorder
	if addr := engine.Config.MetricsListen; addr != "" {
		recorder = metrics.NewRecorder()
		go func() {
			if err := recorder.Serve(ctx, addr, logger); err != nil {
				logger.Error("metrics listener failed", zap.Error(err))
			}
		}()
	}

	renderer := report.New(os.Stdout)
	mon := monitor.New(engine.Coord, engine.Sub, renderer, recorder, interval, logger)

	summary := mon.Run(ctx)
	renderer.RenderSummary(summary)
}
