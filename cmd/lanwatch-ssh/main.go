// Command lanwatch-ssh scans the local subnet once and reports which
// alive hosts accept TCP connections on the SSH port, grouped into
// open and closed tables.
package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/HerbHall/lanwatch/internal/app"
	"github.com/HerbHall/lanwatch/internal/report"
	"github.com/HerbHall/lanwatch/internal/version"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("lanwatch-ssh starting", zap.String("version", version.Short()))

	engine, err := app.Build(logger)
	if err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}

	logger.Info("checking SSH availability",
		zap.String("subnet", engine.Sub.String()),
		zap.Int("port", engine.Config.SSHPort),
	)

	batch, err := engine.Coord.Scan(context.Background(), engine.Sub)
	if err != nil {
		logger.Fatal("scan failed to start", zap.Error(err))
	}

	batch.SortByAddr()
	report.New(os.Stdout).RenderSSHReport(batch)
}
