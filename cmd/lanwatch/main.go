// Command lanwatch runs one scan of the detected local subnet and
// prints the alive hosts. It takes no flags; tuning lives in the
// optional config file (LANWATCH_CONFIG) and LANWATCH_* environment
// variables.
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

	logger.Info("lanwatch starting", zap.String("version", version.Short()))

	engine, err := app.Build(logger)
	if err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}

	logger.Info("scanning",
		zap.String("subnet", engine.Sub.String()),
		zap.Int("hosts", engine.Sub.HostCount()),
	)

	batch, err := engine.Coord.Scan(context.Background(), engine.Sub)
	if err != nil {
		logger.Fatal("scan failed to start", zap.Error(err))
	}

	batch.SortByAddr()
	report.New(os.Stdout).RenderBatch(batch, engine.Sub)
}
