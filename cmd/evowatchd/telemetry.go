package main

import (
	"context"
	"log/slog"

	"evowatch-backend/lib/serviceutil"
	"evowatch-backend/lib/telemetry"
)

func InitTelemetry(ctx context.Context, verbose bool) {
	telemetry.InitSlog(verbose)

	if verbose {
		slog.DebugContext(ctx, "verbose logging enabled")
	}

	instance, err := telemetry.SetupFromEnv(ctx, "evowatchd")
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	go func() {
		<-ctx.Done()
		instance.Shutdown(context.Background())
	}()
	telemetry.InstrumentPerfStats(ctx)
}
