package main

import (
	"flag"
	"log/slog"

	"evowatch-backend/lib/configuration"
	"evowatch-backend/lib/cronutil"
	"evowatch-backend/lib/scrapers/evolve"
	"evowatch-backend/lib/serviceutil"
	"evowatch-backend/services/monitor"
	"evowatch-backend/services/notify"
	"evowatch-backend/services/subscription"
)

type EvolveConfig struct {
	// Cookies is the operator supplied session cookie header for the
	// user panel.
	Cookies string `json:"cookies"`
}

type TelegramConfig struct {
	Token string `json:"token"`
}

type Config struct {
	Evolve   EvolveConfig   `json:"evolve"`
	Telegram TelegramConfig `json:"telegram"`
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	refresh := flag.Bool("refresh", false, "Refresh every snapshot immediately on start.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	InitTelemetry(ctx, *verbose)

	cfg, err := configuration.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("read config", err)
	}
	if cfg.Evolve.Cookies == "" {
		slog.Warn("no session cookie configured, every fetch will fail until one is supplied")
	}

	client := evolve.NewClient(evolve.ClientOptions{
		Session: evolve.NewSessionStore(cfg.Evolve.Cookies),
	})
	monitorService := monitor.NewService(client)
	registry := subscription.NewRegistry()
	notifyService := notify.NewService(monitorService, registry, NewTelegramSender(cfg.Telegram.Token))

	sched := cronutil.NewStandardScheduler()
	defer sched.Stop()

	err = monitorService.Start(ctx, sched)
	if err != nil {
		serviceutil.Fatal("start monitor", err)
	}
	err = notifyService.Start(ctx, sched)
	if err != nil {
		serviceutil.Fatal("start notify", err)
	}

	if *refresh {
		monitorService.RefreshAll(ctx)
	}

	<-ctx.Done()
}
