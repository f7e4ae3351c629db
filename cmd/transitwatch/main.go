package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	natsadapter "github.com/selenevara/astroatlas/internal/adapters/nats"
	"github.com/selenevara/astroatlas/internal/adapters/postgres"
	"github.com/selenevara/astroatlas/internal/core/domain"
	"github.com/selenevara/astroatlas/internal/core/ports"
	"github.com/selenevara/astroatlas/internal/core/usecases"
	"github.com/selenevara/astroatlas/internal/pkg/config"
	"github.com/selenevara/astroatlas/internal/pkg/logging"
)

const metricsAddr = ":9091"

// transitwatch scans every watched profile once per UTC day and publishes
// the activations that land in orb. The API answers on-demand queries; this
// daemon only feeds the push pipeline.
func main() {
	cfg, err := config.Load("astroatlas-transitwatch")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logging.Setup("transitwatch", cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	var publisher ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, scanning without publishing", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	transitSvc := usecases.NewTransitService(postgres.NewProfileRepo(db), publisher, cfg.Engine.Thresholds)

	// Scan metrics for this process
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(metricsAddr, mux); err != nil {
			slog.Warn("metrics listener failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Run once immediately, then re-scan when the UTC date rolls over.
	lastScanned := scan(ctx, transitSvc, domain.CivilDate{})

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			lastScanned = scan(ctx, transitSvc, lastScanned)
		case sig := <-quit:
			slog.Info("shutting down transit watcher", "signal", sig.String())
			cancel()
			return
		}
	}
}

// scan runs one watched-profile sweep unless today was already scanned.
// It returns the civil date the sweep covered.
func scan(ctx context.Context, svc *usecases.TransitService, lastScanned domain.CivilDate) domain.CivilDate {
	now := time.Now().UTC()
	today := domain.CivilDate{Year: now.Year(), Month: int(now.Month()), Day: now.Day()}
	if today == lastScanned {
		return lastScanned
	}

	slog.Info("scanning watched profiles", "date", today.String())

	published, err := svc.ScanWatched(ctx, today)
	if err != nil {
		slog.Error("scan failed", "date", today.String(), "error", err)
		return lastScanned
	}

	slog.Info("scan complete", "date", today.String(), "published", published)
	return today
}
