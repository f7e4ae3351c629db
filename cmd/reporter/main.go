package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/selenevara/astroatlas/internal/adapters/nats"
	"github.com/selenevara/astroatlas/internal/adapters/postgres"
	"github.com/selenevara/astroatlas/internal/core/ports"
	"github.com/selenevara/astroatlas/internal/core/usecases"
	"github.com/selenevara/astroatlas/internal/pkg/config"
	"github.com/selenevara/astroatlas/internal/pkg/logging"
	"github.com/selenevara/astroatlas/internal/workflows"
)

func main() {
	cfg, err := config.Load("astroatlas-reporter")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logging.Setup("reporter", cfg.Logging.Level, cfg.Logging.Format)

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	var publisher ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, reports will not be announced", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	profileRepo := postgres.NewProfileRepo(db)
	cityRepo := postgres.NewCityRepo(db)
	synastrySvc := usecases.NewSynastryService(profileRepo, cityRepo, nil, cfg.Engine.Resolution, cfg.Engine.Thresholds)

	// The workflow owns notification and compensation, so the report service
	// is wired without a notifier.
	reportSvc := usecases.NewReportService(postgres.NewReportRepo(db), synastrySvc, publisher, nil)

	// Connect to Temporal
	hostPort := os.Getenv("TEMPORAL_ADDRESS")
	if hostPort == "" {
		hostPort = "localhost:7233"
	}
	c, err := client.Dial(client.Options{
		HostPort: hostPort,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, "bond-report-queue", worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.BondReportWorkflow)
	w.RegisterActivity(&workflows.BondReportActivities{
		Profiles: profileRepo,
		Reports:  reportSvc,
	})

	log.Println("bond report worker started")
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
