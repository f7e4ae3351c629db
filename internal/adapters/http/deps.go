package http

import (
	"github.com/nats-io/nats.go"
	"github.com/selenevara/astroatlas/internal/adapters/postgres"
	"github.com/selenevara/astroatlas/internal/adapters/valkey"
	"github.com/selenevara/astroatlas/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Profiles *usecases.ProfileService
	Charts   *usecases.ChartService
	Synastry *usecases.SynastryService
	Transits *usecases.TransitService
	Hotspots *usecases.HotspotService
	Cities   *usecases.CityService
	Reports  *usecases.ReportService
	NATS     *nats.Conn
	DB       *postgres.DB
	Cache    *valkey.Cache
}
