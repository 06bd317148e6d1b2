package http

import (
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/skysurvey/internal/adapters/postgres"
	"github.com/samirrijal/skysurvey/internal/adapters/valkey"
	"github.com/samirrijal/skysurvey/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Paths    *usecases.PathService
	Missions *usecases.MissionService
	Fleet    *usecases.FleetService
	NATS     *nats.Conn
	DB       *postgres.DB
	Cache    *valkey.Cache
	Version  string
	// Tuning; zero values fall back to 120 req/min and 15s.
	RateLimit      int
	RequestTimeout time.Duration
}
