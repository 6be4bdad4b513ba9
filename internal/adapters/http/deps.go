package http

import (
	"github.com/nats-io/nats.go"
	"github.com/yusefelshater/TransCalc/internal/adapters/postgres"
	"github.com/yusefelshater/TransCalc/internal/core/ports"
	"github.com/yusefelshater/TransCalc/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers. NATS, DB and
// Cache are optional; nil disables the corresponding endpoint features.
type Dependencies struct {
	Planner  *usecases.PlannerService
	Pavement *usecases.PavementService
	Gateway  ports.FacilityGateway
	NATS     *nats.Conn
	DB       *postgres.DB
	Cache    ports.CacheService
}
