package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/business-partner/leads-backend/logger"
	"github.com/business-partner/leads-backend/types"
)

// DataPlane is the readiness view of the lead store.
type DataPlane interface {
	Configured() bool
}

type HealthService struct {
	dataPlane   DataPlane
	redisClient *redis.Client
	version     string
	startedAt   time.Time
	log         *zap.SugaredLogger
}

func NewHealthService(dataPlane DataPlane, redisClient *redis.Client, version string) *HealthService {
	return &HealthService{
		dataPlane:   dataPlane,
		redisClient: redisClient,
		version:     version,
		startedAt:   time.Now(),
		log:         logger.GetLogger(),
	}
}

// CheckHealth reports the service state. The lead store being unconfigured
// takes the service down: every submission would fail. Redis loss only
// degrades, since rate limiting and the content cache fail open.
func (h *HealthService) CheckHealth(ctx context.Context) types.HealthCheck {
	components := make(map[string]types.HealthStatus)
	overallStatus := types.HealthStatusUp

	if h.dataPlane != nil && h.dataPlane.Configured() {
		components["database"] = types.HealthStatusUp
	} else {
		h.log.Errorw("Health check: lead store is not configured")
		components["database"] = types.HealthStatusDown
		overallStatus = types.HealthStatusDown
	}

	if h.redisClient != nil {
		if err := h.redisClient.Ping(ctx).Err(); err != nil {
			h.log.Warnw("Redis health check failed", "error", err)
			components["redis"] = types.HealthStatusDown
			if overallStatus == types.HealthStatusUp {
				overallStatus = types.HealthStatusDegraded
			}
		} else {
			components["redis"] = types.HealthStatusUp
		}
	}

	return types.HealthCheck{
		Status:     overallStatus,
		Components: components,
		Version:    h.version,
		Uptime:     time.Since(h.startedAt).Round(time.Second).String(),
	}
}
