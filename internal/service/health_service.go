package service

import (
	"context"
	"time"

	"legal-docchat-be/internal/pkg/logger"
	"legal-docchat-be/pkg/analysis"
	"legal-docchat-be/pkg/events"
)

// HealthService probes the analysis backend root endpoint. Failures
// surface as a long-duration warning toast; nothing else in the session
// depends on the probe.
type HealthService struct {
	backend  *analysis.Client
	bus      IPublisherService
	logger   logger.ILogger
	interval time.Duration
}

func NewHealthService(backend *analysis.Client, bus IPublisherService, log logger.ILogger, interval time.Duration) *HealthService {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &HealthService{
		backend:  backend,
		bus:      bus,
		logger:   log,
		interval: interval,
	}
}

// Run probes once at startup and then on every tick until ctx is done.
func (h *HealthService) Run(ctx context.Context) {
	h.probe(ctx)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.probe(ctx)
		}
	}
}

func (h *HealthService) probe(ctx context.Context) {
	out := h.backend.CheckHealth(ctx)
	if out.OK() {
		h.logger.Debug("HealthService", "Backend healthy", map[string]interface{}{
			"status": out.Payload.Status,
		})
		return
	}

	h.logger.Warn("HealthService", "Backend health check failed", map[string]interface{}{
		"error": out.Message,
	})
	if err := h.bus.Publish(ctx, events.New(events.TypeHealthDegraded, map[string]interface{}{
		"message":   out.Message,
		"transport": out.Kind == analysis.TransportError,
	})); err != nil {
		h.logger.Error("HealthService", "Failed to publish health event", map[string]interface{}{"error": err})
	}
}
