package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"clubportal/internal/config"
	"clubportal/pkg/contracts"
)

// Health states
const (
	StatusOK       = "ok"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
	StatusDegraded = "degraded"
	StatusAlive    = "alive"
)

// HealthService reports liveness, readiness and version information
type HealthService struct {
	version   string
	paths     config.PathsConfig
	creditor  config.CreditorConfig
	relay     Relay
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a health service. relay may be nil when online
// submission is not wired.
func NewHealthService(cfg *config.Config, relay Relay, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   contracts.Version,
		paths:     cfg.Paths,
		creditor:  cfg.Creditor,
		relay:     relay,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "HealthCheck: performing health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    StatusOK,
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck reports whether exports can be produced. Missing SEPA or
// relay configuration only degrades the service; an unusable export
// directory makes it not ready.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    StatusReady,
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]ServiceHealth{
			"exports":    hs.checkExportsDir(),
			"sepa":       hs.checkCreditor(),
			"submission": hs.checkRelay(),
		},
	}

	for _, sh := range status.Services {
		switch sh.Status {
		case StatusNotReady:
			status.Status = StatusNotReady
		case StatusDegraded:
			if status.Status == StatusReady {
				status.Status = StatusDegraded
			}
		}
	}

	if status.Status != StatusReady {
		hs.logger.WarnContext(ctx, "ReadinessCheck: not fully ready", slog.String("status", status.Status))
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    StatusAlive,
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() contracts.VersionInfo {
	return contracts.GetVersionInfo()
}

func (hs *HealthService) checkExportsDir() ServiceHealth {
	dir := hs.paths.ExportsDir
	if dir == "" {
		return ServiceHealth{Status: StatusReady, Message: "exports are served in memory only"}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return ServiceHealth{
			Status:  StatusNotReady,
			Message: fmt.Sprintf("Cannot create export directory: %v", err),
		}
	}
	probe, err := os.CreateTemp(dir, ".health-*")
	if err != nil {
		return ServiceHealth{
			Status:  StatusNotReady,
			Message: fmt.Sprintf("Cannot write to export directory: %v", err),
		}
	}
	probe.Close()
	os.Remove(probe.Name())

	return ServiceHealth{Status: StatusReady}
}

func (hs *HealthService) checkCreditor() ServiceHealth {
	if !hs.creditor.Configured() {
		return ServiceHealth{Status: StatusDegraded, Message: "club account not configured, SEPA export disabled"}
	}
	return ServiceHealth{Status: StatusReady}
}

func (hs *HealthService) checkRelay() ServiceHealth {
	if hs.relay == nil || !hs.relay.Configured() {
		return ServiceHealth{Status: StatusDegraded, Message: "form relay not configured, use the PDF export"}
	}
	return ServiceHealth{Status: StatusReady}
}
