package status

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/quotedoc/internal/common"
	"github.com/ternarybob/quotedoc/internal/interfaces"
)

// AppState represents the application state
type AppState string

const (
	StateIdle      AppState = "idle"
	StateExporting AppState = "exporting"
	StateOffline   AppState = "offline"
)

// TargetTracker reports the render targets attached by running exports
type TargetTracker interface {
	Active() []string
}

// PoolStats reports browser pool statistics
type PoolStats interface {
	IsInitialized() bool
	GetPoolStats() map[string]interface{}
}

// Service assembles the application status
type Service struct {
	targets   TargetTracker
	pool      PoolStats
	storage   interfaces.QuotationStorage
	startedAt time.Time
	logger    arbor.ILogger
}

// NewService creates a new status service. pool and storage may be nil.
func NewService(targets TargetTracker, pool PoolStats, storage interfaces.QuotationStorage, logger arbor.ILogger) *Service {
	return &Service{
		targets:   targets,
		pool:      pool,
		storage:   storage,
		startedAt: time.Now(),
		logger:    logger,
	}
}

// GetState derives the state from the browser pool and running exports
func (s *Service) GetState() AppState {
	if s.pool == nil || !s.pool.IsInitialized() {
		return StateOffline
	}
	if len(s.targets.Active()) > 0 {
		return StateExporting
	}
	return StateIdle
}

// Ready reports whether the browser pool can serve exports
func (s *Service) Ready() bool {
	return s.GetState() != StateOffline
}

// GetStatus returns the full status
func (s *Service) GetStatus(ctx context.Context) map[string]interface{} {
	active := s.targets.Active()

	status := map[string]interface{}{
		"state":          string(s.GetState()),
		"version":        common.GetVersion(),
		"uptime":         time.Since(s.startedAt).Round(time.Second).String(),
		"active_exports": len(active),
		"active_targets": active,
		"timestamp":      time.Now(),
	}

	if s.pool != nil {
		status["browser_pool"] = s.pool.GetPoolStats()
	}

	if s.storage != nil {
		count, err := s.storage.CountQuotations(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Failed to count quotations for status")
		} else {
			status["quotations"] = count
		}
	}

	return status
}
