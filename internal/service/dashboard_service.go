package service

import (
	"context"
	"log/slog"

	"github.com/vbonduro/pantrypal/internal/domain"
	"github.com/vbonduro/pantrypal/internal/inventory"
)

const MsgLoadDashboardFailed = "Failed to load dashboard."

// DashboardService computes the home screen summary.
type DashboardService struct {
	items  ItemRepository
	clock  Clock
	logger *slog.Logger
}

func NewDashboardService(items ItemRepository, clock Clock, logger *slog.Logger) *DashboardService {
	return &DashboardService{items: items, clock: clock, logger: logger}
}

func (s *DashboardService) Summary(ctx context.Context, userID string) (inventory.Summary, error) {
	items, err := s.items.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("load dashboard failed", "user_id", userID, "error", err)
		return inventory.Summary{}, domain.Failed(MsgLoadDashboardFailed, err)
	}
	return inventory.Summarize(items, s.clock.Today()), nil
}
