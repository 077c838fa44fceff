package service

import (
	"context"
	"time"

	"slotline/internal/slots/repository"
	"slotline/pkg/config"
	apperrors "slotline/pkg/errors"
	"slotline/pkg/model"
)

// The bookable day runs 11:00 through 25:00 (one past midnight). Every date
// gets this full range, provisioned on first access.
const (
	FirstHour = 11
	LastHour  = 25

	DateLayout = "2006-01-02"
)

type SlotService interface {
	ListDay(ctx context.Context, date string) ([]*model.Slot, error)
}

type slotService struct {
	repo repository.SlotRepository
	cfg  *config.Config
}

func NewSlotService(repo repository.SlotRepository, cfg *config.Config) SlotService {
	return &slotService{
		repo: repo,
		cfg:  cfg,
	}
}

// ListDay returns the day's slots ordered by hour, provisioning the full
// hour range if the date has never been seen. Provisioning is idempotent
// under concurrent first access: the unique (date, hour) index absorbs the
// losing inserts. A day with fewer than the full range of hours (a crash
// mid-provision, or a reader racing the insert) is repaired the same way;
// the duplicate-tolerant insert fills only the missing hours.
func (s *slotService) ListDay(ctx context.Context, date string) ([]*model.Slot, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, apperrors.InvalidInput("date must be in YYYY-MM-DD format")
	}

	slots, err := s.repo.FindByDate(ctx, date)
	if err != nil {
		s.cfg.Log.Error("Failed to list slots", "date", date, "error", err)
		return nil, apperrors.Internal("Failed to retrieve slots", err)
	}
	if len(slots) >= LastHour-FirstHour+1 {
		return slots, nil
	}

	day := make([]*model.Slot, 0, LastHour-FirstHour+1)
	for hour := FirstHour; hour <= LastHour; hour++ {
		day = append(day, &model.Slot{
			Date:   date,
			Hour:   hour,
			Status: model.SlotFree,
		})
	}

	if err := s.repo.InsertDay(ctx, day); err != nil {
		s.cfg.Log.Error("Failed to provision slots", "date", date, "error", err)
		return nil, apperrors.Internal("Failed to provision slots", err)
	}

	s.cfg.Log.Info("Provisioned slots",
		"date", date,
		"existing", len(slots),
		"first_hour", FirstHour,
		"last_hour", LastHour,
	)

	slots, err = s.repo.FindByDate(ctx, date)
	if err != nil {
		s.cfg.Log.Error("Failed to list slots after provisioning", "date", date, "error", err)
		return nil, apperrors.Internal("Failed to retrieve slots", err)
	}
	return slots, nil
}
