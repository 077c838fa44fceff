package service

import (
	"context"
	"testing"
	"time"

	"slotline/pkg/config"
	mongotx "slotline/pkg/db/mongo"
	apperrors "slotline/pkg/errors"
	"slotline/pkg/logger"
	"slotline/pkg/model"
)

type mockSlotRepository struct {
	slotsByDate map[string][]*model.Slot
	insertCalls int
	insertFunc  func(ctx context.Context, slots []*model.Slot) error
}

func (m *mockSlotRepository) EnsureIndexes(ctx context.Context) error { return nil }

// InsertDay mirrors the store's unique (date, hour) index: hours already
// present are dropped, not duplicated.
func (m *mockSlotRepository) InsertDay(ctx context.Context, slots []*model.Slot) error {
	m.insertCalls++
	if m.insertFunc != nil {
		return m.insertFunc(ctx, slots)
	}
	if m.slotsByDate == nil {
		m.slotsByDate = map[string][]*model.Slot{}
	}
	for _, s := range slots {
		if m.hasHour(s.Date, s.Hour) {
			continue
		}
		m.slotsByDate[s.Date] = append(m.slotsByDate[s.Date], s)
	}
	return nil
}

func (m *mockSlotRepository) hasHour(date string, hour int) bool {
	for _, s := range m.slotsByDate[date] {
		if s.Hour == hour {
			return true
		}
	}
	return false
}

func (m *mockSlotRepository) FindByDate(ctx context.Context, date string) ([]*model.Slot, error) {
	return m.slotsByDate[date], nil
}

func (m *mockSlotRepository) FindByID(ctx context.Context, id string) (*model.Slot, error) {
	return nil, nil
}

func (m *mockSlotRepository) HoldFromFree(ctx context.Context, id, bookingID string) error {
	return nil
}

func (m *mockSlotRepository) MarkBooked(ctx context.Context, id string) error { return nil }

func (m *mockSlotRepository) Release(ctx context.Context, id string) error { return nil }

func (m *mockSlotRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

func TestListDay_ProvisionsFullRangeOnFirstAccess(t *testing.T) {
	repo := &mockSlotRepository{}
	svc := NewSlotService(repo, testConfig())

	slots, err := svc.ListDay(context.Background(), "2024-07-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.insertCalls != 1 {
		t.Errorf("expected one provisioning insert, got %d", repo.insertCalls)
	}
	if len(slots) != LastHour-FirstHour+1 {
		t.Fatalf("expected %d slots, got %d", LastHour-FirstHour+1, len(slots))
	}
	for i, slot := range slots {
		if slot.Hour != FirstHour+i {
			t.Errorf("slot %d: expected hour %d, got %d", i, FirstHour+i, slot.Hour)
		}
		if slot.Status != model.SlotFree {
			t.Errorf("slot %d: expected status %s, got %s", i, model.SlotFree, slot.Status)
		}
		if slot.Date != "2024-07-01" {
			t.Errorf("slot %d: expected date 2024-07-01, got %s", i, slot.Date)
		}
	}
}

func TestListDay_SkipsProvisioningWhenDayComplete(t *testing.T) {
	day := make([]*model.Slot, 0, LastHour-FirstHour+1)
	for hour := FirstHour; hour <= LastHour; hour++ {
		status := model.SlotFree
		if hour == FirstHour {
			status = model.SlotHold
		}
		day = append(day, &model.Slot{Date: "2024-07-01", Hour: hour, Status: status})
	}
	repo := &mockSlotRepository{
		slotsByDate: map[string][]*model.Slot{"2024-07-01": day},
	}
	svc := NewSlotService(repo, testConfig())

	slots, err := svc.ListDay(context.Background(), "2024-07-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.insertCalls != 0 {
		t.Errorf("expected no provisioning insert, got %d", repo.insertCalls)
	}
	if len(slots) != LastHour-FirstHour+1 || slots[0].Status != model.SlotHold {
		t.Errorf("expected the existing slots back unchanged")
	}
}

// A crash partway through provisioning can leave a date with only some of
// its hours. The next read must fill in the missing ones and leave the
// survivors untouched.
func TestListDay_RepairsPartialDay(t *testing.T) {
	partial := []*model.Slot{}
	for hour := FirstHour; hour <= FirstHour+6; hour++ {
		status := model.SlotFree
		if hour == FirstHour {
			status = model.SlotBooked
		}
		partial = append(partial, &model.Slot{Date: "2024-07-01", Hour: hour, Status: status})
	}
	repo := &mockSlotRepository{
		slotsByDate: map[string][]*model.Slot{"2024-07-01": partial},
	}
	svc := NewSlotService(repo, testConfig())

	slots, err := svc.ListDay(context.Background(), "2024-07-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.insertCalls != 1 {
		t.Errorf("expected one repair insert, got %d", repo.insertCalls)
	}
	if len(slots) != LastHour-FirstHour+1 {
		t.Fatalf("expected the full %d-slot day, got %d", LastHour-FirstHour+1, len(slots))
	}

	seen := map[int]string{}
	for _, slot := range slots {
		seen[slot.Hour] = slot.Status
	}
	for hour := FirstHour; hour <= LastHour; hour++ {
		status, ok := seen[hour]
		if !ok {
			t.Errorf("hour %d missing after repair", hour)
			continue
		}
		want := model.SlotFree
		if hour == FirstHour {
			want = model.SlotBooked
		}
		if status != want {
			t.Errorf("hour %d: expected status %s, got %s", hour, want, status)
		}
	}
}

func TestListDay_RejectsBadDate(t *testing.T) {
	svc := NewSlotService(&mockSlotRepository{}, testConfig())

	for _, date := range []string{"", "07/01/2024", "2024-13-40", "yesterday"} {
		_, err := svc.ListDay(context.Background(), date)
		if err == nil {
			t.Errorf("expected error for date %q", date)
			continue
		}
		if apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
			t.Errorf("expected %s for date %q, got %s", apperrors.CodeInvalidInput, date, apperrors.AsAppError(err).Code)
		}
	}
}
