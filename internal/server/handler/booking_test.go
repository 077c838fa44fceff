package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "slotline/pkg/errors"
	"slotline/pkg/logger"
	"slotline/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// Mock lifecycle service for testing
type mockLifecycleService struct {
	holdFunc           func(ctx context.Context, req *model.HoldRequest) (*model.HoldReceipt, error)
	payFunc            func(ctx context.Context, req *model.HoldRequest) (string, error)
	confirmPaymentFunc func(ctx context.Context, billRef string) (*model.Booking, error)
	confirmTokenFunc   func(ctx context.Context, token string) (*model.Booking, error)
}

func (m *mockLifecycleService) Hold(ctx context.Context, req *model.HoldRequest) (*model.HoldReceipt, error) {
	if m.holdFunc != nil {
		return m.holdFunc(ctx, req)
	}
	return &model.HoldReceipt{Token: "AB12CD", ExpiresAt: time.Now().Add(10 * time.Minute)}, nil
}

func (m *mockLifecycleService) Pay(ctx context.Context, req *model.HoldRequest) (string, error) {
	if m.payFunc != nil {
		return m.payFunc(ctx, req)
	}
	return "https://sandbox.jazzcash.com.pk/PayThroughAPI/?bill_reference=bk1", nil
}

func (m *mockLifecycleService) ConfirmPayment(ctx context.Context, billRef string) (*model.Booking, error) {
	if m.confirmPaymentFunc != nil {
		return m.confirmPaymentFunc(ctx, billRef)
	}
	return nil, apperrors.NotFoundWithID("Booking", billRef)
}

func (m *mockLifecycleService) ConfirmToken(ctx context.Context, token string) (*model.Booking, error) {
	if m.confirmTokenFunc != nil {
		return m.confirmTokenFunc(ctx, token)
	}
	return nil, apperrors.NotFound("Token")
}

func (m *mockLifecycleService) ListUnpaid(ctx context.Context) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (m *mockLifecycleService) ListAll(ctx context.Context) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (m *mockLifecycleService) ExpireOverdue(ctx context.Context) (int, error) {
	return 0, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
}

func TestHold_InvalidBody(t *testing.T) {
	handler := NewBookingHandler(&mockLifecycleService{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/hold", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	handler.Hold(w, req, httprouter.Params{})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestHold_ReturnsReceipt(t *testing.T) {
	handler := NewBookingHandler(&mockLifecycleService{}, testLogger())

	body := `{"slotId":"665f1c2ab1e2c3d4e5f60718","name":"Amna","phone":"555"}`
	req := httptest.NewRequest(http.MethodPost, "/hold", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Hold(w, req, httprouter.Params{})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var receipt model.HoldReceipt
	if err := json.Unmarshal(w.Body.Bytes(), &receipt); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if receipt.Token != "AB12CD" {
		t.Errorf("expected token AB12CD, got %q", receipt.Token)
	}
}

func TestHold_ConflictStatus(t *testing.T) {
	handler := NewBookingHandler(&mockLifecycleService{
		holdFunc: func(ctx context.Context, req *model.HoldRequest) (*model.HoldReceipt, error) {
			return nil, apperrors.SlotUnavailable()
		},
	}, testLogger())

	body := `{"slotId":"665f1c2ab1e2c3d4e5f60718","name":"Amna","phone":"555"}`
	req := httptest.NewRequest(http.MethodPost, "/hold", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Hold(w, req, httprouter.Params{})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d for an unavailable slot, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestPay_NotConfigured(t *testing.T) {
	handler := NewBookingHandler(&mockLifecycleService{
		payFunc: func(ctx context.Context, req *model.HoldRequest) (string, error) {
			return "", apperrors.NotImplemented("online payment not configured")
		},
	}, testLogger())

	body := `{"slotId":"665f1c2ab1e2c3d4e5f60718","name":"Amna","phone":"555"}`
	req := httptest.NewRequest(http.MethodPost, "/pay", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Pay(w, req, httprouter.Params{})

	if w.Code != http.StatusNotImplemented {
		t.Errorf("expected status %d, got %d", http.StatusNotImplemented, w.Code)
	}
}

func TestPay_ReturnsRedirect(t *testing.T) {
	handler := NewBookingHandler(&mockLifecycleService{}, testLogger())

	body := `{"slotId":"665f1c2ab1e2c3d4e5f60718","name":"Amna","phone":"555"}`
	req := httptest.NewRequest(http.MethodPost, "/pay", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Pay(w, req, httprouter.Params{})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp redirectResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !strings.Contains(resp.RedirectURL, "bill_reference=") {
		t.Errorf("expected a gateway redirect URL, got %q", resp.RedirectURL)
	}
}

func TestWebhook_NonSuccessCodeChangesNothing(t *testing.T) {
	confirmed := false
	handler := NewBookingHandler(&mockLifecycleService{
		confirmPaymentFunc: func(ctx context.Context, billRef string) (*model.Booking, error) {
			confirmed = true
			return &model.Booking{ID: billRef, Status: model.BookingPaid}, nil
		},
	}, testLogger())

	body := `{"pp_ResponseCode":"124","pp_BillReference":"bk1"}`
	req := httptest.NewRequest(http.MethodPost, "/webhook/jazz", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Webhook(w, req, httprouter.Params{})

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if got := w.Body.String(); got != "FAIL" {
		t.Errorf("expected FAIL acknowledgement, got %q", got)
	}
	if confirmed {
		t.Error("expected no confirmation for a non-success response code")
	}
}

func TestWebhook_SuccessConfirmsBooking(t *testing.T) {
	var confirmedRef string
	handler := NewBookingHandler(&mockLifecycleService{
		confirmPaymentFunc: func(ctx context.Context, billRef string) (*model.Booking, error) {
			confirmedRef = billRef
			return &model.Booking{ID: billRef, Status: model.BookingPaid}, nil
		},
	}, testLogger())

	body := `{"pp_ResponseCode":"000","pp_BillReference":"bk1"}`
	req := httptest.NewRequest(http.MethodPost, "/webhook/jazz", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Webhook(w, req, httprouter.Params{})

	if got := w.Body.String(); got != "OK" {
		t.Errorf("expected OK acknowledgement, got %q", got)
	}
	if confirmedRef != "bk1" {
		t.Errorf("expected bill reference bk1 to be confirmed, got %q", confirmedRef)
	}
}

func TestWebhook_UnknownReferenceFails(t *testing.T) {
	handler := NewBookingHandler(&mockLifecycleService{}, testLogger())

	body := `{"pp_ResponseCode":"000","pp_BillReference":"stale"}`
	req := httptest.NewRequest(http.MethodPost, "/webhook/jazz", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Webhook(w, req, httprouter.Params{})

	if got := w.Body.String(); got != "FAIL" {
		t.Errorf("expected FAIL acknowledgement for an unknown reference, got %q", got)
	}
}
