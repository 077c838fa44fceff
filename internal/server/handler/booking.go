package handler

import (
	"encoding/json"
	"net/http"

	"slotline/internal/gateway"
	"slotline/internal/lifecycle/service"
	"slotline/pkg/httputil"
	"slotline/pkg/logger"
	"slotline/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.LifecycleService
	log     *logger.Logger
}

func NewBookingHandler(service service.LifecycleService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

type redirectResponse struct {
	RedirectURL string `json:"redirectUrl"`
}

// webhookPayload is what the gateway posts back after a payment attempt. The
// bill reference echoes the booking id the redirect URL carried.
type webhookPayload struct {
	ResponseCode  string `json:"pp_ResponseCode"`
	BillReference string `json:"pp_BillReference"`
}

// Hold places a manual hold on a slot and returns the confirmation token
// together with the hold expiry.
func (h *BookingHandler) Hold(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.HoldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	receipt, err := h.service.Hold(r.Context(), &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, receipt)
}

// Pay places a hold and returns the gateway redirect URL for online payment.
func (h *BookingHandler) Pay(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.HoldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	redirectURL, err := h.service.Pay(r.Context(), &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, redirectResponse{RedirectURL: redirectURL})
}

// Webhook consumes the gateway's payment callback. The acknowledgement is
// plain text: "OK" finalizes the booking, "FAIL" for everything else. A
// non-success response code changes no state.
func (h *BookingHandler) Webhook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.log.Warn("Webhook payload could not be decoded", "error", err)
		httputil.WriteText(w, http.StatusBadRequest, "FAIL")
		return
	}

	if payload.ResponseCode != gateway.ResponseSuccess {
		h.log.Info("Webhook reported non-success response code",
			"response_code", payload.ResponseCode,
			"bill_reference", payload.BillReference,
		)
		httputil.WriteText(w, http.StatusOK, "FAIL")
		return
	}

	if _, err := h.service.ConfirmPayment(r.Context(), payload.BillReference); err != nil {
		h.log.Error("Webhook payment confirmation failed",
			"bill_reference", payload.BillReference,
			"error", err,
		)
		httputil.WriteText(w, http.StatusOK, "FAIL")
		return
	}

	httputil.WriteText(w, http.StatusOK, "OK")
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/hold", h.Hold)
	router.POST("/pay", h.Pay)
	router.POST("/webhook/jazz", h.Webhook)
}
