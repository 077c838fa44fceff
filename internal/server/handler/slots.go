package handler

import (
	"net/http"

	"slotline/internal/slots/service"
	apperrors "slotline/pkg/errors"
	"slotline/pkg/httputil"
	"slotline/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type SlotHandler struct {
	service service.SlotService
	log     *logger.Logger
}

func NewSlotHandler(service service.SlotService, log *logger.Logger) *SlotHandler {
	return &SlotHandler{
		service: service,
		log:     log,
	}
}

// ListDay returns the day's slots, provisioning the date on first access.
// The response is a bare array ordered by hour.
func (h *SlotHandler) ListDay(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	date := r.URL.Query().Get("date")
	if date == "" {
		httputil.WriteError(w, apperrors.InvalidInput("date query parameter is required"))
		return
	}

	slots, err := h.service.ListDay(r.Context(), date)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, slots)
}

func (h *SlotHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/slots", h.ListDay)
}
