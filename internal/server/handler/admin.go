package handler

import (
	"encoding/json"
	"net/http"

	"slotline/internal/lifecycle/service"
	"slotline/pkg/auth"
	"slotline/pkg/httputil"
	"slotline/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type AdminHandler struct {
	service       service.LifecycleService
	authenticator *auth.Authenticator
	log           *logger.Logger
}

func NewAdminHandler(service service.LifecycleService, authenticator *auth.Authenticator, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		service:       service,
		authenticator: authenticator,
		log:           log,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type confirmRequest struct {
	Token string `json:"token"`
}

type confirmResponse struct {
	Msg string `json:"msg"`
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	token, err := h.authenticator.Login(req.Username, req.Password)
	if err != nil {
		h.log.Warn("Admin login rejected", "remote_addr", r.RemoteAddr)
		httputil.WriteError(w, err)
		return
	}

	h.log.Info("Admin logged in", "remote_addr", r.RemoteAddr)
	httputil.WriteSuccess(w, loginResponse{Token: token})
}

// Unpaid lists bookings still waiting on a token confirmation or a gateway
// callback.
func (h *AdminHandler) Unpaid(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	bookings, err := h.service.ListUnpaid(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, bookings)
}

func (h *AdminHandler) All(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	bookings, err := h.service.ListAll(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, bookings)
}

// MarkPaid confirms a hold token as paid at the desk.
func (h *AdminHandler) MarkPaid(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	if _, err := h.service.ConfirmToken(r.Context(), req.Token); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, confirmResponse{Msg: "Marked paid"})
}

func (h *AdminHandler) RegisterRoutes(router *httprouter.Router) {
	requireAdmin := auth.RequireAdmin(h.authenticator, h.log)

	router.POST("/admin/login", h.Login)
	router.GET("/admin/unpaid", requireAdmin(h.Unpaid))
	router.POST("/admin/paid", requireAdmin(h.MarkPaid))
	router.GET("/admin/all", requireAdmin(h.All))
}
