package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"slotline/pkg/auth"

	"github.com/julienschmidt/httprouter"
)

func testAuthenticator() *auth.Authenticator {
	return auth.NewAuthenticator("admin", "changeme", "0123456789abcdef", time.Hour)
}

func newAdminRouter() *httprouter.Router {
	handler := NewAdminHandler(&mockLifecycleService{}, testAuthenticator(), testLogger())
	router := httprouter.New()
	handler.RegisterRoutes(router)
	return router
}

func TestAdminLogin(t *testing.T) {
	router := newAdminRouter()

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "valid credentials",
			body:       `{"username":"admin","password":"changeme"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "wrong password",
			body:       `{"username":"admin","password":"nope"}`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong username",
			body:       `{"username":"root","password":"changeme"}`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed body",
			body:       `{not json`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantStatus == http.StatusOK {
				var resp loginResponse
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if resp.Token == "" {
					t.Error("expected a token in the login response")
				}
			}
		})
	}
}

func TestAdminRoutes_RequireToken(t *testing.T) {
	router := newAdminRouter()

	routes := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/admin/unpaid", ""},
		{http.MethodPost, "/admin/paid", `{"token":"AB12CD"}`},
		{http.MethodGet, "/admin/all", ""},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			req := httptest.NewRequest(rt.method, rt.path, strings.NewReader(rt.body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected status %d without a token, got %d", http.StatusUnauthorized, w.Code)
			}

			req = httptest.NewRequest(rt.method, rt.path, strings.NewReader(rt.body))
			req.Header.Set("Authorization", "Bearer not-a-token")
			w = httptest.NewRecorder()

			router.ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected status %d with a bad token, got %d", http.StatusUnauthorized, w.Code)
			}
		})
	}
}

func TestAdminMarkPaid(t *testing.T) {
	router := newAdminRouter()

	loginReq := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"username":"admin","password":"changeme"}`))
	loginW := httptest.NewRecorder()
	router.ServeHTTP(loginW, loginReq)

	var login loginResponse
	if err := json.Unmarshal(loginW.Body.Bytes(), &login); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}

	// Default mock: every token is already consumed or unknown.
	req := httptest.NewRequest(http.MethodPost, "/admin/paid", strings.NewReader(`{"token":"AB12CD"}`))
	req.Header.Set("Authorization", "Bearer "+login.Token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d for an unknown token, got %d: %s", http.StatusNotFound, w.Code, w.Body.String())
	}
}
