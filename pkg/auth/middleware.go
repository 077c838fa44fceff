package auth

import (
	"net/http"
	"strings"

	apperrors "slotline/pkg/errors"
	httputil "slotline/pkg/httputil"
	"slotline/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

// RequireAdmin gates a route behind a valid bearer token. The credential is
// carried in the Authorization header, "Bearer <token>".
func RequireAdmin(a *Authenticator, log *logger.Logger) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				httputil.WriteError(w, apperrors.Unauthorized("missing admin token"))
				return
			}

			if _, err := a.Verify(tokenStr); err != nil {
				log.Warn("Admin token rejected",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
				)
				httputil.WriteError(w, err)
				return
			}

			next(w, r, ps)
		}
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
