package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pennywise-app/pennywise-backend/internal/dto"
	"github.com/pennywise-app/pennywise-backend/internal/errs"
	"github.com/pennywise-app/pennywise-backend/internal/response"
	"github.com/pennywise-app/pennywise-backend/internal/session"
)

type SessionService interface {
	Materialize(ctx context.Context, token string) (bool, error)
}

type sessionHandlers struct {
	ResponseHandler response.ResponseHandler
	SessionSvc      SessionService
	Secure          bool
}

func NewSessionHandlers(deps *Deps) *sessionHandlers {
	return &sessionHandlers{
		ResponseHandler: deps.ResponseHandler,
		SessionSvc:      deps.SessionSvc,
		Secure:          deps.SecureCookies,
	}
}

// UpdateSession verifies a freshly minted ID token, synchronizes the
// user's claims, and installs the session cookie.
func (h *sessionHandlers) UpdateSession(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	if req.Token == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("token is required"))
		return
	}

	profileComplete, err := h.SessionSvc.Materialize(r.Context(), req.Token)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	http.SetCookie(w, session.NewCookie(req.Token, h.Secure))

	// The session payload is flat rather than wrapped in the usual
	// success envelope; clients read isProfileComplete directly.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(dto.UpdateSessionResponse{
		Success:           true,
		IsProfileComplete: profileComplete,
	})
}

// SignOut clears the session cookie.
func (h *sessionHandlers) SignOut(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, session.ExpiredCookie(h.Secure))
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
