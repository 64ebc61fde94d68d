package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pennywise-app/pennywise-backend/internal/dto"
	"github.com/pennywise-app/pennywise-backend/internal/errs"
	"github.com/pennywise-app/pennywise-backend/internal/middleware"
	"github.com/pennywise-app/pennywise-backend/internal/response"
	"github.com/pennywise-app/pennywise-backend/internal/services"
	"github.com/pennywise-app/pennywise-backend/internal/session"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*services.AuthSession, error)
	Register(ctx context.Context, name, email, password string) (*services.AuthSession, error)
	ForgotPassword(ctx context.Context, email string) error
	ChangePassword(ctx context.Context, idToken, password string) (*services.AuthSession, error)
}

type authHandlers struct {
	ResponseHandler response.ResponseHandler
	AuthSvc         AuthService
	Secure          bool
}

func NewAuthHandlers(deps *Deps) *authHandlers {
	return &authHandlers{
		ResponseHandler: deps.ResponseHandler,
		AuthSvc:         deps.AuthSvc,
		Secure:          deps.SecureCookies,
	}
}

func (h *authHandlers) AuthRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.Login)
	r.Post("/register", h.Register)
	r.Post("/forgot-password", h.ForgotPassword)
	return r
}

func (h *authHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	sess, err := h.AuthSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	http.SetCookie(w, session.NewCookie(sess.Token, h.Secure))
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]any{
		"isProfileComplete": sess.IsProfileComplete,
	})
}

func (h *authHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	sess, err := h.AuthSvc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	http.SetCookie(w, session.NewCookie(sess.Token, h.Secure))
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, map[string]any{
		"isProfileComplete": sess.IsProfileComplete,
	})
}

func (h *authHandlers) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	if err := h.AuthSvc.ForgotPassword(r.Context(), req.Email); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

// ChangePassword requires a bearer token; it is mounted behind the
// auth middleware, unlike the other auth routes.
func (h *authHandlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	sess, err := h.AuthSvc.ChangePassword(r.Context(), middleware.Token(r.Context()), req.Password)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	http.SetCookie(w, session.NewCookie(sess.Token, h.Secure))
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
