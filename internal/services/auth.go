package services

import (
	"context"
	"strings"
	"time"

	"github.com/pennywise-app/pennywise-backend/internal/client/identitytoolkit"
	"github.com/pennywise-app/pennywise-backend/internal/errs"
	"github.com/pennywise-app/pennywise-backend/internal/models"
	"github.com/pennywise-app/pennywise-backend/pkg/logger"
)

type identityToolkit interface {
	SignInWithPassword(ctx context.Context, email, password string) (*identitytoolkit.AuthResult, error)
	SignUp(ctx context.Context, email, password string) (*identitytoolkit.AuthResult, error)
	SendEmailVerification(ctx context.Context, idToken string) error
	SendPasswordReset(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, idToken, password string) (*identitytoolkit.AuthResult, error)
}

type authUserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
}

// sessionMaterializer refreshes session claims from a fresh identity
// token; every claim-affecting flow below ends with it.
type sessionMaterializer interface {
	Materialize(ctx context.Context, token string) (bool, error)
}

type authService struct {
	idt     identityToolkit
	users   authUserStore
	session sessionMaterializer
}

func NewAuthService(idt identityToolkit, users authUserStore, session sessionMaterializer) *authService {
	return &authService{
		idt:     idt,
		users:   users,
		session: session,
	}
}

// AuthSession is the result handed to the handler: the token to set as
// the session cookie plus the flag the client reads immediately.
type AuthSession struct {
	Token             string
	IsProfileComplete bool
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthSession, error) {
	if email == "" || password == "" {
		return nil, errs.NewValidationError("email and password are required")
	}

	res, err := s.idt.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	profileComplete, err := s.session.Materialize(ctx, res.IDToken)
	if err != nil {
		return nil, err
	}

	return &AuthSession{Token: res.IDToken, IsProfileComplete: profileComplete}, nil
}

func (s *authService) Register(ctx context.Context, name, email, password string) (*AuthSession, error) {
	log := logger.FromContext(ctx)

	if name == "" {
		return nil, errs.NewValidationError("name is required")
	}
	if !strings.Contains(email, "@") {
		return nil, errs.NewValidationError("invalid email")
	}
	if len(password) < 6 {
		return nil, errs.NewValidationError("password should be at least 6 characters")
	}

	res, err := s.idt.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		UID:               res.LocalID,
		Name:              name,
		Email:             email,
		IsProfileComplete: false,
		CreatedAt:         time.Now(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if err := s.idt.SendEmailVerification(ctx, res.IDToken); err != nil {
		// registration succeeded; the verify page can resend
		log.Warn("failed to send verification email", "error", err, "uid", res.LocalID)
	}

	profileComplete, err := s.session.Materialize(ctx, res.IDToken)
	if err != nil {
		return nil, err
	}

	log.Info("user registered", "uid", res.LocalID)
	return &AuthSession{Token: res.IDToken, IsProfileComplete: profileComplete}, nil
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	if !strings.Contains(email, "@") {
		return errs.NewValidationError("invalid email")
	}
	return s.idt.SendPasswordReset(ctx, email)
}

// ChangePassword updates the password and re-materializes the session
// with the re-minted token so the cookie carries fresh claims.
func (s *authService) ChangePassword(ctx context.Context, idToken, password string) (*AuthSession, error) {
	if len(password) < 6 {
		return nil, errs.NewValidationError("password should be at least 6 characters")
	}

	res, err := s.idt.UpdatePassword(ctx, idToken, password)
	if err != nil {
		return nil, err
	}

	profileComplete, err := s.session.Materialize(ctx, res.IDToken)
	if err != nil {
		return nil, err
	}

	return &AuthSession{Token: res.IDToken, IsProfileComplete: profileComplete}, nil
}
