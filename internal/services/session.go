package services

import (
	"context"

	fbauth "firebase.google.com/go/v4/auth"

	"github.com/pennywise-app/pennywise-backend/internal/errs"
	"github.com/pennywise-app/pennywise-backend/internal/models"
	"github.com/pennywise-app/pennywise-backend/pkg/logger"
)

// sessionIdentityClient is the identity-provider surface the
// materialization flow needs; *auth.Client satisfies it.
type sessionIdentityClient interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
	SetCustomUserClaims(ctx context.Context, uid string, claims map[string]any) error
}

type sessionUserStore interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

type sessionService struct {
	identity sessionIdentityClient
	users    sessionUserStore
}

func NewSessionService(identity sessionIdentityClient, users sessionUserStore) *sessionService {
	return &sessionService{
		identity: identity,
		users:    users,
	}
}

// Materialize verifies a freshly minted identity token, stamps the
// derived claims back onto the identity provider's user record so
// future token refreshes embed them, and reports the profile-complete
// flag for immediate client use.
func (s *sessionService) Materialize(ctx context.Context, token string) (bool, error) {
	log := logger.FromContext(ctx)

	if token == "" {
		return false, errs.NewValidationError("authorization token required")
	}

	decoded, err := s.identity.VerifyIDToken(ctx, token)
	if err != nil {
		log.Warn("session token verification failed", "error", err)
		return false, errs.NewUnauthorizedError("session update failed")
	}

	user, err := s.users.GetUser(ctx, decoded.UID)
	if err != nil {
		return false, err
	}

	emailVerified, _ := decoded.Claims["email_verified"].(bool)
	claims := map[string]any{
		"profileComplete": user.IsProfileComplete,
		"emailVerified":   emailVerified,
	}
	if err := s.identity.SetCustomUserClaims(ctx, decoded.UID, claims); err != nil {
		log.Error("failed to set custom claims", "error", err, "uid", decoded.UID)
		return false, errs.NewUnauthorizedError("session update failed")
	}

	log.Info("session claims refreshed",
		"uid", decoded.UID,
		"profile_complete", user.IsProfileComplete,
		"email_verified", emailVerified)

	return user.IsProfileComplete, nil
}
