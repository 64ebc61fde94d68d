package session

import (
	"context"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"

	"github.com/pennywise-app/pennywise-backend/internal/errs"
)

// securetoken publishes the keys Firebase session tokens are signed with.
const jwksURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

// Claims are the token assertions the gate decides on.
type Claims struct {
	UID             string
	EmailVerified   bool
	ProfileComplete bool
	IssuedAt        time.Time
}

type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

type tokenClaims struct {
	jwt.RegisteredClaims
	EmailVerified   bool `json:"email_verified"`
	ProfileComplete bool `json:"profileComplete"`
}

type jwksVerifier struct {
	jwks     *keyfunc.JWKS
	issuer   string
	audience string
}

// NewJWKSVerifier fetches and caches the securetoken key set; keys are
// refreshed in the background for the life of the process.
func NewJWKSVerifier(projectID string) (*jwksVerifier, error) {
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, err
	}
	return &jwksVerifier{
		jwks:     jwks,
		issuer:   "https://securetoken.google.com/" + projectID,
		audience: projectID,
	}, nil
}

func (v *jwksVerifier) Verify(ctx context.Context, token string) (*Claims, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, v.jwks.Keyfunc,
		jwt.WithValidMethods([]string{"RS256"}))
	if err != nil {
		return nil, errs.NewUnauthorizedError("session token verification failed: " + err.Error())
	}
	if !parsed.Valid {
		return nil, errs.NewUnauthorizedError("session token invalid")
	}
	if !claims.VerifyIssuer(v.issuer, true) {
		return nil, errs.NewUnauthorizedError("session token issuer mismatch")
	}
	if !claims.VerifyAudience(v.audience, true) {
		return nil, errs.NewUnauthorizedError("session token audience mismatch")
	}

	var issuedAt time.Time
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time
	}
	return &Claims{
		UID:             claims.Subject,
		EmailVerified:   claims.EmailVerified,
		ProfileComplete: claims.ProfileComplete,
		IssuedAt:        issuedAt,
	}, nil
}
