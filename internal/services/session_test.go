package services

import (
	"context"
	"errors"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"

	"github.com/pennywise-app/pennywise-backend/internal/errs"
	"github.com/pennywise-app/pennywise-backend/internal/models"
	"github.com/pennywise-app/pennywise-backend/pkg/helpers"
)

type fakeIdentityClient struct {
	token     *fbauth.Token
	verifyErr error

	claimsUID string
	claims    map[string]any
	claimsErr error
}

func (f *fakeIdentityClient) VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.token, nil
}

func (f *fakeIdentityClient) SetCustomUserClaims(ctx context.Context, uid string, claims map[string]any) error {
	f.claimsUID = uid
	f.claims = claims
	return f.claimsErr
}

type fakeSessionUserStore struct {
	user *models.User
	err  error
}

func (f *fakeSessionUserStore) GetUser(ctx context.Context, uid string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func TestMaterializeStampsClaims(t *testing.T) {
	identity := &fakeIdentityClient{
		token: &fbauth.Token{
			UID:    "uid-1",
			Claims: map[string]any{"email_verified": true},
		},
	}
	users := &fakeSessionUserStore{user: &models.User{UID: "uid-1", IsProfileComplete: true}}
	svc := NewSessionService(identity, users)

	complete, err := svc.Materialize(helpers.TestCtx(), "fresh-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !complete {
		t.Fatal("expected profile-complete to be reported")
	}
	if identity.claimsUID != "uid-1" {
		t.Fatalf("claims stamped on wrong user: %s", identity.claimsUID)
	}
	if identity.claims["profileComplete"] != true || identity.claims["emailVerified"] != true {
		t.Fatalf("unexpected claims: %+v", identity.claims)
	}
}

func TestMaterializeEmptyToken(t *testing.T) {
	svc := NewSessionService(&fakeIdentityClient{}, &fakeSessionUserStore{})

	_, err := svc.Materialize(helpers.TestCtx(), "")
	var verr *errs.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestMaterializeInvalidToken(t *testing.T) {
	identity := &fakeIdentityClient{verifyErr: errors.New("token expired")}
	svc := NewSessionService(identity, &fakeSessionUserStore{})

	_, err := svc.Materialize(helpers.TestCtx(), "stale")
	var uerr *errs.UnauthorizedError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected an unauthorized error, got %v", err)
	}
}

func TestMaterializeMissingProfile(t *testing.T) {
	identity := &fakeIdentityClient{token: &fbauth.Token{UID: "uid-1"}}
	users := &fakeSessionUserStore{err: errs.NewNotFoundError("user profile not found")}
	svc := NewSessionService(identity, users)

	_, err := svc.Materialize(helpers.TestCtx(), "fresh-token")
	var nerr *errs.NotFoundError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected a not-found error, got %v", err)
	}
}

func TestMaterializeClaimsWriteFailure(t *testing.T) {
	identity := &fakeIdentityClient{
		token:     &fbauth.Token{UID: "uid-1", Claims: map[string]any{}},
		claimsErr: errors.New("backend unavailable"),
	}
	users := &fakeSessionUserStore{user: &models.User{UID: "uid-1"}}
	svc := NewSessionService(identity, users)

	_, err := svc.Materialize(helpers.TestCtx(), "fresh-token")
	var uerr *errs.UnauthorizedError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected an unauthorized error, got %v", err)
	}
}
