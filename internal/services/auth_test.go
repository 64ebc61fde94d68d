package services

import (
	"context"
	"errors"
	"testing"

	"github.com/pennywise-app/pennywise-backend/internal/client/identitytoolkit"
	"github.com/pennywise-app/pennywise-backend/internal/errs"
	"github.com/pennywise-app/pennywise-backend/internal/models"
	"github.com/pennywise-app/pennywise-backend/pkg/helpers"
)

type fakeIdentityToolkit struct {
	signInResult *identitytoolkit.AuthResult
	signInErr    error

	signUpResult *identitytoolkit.AuthResult
	signUpErr    error

	verificationSent bool
	verificationErr  error

	resetEmail string

	updateResult *identitytoolkit.AuthResult
}

func (f *fakeIdentityToolkit) SignInWithPassword(ctx context.Context, email, password string) (*identitytoolkit.AuthResult, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.signInResult, nil
}

func (f *fakeIdentityToolkit) SignUp(ctx context.Context, email, password string) (*identitytoolkit.AuthResult, error) {
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return f.signUpResult, nil
}

func (f *fakeIdentityToolkit) SendEmailVerification(ctx context.Context, idToken string) error {
	f.verificationSent = true
	return f.verificationErr
}

func (f *fakeIdentityToolkit) SendPasswordReset(ctx context.Context, email string) error {
	f.resetEmail = email
	return nil
}

func (f *fakeIdentityToolkit) UpdatePassword(ctx context.Context, idToken, password string) (*identitytoolkit.AuthResult, error) {
	return f.updateResult, nil
}

type fakeAuthUserStore struct {
	created *models.User
	err     error
}

func (f *fakeAuthUserStore) CreateUser(ctx context.Context, user *models.User) error {
	f.created = user
	return f.err
}

type fakeMaterializer struct {
	profileComplete bool
	err             error
	token           string
}

func (f *fakeMaterializer) Materialize(ctx context.Context, token string) (bool, error) {
	f.token = token
	return f.profileComplete, f.err
}

func TestLoginMaterializesSession(t *testing.T) {
	idt := &fakeIdentityToolkit{signInResult: &identitytoolkit.AuthResult{IDToken: "id-token", LocalID: "uid-1"}}
	mat := &fakeMaterializer{profileComplete: true}
	svc := NewAuthService(idt, &fakeAuthUserStore{}, mat)

	sess, err := svc.Login(helpers.TestCtx(), "jane@example.com", "secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.Token != "id-token" || !sess.IsProfileComplete {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if mat.token != "id-token" {
		t.Fatal("session was not materialized from the fresh token")
	}
}

func TestLoginMissingCredentials(t *testing.T) {
	svc := NewAuthService(&fakeIdentityToolkit{}, &fakeAuthUserStore{}, &fakeMaterializer{})

	_, err := svc.Login(helpers.TestCtx(), "", "")
	var verr *errs.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestLoginBadPassword(t *testing.T) {
	idt := &fakeIdentityToolkit{signInErr: errs.NewUnauthorizedError("invalid credentials")}
	svc := NewAuthService(idt, &fakeAuthUserStore{}, &fakeMaterializer{})

	_, err := svc.Login(helpers.TestCtx(), "jane@example.com", "wrong")
	var uerr *errs.UnauthorizedError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected an unauthorized error, got %v", err)
	}
}

func TestRegisterCreatesProfile(t *testing.T) {
	idt := &fakeIdentityToolkit{signUpResult: &identitytoolkit.AuthResult{IDToken: "id-token", LocalID: "uid-1"}}
	users := &fakeAuthUserStore{}
	svc := NewAuthService(idt, users, &fakeMaterializer{})

	sess, err := svc.Register(helpers.TestCtx(), "Jane", "jane@example.com", "secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.IsProfileComplete {
		t.Fatal("a new registration cannot have a complete profile")
	}
	if users.created == nil || users.created.UID != "uid-1" || users.created.Name != "Jane" {
		t.Fatalf("profile document not created: %+v", users.created)
	}
	if users.created.IsProfileComplete {
		t.Fatal("new profiles start incomplete")
	}
	if !idt.verificationSent {
		t.Fatal("verification email not requested")
	}
}

func TestRegisterSurvivesVerificationEmailFailure(t *testing.T) {
	idt := &fakeIdentityToolkit{
		signUpResult:    &identitytoolkit.AuthResult{IDToken: "id-token", LocalID: "uid-1"},
		verificationErr: errors.New("quota exceeded"),
	}
	svc := NewAuthService(idt, &fakeAuthUserStore{}, &fakeMaterializer{})

	if _, err := svc.Register(helpers.TestCtx(), "Jane", "jane@example.com", "secret123"); err != nil {
		t.Fatalf("registration should not fail on the verification email: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewAuthService(&fakeIdentityToolkit{}, &fakeAuthUserStore{}, &fakeMaterializer{})

	cases := []struct {
		name                 string
		uname, email, secret string
	}{
		{"missing name", "", "jane@example.com", "secret123"},
		{"bad email", "Jane", "not-an-email", "secret123"},
		{"short password", "Jane", "jane@example.com", "12345"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(helpers.TestCtx(), tc.uname, tc.email, tc.secret)
			var verr *errs.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected a validation error, got %v", err)
			}
		})
	}
}

func TestForgotPassword(t *testing.T) {
	idt := &fakeIdentityToolkit{}
	svc := NewAuthService(idt, &fakeAuthUserStore{}, &fakeMaterializer{})

	if err := svc.ForgotPassword(helpers.TestCtx(), "jane@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idt.resetEmail != "jane@example.com" {
		t.Fatalf("reset not requested for the right address: %s", idt.resetEmail)
	}

	if err := svc.ForgotPassword(helpers.TestCtx(), "nope"); err == nil {
		t.Fatal("expected a validation error for a bad email")
	}
}

func TestChangePasswordRemintsSession(t *testing.T) {
	idt := &fakeIdentityToolkit{updateResult: &identitytoolkit.AuthResult{IDToken: "new-token"}}
	mat := &fakeMaterializer{profileComplete: true}
	svc := NewAuthService(idt, &fakeAuthUserStore{}, mat)

	sess, err := svc.ChangePassword(helpers.TestCtx(), "old-token", "secret456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.Token != "new-token" {
		t.Fatalf("expected the re-minted token, got %s", sess.Token)
	}
	if mat.token != "new-token" {
		t.Fatal("session must be re-materialized with the new token")
	}
}
