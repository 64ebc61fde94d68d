package identitytoolkit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pennywise-app/pennywise-backend/internal/errs"
)

func testAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	a := NewAdapter("test-key")
	a.baseURL = server.URL
	return a
}

func apiErrorBody(message string) []byte {
	body, _ := json.Marshal(map[string]any{
		"error": map[string]any{"message": message},
	})
	return body
}

func TestSignInWithPassword(t *testing.T) {
	var gotBody map[string]any
	a := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/accounts:signInWithPassword" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Fatalf("api key missing: %s", r.URL.RawQuery)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(AuthResult{IDToken: "id-token", LocalID: "uid-1", Email: "jane@example.com"})
	})

	res, err := a.SignInWithPassword(context.Background(), "jane@example.com", "secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IDToken != "id-token" || res.LocalID != "uid-1" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if gotBody["returnSecureToken"] != true {
		t.Fatalf("returnSecureToken not requested: %+v", gotBody)
	}
}

func TestSignInInvalidCredentials(t *testing.T) {
	a := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write(apiErrorBody("INVALID_LOGIN_CREDENTIALS"))
	})

	_, err := a.SignInWithPassword(context.Background(), "jane@example.com", "wrong")
	var uerr *errs.UnauthorizedError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected an unauthorized error, got %v", err)
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	a := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write(apiErrorBody("EMAIL_EXISTS"))
	})

	_, err := a.SignUp(context.Background(), "jane@example.com", "secret123")
	var aerr *errs.AlreadyExistsError
	if !errors.As(err, &aerr) {
		t.Fatalf("expected an already-exists error, got %v", err)
	}
}

func TestSignUpWeakPassword(t *testing.T) {
	a := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write(apiErrorBody("WEAK_PASSWORD : Password should be at least 6 characters"))
	})

	_, err := a.SignUp(context.Background(), "jane@example.com", "123")
	var verr *errs.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestSendOobCodes(t *testing.T) {
	var requestTypes []string
	a := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		requestType, _ := body["requestType"].(string)
		requestTypes = append(requestTypes, requestType)
		w.Write([]byte(`{}`))
	})

	if err := a.SendEmailVerification(context.Background(), "id-token"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.SendPasswordReset(context.Background(), "jane@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(requestTypes) != 2 || requestTypes[0] != "VERIFY_EMAIL" || requestTypes[1] != "PASSWORD_RESET" {
		t.Fatalf("unexpected request types: %v", requestTypes)
	}
}

func TestServerErrorIsTransient(t *testing.T) {
	a := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write(apiErrorBody("BACKEND_ERROR"))
	})

	_, err := a.SignInWithPassword(context.Background(), "jane@example.com", "secret123")
	var serr *errs.ExternalServiceError
	if !errors.As(err, &serr) {
		t.Fatalf("expected an external-service error, got %v", err)
	}
	if !serr.Transient {
		t.Fatal("5xx responses are transient")
	}
}
