package identitytoolkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pennywise-app/pennywise-backend/internal/errs"
)

const defaultBaseURL = "https://identitytoolkit.googleapis.com/v1"

// Adapter wraps the Identity Toolkit REST API for the password-auth
// flows the Admin SDK does not expose.
type Adapter struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

func NewAdapter(apiKey string) *Adapter {
	return &Adapter{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
	}
}

// AuthResult is the subset of the token response the services consume.
type AuthResult struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
}

func (a *Adapter) SignInWithPassword(ctx context.Context, email, password string) (*AuthResult, error) {
	var res AuthResult
	err := a.post(ctx, "accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (a *Adapter) SignUp(ctx context.Context, email, password string) (*AuthResult, error) {
	var res AuthResult
	err := a.post(ctx, "accounts:signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (a *Adapter) SendEmailVerification(ctx context.Context, idToken string) error {
	return a.post(ctx, "accounts:sendOobCode", map[string]any{
		"requestType": "VERIFY_EMAIL",
		"idToken":     idToken,
	}, nil)
}

func (a *Adapter) SendPasswordReset(ctx context.Context, email string) error {
	return a.post(ctx, "accounts:sendOobCode", map[string]any{
		"requestType": "PASSWORD_RESET",
		"email":       email,
	}, nil)
}

// UpdatePassword changes the password for the user behind idToken and
// returns a freshly minted token.
func (a *Adapter) UpdatePassword(ctx context.Context, idToken, password string) (*AuthResult, error) {
	var res AuthResult
	err := a.post(ctx, "accounts:update", map[string]any{
		"idToken":           idToken,
		"password":          password,
		"returnSecureToken": true,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (a *Adapter) post(ctx context.Context, endpoint string, body map[string]any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s?key=%s", a.baseURL, endpoint, a.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return errs.NewExternalServiceError("identitytoolkit", err.Error(), true)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr apiError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return mapAPIError(apiErr.Error.Message, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func mapAPIError(message string, status int) error {
	switch {
	case strings.HasPrefix(message, "EMAIL_EXISTS"):
		return errs.NewAlreadyExistsError("email already registered")
	case strings.HasPrefix(message, "EMAIL_NOT_FOUND"),
		strings.HasPrefix(message, "INVALID_PASSWORD"),
		strings.HasPrefix(message, "INVALID_LOGIN_CREDENTIALS"),
		strings.HasPrefix(message, "INVALID_ID_TOKEN"),
		strings.HasPrefix(message, "USER_DISABLED"):
		return errs.NewUnauthorizedError("invalid credentials")
	case strings.HasPrefix(message, "WEAK_PASSWORD"):
		return errs.NewValidationError("password should be at least 6 characters")
	default:
		return errs.NewExternalServiceError("identitytoolkit",
			fmt.Sprintf("request failed: %s (%d)", message, status), status >= 500)
	}
}
