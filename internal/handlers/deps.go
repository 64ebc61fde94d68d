package handlers

import (
	"log/slog"

	"firebase.google.com/go/v4/auth"

	"github.com/pennywise-app/pennywise-backend/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	Firebase        *auth.Client

	SessionSvc     SessionService
	AuthSvc        AuthService
	UserSvc        UserService
	IncomeSvc      IncomeService
	ExpenseSvc     ExpenseService
	TransactionSvc TransactionService
	AnalyticsSvc   AnalyticsService

	// SecureCookies marks session cookies Secure; on in production.
	SecureCookies bool
}
