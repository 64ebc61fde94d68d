package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/pennywise-app/pennywise-backend/internal/bootstrap"
	"github.com/pennywise-app/pennywise-backend/internal/client/identitytoolkit"
	"github.com/pennywise-app/pennywise-backend/internal/config"
	"github.com/pennywise-app/pennywise-backend/internal/crypto"
	"github.com/pennywise-app/pennywise-backend/internal/handlers"
	"github.com/pennywise-app/pennywise-backend/internal/response"
	"github.com/pennywise-app/pennywise-backend/internal/router"
	"github.com/pennywise-app/pennywise-backend/internal/services"
	"github.com/pennywise-app/pennywise-backend/internal/session"
	"github.com/pennywise-app/pennywise-backend/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// helpers
	kmsHelper := crypto.NewKMS(bs.KMS, cfg.KMSKeyName)

	secrets := store.NewSecretsStore(bs.Secrets, cfg.ProjectID)
	webAPIKey, err := secrets.GetWebAPIKey(context.Background(), cfg.WebAPIKeySecret)
	exitOnError("web api key load failed", err, bs.Log)
	idt := identitytoolkit.NewAdapter(webAPIKey)

	// stores
	ustore := store.NewUserStore(bs.Firestore)
	istore := store.NewIncomeStore(bs.Firestore)
	estore := store.NewExpenseStore(bs.Firestore)
	tstore := store.NewTransactionStore(bs.Firestore, kmsHelper)

	// services
	seserv := services.NewSessionService(bs.Firebase, ustore)
	aserv := services.NewAuthService(idt, ustore, seserv)
	userv := services.NewUserService(ustore)
	iserv := services.NewIncomeService(istore)
	eserv := services.NewExpenseService(estore)
	tserv := services.NewTransactionService(tstore)
	anserv := services.NewAnalyticsService(istore, estore, tstore)

	// session gate
	verifier, err := session.NewJWKSVerifier(cfg.ProjectID)
	exitOnError("jwks init failed", err, bs.Log)
	gate := session.NewGate(verifier, bs.Log)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Firebase = bs.Firebase
	deps.SessionSvc = seserv
	deps.AuthSvc = aserv
	deps.UserSvc = userv
	deps.IncomeSvc = iserv
	deps.ExpenseSvc = eserv
	deps.TransactionSvc = tserv
	deps.AnalyticsSvc = anserv
	deps.SecureCookies = cfg.IsProduction()

	// router
	r := router.NewRouter(deps, gate)
	err = http.ListenAndServe(":"+cfg.Port, r)
	exitOnError("server start failed", err, bs.Log)
}
