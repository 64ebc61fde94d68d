package router

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pennywise-app/pennywise-backend/internal/handlers"
	"github.com/pennywise-app/pennywise-backend/internal/middleware"
	"github.com/pennywise-app/pennywise-backend/internal/session"
)

func NewRouter(deps *handlers.Deps, gate *session.Gate) chi.Router {
	r := chi.NewRouter()

	lm := middleware.NewLoggerMiddleware(deps.Log)
	r.Use(chimiddleware.RequestID)
	r.Use(lm.LoggerMiddleware)

	am := middleware.NewMiddleware(deps.Firebase)

	sh := handlers.NewSessionHandlers(deps)
	ah := handlers.NewAuthHandlers(deps)
	uh := handlers.NewUserHandlers(deps)
	ih := handlers.NewIncomeHandlers(deps)
	eh := handlers.NewExpenseHandlers(deps)
	th := handlers.NewTransactionHandlers(deps)
	dh := handlers.NewDashboardHandlers(deps)
	ph := handlers.NewPagesHandlers()

	r.Route("/api", func(api chi.Router) {
		api.Post("/update-session", sh.UpdateSession)
		api.Post("/signout", sh.SignOut)
		api.Mount("/auth", ah.AuthRoutes())

		api.Group(func(protected chi.Router) {
			protected.Use(am.FirebaseAuth)
			protected.Post("/auth/change-password", ah.ChangePassword)
			protected.Mount("/users", uh.UserRoutes())
			protected.Mount("/income", ih.IncomeRoutes())
			protected.Mount("/expenses", eh.ExpenseRoutes())
			protected.Mount("/transactions", th.TransactionRoutes())
			protected.Mount("/dashboard", dh.DashboardRoutes())
		})
	})

	// Page routes sit behind the session gate, which redirects based
	// on the cookie's verification and onboarding state.
	r.Group(func(pages chi.Router) {
		pages.Use(gate.Middleware)
		pages.Get("/*", ph.Shell)
	})

	return r
}
