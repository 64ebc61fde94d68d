package session

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	DefaultLanding = "/"
	LoginPath      = "/auth/login"
	RegisterPath   = "/auth/register"
	ForgotPath     = "/auth/forgot-password"
	VerifyPath     = "/auth/verify"
	ProfilePath    = "/profile"

	// freshLoginWindow keeps a just-registered user on the verification
	// page instead of bouncing through redirects before the prompt is
	// ever seen.
	freshLoginWindow = 120 * time.Second
)

// publicRoutes require no session.
var publicRoutes = map[string]bool{
	LoginPath:    true,
	RegisterPath: true,
	ForgotPath:   true,
}

// Decision is the gate's verdict for one request: pass it through or
// redirect it.
type Decision struct {
	Redirect bool
	Target   string
}

func pass() Decision {
	return Decision{}
}

func redirect(target string) Decision {
	return Decision{Redirect: true, Target: target}
}

// Gate evaluates the session cookie against the redirect policy. It is
// side-effect-free; every request is evaluated fresh.
type Gate struct {
	verifier Verifier
	log      *slog.Logger
	now      func() time.Time
}

func NewGate(verifier Verifier, log *slog.Logger) *Gate {
	return &Gate{
		verifier: verifier,
		log:      log,
		now:      time.Now,
	}
}

// Evaluate decides what to do with a request for path (with rawQuery)
// carrying cookie as the session cookie value ("" when absent).
func (g *Gate) Evaluate(ctx context.Context, path, rawQuery, cookie string) Decision {
	var (
		authenticated   bool
		emailVerified   bool
		profileComplete bool
		issuedAt        time.Time
	)

	if cookie != "" {
		claims, err := g.verifier.Verify(ctx, cookie)
		if err != nil {
			// fail open to the unauthenticated branch
			g.log.Debug("session verification failed", "error", err)
		} else {
			authenticated = true
			emailVerified = claims.EmailVerified
			profileComplete = claims.ProfileComplete
			issuedAt = claims.IssuedAt

			if !emailVerified && !issuedAt.IsZero() &&
				g.now().Sub(issuedAt) < freshLoginWindow && path != VerifyPath {
				return redirect(VerifyPath + "?freshLogin=true")
			}
		}
	}

	if authenticated {
		if !emailVerified {
			if path != VerifyPath {
				return redirect(VerifyPath)
			}
		} else {
			if path == VerifyPath {
				return redirect(DefaultLanding)
			}
			if !profileComplete && path != ProfilePath {
				return redirect(ProfilePath)
			}
		}

		if publicRoutes[path] {
			if emailVerified {
				return redirect(DefaultLanding)
			}
			return redirect(VerifyPath)
		}
		return pass()
	}

	if !publicRoutes[path] {
		callback := path
		if rawQuery != "" {
			callback += "?" + rawQuery
		}
		return redirect(LoginPath + "?redirect=" + url.QueryEscape(callback))
	}
	return pass()
}

// Middleware applies the gate to page routes. Paths the matcher
// excludes (API routes, static assets) pass through untouched.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !Gated(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		var cookie string
		if c, err := r.Cookie(CookieName); err == nil {
			cookie = c.Value
		}

		decision := g.Evaluate(r.Context(), r.URL.Path, r.URL.RawQuery, cookie)
		if decision.Redirect {
			http.Redirect(w, r, decision.Target, http.StatusTemporaryRedirect)
			return
		}
		next.ServeHTTP(w, r)
	})
}
