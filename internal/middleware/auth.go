package middleware

import (
	"context"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskline/backend/api/transport"
	"github.com/taskline/backend/domain"
	"github.com/taskline/backend/internal/sessioncookie"
)

// Request values set for downstream handlers once the session checks out.
const (
	UserIDKey    = "user_id"
	SessionIDKey = "session_id"
)

// SessionReader is the slice of the auth use case the guard needs.
type SessionReader interface {
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
}

// cookieSkew absorbs the sub-second truncation the token's expiry claim
// carries, so an unchanged session does not trigger a cookie rewrite.
const cookieSkew = time.Minute

// SessionAuth guards authenticated routes. It verifies the signed session
// cookie, loads the server-side session and exposes the user id to the
// handler. Anything short of that redirects to the login page with a
// "please log in" notice. When the session's expiry has moved past the
// cookie's, the cookie is re-signed so renewals reach the browser.
func SessionAuth(cookieName string, signer *sessioncookie.Signer, sessions SessionReader, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			token := string(ctx.Request.Header.Cookie(cookieName))
			if token == "" {
				rejectToLogin(ctx)
				return
			}

			sessionID, tokenExpiry, err := signer.Parse(token)
			if err != nil {
				logger.Warn("session cookie failed verification", zap.Error(err))
				rejectToLogin(ctx)
				return
			}

			session, err := sessions.GetSession(ctx, sessionID)
			if err != nil {
				if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
					logger.Error("session lookup failed", zap.Error(err))
					ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
					return
				}
				rejectToLogin(ctx)
				return
			}

			if session.ExpiresAt.After(tokenExpiry.Add(cookieSkew)) {
				refreshCookie(ctx, cookieName, signer, session, logger)
			}

			ctx.SetUserValue(UserIDKey, session.UserID)
			ctx.SetUserValue(SessionIDKey, session.ID)
			next(ctx)
		}
	}
}

func refreshCookie(ctx *fasthttp.RequestCtx, cookieName string, signer *sessioncookie.Signer, session *domain.Session, logger *zap.Logger) {
	token, err := signer.Sign(session.ID, session.ExpiresAt)
	if err != nil {
		logger.Warn("session cookie refresh failed", zap.Error(err))
		return
	}

	c := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(c)
	c.SetKey(cookieName)
	c.SetValue(token)
	c.SetPath("/")
	c.SetHTTPOnly(true)
	c.SetExpire(session.ExpiresAt)
	ctx.Response.Header.SetCookie(c)
}

func rejectToLogin(ctx *fasthttp.RequestCtx) {
	transport.SetFlash(ctx, domain.ErrNotAuthenticated.Message)
	ctx.Redirect("/", fasthttp.StatusFound)
}
