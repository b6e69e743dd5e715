package handler

import (
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskline/backend/api/transport"
	"github.com/taskline/backend/domain"
	"github.com/taskline/backend/internal/middleware"
	"github.com/taskline/backend/internal/sessioncookie"
	"github.com/taskline/backend/pkg/httpcontext"
	authUC "github.com/taskline/backend/usecase/auth"
)

type loginPage struct {
	Flash string
	Error string
	Name  string
}

type registerPage struct {
	Flash string
	Error string
	Name  string
	Email string
}

type AuthHandler struct {
	baseHandler
	uc         *authUC.UseCase
	signer     *sessioncookie.Signer
	cookieName string
}

func NewAuthHandler(uc *authUC.UseCase, signer *sessioncookie.Signer, cookieName string, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	if cookieName == "" {
		cookieName = "taskline_session"
	}
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		signer:      signer,
		cookieName:  cookieName,
	}
}

// LoginPage renders the login form.
func (h *AuthHandler) LoginPage(ctx *fasthttp.RequestCtx) {
	h.renderPage(ctx, "login.html", loginPage{Flash: transport.PopFlash(ctx)})
}

// Login authenticates the posted credentials and establishes a session.
// Bad credentials re-render the same page with an error notice.
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	form := transport.ParseLoginForm(ctx)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.Login(stdCtx, form.Name, form.Password)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeInvalid) || domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
			h.renderPage(ctx, "login.html", loginPage{Error: userMessage(err), Name: form.Name})
			return
		}
		h.failUnavailable(ctx, err)
		return
	}

	session, err := h.uc.CreateSession(stdCtx, user.ID)
	if err != nil {
		h.failUnavailable(ctx, err)
		return
	}

	token, err := h.signer.Sign(session.ID, session.ExpiresAt)
	if err != nil {
		h.failUnavailable(ctx, err)
		return
	}

	h.setSessionCookie(ctx, token, session)
	h.redirectWithFlash(ctx, "/tasks/", "Welcome")
}

// Logout revokes the session and clears the cookie. The redirect happens
// regardless of the revocation outcome.
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if sessionID, ok := ctx.UserValue(middleware.SessionIDKey).(string); ok && sessionID != "" {
		if err := h.uc.RevokeSession(stdCtx, sessionID); err != nil {
			h.logger.Warn("session revocation failed", zap.Error(err))
		}
	}

	h.clearSessionCookie(ctx)
	h.redirectWithFlash(ctx, "/", "Goodbye !")
}

// RegisterPage renders the registration form.
func (h *AuthHandler) RegisterPage(ctx *fasthttp.RequestCtx) {
	h.renderPage(ctx, "register.html", registerPage{Flash: transport.PopFlash(ctx)})
}

// Register creates a new account. Validation failures and duplicate
// name/email collisions re-render the same page with the error.
func (h *AuthHandler) Register(ctx *fasthttp.RequestCtx) {
	form := transport.ParseRegisterForm(ctx)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.uc.Register(stdCtx, form.Name, form.Email, form.Password, form.Confirm); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeInvalid) || domain.IsDomainError(err, domain.ErrCodeConflict) {
			h.renderPage(ctx, "register.html", registerPage{
				Error: userMessage(err),
				Name:  form.Name,
				Email: form.Email,
			})
			return
		}
		h.failUnavailable(ctx, err)
		return
	}

	h.redirectWithFlash(ctx, "/", "Thanks for registering. Please login")
}

func (h *AuthHandler) setSessionCookie(ctx *fasthttp.RequestCtx, token string, session *domain.Session) {
	c := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(c)
	c.SetKey(h.cookieName)
	c.SetValue(token)
	c.SetPath("/")
	c.SetHTTPOnly(true)
	c.SetExpire(session.ExpiresAt)
	ctx.Response.Header.SetCookie(c)
}

func (h *AuthHandler) clearSessionCookie(ctx *fasthttp.RequestCtx) {
	c := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(c)
	c.SetKey(h.cookieName)
	c.SetValue("")
	c.SetPath("/")
	c.SetHTTPOnly(true)
	c.SetMaxAge(-1)
	ctx.Response.Header.SetCookie(c)
}
