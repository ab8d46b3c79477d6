package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/oksasatya/club-subdomain-portal/internal/infrastructure/logto"
	"github.com/oksasatya/club-subdomain-portal/pkg/helpers"
)

// SessionFlow is the server-side session client.
type SessionFlow interface {
	SignIn(ctx context.Context, postSignInTarget string) (*logto.SignInResult, error)
	HandleSignInCallback(ctx context.Context, r *http.Request) (*logto.SignInResult, error)
	SignOut(ctx context.Context, r *http.Request, postLogoutRedirect string) (*logto.SignInResult, error)
}

// CodeExchanger builds authorization URLs and redeems codes directly.
type CodeExchanger interface {
	AuthCodeURL(state, verifier string) string
	Exchange(ctx context.Context, code, verifier string) (*logto.Tokens, error)
}

// AuthHandler serves the sign-in, callback and sign-out redirects. The
// session flow is tried first; the manual flow keeps state and verifier in
// short-lived cookies and writes the token cookies itself.
type AuthHandler struct {
	Sessions SessionFlow // nil disables the session flow
	Provider CodeExchanger
	Cookies  *helpers.Manager
	BaseURL  string
	Manual   bool
	Logger   logrus.FieldLogger
}

func NewAuthHandler(sessions SessionFlow, provider CodeExchanger, cookies *helpers.Manager, baseURL string, manual bool, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		Sessions: sessions,
		Provider: provider,
		Cookies:  cookies,
		BaseURL:  baseURL,
		Manual:   manual,
		Logger:   logger,
	}
}

// SignIn GET /api/logto/sign-in?redirectUri=
func (h *AuthHandler) SignIn(c *gin.Context) {
	ctx := c.Request.Context()
	target := h.safeRedirect(c.Query("redirectUri"))

	if !h.Manual && h.Sessions != nil {
		res, err := h.Sessions.SignIn(ctx, target)
		if err == nil && res != nil && res.RedirectURL != "" {
			h.Cookies.Apply(c.Writer, res.Cookies)
			c.Redirect(http.StatusFound, res.RedirectURL)
			return
		}
		if err != nil {
			h.Logger.WithError(err).Warn("session sign-in unavailable, using manual flow")
		}
	}

	state, err := helpers.RandomState()
	if err != nil {
		h.Logger.WithError(err).Error("generate state")
		c.Redirect(http.StatusFound, h.errorRedirect("sign_in_failed"))
		return
	}
	verifier := oauth2.GenerateVerifier()
	h.Cookies.SetTransient(c.Writer, state, verifier)
	c.Redirect(http.StatusFound, h.Provider.AuthCodeURL(state, verifier))
}

// Callback GET /api/logto/callback?code&state
func (h *AuthHandler) Callback(c *gin.Context) {
	q := c.Request.URL.Query()
	if e := q.Get("error"); e != "" {
		h.Logger.WithFields(logrus.Fields{"error": e, "description": q.Get("error_description")}).Warn("provider returned error")
		c.Redirect(http.StatusFound, h.errorRedirect(e))
		return
	}
	code := q.Get("code")
	if code == "" {
		c.Redirect(http.StatusFound, h.errorRedirect("no_code"))
		return
	}

	state, hasState := helpers.ReadCookie(c.Request, helpers.StateCookie)
	verifier, hasVerifier := helpers.ReadCookie(c.Request, helpers.CodeVerifierCookie)
	if hasState || hasVerifier {
		h.Cookies.ClearTransient(c.Writer)
	}
	if hasState && hasVerifier && state != "" && state == q.Get("state") {
		h.manualCallback(c, code, verifier)
		return
	}

	if h.Sessions == nil {
		c.Redirect(http.StatusFound, h.errorRedirect("sdk_callback_failed"))
		return
	}
	res, err := h.Sessions.HandleSignInCallback(c.Request.Context(), c.Request)
	if err != nil {
		h.Logger.WithError(err).Warn("session callback failed")
		c.Redirect(http.StatusFound, h.errorRedirect("sdk_callback_failed"))
		return
	}
	h.Cookies.Apply(c.Writer, res.Cookies)
	c.Redirect(http.StatusFound, h.safeRedirect(res.RedirectURL))
}

func (h *AuthHandler) manualCallback(c *gin.Context, code, verifier string) {
	tokens, err := h.Provider.Exchange(c.Request.Context(), code, verifier)
	if err != nil {
		reason := "callback_failed"
		if logto.IsStatusError(err) {
			reason = "token_exchange_failed"
		}
		h.Logger.WithError(err).WithField("reason", reason).Warn("token exchange failed")
		c.Redirect(http.StatusFound, h.errorRedirect(reason))
		return
	}
	h.Cookies.SetAuthTokens(c.Writer, tokens.AccessToken, tokens.IDToken, tokens.RefreshToken, tokens.ExpiresIn)
	c.Redirect(http.StatusFound, h.root())
}

// SignOut GET /api/logto/sign-out?redirectUri=
func (h *AuthHandler) SignOut(c *gin.Context) {
	target := h.safeRedirect(c.Query("redirectUri"))
	dest := target

	if h.Sessions != nil {
		res, err := h.Sessions.SignOut(c.Request.Context(), c.Request, target)
		if err != nil {
			h.Logger.WithError(err).Warn("session sign-out failed")
		}
		if res != nil {
			h.Cookies.Apply(c.Writer, res.Cookies)
			if res.RedirectURL != "" {
				dest = res.RedirectURL
			}
		}
	}
	h.Cookies.ClearAuthTokens(c.Writer)
	c.Redirect(http.StatusFound, dest)
}

func (h *AuthHandler) root() string {
	return strings.TrimRight(h.BaseURL, "/") + "/"
}

func (h *AuthHandler) errorRedirect(code string) string {
	return h.root() + "?error=" + url.QueryEscape(code)
}

// safeRedirect accepts relative paths and same-origin URLs; anything else
// falls back to the application root.
func (h *AuthHandler) safeRedirect(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return h.root()
	}
	base, err := url.Parse(h.root())
	if err != nil {
		return h.root()
	}
	u, err := url.Parse(raw)
	if err != nil {
		return h.root()
	}
	if u.Scheme == "" && u.Host == "" {
		// protocol-relative and backslash forms are treated as foreign hosts by browsers
		if !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, `\`) {
			return h.root()
		}
		return base.ResolveReference(u).String()
	}
	if strings.EqualFold(u.Scheme, base.Scheme) && strings.EqualFold(u.Host, base.Host) {
		return u.String()
	}
	return h.root()
}
