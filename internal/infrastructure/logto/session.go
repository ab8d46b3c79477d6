package logto

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/oksasatya/club-subdomain-portal/pkg/helpers"
)

var (
	ErrNoSession     = errors.New("logto: no sign-in session")
	ErrStateMismatch = errors.New("logto: state mismatch")
	ErrMissingCode   = errors.New("logto: missing authorization code")
)

const pendingTTL = 10 * time.Minute

// expirySkew refreshes access tokens slightly before they expire.
const expirySkew = 30 * time.Second

// SessionContext is the outcome of resolving the session cookie.
type SessionContext struct {
	IsAuthenticated bool
	UserInfo        *UserInfo
	AccessToken     string
}

// SignInResult is where to send the browser and what cookies to set.
type SignInResult struct {
	RedirectURL string
	Cookies     []helpers.Cookie
}

// SessionClient implements the server-side session flow: it keeps tokens
// in a SessionStore and hands the browser a signed session id cookie.
type SessionClient struct {
	provider *Provider
	store    SessionStore
	signer   *helpers.SessionSigner
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionClient wires a session client. ttl bounds how long a signed-in
// session lives without activity.
func NewSessionClient(provider *Provider, store SessionStore, signer *helpers.SessionSigner, ttl time.Duration) *SessionClient {
	return &SessionClient{provider: provider, store: store, signer: signer, ttl: ttl, now: time.Now}
}

// SignIn starts an authorization request and records it as pending.
func (c *SessionClient) SignIn(ctx context.Context, postSignInTarget string) (*SignInResult, error) {
	state, err := helpers.RandomState()
	if err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}
	sess := &Session{
		ID:               uuid.NewString(),
		State:            state,
		CodeVerifier:     oauth2.GenerateVerifier(),
		PostSignInTarget: postSignInTarget,
	}
	if err := c.store.Put(ctx, sess, pendingTTL); err != nil {
		return nil, fmt.Errorf("store pending sign-in: %w", err)
	}
	cookie, err := c.sessionCookie(sess.ID, int(pendingTTL.Seconds()))
	if err != nil {
		return nil, err
	}
	return &SignInResult{
		RedirectURL: c.provider.AuthCodeURL(state, sess.CodeVerifier),
		Cookies:     []helpers.Cookie{cookie},
	}, nil
}

// HandleSignInCallback completes a pending sign-in from the callback request.
func (c *SessionClient) HandleSignInCallback(ctx context.Context, r *http.Request) (*SignInResult, error) {
	sess, err := c.load(ctx, r)
	if err != nil {
		return nil, err
	}
	if sess == nil || !sess.pending() {
		return nil, ErrNoSession
	}
	q := r.URL.Query()
	if q.Get("state") != sess.State {
		return nil, ErrStateMismatch
	}
	code := q.Get("code")
	if code == "" {
		return nil, ErrMissingCode
	}

	tokens, err := c.provider.Exchange(ctx, code, sess.CodeVerifier)
	if err != nil {
		return nil, err
	}
	info, err := c.provider.UserInfo(ctx, tokens.AccessToken)
	if err != nil {
		return nil, err
	}

	target := sess.PostSignInTarget
	signedIn := &Session{ID: sess.ID, UserInfo: info}
	c.applyTokens(signedIn, tokens)
	if err := c.store.Put(ctx, signedIn, c.ttl); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	cookie, err := c.sessionCookie(signedIn.ID, int(c.ttl.Seconds()))
	if err != nil {
		return nil, err
	}
	return &SignInResult{RedirectURL: target, Cookies: []helpers.Cookie{cookie}}, nil
}

// GetContext resolves the caller's session, refreshing an expired access
// token when a refresh token is available.
func (c *SessionClient) GetContext(ctx context.Context, r *http.Request) (*SessionContext, []helpers.Cookie, error) {
	sess, err := c.load(ctx, r)
	if err != nil || sess == nil || sess.AccessToken == "" {
		return &SessionContext{}, nil, err
	}

	var cookies []helpers.Cookie
	if !sess.Expiry.IsZero() && c.now().Add(expirySkew).After(sess.Expiry) {
		if sess.RefreshToken == "" {
			return &SessionContext{}, nil, nil
		}
		tokens, err := c.provider.Refresh(ctx, sess.RefreshToken)
		if err != nil {
			return &SessionContext{}, nil, err
		}
		c.applyTokens(sess, tokens)
		if err := c.store.Put(ctx, sess, c.ttl); err != nil {
			return &SessionContext{}, nil, fmt.Errorf("store refreshed session: %w", err)
		}
		cookie, err := c.sessionCookie(sess.ID, int(c.ttl.Seconds()))
		if err != nil {
			return &SessionContext{}, nil, err
		}
		cookies = append(cookies, cookie)
	}

	return &SessionContext{IsAuthenticated: true, UserInfo: sess.UserInfo, AccessToken: sess.AccessToken}, cookies, nil
}

// SignOut forgets the session. The provider end-session URL is returned only
// when a signed-in session existed.
func (c *SessionClient) SignOut(ctx context.Context, r *http.Request, postLogoutRedirect string) (*SignInResult, error) {
	res := &SignInResult{}
	if _, ok := helpers.ReadCookie(r, helpers.SessionCookie); ok {
		res.Cookies = append(res.Cookies, helpers.Cookie{Name: helpers.SessionCookie})
	}
	sess, err := c.load(ctx, r)
	if err != nil || sess == nil {
		return res, err
	}
	if err := c.store.Delete(ctx, sess.ID); err != nil {
		return res, fmt.Errorf("delete session: %w", err)
	}
	if !sess.pending() {
		res.RedirectURL = c.provider.EndSessionURL(postLogoutRedirect, sess.IDToken)
	}
	return res, nil
}

// load returns nil, nil when there is no usable session cookie.
func (c *SessionClient) load(ctx context.Context, r *http.Request) (*Session, error) {
	raw, ok := helpers.ReadCookie(r, helpers.SessionCookie)
	if !ok {
		return nil, nil
	}
	sid, err := c.signer.Parse(raw)
	if err != nil {
		return nil, nil
	}
	sess, found, err := c.store.Get(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !found {
		return nil, nil
	}
	return sess, nil
}

func (c *SessionClient) applyTokens(sess *Session, t *Tokens) {
	sess.State, sess.CodeVerifier, sess.PostSignInTarget = "", "", ""
	sess.AccessToken = t.AccessToken
	if t.IDToken != "" {
		sess.IDToken = t.IDToken
	}
	if t.RefreshToken != "" {
		sess.RefreshToken = t.RefreshToken
	}
	sess.Expiry = t.Expiry
	if sess.Expiry.IsZero() {
		sess.Expiry = c.now().Add(time.Duration(helpers.DefaultAccessMaxAge) * time.Second)
	}
}

func (c *SessionClient) sessionCookie(sid string, maxAge int) (helpers.Cookie, error) {
	tok, _, err := c.signer.Sign(sid)
	if err != nil {
		return helpers.Cookie{}, fmt.Errorf("sign session: %w", err)
	}
	return helpers.Cookie{Name: helpers.SessionCookie, Value: tok, MaxAge: maxAge}, nil
}
