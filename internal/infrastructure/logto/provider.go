package logto

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/oksasatya/club-subdomain-portal/internal/domain/entity"
)

// Options configures a Provider.
type Options struct {
	Endpoint    string
	AppID       string
	AppSecret   string
	RedirectURL string
	Scopes      []string
	Timeout     time.Duration
}

// StatusError is returned when the provider answers with a non-2xx status.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("logto %s: status %d", e.Op, e.StatusCode)
}

// IsStatusError reports whether err carries a provider HTTP status.
func IsStatusError(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}

// Tokens is the subset of a token response the app keeps.
type Tokens struct {
	AccessToken  string
	IDToken      string
	RefreshToken string
	ExpiresIn    int // seconds; 0 when the provider did not say
	Expiry       time.Time
}

// Provider talks to a Logto tenant: authorization URLs, token exchange and
// refresh, userinfo and the management roles endpoint.
type Provider struct {
	endpoint string
	appID    string
	oauth    *oauth2.Config
	client   *http.Client
	timeout  time.Duration
}

func NewProvider(opts Options, client *http.Client) *Provider {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	endpoint := strings.TrimRight(opts.Endpoint, "/")
	return &Provider{
		endpoint: endpoint,
		appID:    opts.AppID,
		client:   client,
		timeout:  opts.Timeout,
		oauth: &oauth2.Config{
			ClientID:     opts.AppID,
			ClientSecret: opts.AppSecret,
			RedirectURL:  opts.RedirectURL,
			Scopes:       opts.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   endpoint + "/oidc/auth",
				TokenURL:  endpoint + "/oidc/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
	}
}

func (p *Provider) Endpoint() string { return p.endpoint }

// AuthCodeURL builds the authorization request with an S256 PKCE challenge.
func (p *Provider) AuthCodeURL(state, verifier string) string {
	opts := []oauth2.AuthCodeOption{oauth2.S256ChallengeOption(verifier)}
	// Logto only issues refresh tokens when consent is prompted.
	if slices.Contains(p.oauth.Scopes, "offline_access") {
		opts = append(opts, oauth2.SetAuthURLParam("prompt", "consent"))
	}
	return p.oauth.AuthCodeURL(state, opts...)
}

// Exchange trades an authorization code for tokens.
func (p *Provider) Exchange(ctx context.Context, code, verifier string) (*Tokens, error) {
	ctx, cancel := p.withClient(ctx)
	defer cancel()
	tok, err := p.oauth.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, p.tokenError("token exchange", err)
	}
	return toTokens(tok), nil
}

// Refresh redeems a refresh token for a new token set.
func (p *Provider) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	ctx, cancel := p.withClient(ctx)
	defer cancel()
	tok, err := p.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, p.tokenError("token refresh", err)
	}
	out := toTokens(tok)
	if out.RefreshToken == "" {
		out.RefreshToken = refreshToken
	}
	return out, nil
}

// UserInfo calls {endpoint}/oidc/me with accessToken as bearer.
func (p *Provider) UserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	var info UserInfo
	if err := p.getJSON(ctx, "userinfo", p.endpoint+"/oidc/me", accessToken, &info); err != nil {
		return nil, err
	}
	if info.Sub == "" {
		return nil, errors.New("logto userinfo: missing sub claim")
	}
	return &info, nil
}

// UserRoles lists the roles of sub through the management API.
func (p *Provider) UserRoles(ctx context.Context, accessToken, sub string) ([]entity.Role, error) {
	var roles []entity.Role
	u := p.endpoint + "/api/users/" + url.PathEscape(sub) + "/roles"
	if err := p.getJSON(ctx, "user roles", u, accessToken, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// EndSessionURL is the provider logout URL.
func (p *Provider) EndSessionURL(postLogoutRedirect, idTokenHint string) string {
	q := url.Values{}
	q.Set("client_id", p.appID)
	if postLogoutRedirect != "" {
		q.Set("post_logout_redirect_uri", postLogoutRedirect)
	}
	if idTokenHint != "" {
		q.Set("id_token_hint", idTokenHint)
	}
	return p.endpoint + "/oidc/session/end?" + q.Encode()
}

func (p *Provider) getJSON(ctx context.Context, op, u, accessToken string, dest any) error {
	ctx, cancel := p.withClient(ctx)
	defer cancel()
	hc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("logto %s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("logto %s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: string(body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("logto %s: decode: %w", op, err)
	}
	return nil
}

// withClient bounds ctx by the upstream timeout and makes x/oauth2 use our client.
func (p *Provider) withClient(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	return context.WithValue(ctx, oauth2.HTTPClient, p.client), cancel
}

func (p *Provider) tokenError(op string, err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) && re.Response != nil {
		return &StatusError{Op: op, StatusCode: re.Response.StatusCode, Body: string(re.Body)}
	}
	return fmt.Errorf("logto %s: %w", op, err)
}

func toTokens(tok *oauth2.Token) *Tokens {
	out := &Tokens{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}
	if id, ok := tok.Extra("id_token").(string); ok {
		out.IDToken = id
	}
	if !tok.Expiry.IsZero() {
		if secs := int(time.Until(tok.Expiry).Round(time.Second).Seconds()); secs > 0 {
			out.ExpiresIn = secs
		}
	}
	return out
}
