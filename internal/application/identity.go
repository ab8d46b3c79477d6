package application

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/club-subdomain-portal/internal/domain/entity"
	"github.com/oksasatya/club-subdomain-portal/internal/infrastructure/logto"
	"github.com/oksasatya/club-subdomain-portal/pkg/helpers"
)

// IdentityProvider is the subset of the Logto client used for bearer tokens.
type IdentityProvider interface {
	UserInfo(ctx context.Context, accessToken string) (*logto.UserInfo, error)
	UserRoles(ctx context.Context, accessToken, sub string) ([]entity.Role, error)
	Refresh(ctx context.Context, refreshToken string) (*logto.Tokens, error)
}

// SessionResolver resolves the server-side session cookie.
type SessionResolver interface {
	GetContext(ctx context.Context, r *http.Request) (*logto.SessionContext, []helpers.Cookie, error)
}

// Resolution is what a strategy learned about the caller.
type Resolution struct {
	UserInfo    *logto.UserInfo
	AccessToken string
	Cookies     []helpers.Cookie
}

// Strategy authenticates a request one way. It returns a nil UserInfo when
// the request is not authenticated through this path; an error means the
// path failed and the next strategy should be tried.
type Strategy interface {
	Name() string
	Resolve(ctx context.Context, r *http.Request) (Resolution, error)
}

// Verification is the identity of a request plus the cookies to send back.
type Verification struct {
	Identity entity.Identity
	Cookies  []helpers.Cookie
}

// Verifier runs strategies in order until one authenticates the caller.
type Verifier struct {
	Strategies []Strategy
	Roles      *RoleResolver
	Logger     logrus.FieldLogger
}

func NewVerifier(roles *RoleResolver, logger logrus.FieldLogger, strategies ...Strategy) *Verifier {
	return &Verifier{Strategies: strategies, Roles: roles, Logger: logger}
}

// Resolve never fails: provider errors only mean "not authenticated via
// that path". Cookies from every attempted strategy are returned.
func (v *Verifier) Resolve(ctx context.Context, r *http.Request) Verification {
	var out Verification
	for _, s := range v.Strategies {
		res, err := s.Resolve(ctx, r)
		out.Cookies = append(out.Cookies, res.Cookies...)
		if err != nil {
			v.Logger.WithError(err).WithField("strategy", s.Name()).Warn("identity strategy failed")
			continue
		}
		if res.UserInfo == nil {
			continue
		}
		info := res.UserInfo
		out.Identity = entity.Identity{
			Authenticated: true,
			Subject:       info.Sub,
			Email:         info.Email,
			Name:          info.DisplayName(),
			Roles:         v.Roles.Resolve(ctx, info, res.AccessToken),
			Source:        s.Name(),
		}
		return out
	}
	return out
}

// BearerTokenStrategy validates the logto:access_token cookie against the
// userinfo endpoint, refreshing through logto:refresh_token when needed.
type BearerTokenStrategy struct {
	Provider IdentityProvider
	Logger   logrus.FieldLogger
}

func NewBearerTokenStrategy(p IdentityProvider, logger logrus.FieldLogger) *BearerTokenStrategy {
	return &BearerTokenStrategy{Provider: p, Logger: logger}
}

func (s *BearerTokenStrategy) Name() string { return "bearer" }

func (s *BearerTokenStrategy) Resolve(ctx context.Context, r *http.Request) (Resolution, error) {
	access, hasAccess := helpers.ReadCookie(r, helpers.AccessTokenCookie)
	if hasAccess {
		info, err := s.Provider.UserInfo(ctx, access)
		if err == nil {
			return Resolution{UserInfo: info, AccessToken: access}, nil
		}
		s.Logger.WithError(err).WithField("strategy", s.Name()).Debug("access token rejected")
	}

	refresh, hasRefresh := helpers.ReadCookie(r, helpers.RefreshTokenCookie)
	if !hasRefresh {
		return Resolution{}, nil
	}
	tokens, err := s.Provider.Refresh(ctx, refresh)
	if err != nil {
		return Resolution{}, err
	}
	info, err := s.Provider.UserInfo(ctx, tokens.AccessToken)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{
		UserInfo:    info,
		AccessToken: tokens.AccessToken,
		Cookies:     helpers.AuthTokenCookies(tokens.AccessToken, tokens.IDToken, tokens.RefreshToken, tokens.ExpiresIn),
	}, nil
}

// SessionStrategy defers to the server-side session client.
type SessionStrategy struct {
	Sessions SessionResolver
}

func NewSessionStrategy(sessions SessionResolver) *SessionStrategy {
	return &SessionStrategy{Sessions: sessions}
}

func (s *SessionStrategy) Name() string { return "session" }

func (s *SessionStrategy) Resolve(ctx context.Context, r *http.Request) (Resolution, error) {
	sc, cookies, err := s.Sessions.GetContext(ctx, r)
	if err != nil {
		return Resolution{Cookies: cookies}, err
	}
	if sc == nil || !sc.IsAuthenticated || sc.UserInfo == nil {
		return Resolution{Cookies: cookies}, nil
	}
	return Resolution{UserInfo: sc.UserInfo, AccessToken: sc.AccessToken, Cookies: cookies}, nil
}

// RoleResolver prefers the roles claim and falls back to the management API.
type RoleResolver struct {
	Provider IdentityProvider
	Logger   logrus.FieldLogger
}

func NewRoleResolver(p IdentityProvider, logger logrus.FieldLogger) *RoleResolver {
	return &RoleResolver{Provider: p, Logger: logger}
}

// Resolve always returns a non-nil slice.
func (rr *RoleResolver) Resolve(ctx context.Context, info *logto.UserInfo, accessToken string) []entity.Role {
	if info.HasRolesClaim {
		return append([]entity.Role{}, info.Roles...)
	}
	if accessToken == "" || rr.Provider == nil {
		return []entity.Role{}
	}
	roles, err := rr.Provider.UserRoles(ctx, accessToken, info.Sub)
	if err != nil {
		rr.Logger.WithError(err).WithField("sub", info.Sub).Debug("role lookup failed")
		return []entity.Role{}
	}
	if roles == nil {
		return []entity.Role{}
	}
	return roles
}
