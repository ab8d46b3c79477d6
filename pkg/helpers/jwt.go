package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionSigner signs and verifies the logto:session cookie. The cookie only
// carries the session id; session contents live in the session store.
type SessionSigner struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
}

func NewSessionSigner(secret string, ttl time.Duration, issuer string) *SessionSigner {
	return &SessionSigner{Secret: []byte(secret), TTL: ttl, Issuer: issuer}
}

type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Sign returns a signed token for sid and its expiry.
func (s *SessionSigner) Sign(sid string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.TTL)
	claims := &SessionClaims{
		SessionID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.Issuer,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	str, err := t.SignedString(s.Secret)
	return str, exp, err
}

// Parse verifies the token and returns the session id it carries.
func (s *SessionSigner) Parse(tokenStr string) (string, error) {
	claims := &SessionClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.Secret, nil
	}, jwt.WithIssuer(s.Issuer))
	if err != nil {
		return "", err
	}
	if !tkn.Valid || claims.SessionID == "" {
		return "", errors.New("invalid session token")
	}
	return claims.SessionID, nil
}
