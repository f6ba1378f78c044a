package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidSession = errors.New("invalid session token")

// Claims identifies one dashboard session.
type Claims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// Sessions issues and verifies HS256 session tokens.
type Sessions struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
	now    func() time.Time
}

func NewSessions(secret []byte, issuer string, ttl time.Duration) *Sessions {
	return &Sessions{Secret: secret, Issuer: issuer, TTL: ttl, now: time.Now}
}

// Issue creates a token for a fresh session id.
func (s *Sessions) Issue() (token, sid string, err error) {
	sid = uuid.NewString()
	now := s.now()
	claims := Claims{
		SID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", "", fmt.Errorf("sign session: %w", err)
	}
	return token, sid, nil
}

// Parse returns the session id carried by a valid token.
func (s *Sessions) Parse(tokenStr string) (string, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg %v", token.Header["alg"])
		}
		return s.Secret, nil
	}, jwt.WithIssuer(s.Issuer), jwt.WithLeeway(60*time.Second), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid || c.SID == "" {
		return "", ErrInvalidSession
	}
	return c.SID, nil
}
