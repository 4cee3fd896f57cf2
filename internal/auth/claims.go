// Package auth turns bearer credentials into session claims and decides
// whether those claims may reach a protected operation.
package auth

import (
	"fmt"
	"time"

	"github.com/Shivanand-hulikatti/ticketdesk/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// sessionClaims is the signed payload of a bearer credential.
type sessionClaims struct {
	UserID string     `json:"user_id"`
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Tokens issues and decodes HS256 bearer credentials.
type Tokens struct {
	secret []byte
	issuer string
	ttl    time.Duration
	log    *zap.Logger
	now    func() time.Time
}

// NewTokens constructs a Tokens signer. A non-positive ttl falls back to 24h.
func NewTokens(secret, issuer string, ttl time.Duration, log *zap.Logger) *Tokens {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Tokens{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		log:    log,
		now:    time.Now,
	}
}

// Issue signs a credential for u and returns it with its expiry.
func (t *Tokens) Issue(u *model.User) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)

	claims := sessionClaims{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Decode verifies signature, issuer and expiry of token and returns its
// claims. Any failure yields nil, which callers treat as unauthenticated.
func (t *Tokens) Decode(token string) *model.Claims {
	if token == "" {
		return nil
	}

	var sc sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &sc,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !parsed.Valid {
		t.log.Debug("discarding bearer credential", zap.Error(err))
		return nil
	}
	if sc.UserID == "" || !sc.Role.Valid() {
		t.log.Debug("bearer credential missing identity",
			zap.String("user_id", sc.UserID),
			zap.String("role", string(sc.Role)),
		)
		return nil
	}

	return &model.Claims{
		UserID:    sc.UserID,
		Name:      sc.Name,
		Email:     sc.Email,
		Role:      sc.Role,
		ExpiresAt: sc.ExpiresAt.Time,
	}
}
