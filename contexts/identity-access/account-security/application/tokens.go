package application

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainerrors "modpanel/contexts/identity-access/account-security/domain/errors"
)

// Claims are the identity claims carried by an access token. The core
// issues and validates claims; transport of the token is a collaborator
// concern.
type Claims struct {
	Username           string   `json:"sub"`
	Role               string   `json:"role"`
	Roles              []string `json:"roles"`
	IsAdmin            bool     `json:"is_admin"`
	IsTrainingManager  bool     `json:"is_training_manager"`
	IsInGameLeader     bool     `json:"is_in_game_leader"`
	IsDiscordLeader    bool     `json:"is_discord_leader"`
	MustChangePassword bool     `json:"must_change_password"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 access tokens.
type TokenIssuer struct {
	Secret []byte
	TTL    time.Duration
}

func (t TokenIssuer) ttl() time.Duration {
	if t.TTL <= 0 {
		return time.Hour
	}
	return t.TTL
}

// Issue signs a token for the given claims, stamping expiry from now.
func (t TokenIssuer) Issue(claims Claims, now time.Time) (string, error) {
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(t.ttl()))
	claims.IssuedAt = jwt.NewNumericDate(now)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.Secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a signed token and returns its claims.
func (t TokenIssuer) Verify(raw string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.Secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, domainerrors.ErrInvalidCredentials
	}
	return claims, nil
}
