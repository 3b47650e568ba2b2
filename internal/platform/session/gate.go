// Package session implements the login gate. Authentication state is a
// single persisted flag: the store key "isLoggedIn" holds the literal string
// "true" while a session is active. Login additionally issues a short HS256
// bearer token, but the persisted flag is authoritative -- it survives until
// an explicit logout or until the store is cleared externally.
package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/visioncare/records/internal/platform/kvstore"
)

// ErrInvalidCredentials is returned on any username/password mismatch.
var ErrInvalidCredentials = errors.New("invalid username or password")

// TokenTTL bounds the bearer token lifetime. The persisted flag has no
// expiry; a fresh token can be obtained by logging in again.
const TokenTTL = 12 * time.Hour

// Gate checks the one configured credential pair and owns the persisted
// login flag.
type Gate struct {
	store      kvstore.Store
	username   string
	password   string
	signingKey []byte
}

func NewGate(store kvstore.Store, username, password string, signingKey []byte) *Gate {
	return &Gate{store: store, username: username, password: password, signingKey: signingKey}
}

// Login validates the credential pair. On success the persisted flag is set
// and a signed bearer token is returned; on mismatch the flag is left
// untouched.
func (g *Gate) Login(ctx context.Context, username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(g.password)) == 1
	if !userOK || !passOK {
		return "", ErrInvalidCredentials
	}

	if err := g.store.Set(ctx, kvstore.KeyLoggedIn, []byte("true")); err != nil {
		return "", fmt.Errorf("persist login flag: %w", err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	})
	signed, err := token.SignedString(g.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Logout clears the persisted flag. Outstanding tokens stop being accepted
// immediately because the middleware checks the flag on every request.
func (g *Gate) Logout(ctx context.Context) error {
	if err := g.store.Delete(ctx, kvstore.KeyLoggedIn); err != nil {
		return fmt.Errorf("clear login flag: %w", err)
	}
	return nil
}

// IsLoggedIn reports whether the persisted flag holds exactly "true". Any
// other stored value counts as logged out.
func (g *Gate) IsLoggedIn(ctx context.Context) (bool, error) {
	v, ok, err := g.store.Get(ctx, kvstore.KeyLoggedIn)
	if err != nil {
		return false, err
	}
	return ok && string(v) == "true", nil
}

// VerifyToken parses and validates a bearer token issued by Login.
func (g *Gate) VerifyToken(tokenStr string) error {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return g.signingKey, nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return errors.New("invalid token")
	}
	return nil
}
