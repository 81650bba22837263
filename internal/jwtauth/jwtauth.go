// Package jwtauth issues and validates the bearer tokens that bind an HTTP
// caller to a wallet. The token subject is the caller's wallet in hex; the
// ledger trusts it the way a chain trusts a transaction signer.
package jwtauth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"humanproof/pkg/domain"
	dErrors "humanproof/pkg/domain-errors"
)

// Claims are the access-token claims. The wallet rides in the registered
// Subject field.
type Claims struct {
	jwt.RegisteredClaims
}

// Manager signs and verifies HS256 access tokens.
type Manager struct {
	signingKey []byte
	issuer     string
	audience   string
	ttl        time.Duration
}

func NewManager(signingKey, issuer, audience string, ttl time.Duration) *Manager {
	return &Manager{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
		ttl:        ttl,
	}
}

// Issue mints a token whose subject is the wallet's hex form.
func (m *Manager) Issue(wallet domain.Wallet) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   wallet.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Audience:  []string{m.audience},
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(m.signingKey)
}

// Validate verifies the signature and standard claims and returns the
// caller's wallet.
func (m *Manager) Validate(tokenString string) (domain.Wallet, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return m.signingKey, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Wallet{}, dErrors.New(dErrors.CodeUnauthenticated, "token has expired")
		}
		return domain.Wallet{}, dErrors.New(dErrors.CodeUnauthenticated, "invalid token")
	}
	if !parsed.Valid {
		return domain.Wallet{}, dErrors.New(dErrors.CodeUnauthenticated, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return domain.Wallet{}, dErrors.New(dErrors.CodeUnauthenticated, "invalid token claims")
	}
	wallet, err := domain.ParseWallet(claims.Subject)
	if err != nil {
		return domain.Wallet{}, dErrors.New(dErrors.CodeUnauthenticated, "token subject is not a wallet")
	}
	return wallet, nil
}
