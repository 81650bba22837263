package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"humanproof/pkg/domain"
)

// WalletValidator turns a bearer token into the wallet that signed in.
type WalletValidator interface {
	Validate(tokenString string) (domain.Wallet, error)
}

type contextKeyWallet struct{}

// GetWallet retrieves the authenticated wallet from the context.
func GetWallet(ctx context.Context) (domain.Wallet, bool) {
	w, ok := ctx.Value(contextKeyWallet{}).(domain.Wallet)
	return w, ok
}

// WithWallet injects a wallet into a context.
// Useful for handler tests that don't run the full middleware chain.
func WithWallet(ctx context.Context, wallet domain.Wallet) context.Context {
	return context.WithValue(ctx, contextKeyWallet{}, wallet)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's wallet in the request context.
func RequireAuth(validator WalletValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			wallet, err := validator.Validate(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithWallet(ctx, wallet)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
