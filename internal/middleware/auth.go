package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nutriderma/nutriderma-ai/internal/model/chat"
)

type ownerKey struct{}

// Identity returns the owner attached to the request context. Anonymous when
// no identity was attached; the core works the same either way.
func Identity(ctx context.Context) chat.Owner {
	if owner, ok := ctx.Value(ownerKey{}).(chat.Owner); ok {
		return owner
	}
	return chat.AnonymousOwner()
}

// Auth attaches an optional bearer identity to the request context. It never
// rejects a request: a missing token, a bad token or an unconfigured secret
// all leave the request anonymous.
func Auth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			owner := chat.AnonymousOwner()
			if jwtSecret != "" {
				if token := bearerToken(r); token != "" {
					if sub, err := verifyToken(token, jwtSecret); err == nil {
						owner = chat.UserOwner(sub)
					}
				}
			}

			ctx := context.WithValue(r.Context(), ownerKey{}, owner)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return header[7:]
	}
	return header
}

func verifyToken(tokenString, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("missing sub claim")
	}
	return sub, nil
}
