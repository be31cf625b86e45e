package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const userKey contextKey = "user"

// DefaultUserID scopes requests that carry no identity. Local and memory
// backends only ever see this user.
const DefaultUserID = "local"

// userFrom returns the user id resolved by withUser.
func userFrom(ctx context.Context) string {
	if id, ok := ctx.Value(userKey).(string); ok && id != "" {
		return id
	}
	return DefaultUserID
}

// withUser resolves the request's user id. With a JWT secret configured,
// every request must carry a valid HS256 bearer token and the subject claim
// becomes the user id. Without one, the X-User-ID header is trusted as-is,
// falling back to DefaultUserID. There is no login surface here; tokens are
// minted by whatever fronts this service.
func (s *Server) withUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.resolveUser(r)
		if err != nil {
			s.handleError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), userKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) resolveUser(r *http.Request) (string, error) {
	if s.cfg.JWTSecret == "" {
		if id := strings.TrimSpace(r.Header.Get("X-User-ID")); id != "" {
			return id, nil
		}
		return DefaultUserID, nil
	}

	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", &ErrUnauthorized{Reason: "missing bearer token"}
	}
	return s.validateToken(token)
}

// validateToken validates an HS256 token and returns its subject claim.
func (s *Server) validateToken(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return "", &ErrUnauthorized{Reason: fmt.Sprintf("invalid token: %v", err)}
	}
	if !token.Valid {
		return "", &ErrUnauthorized{Reason: "invalid token"}
	}
	if claims.Subject == "" {
		return "", &ErrUnauthorized{Reason: "token has no subject"}
	}
	return claims.Subject, nil
}
