package auth

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dennis6999/ChakaBnB2026-sub000/internal/service"
)

type contextKey string

const actorKey contextKey = "actor"

// ActorFromContext returns the actor extracted by AuthMiddleware. The
// second result is false on unauthenticated requests.
func ActorFromContext(ctx context.Context) (service.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(service.Actor)
	return actor, ok
}

func parseActor(tokenString string) (service.Actor, bool) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return service.Actor{}, false
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return service.Actor{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return service.Actor{}, false
	}
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return service.Actor{}, false
	}
	role, ok := claims["role"].(string)
	if !ok {
		return service.Actor{}, false
	}
	return service.Actor{UserID: uint(userID), Role: role}, true
}

// AuthMiddleware verifies the bearer token issued by the identity
// provider and puts the actor on the request context. It never issues
// tokens itself.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		actor, ok := parseActor(strings.TrimPrefix(header, "Bearer "))
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey, actor)))
	})
}

// HostOnlyMiddleware rejects requests whose actor is not a host. It must
// run after AuthMiddleware.
func HostOnlyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok || actor.Role != service.RoleHost {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
