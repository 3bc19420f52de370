package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"realestate-backend/internal/domain/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const actorKey = "actor"

// Actor is the authenticated caller.
type Actor struct {
	UserID uint64
	Name   string
	Role   user.Role
}

type Claims struct {
	UserID uint64 `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for a.
func IssueToken(secret []byte, a Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: a.UserID,
		Name:   a.Name,
		Role:   string(a.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(a.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken validates signature, algorithm and expiry.
func ParseToken(secret []byte, raw string) (Actor, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return Actor{}, err
	}
	if claims.UserID == 0 {
		return Actor{}, errors.New("token has no user_id")
	}
	return Actor{
		UserID: claims.UserID,
		Name:   claims.Name,
		Role:   user.Role(strings.ToUpper(claims.Role)),
	}, nil
}

// JWTAuth requires "Authorization: Bearer <token>" and stores the Actor.
func JWTAuth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(h, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			a, err := ParseToken(secret, strings.TrimSpace(raw))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			}
			c.Set(actorKey, a)
			return next(c)
		}
	}
}

// RequireRoles must run after JWTAuth.
func RequireRoles(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			a, ok := ActorFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
			}
			for _, r := range roles {
				if a.Role == r {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "role not allowed"})
		}
	}
}

func ActorFrom(c echo.Context) (Actor, bool) {
	a, ok := c.Get(actorKey).(Actor)
	return a, ok
}

// WithActor is for handler tests that skip JWTAuth.
func WithActor(c echo.Context, a Actor) { c.Set(actorKey, a) }
