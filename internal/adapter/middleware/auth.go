package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/channor/open-manage/internal/domain/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const actorKey = "actor"

// SignToken issues an HS256 token whose subject is the user id.
func SignToken(secret []byte, userID uint64, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Auth resolves the bearer token to a user (with person and roles loaded)
// and stores it as the request actor.
func Auth(users user.Repository, secret []byte, log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(echo.HeaderAuthorization)
			tokenStr, ok := strings.CutPrefix(raw, "Bearer ")
			if !ok || strings.TrimSpace(tokenStr) == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}

			var claims jwt.RegisteredClaims
			_, err := jwt.ParseWithClaims(strings.TrimSpace(tokenStr), &claims, func(t *jwt.Token) (interface{}, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
			if err != nil {
				msg := "invalid token"
				if errors.Is(err, jwt.ErrTokenExpired) {
					msg = "token expired"
				}
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": msg})
			}

			userID, err := strconv.ParseUint(claims.Subject, 10, 64)
			if err != nil || userID == 0 {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token subject"})
			}

			u, err := users.GetByID(c.Request().Context(), userID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unknown user"})
				}
				log.WithError(err).WithField("user_id", userID).Error("load actor")
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
			}

			SetActor(c, u)
			return next(c)
		}
	}
}

func SetActor(c echo.Context, u *user.User) { c.Set(actorKey, u) }

// Actor returns the authenticated user, or nil.
func Actor(c echo.Context) *user.User {
	u, _ := c.Get(actorKey).(*user.User)
	return u
}
