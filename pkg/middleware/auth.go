package middleware

import (
	"context"
	"strings"

	"patrimonio-system/pkg/contextkeys"
	apperrors "patrimonio-system/pkg/errors"
	"patrimonio-system/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Claims é o payload mínimo que o emissor de sessões (colaborador externo)
// grava no token. O núcleo só consome a identidade, nunca emite tokens.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type AuthMiddleware struct {
	secretKey []byte
	logger    *zap.Logger
}

func NewAuthMiddleware(secretKey string, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{secretKey: []byte(secretKey), logger: logger}
}

func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return utils.ErrorResponse(c, apperrors.ErrUnauthorized, m.logger)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return utils.ErrorResponse(c, apperrors.ErrUnauthorized, m.logger)
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, apperrors.ErrUnauthorized
			}
			return m.secretKey, nil
		})
		if err != nil || !token.Valid || claims.Username == "" {
			m.logger.Warn("token rejeitado", zap.Error(err))
			return utils.ErrorResponse(c, apperrors.ErrUnauthorized, m.logger)
		}

		ctx := context.WithValue(c.Request().Context(), contextkeys.ActingUserKey, claims.Username)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}
